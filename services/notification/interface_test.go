package notification

import (
	"context"
	"errors"
	"testing"

	"arone/database"
	userRepo "arone/database/repository/user"
	"arone/services/tasks"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSender struct {
	sendFn func(ctx context.Context, message *messaging.Message) (string, error)
}

func (m *mockSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	return m.sendFn(ctx, message)
}

type mockEnqueuer struct {
	enqueueFn func(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return m.enqueueFn(ctx, task, opts...)
}

func usersWith(t *testing.T, id string, fields map[string]any) userRepo.UserRepository {
	t.Helper()
	store := database.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), database.UsersCollection, id, fields))
	return userRepo.NewStoreUserRepo(store)
}

func TestFCMNotifier_SendsToStoredToken(t *testing.T) {
	var sent *messaging.Message
	sender := &mockSender{sendFn: func(_ context.Context, m *messaging.Message) (string, error) {
		sent = m
		return "msg-1", nil
	}}
	n, err := NewFCMNotifier(usersWith(t, "T1", map[string]any{"fcmToken": "device-token"}), sender, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, n.NotifyUser(context.Background(), "T1", "Booking confirmed", "See you in Ella", map[string]string{"bookingId": "b1"}))
	require.NotNil(t, sent)
	assert.Equal(t, "device-token", sent.Token)
	assert.Equal(t, "Booking confirmed", sent.Notification.Title)
	assert.Equal(t, "b1", sent.Data["bookingId"])
}

func TestFCMNotifier_SkipsUsersWithoutToken(t *testing.T) {
	sender := &mockSender{sendFn: func(context.Context, *messaging.Message) (string, error) {
		t.Fatal("no push expected")
		return "", nil
	}}
	n, err := NewFCMNotifier(usersWith(t, "T1", map[string]any{}), sender, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, n.NotifyUser(context.Background(), "T1", "t", "b", nil))
}

func TestQueueNotifier_Enqueues(t *testing.T) {
	var got *asynq.Task
	q := NewQueueNotifier(&mockEnqueuer{enqueueFn: func(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
		got = task
		return &asynq.TaskInfo{ID: "1"}, nil
	}})
	require.NoError(t, q.NotifyUser(context.Background(), "V1", "New inquiry", "Ella Hike", nil))
	require.NotNil(t, got)
	assert.Equal(t, tasks.TypeSendPush, got.Type())

	p, err := tasks.ParsePushPayload(got)
	require.NoError(t, err)
	assert.Equal(t, "V1", p.UserID)
}

func TestSend_SwallowsErrors(t *testing.T) {
	q := NewQueueNotifier(&mockEnqueuer{enqueueFn: func(context.Context, *asynq.Task, ...asynq.Option) (*asynq.TaskInfo, error) {
		return nil, errors.New("redis down")
	}})
	assert.NotPanics(t, func() {
		Send(context.Background(), q, zap.NewNop(), "V1", "t", "b", nil)
	})
}
