package notification

import (
	"context"
	"fmt"

	userRepo "arone/database/repository/user"
	"arone/services/tasks"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier tells a user about something that happened to their bookings.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) error
}

// FCMSender is the part of the Firebase messaging client the notifier uses.
type FCMSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier pushes straight to the device token stored on users/{id}.fcmToken.
type FCMNotifier struct {
	users  userRepo.UserRepository
	client FCMSender
	logger *zap.Logger
}

func NewFCMNotifier(users userRepo.UserRepository, client FCMSender, logger *zap.Logger) (*FCMNotifier, error) {
	if users == nil || client == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository or FCM client is nil")
	}
	return &FCMNotifier{users: users, client: client, logger: logger}, nil
}

// NotifyUser looks up the user's FCM token and sends a push. Users without a token are
// skipped silently.
func (n *FCMNotifier) NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("NotifyUser: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		n.logger.Debug("NotifyUser: user has no FCM token", zap.String("userId", userID))
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	response, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyUser: failed to send FCM message: %w", err)
	}
	n.logger.Info("NotifyUser: sent message", zap.String("userId", userID), zap.String("messageId", response))
	return nil
}

// Enqueuer is the part of the asynq client the queue notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands notifications to the background worker.
type QueueNotifier struct {
	client Enqueuer
}

func NewQueueNotifier(client Enqueuer) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	task, opts, err := tasks.NewPushTask(tasks.PushPayload{UserID: userID, Title: title, Body: body, Data: data})
	if err != nil {
		return fmt.Errorf("NotifyUser: failed to build task: %w", err)
	}
	if _, err := n.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("NotifyUser: failed to enqueue push: %w", err)
	}
	return nil
}

// NoopNotifier drops notifications when no push backend is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyUser(context.Context, string, string, string, map[string]string) error {
	return nil
}

// Send delivers a notification and logs a failure instead of returning it.
func Send(ctx context.Context, n Notifier, logger *zap.Logger, userID, title, body string, data map[string]string) {
	if n == nil || userID == "" {
		return
	}
	if err := n.NotifyUser(ctx, userID, title, body, data); err != nil {
		logger.Warn("failed to notify user", zap.String("userId", userID), zap.Error(err))
	}
}
