package tasks

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPushTask(t *testing.T) {
	task, opts, err := NewPushTask(PushPayload{UserID: "T1", Title: "Booking confirmed", Data: map[string]string{"bookingId": "b1"}})
	require.NoError(t, err)
	assert.Equal(t, TypeSendPush, task.Type())
	assert.Len(t, opts, 2)

	p, err := ParsePushPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "T1", p.UserID)
	assert.Equal(t, "b1", p.Data["bookingId"])

	_, err = ParsePushPayload(asynq.NewTask(TypeSendPush, []byte("{")))
	assert.Error(t, err)
}
