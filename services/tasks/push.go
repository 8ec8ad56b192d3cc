package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeSendPush = "push:send"

// PushPayload is a push notification waiting to be delivered to a user's device.
type PushPayload struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// NewPushTask wraps a payload in an asynq task.
func NewPushTask(payload PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendPush, b)
	opts := []asynq.Option{asynq.MaxRetry(3), asynq.Queue("default")}

	return task, opts, nil
}

// ParsePushPayload decodes a task built by NewPushTask.
func ParsePushPayload(task *asynq.Task) (PushPayload, error) {
	var p PushPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
