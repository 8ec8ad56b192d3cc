package cron

import (
	"context"
	"fmt"
	"time"

	"arone/config"
	"arone/services/notification"
	"arone/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt points asynq at the queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// PushWorker delivers queued push notifications.
type PushWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewPushWorker wires the push handler to the given notifier.
func NewPushWorker(notifier notification.Notifier, logger *zap.Logger) *PushWorker {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendPush, HandlePushTask(notifier, logger))

	return &PushWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *PushWorker) Start(ctx context.Context) {
	go monitorRedisConnection(ctx, w.logger)

	go func() {
		w.logger.Info("Starting push worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Push worker failed to start", zap.Int("attempt", attempts), zap.Int("max", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("Push worker gave up; notifications stay queued")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the server.
func (w *PushWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandlePushTask decodes a push task and sends it through the notifier.
func HandlePushTask(notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParsePushPayload(task)
		if err != nil {
			logger.Error("Invalid push payload", zap.Error(err))
			return fmt.Errorf("HandlePushTask: %v: %w", err, asynq.SkipRetry)
		}

		logger.Debug("Delivering push", zap.String("userId", p.UserID), zap.String("title", p.Title))
		if err := notifier.NotifyUser(ctx, p.UserID, p.Title, p.Body, p.Data); err != nil {
			logger.Warn("Failed to send push", zap.String("userId", p.UserID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue database to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
