package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travelagency/config"
	"travelagency/services/tasks"
	"travelagency/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection for the configured queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitBroadcastWorker runs the newsletter worker in the background until ctx is done.
func InitBroadcastWorker(ctx context.Context, b *tasks.Broadcaster) {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBroadcastSend, handleBroadcastTask(b))

	go func() {
		logger.Info("Starting broadcast worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Start(mux); err != nil {
				logger.Warn("Broadcast worker failed to start",
					zap.Int("attempt", attempts), zap.Int("max", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Error("Broadcast worker gave up; newsletters will be sent inline")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
				continue
			}
			break
		}
		<-ctx.Done()
		srv.Shutdown()
	}()
}

func handleBroadcastTask(b *tasks.Broadcaster) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.BroadcastPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("Invalid broadcast payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		res, n, err := b.Send(ctx, p)
		if err != nil {
			if utils.IsBusiness(err) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		utils.GetLogger().Info("Broadcast delivered",
			zap.String("subject", p.Subject), zap.Int("recipients", n), zap.Bool("sent", res.Sent))
		return nil
	}
}
