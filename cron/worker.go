package cron

import (
	"context"
	"fmt"
	"time"

	"stationbook/config"
	"stationbook/services/booking"
	"stationbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeHoldReap = "hold:reap"

// InitReaperWorker runs the async worker and the periodic scheduler that
// enqueues hold reap tasks at the configured cleanup interval.
func InitReaperWorker(reaper booking.ReaperService) {
	logger := utils.GetLogger().With(zap.String("component", "reaper-worker"))

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldReap, handleReapTask(reaper, logger))

	go func() {
		logger.Info("Starting reaper worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Failed to start reaper worker",
					zap.Int("attempt", attempts), zap.Int("max", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("Max retry attempts reached for reaper worker")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts, logger)
}

func handleReapTask(reaper booking.ReaperService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		count, err := reaper.ReapExpired(ctx)
		if err != nil {
			logger.Error("Hold reap task failed", zap.Error(err))
			return err
		}
		if count > 0 {
			logger.Info("Hold reap task completed", zap.Int64("deleted", count))
		}
		return nil
	}
}

func runScheduler(redisOpts asynq.RedisClientOpt, logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})

	spec := fmt.Sprintf("@every %s", config.CleanupInterval())
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeHoldReap, nil)); err != nil {
		logger.Fatal("Failed to register reap schedule", zap.Error(err))
	}

	logger.Info("Starting reap scheduler", zap.String("interval", config.CleanupInterval().String()))
	if err := scheduler.Run(); err != nil {
		logger.Fatal("Reap scheduler exited", zap.Error(err))
	}
}
