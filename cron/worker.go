package cron

import (
	"context"
	"fmt"
	"time"

	"medibook/config"
	"medibook/services/scheduling"
	"medibook/services/tasks"
	"medibook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the queue connection shared by the client, worker and scheduler.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitSlotWorker runs the slot worker in background and returns it for shutdown.
func InitSlotWorker(svc scheduling.SchedulingService) *asynq.Server {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRegenerateSlots, handleRegenerateTask(svc))
	mux.HandleFunc(tasks.TypeRollHorizon, handleRollHorizonTask(svc))

	go func() {
		logger.Info("Starting slot worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start slot worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Slot worker could not start")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// InitHorizonScheduler enqueues the horizon roll on cronspec (cron syntax or @every/@daily).
func InitHorizonScheduler(cronspec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{
		Location: time.UTC,
		Logger:   utils.GetLogger().Sugar(),
	})
	entryID, err := scheduler.Register(cronspec, tasks.NewRollHorizonTask())
	if err != nil {
		return nil, fmt.Errorf("failed to register horizon roll %q: %w", cronspec, err)
	}
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}
	utils.GetLogger().Info("Horizon roll scheduled", zap.String("cronspec", cronspec), zap.String("entryID", entryID))
	return scheduler, nil
}

func handleRegenerateTask(svc scheduling.SchedulingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseRegenerateSlotsPayload(task)
		if err != nil {
			utils.GetLogger().Error("Invalid regenerate payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		_, err = svc.RegenerateSlots(ctx, p.PractitionerID)
		return err
	}
}

func handleRollHorizonTask(svc scheduling.SchedulingService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return svc.RollHorizon(ctx)
	}
}
