package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidInterval is returned for a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Task is one scheduled firing.
type Task func(ctx context.Context)

// Run fires task immediately and then every interval until ctx is done. Firings never overlap;
// ticks missed while a firing is running are dropped. A panicking firing is logged and the
// loop carries on.
func Run(ctx context.Context, interval time.Duration, task Task, logger *zap.Logger) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("scheduler started", zap.Duration("interval", interval))
	fire(ctx, task, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			fire(ctx, task, logger)
		}
	}
}

func fire(ctx context.Context, task Task, logger *zap.Logger) {
	if ctx.Err() != nil {
		return
	}
	if err := safeRun(ctx, task); err != nil {
		logger.Error("scheduled task failed", zap.Error(err), zap.Stack("stack"))
	}
}

func safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	task(ctx)
	return nil
}
