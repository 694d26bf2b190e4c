package worker

import (
	"context"
	"sync"
	"time"

	"github.com/squadgrid/payment-dashboard/internal/observability"
	"github.com/squadgrid/payment-dashboard/internal/service"
	"go.uber.org/zap"
)

// YieldWorker periodically posts due yield accruals.
type YieldWorker struct {
	svc      *service.YieldService
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewYieldWorker constructs a worker with a default hourly interval.
func NewYieldWorker(svc *service.YieldService) *YieldWorker {
	return &YieldWorker{
		svc:      svc,
		interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *YieldWorker) WithInterval(interval time.Duration) *YieldWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and posts due accruals at the configured interval.
func (w *YieldWorker) Start(ctx context.Context) {
	zap.L().Info("yield worker starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately at startup.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("yield worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("yield worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *YieldWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *YieldWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *YieldWorker) runOnce(ctx context.Context) {
	posted, err := w.svc.AccrueDue(ctx)
	if err != nil {
		observability.IncrementWorkerRun("yield", "failed")
		zap.L().Error("yield accrual run failed", zap.Error(err))
		return
	}
	if posted > 0 {
		zap.L().Info("yield accruals posted", zap.Int("count", posted))
	}
	observability.IncrementWorkerRun("yield", "success")
}
