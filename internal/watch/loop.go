package watch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"modelwatch/internal/logging"
	"modelwatch/internal/monitor"
)

// Runner executes one monitor cycle.
type Runner interface {
	Run(ctx context.Context) (*monitor.Result, error)
}

// Handler is invoked after every run with the run's identifier and
// outcome. Err is non-nil when the run failed; result may still carry a
// fingerprint when the failure happened at the persistence step.
type Handler func(runID string, result *monitor.Result, err error)

// Loop runs monitor cycles on a fixed interval until the context is
// cancelled. One failed run never affects the next.
type Loop struct {
	runner   Runner
	interval time.Duration
	logger   *logging.Logger
	handler  Handler
}

// NewLoop creates a loop. The handler may be nil.
func NewLoop(runner Runner, interval time.Duration, logger *logging.Logger, handler Handler) *Loop {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loop{
		runner:   runner,
		interval: interval,
		logger:   logger,
		handler:  handler,
	}
}

// Run executes an immediate cycle, then one per interval tick. It
// returns nil once the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("watch loop started", map[string]interface{}{
		"interval": FormatDuration(l.interval),
	})

	l.runOnce(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("watch loop stopped", nil)
			return nil
		case <-ticker.C:
			l.runOnce(ctx)
		}
	}
}

func (l *Loop) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runID := uuid.New().String()
	result, err := l.runner.Run(ctx)
	if err != nil {
		l.logger.Error("monitor run failed", map[string]interface{}{
			"run_id": runID,
			"error":  err.Error(),
		})
	} else {
		l.logger.Debug("monitor run finished", map[string]interface{}{
			"run_id":      runID,
			"fingerprint": result.Fingerprint,
			"created":     result.Created,
		})
	}

	if l.handler != nil {
		l.handler(runID, result, err)
	}
}
