package usecase

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// Dispatcher drives the background sync loop. It ticks on a short fixed
// interval and consults the active configuration's cadence on every tick, so
// interval changes take effect without a restart.
type Dispatcher struct {
	runner  *Runner
	configs ConfigRepository
	outbox  OutboxRepository
	logger  *slog.Logger
	tick    time.Duration

	lastRun time.Time
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(runner *Runner, configs ConfigRepository, outbox OutboxRepository, logger *slog.Logger, tick time.Duration) *Dispatcher {
	return &Dispatcher{
		runner:  runner,
		configs: configs,
		outbox:  outbox,
		logger:  logger,
		tick:    tick,
	}
}

// Run blocks until the context is canceled. Before the first tick it
// requeues entries orphaned in the syncing state by an unclean shutdown.
func (d *Dispatcher) Run(ctx context.Context) error {
	if count, err := d.outbox.ResetOrphaned(ctx); err != nil {
		d.logger.Error("failed to requeue orphaned outbox entries", slog.Any("error", err))
	} else if count > 0 {
		d.logger.Info("requeued orphaned outbox entries", slog.Int64("count", count))
	}

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	d.logger.Info("sync dispatcher started", slog.Duration("tick", d.tick))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("sync dispatcher stopped")
			return nil
		case now := <-ticker.C:
			d.dispatch(ctx, now)
		}
	}
}

// dispatch runs one session if the configuration allows it and the cadence
// has elapsed.
func (d *Dispatcher) dispatch(ctx context.Context, now time.Time) {
	config, err := d.configs.GetActive(ctx)
	if err != nil {
		if !apperrors.Is(err, domain.ErrNoActiveConfig) {
			d.logger.Error("failed to load remote configuration", slog.Any("error", err))
		}
		return
	}

	if !config.SyncEnabled {
		return
	}
	if !d.lastRun.IsZero() && now.Sub(d.lastRun) < config.Interval() {
		return
	}

	d.lastRun = now
	if _, err := d.runner.RunSession(ctx); err != nil {
		if apperrors.Is(err, domain.ErrSyncInProgress) {
			return
		}
		d.logger.Error("background sync session failed", slog.Any("error", err))
	}
}
