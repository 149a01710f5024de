package reading

import (
	"context"
	"time"
)

// Logger defines the logging interface used by the Pruner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Pruner periodically deletes readings older than the retention window.
//
// Run it in its own goroutine; it stops when the context is cancelled.
// A retention of zero disables pruning entirely.
type Pruner struct {
	store     Store
	retention time.Duration
	interval  time.Duration
	logger    Logger
}

// NewPruner creates a pruner for the given store.
//
// Parameters:
//   - store: Reading store to prune
//   - retention: How long readings are kept (0 disables pruning)
//   - interval: How often the prune runs (0 disables pruning)
//
// Returns:
//   - *Pruner: Pruner ready for Run
func NewPruner(store Store, retention, interval time.Duration) *Pruner {
	return &Pruner{
		store:     store,
		retention: retention,
		interval:  interval,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the pruner.
func (p *Pruner) SetLogger(logger Logger) {
	p.logger = logger
}

// Run executes the prune loop until the context is cancelled.
// One prune runs immediately on start so a long-stopped instance catches up.
func (p *Pruner) Run(ctx context.Context) {
	if p.retention <= 0 || p.interval <= 0 {
		p.logger.Info("reading retention disabled, pruner not running")
		return
	}

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	deleted, err := p.store.Prune(ctx, p.retention)
	if err != nil {
		p.logger.Error("reading prune failed", "error", err)
		return
	}
	if deleted > 0 {
		p.logger.Info("pruned old readings", "deleted", deleted, "retention", p.retention.String())
	}
}
