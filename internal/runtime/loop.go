// Package runtime drives a headless simulation host at a fixed tick rate.
package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/strpbridge/internal/logging"
)

// TickFunc is called once per tick with the tick number.
type TickFunc func(tick uint64)

// Loop calls its hooks once per Interval on the goroutine running Run.
// That goroutine is the simulation thread.
type Loop struct {
	Interval time.Duration
	hooks    []TickFunc
	tick     atomic.Uint64
	logger   *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a loop ticking every interval.
func NewLoop(interval time.Duration, opts ...LoopOption) *Loop {
	l := &Loop{
		Interval: interval,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnTick registers fn. Hooks run in registration order. Register before Run.
func (l *Loop) OnTick(fn TickFunc) {
	l.hooks = append(l.hooks, fn)
}

// Tick returns the number of the last completed tick.
func (l *Loop) Tick() uint64 {
	return l.tick.Load()
}

// Run ticks until ctx is cancelled. A tick that overruns the interval is
// followed immediately by the next one; missed ticks are not replayed.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("tick loop started", "tick", l.Tick(), "interval", l.Interval)

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("tick loop stopped", "tick", l.Tick())
			return nil
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step advances the loop by one tick.
func (l *Loop) Step() {
	tick := l.tick.Add(1)
	for _, fn := range l.hooks {
		fn(tick)
	}
}

// SimTime renders a tick count as elapsed simulated time at the given rate.
func SimTime(tick uint64, interval time.Duration) string {
	return (time.Duration(tick) * interval).String()
}
