package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/strpbridge"
	"github.com/aretw0/strpbridge/internal/adapters/memory"
	"github.com/aretw0/strpbridge/internal/config"
	"github.com/aretw0/strpbridge/internal/presentation/tui"
	"github.com/aretw0/strpbridge/internal/runtime"
	"github.com/aretw0/strpbridge/pkg/domain"
)

// ServeOptions configures RunServe.
type ServeOptions struct {
	Config config.Config
	Logger *slog.Logger
	Out    io.Writer
	Quiet  bool

	// Entities seeds the headless world.
	Entities []domain.Identity

	// BridgeOptions are appended after the options derived from Config.
	BridgeOptions []strpbridge.Option

	// OnReady is called once the listener is bound.
	OnReady func(b *strpbridge.Bridge, world *memory.World)
}

// RunServe runs the bridge next to a headless in-memory host until ctx is
// cancelled, then shuts the listener down within Config.ShutdownTimeout.
func RunServe(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	bridgeOpts := append([]strpbridge.Option{
		strpbridge.WithConfig(opts.Config),
		strpbridge.WithLogger(logger),
	}, opts.BridgeOptions...)

	b, err := strpbridge.New(bridgeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	world := memory.NewWorld()
	for _, id := range opts.Entities {
		world.Add(id.LocalID, id.RemoteID)
	}

	loop := runtime.NewLoop(opts.Config.TickInterval, runtime.WithLogger(logger))
	loop.OnTick(func(uint64) {
		b.OnUpdate(world)
		world.DeferredRunner().Flush()
	})

	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("failed to start bridge: %w", err)
	}
	if !opts.Quiet {
		tui.PrintBanner(out, strpbridge.Version, b.Addr())
		printSystemMessage(out, "Headless host ticking every %s with %d entities.", b.Config().TickInterval, world.Len())
	}
	if opts.OnReady != nil {
		opts.OnReady(b, world)
	}

	runErr := loop.Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), opts.Config.ShutdownTimeout)
	defer cancel()
	if err := b.Stop(stopCtx); err != nil {
		return fmt.Errorf("graceful shutdown did not complete in %v: %w", opts.Config.ShutdownTimeout, err)
	}
	if !opts.Quiet {
		printSystemMessage(out, "Bridge stopped after %d ticks (%s simulated).", loop.Tick(), runtime.SimTime(loop.Tick(), loop.Interval))
	}
	return runErr
}
