// Package tick applies queued commands on the simulation thread.
package tick

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/internal/metrics"
	"github.com/aretw0/strpbridge/internal/queue"
	"github.com/aretw0/strpbridge/internal/snapshot"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/aretw0/strpbridge/pkg/ports"
)

// Report summarises one OnUpdate call.
type Report struct {
	Executed int
	Failed   int
}

// Consumer drains the command queue once per tick and applies each command
// to the world, in order, on the calling goroutine.
type Consumer struct {
	queue       *queue.Queue[domain.Command]
	store       *snapshot.Store
	mirror      ports.SnapshotMirror
	connectPort int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// WithMetrics records task outcomes and tick duration.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Consumer) {
		c.metrics = m
	}
}

// WithMirror forwards every published snapshot to mirror.
func WithMirror(mirror ports.SnapshotMirror) Option {
	return func(c *Consumer) {
		c.mirror = mirror
	}
}

// WithConnectPort overrides the session server port.
func WithConnectPort(port int) Option {
	return func(c *Consumer) {
		c.connectPort = port
	}
}

// NewConsumer creates a consumer over q that publishes into store.
func NewConsumer(q *queue.Queue[domain.Command], store *snapshot.Store, opts ...Option) *Consumer {
	c := &Consumer{
		queue:       q,
		store:       store,
		connectPort: domain.DefaultConnectPort,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUpdate runs every command queued before the call. A failing command is
// logged and skipped; it never prevents the rest from running.
func (c *Consumer) OnUpdate(world ports.World) Report {
	start := time.Now()
	cmds := c.queue.Drain()

	var report Report
	for _, cmd := range cmds {
		if err := c.run(world, cmd); err != nil {
			report.Failed++
			c.logger.Error("command failed",
				"kind", cmd.Kind(),
				"command_id", cmd.CommandID(),
				"err", err,
			)
			continue
		}
		report.Executed++
		c.metrics.Executed(cmd.Kind(), metrics.ResultOK)
	}

	if len(cmds) > 0 {
		c.metrics.ObserveTick(time.Since(start).Seconds())
	}
	return report
}

// run isolates a single command so a panic is reported as an error.
func (c *Consumer) run(world ports.World, cmd domain.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.metrics.Executed(cmd.Kind(), metrics.ResultPanic)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := c.dispatch(world, cmd); err != nil {
		c.metrics.Executed(cmd.Kind(), metrics.ResultError)
		return err
	}
	return nil
}

func (c *Consumer) dispatch(world ports.World, cmd domain.Command) error {
	switch cmd := cmd.(type) {
	case domain.ConnectCommand:
		return c.connect(world, cmd)
	case domain.RefreshSnapshotCommand:
		return c.refresh(world)
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownCommand, cmd)
	}
}

func (c *Consumer) connect(world ports.World, cmd domain.ConnectCommand) error {
	if cmd.Address == "" {
		return domain.ErrMissingAddress
	}
	transport := world.Transport()
	endpoint := cmd.Endpoint(c.connectPort)

	c.logger.Info("processing connect",
		"command_id", cmd.ID,
		"endpoint", endpoint,
		"token", cmd.HasToken(),
	)

	if cmd.Token != nil {
		transport.SetToken(*cmd.Token)
	}
	world.Runner().Queue(func() {
		transport.Connect(endpoint)
	})
	return nil
}

func (c *Consumer) refresh(world ports.World) error {
	body, n := snapshot.Encode(world.Identities())
	c.store.Publish(body)
	c.metrics.SetSnapshotEntities(n)
	if c.mirror != nil {
		c.mirror.Notify(body)
	}
	c.logger.Debug("ids map refreshed", "entities", n)
	return nil
}
