package strpbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	httpAdapter "github.com/aretw0/strpbridge/internal/adapters/http"
	redisAdapter "github.com/aretw0/strpbridge/internal/adapters/redis"
	"github.com/aretw0/strpbridge/internal/config"
	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/internal/metrics"
	"github.com/aretw0/strpbridge/internal/portalloc"
	"github.com/aretw0/strpbridge/internal/queue"
	"github.com/aretw0/strpbridge/internal/snapshot"
	"github.com/aretw0/strpbridge/internal/tick"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/aretw0/strpbridge/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Bridge connects the loopback listener to the simulation tick.
// The queue and the snapshot store are owned by the Bridge and shared by
// reference between the listener goroutines and the tick consumer.
type Bridge struct {
	cfg      config.Config
	logger   *slog.Logger
	lister   ports.ProcessLister
	port     *int
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	mirror   ports.SnapshotMirror
	closers  []io.Closer

	queue    *queue.Queue[domain.Command]
	store    *snapshot.Store
	consumer *tick.Consumer
	handler  http.Handler

	mu           sync.Mutex
	stopped      bool
	srv          *http.Server
	addr         net.Addr
	serveDone    chan struct{}
	mirrorCancel context.CancelFunc
	mirrorDone   chan struct{}
}

// Option defines a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(b *Bridge) {
		b.cfg = cfg
	}
}

// WithLogger sets a custom structured logger for the bridge.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithProcessLister overrides OS process enumeration used for port allocation.
func WithProcessLister(l ports.ProcessLister) Option {
	return func(b *Bridge) {
		b.lister = l
	}
}

// WithPort binds port instead of allocating one. Port 0 picks any free port.
func WithPort(port int) Option {
	return func(b *Bridge) {
		b.port = &port
	}
}

// WithRegistry registers the bridge collectors on reg and serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(b *Bridge) {
		b.registry = reg
	}
}

// WithSnapshotMirror forwards every published snapshot to m. It replaces the
// Redis mirror built from configuration.
func WithSnapshotMirror(m ports.SnapshotMirror) Option {
	return func(b *Bridge) {
		b.mirror = m
	}
}

// New builds a stopped Bridge.
func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{cfg: config.Default()}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	b.logger = b.logger.With("component", "strpbridge")
	if b.lister == nil {
		b.lister = portalloc.NewProcessLister()
	}

	if b.registry == nil && b.cfg.Metrics {
		b.registry = prometheus.NewRegistry()
	}
	if b.registry != nil {
		b.metrics = metrics.New(b.registry)
	}

	if b.mirror == nil && b.cfg.Redis.Addr != "" {
		m := redisAdapter.New(b.cfg.Redis.Addr, b.cfg.Redis.Password, b.cfg.Redis.DB,
			redisAdapter.WithKey(b.cfg.Redis.Key),
			redisAdapter.WithChannel(b.cfg.Redis.Channel),
			redisAdapter.WithTTL(b.cfg.Redis.TTL),
			redisAdapter.WithLogger(b.logger),
		)
		b.mirror = m
		b.closers = append(b.closers, m)
	}

	queueOpts := []queue.Option{queue.WithCapacity(b.cfg.QueueCapacity)}
	if b.metrics != nil {
		queueOpts = append(queueOpts, queue.WithObserver(b.metrics.QueueObserver()))
	}
	b.queue = queue.New[domain.Command](queueOpts...)
	b.store = snapshot.NewStore()

	consumerOpts := []tick.Option{
		tick.WithLogger(b.logger),
		tick.WithMetrics(b.metrics),
		tick.WithConnectPort(b.cfg.ConnectPort),
	}
	if b.mirror != nil {
		consumerOpts = append(consumerOpts, tick.WithMirror(b.mirror))
	}
	b.consumer = tick.NewConsumer(b.queue, b.store, consumerOpts...)

	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(b.logger),
		httpAdapter.WithMetrics(b.metrics),
		httpAdapter.WithRequireToken(b.cfg.RequireToken),
	}
	if b.registry != nil {
		handlerOpts = append(handlerOpts, httpAdapter.WithGatherer(b.registry))
	}
	b.handler = httpAdapter.NewHandler(b.queue, b.store, handlerOpts...)

	return b, nil
}

// Start allocates the port, binds the loopback listener and serves in the
// background until Stop.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return domain.ErrStopped
	}
	if b.srv != nil {
		return domain.ErrAlreadyStarted
	}
	if !config.IsLoopback(b.cfg.Host) {
		return fmt.Errorf("host %q: %w", b.cfg.Host, domain.ErrNotLoopback)
	}

	port := b.allocatePort(ctx)
	ln, err := net.Listen("tcp", net.JoinHostPort(b.cfg.Host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	b.addr = ln.Addr()
	b.srv = &http.Server{
		Handler:           b.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	b.serveDone = make(chan struct{})

	srv, done := b.srv, b.serveDone
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.logger.Error("listener stopped", "err", err)
		}
	}()

	if b.mirror != nil {
		mctx, cancel := context.WithCancel(context.Background())
		b.mirrorCancel = cancel
		b.mirrorDone = make(chan struct{})
		mirror, mdone := b.mirror, b.mirrorDone
		go func() {
			defer close(mdone)
			if err := mirror.Run(mctx); err != nil {
				b.logger.Error("snapshot mirror stopped", "err", err)
			}
		}()
	}

	b.metrics.SetListenPort(portOf(b.addr))
	b.logger.Info("listening", "addr", b.addr.String())
	return nil
}

func (b *Bridge) allocatePort(ctx context.Context) int {
	switch {
	case b.port != nil:
		return *b.port
	case b.cfg.Port > 0:
		return b.cfg.Port
	}
	alloc := &portalloc.Allocator{
		BasePort: b.cfg.BasePort,
		Names:    b.cfg.ProcessNames,
		Lister:   b.lister,
		Logger:   b.logger,
	}
	return alloc.Allocate(ctx)
}

// Stop shuts the listener down, waits for the serve goroutine and the mirror
// to exit, and releases owned clients. Stopping a stopped bridge is a no-op,
// and a stopped bridge cannot be started again.
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.srv == nil {
		return nil
	}

	var errs []error
	if err := b.srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("graceful shutdown: %w", err))
		if err := b.srv.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close: %w", err))
		}
	}
	<-b.serveDone

	if b.mirrorCancel != nil {
		b.mirrorCancel()
		<-b.mirrorDone
		b.mirrorCancel = nil
	}
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil

	b.srv = nil
	b.stopped = true
	b.logger.Info("stopped")
	return errors.Join(errs...)
}

// Report summarises one OnUpdate call.
type Report = tick.Report

// OnUpdate applies every command queued so far. Call it once per tick from
// the simulation thread.
func (b *Bridge) OnUpdate(world ports.World) Report {
	return b.consumer.OnUpdate(world)
}

// Port returns the bound port, or 0 before Start.
func (b *Bridge) Port() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return portOf(b.addr)
}

// Addr returns the bound "host:port", or "" before Start.
func (b *Bridge) Addr() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.addr == nil {
		return ""
	}
	return b.addr.String()
}

func portOf(addr net.Addr) int {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// Snapshot returns the last published ids map.
func (b *Bridge) Snapshot() string {
	return b.store.Read()
}

// Pending reports how many commands wait for the next tick.
func (b *Bridge) Pending() int {
	return b.queue.Len()
}

// Config returns the effective configuration.
func (b *Bridge) Config() config.Config {
	return b.cfg
}
