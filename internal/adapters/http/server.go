package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/internal/metrics"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Enqueuer accepts commands for the next tick.
type Enqueuer interface {
	Enqueue(cmd domain.Command) bool
}

// SnapshotReader returns the last published ids map.
type SnapshotReader interface {
	Read() string
}

// Server holds the route handlers. Handlers only talk to the queue and the
// snapshot store; they never see simulation state.
type Server struct {
	Queue        Enqueuer
	Snapshots    SnapshotReader
	RequireToken bool

	logger   *slog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger. /spdlogInfo writes here too.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records enqueued and dropped commands.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRequireToken makes /connect drop requests without a token.
func WithRequireToken(require bool) Option {
	return func(s *Server) {
		s.RequireToken = require
	}
}

// NewHandler creates the loopback control handler.
func NewHandler(q Enqueuer, snapshots SnapshotReader, opts ...Option) http.Handler {
	s := &Server{
		Queue:     q,
		Snapshots: snapshots,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get(domain.RouteConnect, s.Connect)
	r.Get(domain.RouteIdsMap, s.GetIdsMap)
	r.Get(domain.RouteLogInfo, s.LogInfo)
	r.Get(domain.RouteHealth, s.GetHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, domain.RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Connect handles GET /connect. It always answers 200 with an empty body;
// incomplete requests are dropped without a client-visible error.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	address, ok := header(r, domain.HeaderServerIP)
	if !ok || address == "" {
		s.drop(r, metrics.ReasonMissingAddress, domain.ErrMissingAddress)
		return
	}

	var token *string
	if t, ok := header(r, domain.HeaderToken); ok {
		token = &t
	} else if s.RequireToken {
		s.drop(r, metrics.ReasonMissingToken, domain.ErrMissingToken)
		return
	}

	s.enqueue(domain.NewConnect(address, token))
}

// GetIdsMap handles GET /getIdsMap. It schedules a refresh for the next tick
// and returns the current snapshot without waiting for it, so the first call
// after startup returns "{}".
func (s *Server) GetIdsMap(w http.ResponseWriter, r *http.Request) {
	s.enqueue(domain.NewRefreshSnapshot())

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(s.Snapshots.Read()))
}

// LogInfo handles GET /spdlogInfo by forwarding the Message header to the log.
func (s *Server) LogInfo(w http.ResponseWriter, r *http.Request) {
	if msg, ok := header(r, domain.HeaderMessage); ok {
		s.logger.Info(msg, "source", "companion")
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) enqueue(cmd domain.Command) {
	if !s.Queue.Enqueue(cmd) {
		s.logger.Warn("command dropped: queue full", "kind", cmd.Kind(), "command_id", cmd.CommandID())
		return
	}
	s.metrics.Enqueued(cmd.Kind())
}

func (s *Server) drop(r *http.Request, reason string, err error) {
	s.metrics.Drop(reason)
	s.logger.Warn("request ignored", "path", r.URL.Path, "reason", reason, "err", err)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// header reports the first value of name and whether the header was sent.
func header(r *http.Request, name string) (string, bool) {
	values := r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
