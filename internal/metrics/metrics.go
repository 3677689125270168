// Package metrics defines the Prometheus collectors exported by the bridge.
package metrics

import (
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons.
const (
	ReasonMissingAddress = "missing_address"
	ReasonMissingToken   = "missing_token"
	ReasonQueueFull      = "queue_full"
)

// Task results.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultPanic = "panic"
)

// Metrics groups the bridge collectors. A nil *Metrics is valid and records
// nothing, so components can take it unconditionally.
type Metrics struct {
	CommandsEnqueued *prometheus.CounterVec
	CommandsDropped  *prometheus.CounterVec
	TasksExecuted    *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
	TickDuration     prometheus.Histogram
	SnapshotEntities prometheus.Gauge
	ListenPort       prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommandsEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strpbridge_commands_enqueued_total",
				Help: "Commands accepted by the listener",
			},
			[]string{"kind"},
		),
		CommandsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strpbridge_commands_dropped_total",
				Help: "Requests that produced no command",
			},
			[]string{"reason"},
		),
		TasksExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strpbridge_tasks_executed_total",
				Help: "Commands applied on the tick thread",
			},
			[]string{"kind", "result"},
		),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "strpbridge_queue_depth",
			Help: "Commands waiting for the next tick",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "strpbridge_tick_duration_seconds",
			Help:    "Time spent applying queued commands in one tick",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		SnapshotEntities: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "strpbridge_snapshot_entities",
			Help: "Entities in the last published ids map",
		}),
		ListenPort: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "strpbridge_listen_port",
			Help: "Loopback port the listener is bound to",
		}),
	}
	reg.MustRegister(
		m.CommandsEnqueued,
		m.CommandsDropped,
		m.TasksExecuted,
		m.QueueDepth,
		m.TickDuration,
		m.SnapshotEntities,
		m.ListenPort,
	)
	return m
}

func (m *Metrics) Enqueued(kind domain.CommandKind) {
	if m == nil {
		return
	}
	m.CommandsEnqueued.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) Drop(reason string) {
	if m == nil {
		return
	}
	m.CommandsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) Executed(kind domain.CommandKind, result string) {
	if m == nil {
		return
	}
	m.TasksExecuted.WithLabelValues(string(kind), result).Inc()
}

func (m *Metrics) ObserveTick(seconds float64) {
	if m == nil {
		return
	}
	m.TickDuration.Observe(seconds)
}

func (m *Metrics) SetSnapshotEntities(n int) {
	if m == nil {
		return
	}
	m.SnapshotEntities.Set(float64(n))
}

func (m *Metrics) SetListenPort(port int) {
	if m == nil {
		return
	}
	m.ListenPort.Set(float64(port))
}

// QueueObserver adapts m to queue.Observer. Queue-full drops are counted
// under ReasonQueueFull.
func (m *Metrics) QueueObserver() *QueueObserver {
	return &QueueObserver{m: m}
}

// QueueObserver forwards queue occupancy to the depth gauge.
type QueueObserver struct {
	m *Metrics
}

func (o *QueueObserver) Depth(n int) {
	if o.m == nil {
		return
	}
	o.m.QueueDepth.Set(float64(n))
}

func (o *QueueObserver) Dropped() {
	o.m.Drop(ReasonQueueFull)
}
