// Package redis mirrors published ids map snapshots into Redis so tools that
// cannot reach the loopback listener can still read them.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Mirror writes the latest snapshot to a key and optionally publishes it on a
// channel. Notify never blocks: only the most recent pending value is kept.
type Mirror struct {
	client  *backend.Client
	key     string
	channel string
	ttl     time.Duration
	logger  *slog.Logger

	pending chan string
}

var _ ports.SnapshotMirror = (*Mirror)(nil)

type Option func(*Mirror)

// WithKey sets the key holding the snapshot.
func WithKey(key string) Option {
	return func(m *Mirror) {
		m.key = key
	}
}

// WithChannel publishes each snapshot on channel. Empty disables publishing.
func WithChannel(channel string) Option {
	return func(m *Mirror) {
		m.channel = channel
	}
}

// WithTTL sets the expiration of the snapshot key.
func WithTTL(ttl time.Duration) Option {
	return func(m *Mirror) {
		m.ttl = ttl
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// New creates a mirror connected to address.
func New(address, password string, db int, opts ...Option) *Mirror {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a mirror from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Mirror {
	m := &Mirror{
		client:  client,
		key:     "strpbridge:idsmap",
		ttl:     0, // No expiration by default
		logger:  logging.NewNop(),
		pending: make(chan string, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Notify records snapshot as the next value to write, replacing any value
// that has not been written yet.
func (m *Mirror) Notify(snapshot string) {
	for {
		select {
		case m.pending <- snapshot:
			return
		default:
		}
		select {
		case <-m.pending:
		default:
		}
	}
}

// Run writes notified snapshots until ctx is cancelled. Write failures are
// logged and the loop keeps going.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-m.pending:
			if err := m.Write(ctx, snapshot); err != nil {
				m.logger.Warn("snapshot mirror write failed", "key", m.key, "err", err)
			}
		}
	}
}

// Write stores snapshot and publishes it when a channel is configured.
func (m *Mirror) Write(ctx context.Context, snapshot string) error {
	pipe := m.client.Pipeline()
	pipe.Set(ctx, m.key, snapshot, m.ttl)
	if m.channel != "" {
		pipe.Publish(ctx, m.channel, snapshot)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write snapshot to redis: %w", err)
	}
	return nil
}

// Read returns the mirrored snapshot.
func (m *Mirror) Read(ctx context.Context) (string, error) {
	val, err := m.client.Get(ctx, m.key).Result()
	if err != nil {
		if err == backend.Nil {
			return "", fmt.Errorf("no snapshot mirrored under %q", m.key)
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Close releases the client.
func (m *Mirror) Close() error {
	return m.client.Close()
}
