package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/strpbridge/internal/adapters/redis"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMirror(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Mirror) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	m := redis.New(mr.Addr(), "", 0, opts...)
	t.Cleanup(func() { m.Close() })
	return mr, m
}

func TestMirror_WriteAndRead(t *testing.T) {
	mr, m := newMirror(t, redis.WithKey("test:ids"))
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, `{"5": 100}`))

	got, err := mr.Get("test:ids")
	require.NoError(t, err)
	assert.Equal(t, `{"5": 100}`, got)

	read, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"5": 100}`, read)
}

func TestMirror_ReadMissing(t *testing.T) {
	_, m := newMirror(t)
	_, err := m.Read(context.Background())
	assert.Error(t, err)
}

func TestMirror_TTL(t *testing.T) {
	mr, m := newMirror(t, redis.WithTTL(time.Minute))
	require.NoError(t, m.Write(context.Background(), "{}"))

	assert.Equal(t, time.Minute, mr.TTL("strpbridge:idsmap"))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("strpbridge:idsmap"))
}

func TestMirror_PublishesOnChannel(t *testing.T) {
	mr, _ := newMirror(t)
	m := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}),
		redis.WithChannel("strpbridge:updates"))
	defer m.Close()

	sub := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer sub.Close()
	ctx := context.Background()
	ps := sub.Subscribe(ctx, "strpbridge:updates")
	defer ps.Close()
	_, err := ps.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	require.NoError(t, m.Write(ctx, `{"1": 2}`))

	msg, err := ps.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"1": 2}`, msg.Payload)
}

func TestMirror_RunKeepsLatest(t *testing.T) {
	mr, m := newMirror(t)

	// Notify before Run: only the newest pending value survives.
	m.Notify("{}")
	m.Notify(`{"1": 1}`)
	m.Notify(`{"2": 2}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	assert.Eventually(t, func() bool {
		v, err := mr.Get("strpbridge:idsmap")
		return err == nil && v == `{"2": 2}`
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMirror_WriteFailureIsReported(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	m := redis.New(mr.Addr(), "", 0)
	defer m.Close()
	mr.Close()

	err = m.Write(context.Background(), "{}")
	assert.Error(t, err)
}
