package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_StepRunsHooksInOrder(t *testing.T) {
	l := NewLoop(time.Second)
	var calls []string
	l.OnTick(func(tick uint64) { calls = append(calls, "a") })
	l.OnTick(func(tick uint64) { calls = append(calls, "b") })

	l.Step()
	l.Step()

	assert.Equal(t, []string{"a", "b", "a", "b"}, calls)
	assert.Equal(t, uint64(2), l.Tick())
}

func TestLoop_RunUntilCancelled(t *testing.T) {
	l := NewLoop(time.Millisecond)

	var mu sync.Mutex
	var ticks []uint64
	l.OnTick(func(tick uint64) {
		mu.Lock()
		ticks = append(ticks, tick)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return l.Tick() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, tick := range ticks {
		assert.Equal(t, uint64(i+1), tick, "ticks are monotonic")
	}
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "1.5s", SimTime(15, 100*time.Millisecond))
}
