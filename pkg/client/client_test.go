package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpAdapter "github.com/aretw0/strpbridge/internal/adapters/http"
	"github.com/aretw0/strpbridge/internal/adapters/memory"
	"github.com/aretw0/strpbridge/internal/portalloc"
	"github.com/aretw0/strpbridge/internal/queue"
	"github.com/aretw0/strpbridge/internal/snapshot"
	"github.com/aretw0/strpbridge/internal/tick"
	"github.com/aretw0/strpbridge/pkg/client"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/aretw0/strpbridge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	server   *httptest.Server
	queue    *queue.Queue[domain.Command]
	consumer *tick.Consumer
	world    *memory.World
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	q := queue.New[domain.Command]()
	store := snapshot.NewStore()
	h := &harness{
		server:   httptest.NewServer(httpAdapter.NewHandler(q, store)),
		queue:    q,
		consumer: tick.NewConsumer(q, store),
		world:    memory.NewWorld(),
	}
	t.Cleanup(h.server.Close)
	return h
}

func TestClient_ConnectWithoutToken(t *testing.T) {
	h := newHarness(t)
	c := client.New(h.server.URL)

	require.NoError(t, c.Connect(context.Background(), "1.2.3.4", nil))

	cmds := h.queue.Drain()
	require.Len(t, cmds, 1)
	connect := cmds[0].(domain.ConnectCommand)
	assert.Equal(t, "1.2.3.4", connect.Address)
	assert.Nil(t, connect.Token)
}

func TestClient_ConnectWithToken(t *testing.T) {
	h := newHarness(t)
	c := client.New(h.server.URL)
	token := "tok"

	require.NoError(t, c.Connect(context.Background(), "1.2.3.4", &token))

	connect := h.queue.Drain()[0].(domain.ConnectCommand)
	require.NotNil(t, connect.Token)
	assert.Equal(t, "tok", *connect.Token)
}

func TestClient_IdsMapStaleThenFresh(t *testing.T) {
	h := newHarness(t)
	h.world.Add(5, 100)
	h.world.Add(6, 200)
	c := client.New(h.server.URL)
	ctx := context.Background()

	first, err := c.IdsMap(ctx)
	require.NoError(t, err)
	assert.Empty(t, first)

	h.consumer.OnUpdate(h.world)

	second, err := c.IdsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint32]uint32{5: 100, 6: 200}, second)
}

func TestClient_WaitIdsMap(t *testing.T) {
	h := newHarness(t)
	h.world.Add(1, 2)
	c := client.New(h.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		// Host ticking in the background.
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.consumer.OnUpdate(h.world)
			}
		}
	}()

	ids, err := c.WaitIdsMap(ctx, 50, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, map[uint32]uint32{1: 2}, ids)
}

func TestClient_WaitIdsMapEmptyWorld(t *testing.T) {
	h := newHarness(t)
	c := client.New(h.server.URL)

	ids, err := c.WaitIdsMap(context.Background(), 2, time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 2, h.queue.Len(), "each poll queues a refresh")
}

func TestClient_LogAndHealth(t *testing.T) {
	h := newHarness(t)
	c := client.New(h.server.URL)
	ctx := context.Background()

	assert.NoError(t, c.Health(ctx))
	assert.NoError(t, c.Log(ctx, "hello"))
	assert.Zero(t, h.queue.Len())
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	err := client.New(srv.URL).Health(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "418"))
}

func TestDecodeIdsMap(t *testing.T) {
	ids, err := client.DecodeIdsMap([]byte(`{"5": 100,"6": 200}`))
	require.NoError(t, err)
	assert.Equal(t, map[uint32]uint32{5: 100, 6: 200}, ids)

	_, err = client.DecodeIdsMap([]byte(`{"x": 1}`))
	assert.Error(t, err)

	_, err = client.DecodeIdsMap([]byte(`{`))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	alloc := &portalloc.Allocator{
		BasePort: 10000,
		Names:    []string{"SkyrimSE.exe"},
		Lister: ports.ProcessListerFunc(func(context.Context) ([]string, error) {
			return []string{"SkyrimSE.exe"}, nil
		}),
	}
	assert.Equal(t, "http://127.0.0.1:10001", client.Discover(context.Background(), alloc))
}
