package memory

import (
	"sync"

	"github.com/aretw0/strpbridge/pkg/ports"
)

// Call is one recorded Transport invocation.
type Call struct {
	Method string // "SetToken" or "Connect"
	Arg    string
}

// Transport records SetToken and Connect calls instead of opening sessions.
type Transport struct {
	mu    sync.Mutex
	calls []Call
	token string
}

var _ ports.Transport = (*Transport)(nil)

// NewTransport creates an empty recording transport.
func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	t.calls = append(t.calls, Call{Method: "SetToken", Arg: token})
}

func (t *Transport) Connect(endpoint string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, Call{Method: "Connect", Arg: endpoint})
}

// Calls returns a copy of the recorded calls.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// Token returns the last token set.
func (t *Transport) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}
