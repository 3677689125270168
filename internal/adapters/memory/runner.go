package memory

import (
	"sync"

	"github.com/aretw0/strpbridge/pkg/ports"
)

// Runner defers functions until Flush, mirroring a host's "run later on the
// simulation thread" facility.
type Runner struct {
	mu      sync.Mutex
	pending []func()
}

var _ ports.Runner = (*Runner)(nil)

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Queue(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.pending = append(r.pending, fn)
	r.mu.Unlock()
}

// Flush runs everything queued so far, in order. Functions queued while
// flushing run on the next Flush. It returns how many functions ran.
func (r *Runner) Flush() int {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Pending reports the number of queued functions.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
