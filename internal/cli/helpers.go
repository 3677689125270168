package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/strpbridge/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// ParseIdentities parses "local:remote" pairs separated by commas,
// e.g. "5:100,6:200". Empty input yields no identities.
func ParseIdentities(s string) ([]domain.Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var ids []domain.Identity
	for _, pair := range strings.Split(s, ",") {
		localStr, remoteStr, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid entity %q: want local:remote", pair)
		}
		local, err := strconv.ParseUint(localStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid local id in %q: %w", pair, err)
		}
		remote, err := strconv.ParseUint(remoteStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid remote id in %q: %w", pair, err)
		}
		ids = append(ids, domain.Identity{LocalID: uint32(local), RemoteID: uint32(remote)})
	}
	return ids, nil
}
