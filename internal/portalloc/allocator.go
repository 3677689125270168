// Package portalloc derives the bridge's loopback port from the number of
// sibling simulation processes running on the host.
//
// Every instance counts the same executables, so the n-th instance started
// lands on BasePort+n and a companion tool can find it the same way. The count
// is racy when processes start or exit concurrently; it only needs to be
// approximately unique at startup.
package portalloc

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/aretw0/strpbridge/pkg/ports"
)

// Allocator computes BasePort + count(processes named in Names).
type Allocator struct {
	BasePort int
	Names    []string
	Lister   ports.ProcessLister
	Logger   *slog.Logger
}

// New creates an Allocator with the default base port and process names,
// backed by the platform process lister.
func New() *Allocator {
	return &Allocator{
		BasePort: domain.DefaultBasePort,
		Names:    slices.Clone(domain.DefaultProcessNames),
		Lister:   NewProcessLister(),
		Logger:   logging.NewNop(),
	}
}

// Allocate returns the port for this instance. Enumeration failures are
// logged and fall back to BasePort.
func (a *Allocator) Allocate(ctx context.Context) int {
	logger := a.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if a.Lister == nil {
		return a.BasePort
	}

	running, err := a.Lister.ProcessNames(ctx)
	if err != nil {
		logger.Warn("process enumeration failed, using base port",
			"base_port", a.BasePort,
			"err", err,
		)
		return a.BasePort
	}

	matches := CountMatches(running, a.Names)
	logger.Debug("sibling processes counted", "matches", matches, "names", a.Names)
	return a.BasePort + matches
}

// commLen is the length Linux truncates process comm names to.
const commLen = 15

// CountMatches counts, for each name in names, the processes in running with
// that executable name. A running name of exactly commLen bytes also matches
// a longer name it prefixes, since /proc comm is truncated.
func CountMatches(running, names []string) int {
	n := 0
	for _, name := range names {
		for _, exe := range running {
			if matchName(exe, name) {
				n++
			}
		}
	}
	return n
}

func matchName(exe, name string) bool {
	if exe == name {
		return true
	}
	return len(exe) == commLen && len(name) > commLen && strings.HasPrefix(name, exe)
}
