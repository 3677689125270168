//go:build !windows

package portalloc

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/strpbridge/pkg/ports"
	"github.com/prometheus/procfs"
)

// procLister reads executable names from /proc.
type procLister struct {
	mountPoint string
}

// NewProcessLister returns the lister for the current platform.
func NewProcessLister() ports.ProcessLister {
	return &procLister{mountPoint: procfs.DefaultMountPoint}
}

func (l *procLister) ProcessNames(ctx context.Context) ([]string, error) {
	fs, err := procfs.NewFS(l.mountPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to open procfs: %w", err)
	}
	procs, err := fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// comm is truncated to 15 bytes, so prefer the executable path.
		if exe, err := p.Executable(); err == nil && exe != "" {
			names = append(names, filepath.Base(exe))
			continue
		}
		if comm, err := p.Comm(); err == nil {
			names = append(names, comm)
		}
	}
	return names, nil
}
