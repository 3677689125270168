package ports

import "context"

// ProcessLister returns the executable names of the processes currently
// running on the host. Duplicates are expected: one entry per process.
type ProcessLister interface {
	ProcessNames(ctx context.Context) ([]string, error)
}

// ProcessListerFunc adapts a function to ProcessLister.
type ProcessListerFunc func(ctx context.Context) ([]string, error)

// ProcessNames calls f.
func (f ProcessListerFunc) ProcessNames(ctx context.Context) ([]string, error) {
	return f(ctx)
}
