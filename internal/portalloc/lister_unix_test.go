//go:build linux

package portalloc

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcLister_SeesCurrentProcess(t *testing.T) {
	if _, err := os.Stat("/proc/self"); err != nil {
		t.Skip("procfs not mounted")
	}
	exe, err := os.Executable()
	require.NoError(t, err)

	names, err := NewProcessLister().ProcessNames(context.Background())
	require.NoError(t, err)
	assert.True(t, slices.Contains(names, filepath.Base(exe)), "expected %q in process list", filepath.Base(exe))
}

func TestProcLister_MissingMount(t *testing.T) {
	l := &procLister{mountPoint: filepath.Join(t.TempDir(), "nope")}
	_, err := l.ProcessNames(context.Background())
	assert.Error(t, err)
}
