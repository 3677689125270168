//go:build windows

package portalloc

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/aretw0/strpbridge/pkg/ports"
	"golang.org/x/sys/windows"
)

// toolhelpLister walks a Toolhelp32 process snapshot.
type toolhelpLister struct{}

// NewProcessLister returns the lister for the current platform.
func NewProcessLister() ports.ProcessLister {
	return toolhelpLister{}
}

func (toolhelpLister) ProcessNames(ctx context.Context) ([]string, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot processes: %w", err)
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, fmt.Errorf("failed to read first process: %w", err)
	}

	var names []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		names = append(names, windows.UTF16ToString(entry.ExeFile[:]))

		err := windows.Process32Next(snap, &entry)
		if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read next process: %w", err)
		}
	}
	return names, nil
}
