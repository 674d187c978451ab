//go:build windows

package cmd

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// removeStale removes a leftover report directory or file if possible.
//
// On Windows, antivirus/indexers can briefly hold handles on freshly written
// files; we retry for a short period and fall back to scheduling deletion of
// the (by then hopefully empty) path at next reboot.
func removeStale(path string) error {
	if path == "" {
		return nil
	}

	var lastErr error
	for range 15 {
		err := os.RemoveAll(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return lastErr
	}
	if err := windows.MoveFileEx(p, nil, windows.MOVEFILE_DELAY_UNTIL_REBOOT); err != nil {
		return lastErr
	}
	return nil
}
