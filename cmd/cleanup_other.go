//go:build !windows

package cmd

import (
	"errors"
	"os"
)

// removeStale removes a leftover report directory or file if possible.
func removeStale(path string) error {
	if path == "" {
		return nil
	}
	err := os.RemoveAll(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
