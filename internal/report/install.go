package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockTimeout bounds how long Install waits for another writer of the same report.
var LockTimeout = 30 * time.Second

// Install writes a report into a temporary sibling of dest and swaps it into place,
// so readers see either the previous report or the complete new one.
// Concurrent installs of the same dest are serialized with a file lock.
func Install(dest string, manifest Manifest, docs []DocumentEntry, pairs []PairEntry) error {
	dest = filepath.Clean(dest)
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", parent, err)
	}

	unlock, err := acquireLock(dest+".lock", LockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	tmpDir, err := os.MkdirTemp(parent, "."+filepath.Base(dest)+"-*")
	if err != nil {
		return fmt.Errorf("cannot create temp report dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := Write(tmpDir, manifest, docs, pairs); err != nil {
		return err
	}
	if err := AtomicSwap(tmpDir, dest); err != nil {
		return fmt.Errorf("cannot install report: %w", err)
	}
	return nil
}

func acquireLock(path string, timeout time.Duration) (func(), error) {
	l := flock.New(path)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire report lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another scan is writing this report (lock: %s)", path)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// AtomicSwap replaces destDir with srcDir by renaming, keeping the old
// directory as destDir.bak until the new one is in place.
func AtomicSwap(srcDir, destDir string) error {
	backup := destDir + ".bak"
	_ = os.RemoveAll(backup)
	if _, err := os.Stat(destDir); err == nil {
		if err := os.Rename(destDir, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(srcDir, destDir); err != nil {
		if _, stErr := os.Stat(backup); stErr == nil {
			_ = os.Rename(backup, destDir)
		}
		return err
	}
	_ = os.RemoveAll(backup)
	return nil
}
