package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// LockFile is the advisory lock created inside the output directory.
const LockFile = ".nerstat.lock"

// LockOutputDir creates dir if needed and takes an exclusive lock on it.
// Returns domain.ErrAnalysisInProgress if another process holds the lock.
// The returned function releases the lock.
func LockOutputDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s is locked", domain.ErrAnalysisInProgress, dir)
	}

	return func() { _ = lock.Unlock() }, nil
}

// Ensure DirLocker implements the interface.
var _ driven.OutputLocker = DirLocker{}

// DirLocker locks output directories with LockOutputDir.
type DirLocker struct{}

// Lock implements driven.OutputLocker.
func (DirLocker) Lock(dir string) (func(), error) {
	return LockOutputDir(dir)
}
