package store

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock defines the interface for cross-process file locking
type FileLock interface {
	// TryLockContext attempts to acquire an exclusive lock with retries
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)

	// Unlock releases the lock
	Unlock() error
}

// FileLockFactory creates FileLock instances
type FileLockFactory interface {
	// New creates a new FileLock for the given path
	New(path string) FileLock
}

// FlockFactory is the default factory, backed by github.com/gofrs/flock
type FlockFactory struct{}

// New implements FileLockFactory.New
func (FlockFactory) New(path string) FileLock {
	return flock.New(path)
}
