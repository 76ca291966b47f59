package store

import (
	"sync"
)

// OperationType defines whether an operation is read or write.
type OperationType int

const (
	// ReadOperation indicates an operation that only reads data.
	// Multiple read operations can proceed concurrently.
	ReadOperation OperationType = iota

	// WriteOperation indicates an operation that modifies data.
	// Write operations are exclusive.
	WriteOperation
)

// lockManager centralizes in-process locking so every store operation takes
// the right kind of lock and releases it on every path.
type lockManager struct {
	mu sync.RWMutex
}

// execute runs fn while holding the lock matching opType
func (lm *lockManager) execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}
