package store

import (
	"context"
	"sync"
	"time"
)

// mockFileLock is a FileLock for tests
type mockFileLock struct {
	mu        sync.Mutex
	isLocked  bool
	lockError error

	lockAttempts   int
	unlockAttempts int
}

func (m *mockFileLock) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lockAttempts++
	if m.lockError != nil {
		return false, m.lockError
	}
	if m.isLocked {
		return false, nil
	}
	m.isLocked = true
	return true, nil
}

func (m *mockFileLock) Unlock() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unlockAttempts++
	m.isLocked = false
	return nil
}

// mockLockFactory hands out a single shared mock lock
type mockLockFactory struct {
	lock *mockFileLock
}

func (f *mockLockFactory) New(string) FileLock {
	return f.lock
}
