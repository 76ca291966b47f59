package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/fieldcopy/internal/validation"
	"github.com/arthur-debert/fieldcopy/types"
)

const (
	lockTimeout   = 3 * time.Second
	lockRetryWait = 100 * time.Millisecond
)

// JSONFile is a RecordStore persisted as a single JSON document. Every
// operation loads the file under a cross-process lock; writes replace the
// file atomically.
type JSONFile struct {
	filePath string
	fileLock FileLock
	locks    lockManager
}

// JSONFileOption configures a JSONFile
type JSONFileOption func(*JSONFile)

// WithLockFactory replaces the file lock implementation
func WithLockFactory(factory FileLockFactory) JSONFileOption {
	return func(s *JSONFile) {
		s.fileLock = factory.New(s.filePath + ".lock")
	}
}

// OpenJSONFile opens the store at filePath. The file is created on first write.
func OpenJSONFile(filePath string, opts ...JSONFileOption) *JSONFile {
	s := &JSONFile{filePath: filePath}
	s.fileLock = FlockFactory{}.New(filePath + ".lock")
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the store file
func (s *JSONFile) Path() string {
	return s.filePath
}

// Exists implements types.RecordStore
func (s *JSONFile) Exists(ctx context.Context, loc types.Locator) (bool, error) {
	if loc == "" {
		return false, nil
	}
	if loc.IsOption() {
		return true, nil
	}
	var ok bool
	err := s.view(ctx, func(data *storeData) error {
		ok = data.record(loc) != nil
		return nil
	})
	return ok, err
}

// Read implements types.RecordStore. Unset fields read as nil.
func (s *JSONFile) Read(ctx context.Context, key string, loc types.Locator) (interface{}, error) {
	if loc == "" {
		return nil, ErrInvalidLocator
	}
	var value interface{}
	err := s.view(ctx, func(data *storeData) error {
		if !loc.IsOption() && data.record(loc) == nil {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, loc)
		}
		value = data.fields(loc)[key]
		return nil
	})
	return value, err
}

// Write implements types.RecordStore
func (s *JSONFile) Write(ctx context.Context, key string, value interface{}, loc types.Locator) error {
	if loc == "" {
		return ErrInvalidLocator
	}
	// Reject values that cannot round-trip through the JSON file
	if err := validation.ValidateStorable(value, key); err != nil {
		return err
	}
	return s.update(ctx, func(data *storeData) error {
		fields := data.fields(loc)
		if fields == nil {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, loc)
		}
		fields[key] = value
		if r := data.record(loc); r != nil {
			r.UpdatedAt = time.Now()
		}
		return nil
	})
}

// Create adds an empty record and returns its generated id
func (s *JSONFile) Create(ctx context.Context, title string) (string, error) {
	id := uuid.New().String()
	err := s.update(ctx, func(data *storeData) error {
		now := time.Now()
		data.Records = append(data.Records, Record{
			ID:        id,
			Title:     title,
			Fields:    map[string]interface{}{},
			CreatedAt: now,
			UpdatedAt: now,
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Records returns every record in file order
func (s *JSONFile) Records(ctx context.Context) ([]Record, error) {
	var out []Record
	err := s.view(ctx, func(data *storeData) error {
		out = data.Records
		return nil
	})
	return out, err
}

// SetOption writes a value into the option scope
func (s *JSONFile) SetOption(ctx context.Context, key string, value interface{}) error {
	return s.Write(ctx, key, value, types.OptionScope)
}

// Close removes the lock file
func (s *JSONFile) Close() error {
	_ = os.Remove(s.filePath + ".lock")
	return nil
}

// view runs fn on a freshly loaded copy of the store. The file lock is
// exclusive, so reads serialize in-process as well.
func (s *JSONFile) view(ctx context.Context, fn func(*storeData) error) error {
	return s.locks.execute(WriteOperation, func() error {
		return s.withFileLock(ctx, func() error {
			data, err := s.load()
			if err != nil {
				return err
			}
			return fn(data)
		})
	})
}

// update runs fn on a loaded copy of the store and saves it when fn succeeds
func (s *JSONFile) update(ctx context.Context, fn func(*storeData) error) error {
	return s.locks.execute(WriteOperation, func() error {
		return s.withFileLock(ctx, func() error {
			// Load current state from disk
			data, err := s.load()
			if err != nil {
				return err
			}

			// Apply the change
			if err := fn(data); err != nil {
				return err
			}

			// Update metadata and persist
			data.Metadata.UpdatedAt = time.Now()
			return s.save(data)
		})
	})
}

func (s *JSONFile) withFileLock(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	// Retry until the lock is free or the timeout expires
	locked, err := s.fileLock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire file lock")
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// load reads the store file; a missing or empty file is an empty store
func (s *JSONFile) load() (*storeData, error) {
	raw, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return newStoreData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	// Handle empty file
	if len(raw) == 0 {
		return newStoreData(), nil
	}

	var data storeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	// Older files may lack the option scope
	if data.Options == nil {
		data.Options = map[string]interface{}{}
	}
	return &data, nil
}

// save writes the store atomically through a temp file
func (s *JSONFile) save(data *storeData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Write to temp file first
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	// Atomic rename
	if err := os.Rename(tmpFile, s.filePath); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

var _ types.RecordStore = (*JSONFile)(nil)
