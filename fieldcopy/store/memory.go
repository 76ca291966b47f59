package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/fieldcopy/internal/validation"
	"github.com/arthur-debert/fieldcopy/types"
)

// WriteHook intercepts writes to a Memory store. A non-nil error fails the
// write and leaves the store unchanged.
type WriteHook func(key string, value interface{}, loc types.Locator) error

// Memory is a map-backed RecordStore. It is safe for concurrent use.
type Memory struct {
	locks lockManager
	data  *storeData
	hook  WriteHook
}

// NewMemory creates an empty in-memory store with an empty option scope
func NewMemory() *Memory {
	return &Memory{data: newStoreData()}
}

// SetWriteHook installs a hook consulted before every write
func (m *Memory) SetWriteHook(hook WriteHook) {
	_ = m.locks.execute(WriteOperation, func() error {
		m.hook = hook
		return nil
	})
}

// SetOption seeds a value in the option scope
func (m *Memory) SetOption(key string, value interface{}) {
	_ = m.locks.execute(WriteOperation, func() error {
		m.data.Options[key] = cloneValue(value)
		return nil
	})
}

// AddRecord adds a record with a caller chosen id
func (m *Memory) AddRecord(id, title string) {
	_ = m.locks.execute(WriteOperation, func() error {
		now := time.Now()
		m.data.Records = append(m.data.Records, Record{
			ID:        id,
			Title:     title,
			Fields:    map[string]interface{}{},
			CreatedAt: now,
			UpdatedAt: now,
		})
		return nil
	})
}

// Create adds a record with a generated id and returns the id
func (m *Memory) Create(_ context.Context, title string) (string, error) {
	id := uuid.New().String()
	m.AddRecord(id, title)
	return id, nil
}

// Exists implements types.RecordStore
func (m *Memory) Exists(_ context.Context, loc types.Locator) (bool, error) {
	var ok bool
	err := m.locks.execute(ReadOperation, func() error {
		ok = loc != "" && (loc.IsOption() || m.data.record(loc) != nil)
		return nil
	})
	return ok, err
}

// Read implements types.RecordStore. Unset fields read as nil.
func (m *Memory) Read(_ context.Context, key string, loc types.Locator) (interface{}, error) {
	var value interface{}
	err := m.locks.execute(ReadOperation, func() error {
		if loc == "" {
			return ErrInvalidLocator
		}
		if !loc.IsOption() && m.data.record(loc) == nil {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, loc)
		}
		fields := m.data.fields(loc)
		value = cloneValue(fields[key])
		return nil
	})
	return value, err
}

// Write implements types.RecordStore
func (m *Memory) Write(_ context.Context, key string, value interface{}, loc types.Locator) error {
	return m.locks.execute(WriteOperation, func() error {
		if loc == "" {
			return ErrInvalidLocator
		}
		if err := validation.ValidateStorable(value, key); err != nil {
			return err
		}
		if m.hook != nil {
			if err := m.hook(key, value, loc); err != nil {
				return err
			}
		}
		fields := m.data.fields(loc)
		if fields == nil {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, loc)
		}
		fields[key] = cloneValue(value)
		if r := m.data.record(loc); r != nil {
			r.UpdatedAt = time.Now()
		}
		return nil
	})
}

// Records returns a snapshot of all records
func (m *Memory) Records() []Record {
	var out []Record
	_ = m.locks.execute(ReadOperation, func() error {
		out = make([]Record, len(m.data.Records))
		for i, r := range m.data.Records {
			r.Fields = cloneValue(r.Fields).(map[string]interface{})
			out[i] = r
		}
		return nil
	})
	return out
}

// cloneValue deep copies the JSON-shaped parts of a value so callers never
// share mutable maps or slices with the store
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

var _ types.RecordStore = (*Memory)(nil)
