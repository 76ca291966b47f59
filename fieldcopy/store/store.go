// Package store provides Record Store implementations: a map-backed store
// for tests and embedding, and a JSON file store shared safely between
// processes through a file lock.
package store

import (
	"errors"
	"time"

	"github.com/arthur-debert/fieldcopy/types"
)

var (
	// ErrRecordNotFound is returned when a locator names no record
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidLocator is returned for blank locators
	ErrInvalidLocator = errors.New("invalid locator")
)

// Record is one addressable target of field values
type Record struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Fields    map[string]interface{} `json:"fields"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// storeData is the persisted shape of a store
type storeData struct {
	Options  map[string]interface{} `json:"options"`
	Records  []Record               `json:"records"`
	Metadata metadata               `json:"metadata"`
}

// metadata contains storage metadata
type metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const formatVersion = "1.0"

func newStoreData() *storeData {
	now := time.Now()
	return &storeData{
		Options: map[string]interface{}{},
		Records: []Record{},
		Metadata: metadata{
			Version:   formatVersion,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// fields returns the field map addressed by loc, or nil when loc names no record
func (d *storeData) fields(loc types.Locator) map[string]interface{} {
	if loc.IsOption() {
		if d.Options == nil {
			d.Options = map[string]interface{}{}
		}
		return d.Options
	}
	if r := d.record(loc); r != nil {
		if r.Fields == nil {
			r.Fields = map[string]interface{}{}
		}
		return r.Fields
	}
	return nil
}

func (d *storeData) record(loc types.Locator) *Record {
	for i := range d.Records {
		if d.Records[i].ID == string(loc) {
			return &d.Records[i]
		}
	}
	return nil
}
