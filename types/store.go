package types

import "context"

// Locator selects a record in a RecordStore. OptionScope names the global
// option scope; any other non-empty value is a record id.
type Locator string

// OptionScope is the locator of the global option scope.
const OptionScope Locator = "option"

// IsOption reports whether the locator names the global option scope.
func (l Locator) IsOption() bool {
	return l == OptionScope
}

func (l Locator) String() string {
	return string(l)
}

// Catalog is the read-only registry of field groups and field definitions.
type Catalog interface {
	// ListGroups returns every group in catalog order
	ListGroups() []FieldGroup

	// TopFields returns the top level fields of a group, or nil if the group
	// is unknown or has no fields
	TopFields(groupKey string) []Field

	// Resolve finds a field definition by key, falling back to name
	Resolve(ref string) (Field, bool)
}

// RecordStore reads and writes field values by key on a record.
type RecordStore interface {
	// Exists reports whether the locator resolves to an existing record
	Exists(ctx context.Context, loc Locator) (bool, error)

	// Read returns the current value of a field, nil if unset
	Read(ctx context.Context, key string, loc Locator) (any, error)

	// Write stores a value for a field, overwriting any previous value
	Write(ctx context.Context, key string, value any, loc Locator) error
}
