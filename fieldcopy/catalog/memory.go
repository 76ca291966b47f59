// Package catalog provides Field Catalog implementations: an in-memory
// catalog built from Go values and a loader for YAML or JSON catalog files.
package catalog

import (
	"github.com/arthur-debert/fieldcopy/types"
)

// Memory is an immutable catalog held in memory. Lookups by reference are
// answered from indexes built once at construction.
type Memory struct {
	groups []types.FieldGroup
	byKey  map[string]types.Field
	byName map[string]types.Field
}

// New builds a catalog from groups, kept in the given order
func New(groups ...types.FieldGroup) *Memory {
	m := &Memory{
		groups: groups,
		byKey:  make(map[string]types.Field),
		byName: make(map[string]types.Field),
	}
	for _, g := range groups {
		for _, f := range g.Fields {
			m.index(f)
		}
	}
	return m
}

// index records f and everything nested under it; first definition wins
func (m *Memory) index(f types.Field) {
	if f == nil {
		return
	}
	meta := f.Meta()
	if _, seen := m.byKey[meta.Key]; meta.Key != "" && !seen {
		m.byKey[meta.Key] = f
	}
	if _, seen := m.byName[meta.Name]; meta.Name != "" && !seen {
		m.byName[meta.Name] = f
	}

	switch v := f.(type) {
	case *types.GroupField, *types.RepeaterField:
		for _, sub := range types.Children(v) {
			m.index(sub)
		}
	case *types.FlexibleField:
		for _, layout := range v.Layouts {
			for _, sub := range layout.SubFields {
				m.index(sub)
			}
		}
	}
}

// ListGroups returns the groups in catalog order
func (m *Memory) ListGroups() []types.FieldGroup {
	out := make([]types.FieldGroup, len(m.groups))
	copy(out, m.groups)
	return out
}

// TopFields returns the fields of the first group with the given key
func (m *Memory) TopFields(groupKey string) []types.Field {
	for _, g := range m.groups {
		if g.Key == groupKey {
			return g.Fields
		}
	}
	return nil
}

// Resolve finds a field by key, then by name
func (m *Memory) Resolve(ref string) (types.Field, bool) {
	if ref == "" {
		return nil, false
	}
	if f, ok := m.byKey[ref]; ok {
		return f, true
	}
	f, ok := m.byName[ref]
	return f, ok
}

var _ types.Catalog = (*Memory)(nil)
