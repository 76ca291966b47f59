package migration

import (
	"encoding/json"
	"strings"

	"github.com/arthur-debert/fieldcopy/types"
)

// SelectAll is the selector literal matching every group
const SelectAll = "all"

type selectorMode int

const (
	selectNone selectorMode = iota
	selectAll
	selectOne
	selectList
)

// Selector names the field groups a run walks. The zero value selects nothing.
type Selector struct {
	mode selectorMode
	keys []string
}

// All selects every group in catalog order
func All() Selector {
	return Selector{mode: selectAll}
}

// One selects the first group with the given key
func One(key string) Selector {
	return Selector{mode: selectOne, keys: []string{key}}
}

// Keys selects the groups whose key is listed, in catalog order
func Keys(keys ...string) Selector {
	return Selector{mode: selectList, keys: append([]string(nil), keys...)}
}

// ParseSelector decodes the textual selector forms:
//
//	all              every group
//	["a","b"]        JSON array of keys
//	a,b              comma separated keys
//	a                single key
//
// Anything else, including blank input, selects nothing.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Selector{}
	case s == SelectAll:
		return All()
	case strings.HasPrefix(s, "["):
		var keys []string
		if err := json.Unmarshal([]byte(s), &keys); err != nil {
			return Selector{}
		}
		return Keys(keys...)
	case strings.Contains(s, ","):
		var keys []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}
		return Keys(keys...)
	default:
		return One(s)
	}
}

// SelectorFrom converts a loosely typed configuration value, as produced by
// YAML or viper, into a selector. Strings are parsed with ParseSelector;
// lists must hold only strings. Any other shape selects nothing.
func SelectorFrom(v any) Selector {
	switch val := v.(type) {
	case Selector:
		return val
	case string:
		return ParseSelector(val)
	case []string:
		return Keys(val...)
	case []any:
		keys := make([]string, 0, len(val))
		for _, item := range val {
			key, ok := item.(string)
			if !ok {
				return Selector{}
			}
			keys = append(keys, key)
		}
		return Keys(keys...)
	default:
		return Selector{}
	}
}

// Select returns the groups matched by the selector. Catalog order is kept
// and each group appears at most once.
func (s Selector) Select(groups []types.FieldGroup) []types.FieldGroup {
	var selected []types.FieldGroup
	switch s.mode {
	case selectAll:
		selected = append(selected, groups...)
	case selectOne:
		for _, g := range groups {
			if g.Key != "" && g.Key == s.keys[0] {
				return []types.FieldGroup{g}
			}
		}
	case selectList:
		allowed := make(map[string]bool, len(s.keys))
		for _, k := range s.keys {
			allowed[k] = true
		}
		for _, g := range groups {
			if g.Key != "" && allowed[g.Key] {
				selected = append(selected, g)
			}
		}
	}
	return selected
}

// Missing returns the requested keys that name no group, in request order
func (s Selector) Missing(groups []types.FieldGroup) []string {
	if s.mode != selectOne && s.mode != selectList {
		return nil
	}
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.Key] = true
	}
	var missing []string
	seen := make(map[string]bool)
	for _, k := range s.keys {
		if k != "" && !known[k] && !seen[k] {
			missing = append(missing, k)
		}
		seen[k] = true
	}
	return missing
}

// String renders the selector for report notes
func (s Selector) String() string {
	switch s.mode {
	case selectAll:
		return SelectAll
	case selectOne:
		return s.keys[0]
	case selectList:
		return "ids"
	default:
		return "none"
	}
}

// IsEmpty reports whether the selector can match nothing
func (s Selector) IsEmpty() bool {
	return s.mode == selectNone || (s.mode == selectList && len(s.keys) == 0)
}
