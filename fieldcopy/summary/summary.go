// Package summary turns arbitrary runtime values into small, serializable
// descriptors for migration reports.
//
// Every value has a summary. Strings are previewed up to PreviewRunes code
// points; containers and objects are previewed as JSON with at most
// SampleLimit entries, each entry reduced to a scalar literal or a type name.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"
)

const (
	// PreviewRunes is the number of code points kept in a string preview
	PreviewRunes = 120

	// SampleLimit is the number of entries kept in a container or object preview
	SampleLimit = 8

	// Ellipsis marks a truncated string preview and keys the truncation sentinel
	Ellipsis = "…"

	// Truncated is the value of the sentinel entry of a truncated container
	Truncated = "(truncated)"

	// Unprintable is the preview of values with no textual rendering
	Unprintable = "(unprintable)"
)

// Summary describes a value without carrying it.
type Summary struct {
	Kind    string `json:"type" yaml:"type"`
	Size    string `json:"size" yaml:"size"`
	Preview string `json:"preview" yaml:"preview"`
}

// Of summarizes v. It never fails.
func Of(v any) Summary {
	rv, ok := deref(v)
	if !ok {
		return Summary{Kind: "null", Size: "null", Preview: "null"}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Summary{Kind: "bool", Size: "bool", Preview: strconv.FormatBool(rv.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		kind := typeName(rv)
		return Summary{Kind: kind, Size: kind, Preview: numberString(rv)}
	case reflect.String:
		return summarizeString(rv.String())
	case reflect.Slice, reflect.Array, reflect.Map:
		return Summary{
			Kind:    typeName(rv),
			Size:    fmt.Sprintf("container(%d)", rv.Len()),
			Preview: encode(sampleContainer(rv)),
		}
	case reflect.Struct:
		return Summary{
			Kind:    typeName(rv),
			Size:    "object",
			Preview: encode(sampleObject(rv)),
		}
	default:
		kind := typeName(rv)
		return Summary{Kind: kind, Size: kind, Preview: Unprintable}
	}
}

// IsEmpty reports whether v counts as empty for migration purposes: nil,
// the empty string, a zero-length container or false. Numeric zero and
// structs are never empty.
func IsEmpty(v any) bool {
	rv, ok := deref(v)
	if !ok {
		return true
	}
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	default:
		return false
	}
}

func summarizeString(s string) Summary {
	n := utf8.RuneCountInString(s)
	preview := s
	if n > PreviewRunes {
		preview = truncateRunes(s, PreviewRunes) + Ellipsis
	}
	return Summary{Kind: "string", Size: fmt.Sprintf("string(%d)", n), Preview: preview}
}

func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// deref unwraps interfaces and pointers; ok is false for nil.
func deref(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, true
}

func typeName(rv reflect.Value) string {
	return rv.Type().String()
}

func numberString(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	default:
		return strconv.FormatUint(rv.Uint(), 10)
	}
}

// entry is one sampled key/value pair of a preview.
type entry struct {
	key   string
	value any
}

// sample is an ordered preview. It renders as a JSON array when asList is
// set, otherwise as a JSON object in entry order.
type sample struct {
	entries []entry
	asList  bool
}

func sampleContainer(rv reflect.Value) sample {
	var s sample
	n := rv.Len()

	switch rv.Kind() {
	case reflect.Map:
		keys := sortedKeys(rv)
		for i, k := range keys {
			if i == SampleLimit {
				break
			}
			s.entries = append(s.entries, entry{key: k.name, value: reduce(rv.MapIndex(k.value))})
		}
	default:
		s.asList = n <= SampleLimit
		for i := 0; i < n && i < SampleLimit; i++ {
			s.entries = append(s.entries, entry{key: strconv.Itoa(i), value: reduce(rv.Index(i))})
		}
	}

	if n > SampleLimit {
		s.entries = append(s.entries, entry{key: Ellipsis, value: Truncated})
	}
	return s
}

// mapKey is a map key with its printed form
type mapKey struct {
	name     string
	typeName string
	repr     string
	value    reflect.Value
}

// sortedKeys orders map keys by printed form. Keys that print alike, such as
// 1 and "1" in a map[any]any, are ordered by type name and then by %#v.
func sortedKeys(rv reflect.Value) []mapKey {
	keys := make([]mapKey, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		v := k.Interface()
		keys = append(keys, mapKey{
			name:     fmt.Sprint(v),
			typeName: fmt.Sprintf("%T", v),
			repr:     fmt.Sprintf("%#v", v),
			value:    k,
		})
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.name != b.name {
			return a.name < b.name
		}
		if a.typeName != b.typeName {
			return a.typeName < b.typeName
		}
		return a.repr < b.repr
	})
	return keys
}

func sampleObject(rv reflect.Value) sample {
	var s sample
	t := rv.Type()
	for i := 0; i < t.NumField() && len(s.entries) < SampleLimit; i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		s.entries = append(s.entries, entry{key: sf.Name, value: reduce(rv.Field(i))})
	}
	return s
}

// reduce keeps scalar values as literals and replaces everything else,
// nil included, with its type name.
func reduce(rv reflect.Value) any {
	if !rv.IsValid() {
		return "null"
	}
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return numberString(rv)
		}
		return json.Number(numberString(rv))
	case reflect.String:
		return rv.String()
	case reflect.Pointer:
		if rv.IsNil() {
			return "null"
		}
		return typeName(rv.Elem())
	default:
		return typeName(rv)
	}
}

func (s sample) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	open, closing := byte('{'), byte('}')
	if s.asList {
		open, closing = '[', ']'
	}
	buf.WriteByte(open)
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !s.asList {
			if err := writeJSON(&buf, e.key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
		}
		if err := writeJSON(&buf, e.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(closing)
	return buf.Bytes(), nil
}

// writeJSON encodes v without HTML escaping so previews stay readable.
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // drop Encode's trailing newline
	return nil
}

func encode(s sample) string {
	var buf bytes.Buffer
	if err := writeJSON(&buf, s); err != nil {
		return Unprintable
	}
	return buf.String()
}
