package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/arthur-debert/fieldcopy/types"
)

// Resolver looks up a field definition by reference, as types.Catalog.Resolve does
type Resolver func(ref string) (types.Field, bool)

// ValidateCatalog checks groups for structural consistency. Duplicate group
// keys and duplicate field keys within a group are errors. Reference targets
// that do not resolve are returned as warnings, since the walker drops them.
func ValidateCatalog(groups []types.FieldGroup, resolve Resolver) ([]string, error) {
	var errs []error
	var warnings []string

	seenGroups := make(map[string]bool)
	for _, g := range groups {
		if g.Key == "" {
			warnings = append(warnings, fmt.Sprintf("group %q has no key and can only be selected with 'all'", g.Title))
		} else if seenGroups[g.Key] {
			errs = append(errs, fmt.Errorf("duplicate group key: %s", g.Key))
		}
		seenGroups[g.Key] = true

		c := &checker{group: g.Key, seen: make(map[string]bool), resolve: resolve}
		for _, f := range g.Fields {
			c.field(f)
		}
		errs = append(errs, c.errs...)
		warnings = append(warnings, c.warnings...)
	}

	return warnings, errors.Join(errs...)
}

// checker walks the definitions of one group
type checker struct {
	group    string
	seen     map[string]bool
	resolve  Resolver
	errs     []error
	warnings []string
}

func (c *checker) field(f types.Field) {
	if f == nil {
		c.errs = append(c.errs, fmt.Errorf("group %s: nil field definition", c.group))
		return
	}
	meta := f.Meta()
	if meta.Key != "" {
		if c.seen[meta.Key] {
			c.errs = append(c.errs, fmt.Errorf("group %s: duplicate field key: %s", c.group, meta.Key))
		}
		c.seen[meta.Key] = true
	}

	switch v := f.(type) {
	case *types.GroupField, *types.RepeaterField:
		for _, sub := range types.Children(v) {
			c.field(sub)
		}
	case *types.FlexibleField:
		layoutNames := make(map[string]bool)
		for _, layout := range v.Layouts {
			if layout.Name != "" && layoutNames[layout.Name] {
				c.errs = append(c.errs, fmt.Errorf("group %s: field %s: duplicate layout name: %s", c.group, meta.Name, layout.Name))
			}
			layoutNames[layout.Name] = true
			for _, sub := range layout.SubFields {
				c.field(sub)
			}
		}
	case *types.ReferenceField:
		if len(v.Targets) == 0 {
			c.warnings = append(c.warnings, fmt.Sprintf("group %s: reference field %s has no targets", c.group, meta.Name))
		}
		for _, ref := range v.Targets {
			if c.resolve == nil {
				continue
			}
			if _, ok := c.resolve(ref); !ok {
				c.warnings = append(c.warnings, fmt.Sprintf("group %s: reference field %s: target %q not found", c.group, meta.Name, ref))
			}
		}
	}
}

// ValidateLocator checks that a locator is usable as a record selector
func ValidateLocator(loc types.Locator) error {
	s := string(loc)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("locator cannot be empty")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("locator %q contains whitespace or control characters", s)
		}
	}
	return nil
}

// ValidateStorable ensures a field value can be persisted as JSON: nil,
// strings, numbers, bools, and slices or string-keyed maps of those.
func ValidateStorable(value interface{}, key string) error {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := ValidateStorable(v.Index(i).Interface(), key); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("field '%s' map keys must be strings, got %T", key, value)
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := ValidateStorable(iter.Value().Interface(), key); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return ValidateStorable(v.Elem().Interface(), key)
	case reflect.Struct:
		// Structs serialize through their exported fields
		return nil
	default:
		return fmt.Errorf("field '%s' cannot store a value of type %T", key, value)
	}
}
