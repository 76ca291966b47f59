// Package testutil holds fixtures shared by package tests: field definition
// builders, a sample catalog on disk and seeded record stores.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/fieldcopy/fieldcopy/catalog"
	"github.com/arthur-debert/fieldcopy/fieldcopy/store"
	"github.com/arthur-debert/fieldcopy/types"
)

// TargetID is the record id seeded into stores built by SeedStore
const TargetID types.Locator = "42"

// Scalar builds a text field
func Scalar(key, name string) types.Field {
	return &types.ScalarField{FieldMeta: meta(key, name, "text")}
}

// Typed builds a scalar field with an explicit raw type such as "image"
func Typed(key, name, rawType string) types.Field {
	return types.NewField(meta(key, name, rawType), nil, nil, nil)
}

// Group builds a group field
func Group(key, name string, subs ...types.Field) types.Field {
	return &types.GroupField{FieldMeta: meta(key, name, "group"), SubFields: subs}
}

// Repeater builds a repeater field
func Repeater(key, name string, subs ...types.Field) types.Field {
	return &types.RepeaterField{FieldMeta: meta(key, name, "repeater"), SubFields: subs}
}

// Flexible builds a flexible content field
func Flexible(key, name string, layouts ...types.Layout) types.Field {
	return &types.FlexibleField{FieldMeta: meta(key, name, "flexible_content"), Layouts: layouts}
}

// LayoutOf builds a flexible content layout
func LayoutOf(key, name string, subs ...types.Field) types.Layout {
	return types.Layout{Key: key, Name: name, Label: name, SubFields: subs}
}

// Clone builds a reference field
func Clone(key, name string, targets ...string) types.Field {
	return &types.ReferenceField{FieldMeta: meta(key, name, "clone"), Targets: targets}
}

func meta(key, name, rawType string) types.FieldMeta {
	return types.FieldMeta{Key: key, Name: name, Label: name, Type: rawType}
}

// SeedStore returns a memory store holding options in the option scope and
// an empty record TargetID
func SeedStore(t *testing.T, options map[string]interface{}) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	for k, v := range options {
		m.SetOption(k, v)
	}
	m.AddRecord(string(TargetID), "Target")
	return m
}

// CatalogDir returns the directory of the sample catalog files
func CatalogDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", "catalog")
}

// LoadSampleCatalog loads the sample catalog from disk
func LoadSampleCatalog(t *testing.T) *catalog.Loaded {
	t.Helper()
	loaded, err := catalog.Load(context.Background(), CatalogDir())
	if err != nil {
		t.Fatalf("failed to load sample catalog: %v", err)
	}
	return loaded
}

// SampleOptions are option values matching the sample catalog
func SampleOptions() map[string]interface{} {
	return map[string]interface{}{
		"field_site_title":   "Example Site",
		"field_site_tagline": "",
		"field_hero":         map[string]interface{}{"heading": "Welcome", "image": float64(12)},
		"field_hero_heading": "Welcome",
		"field_hero_image":   float64(12),
		"field_blocks":       []interface{}{map[string]interface{}{"acf_fc_layout": "banner"}},
		"field_banner_text":  "Spring sale",
		"field_footer_note":  "© Example",
		"field_show_badge":   false,
		"field_visits":       float64(0),
	}
}
