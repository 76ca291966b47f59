package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		rawType string
		want    Kind
	}{
		{"text", KindScalar},
		{"image", KindScalar},
		{"", KindScalar},
		{"group", KindGroup},
		{"repeater", KindRepeater},
		{"flexible_content", KindFlexibleContent},
		{"clone", KindReference},
		{"reference", KindReference},
	}
	for _, tt := range tests {
		t.Run(tt.rawType, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.rawType))
		})
	}
}

func TestNewField(t *testing.T) {
	sub := &ScalarField{FieldMeta: FieldMeta{Key: "field_sub", Type: "text"}}
	layout := Layout{Key: "layout_a", Name: "a"}

	t.Run("group keeps sub fields", func(t *testing.T) {
		f := NewField(FieldMeta{Key: "field_g", Type: "group"}, []Field{sub}, []Layout{layout}, []string{"x"})
		g, ok := f.(*GroupField)
		require.True(t, ok)
		assert.Equal(t, []Field{sub}, g.SubFields)
		assert.Equal(t, KindGroup, f.Kind())
	})

	t.Run("flexible keeps layouts", func(t *testing.T) {
		f := NewField(FieldMeta{Key: "field_f", Type: "flexible_content"}, []Field{sub}, []Layout{layout}, nil)
		fl, ok := f.(*FlexibleField)
		require.True(t, ok)
		assert.Equal(t, []Layout{layout}, fl.Layouts)
		assert.Nil(t, Children(f))
	})

	t.Run("clone keeps targets", func(t *testing.T) {
		f := NewField(FieldMeta{Key: "field_c", Type: "clone"}, nil, nil, []string{"field_a", "b"})
		ref, ok := f.(*ReferenceField)
		require.True(t, ok)
		assert.Equal(t, []string{"field_a", "b"}, ref.Targets)
	})

	t.Run("unknown type is a scalar that keeps its raw type", func(t *testing.T) {
		f := NewField(FieldMeta{Key: "field_w", Type: "vendor_widget"}, []Field{sub}, nil, nil)
		assert.Equal(t, KindScalar, f.Kind())
		assert.Equal(t, "vendor_widget", f.Meta().Type)
		assert.Nil(t, Children(f))
	})
}

func TestChildren(t *testing.T) {
	sub := &ScalarField{FieldMeta: FieldMeta{Key: "field_sub"}}
	assert.Equal(t, []Field{sub}, Children(&GroupField{SubFields: []Field{sub}}))
	assert.Equal(t, []Field{sub}, Children(&RepeaterField{SubFields: []Field{sub}}))
	assert.Nil(t, Children(&ReferenceField{Targets: []string{"field_sub"}}))
}

func TestLocator(t *testing.T) {
	assert.True(t, OptionScope.IsOption())
	assert.False(t, Locator("42").IsOption())
	assert.Equal(t, "42", Locator("42").String())
}
