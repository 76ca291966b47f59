package types

// Kind is the structural shape of a field definition. It decides how the
// walker recurses; the raw catalog type is kept separately in FieldMeta.Type.
type Kind string

const (
	KindScalar          Kind = "scalar"
	KindGroup           Kind = "group"
	KindRepeater        Kind = "repeater"
	KindFlexibleContent Kind = "flexible_content"
	KindReference       Kind = "reference"
)

// KindOf maps a raw catalog type onto its structural kind.
// Unknown types are scalars.
func KindOf(rawType string) Kind {
	switch rawType {
	case "group":
		return KindGroup
	case "repeater":
		return KindRepeater
	case "flexible_content":
		return KindFlexibleContent
	case "clone", "reference":
		return KindReference
	default:
		return KindScalar
	}
}

// FieldMeta holds the attributes shared by every field definition.
type FieldMeta struct {
	Key   string // Stable identifier; empty means the field is unaddressable
	Name  string // Short programmatic name, used for report paths
	Label string // Human readable label
	Type  string // Raw catalog type such as "text", "image" or "group"
}

// Field is a node of the static field schema. The set of implementations is
// closed: ScalarField, GroupField, RepeaterField, FlexibleField and
// ReferenceField.
type Field interface {
	Meta() FieldMeta
	Kind() Kind
	isField()
}

// ScalarField is a leaf definition, or any type the walker does not recurse into.
type ScalarField struct {
	FieldMeta
}

// GroupField nests an ordered list of sub fields.
type GroupField struct {
	FieldMeta
	SubFields []Field
}

// RepeaterField nests an ordered list of sub fields repeated per row.
// Only the definitions are walked, never the individual rows.
type RepeaterField struct {
	FieldMeta
	SubFields []Field
}

// FlexibleField offers a choice of layouts, each with its own sub fields.
type FlexibleField struct {
	FieldMeta
	Layouts []Layout
}

// ReferenceField clones other field definitions, named by key or by name.
type ReferenceField struct {
	FieldMeta
	Targets []string
}

// Layout is one named variant of a FlexibleField.
type Layout struct {
	Key       string
	Name      string
	Label     string
	SubFields []Field
}

func (f *ScalarField) Meta() FieldMeta    { return f.FieldMeta }
func (f *GroupField) Meta() FieldMeta     { return f.FieldMeta }
func (f *RepeaterField) Meta() FieldMeta  { return f.FieldMeta }
func (f *FlexibleField) Meta() FieldMeta  { return f.FieldMeta }
func (f *ReferenceField) Meta() FieldMeta { return f.FieldMeta }

func (f *ScalarField) Kind() Kind    { return KindScalar }
func (f *GroupField) Kind() Kind     { return KindGroup }
func (f *RepeaterField) Kind() Kind  { return KindRepeater }
func (f *FlexibleField) Kind() Kind  { return KindFlexibleContent }
func (f *ReferenceField) Kind() Kind { return KindReference }

func (*ScalarField) isField()    {}
func (*GroupField) isField()     {}
func (*RepeaterField) isField()  {}
func (*FlexibleField) isField()  {}
func (*ReferenceField) isField() {}

// NewField builds the variant matching meta.Type. Children that do not apply
// to the resulting kind are ignored.
func NewField(meta FieldMeta, subFields []Field, layouts []Layout, targets []string) Field {
	switch KindOf(meta.Type) {
	case KindGroup:
		return &GroupField{FieldMeta: meta, SubFields: subFields}
	case KindRepeater:
		return &RepeaterField{FieldMeta: meta, SubFields: subFields}
	case KindFlexibleContent:
		return &FlexibleField{FieldMeta: meta, Layouts: layouts}
	case KindReference:
		return &ReferenceField{FieldMeta: meta, Targets: targets}
	default:
		return &ScalarField{FieldMeta: meta}
	}
}

// Children returns the direct sub fields of a group or repeater, nil otherwise.
func Children(f Field) []Field {
	switch v := f.(type) {
	case *GroupField:
		return v.SubFields
	case *RepeaterField:
		return v.SubFields
	default:
		return nil
	}
}

// FieldGroup is a top level collection of field definitions.
type FieldGroup struct {
	Key      string
	Title    string
	Location any // Opaque passthrough metadata
	Fields   []Field
}
