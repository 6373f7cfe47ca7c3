package goshape

import (
	"strconv"
	"strings"
)

// FieldID identifies a field either by name or by position.
// Equality is exact: Name("0") never equals Index(0).
type FieldID struct {
	name  string
	index int
	named bool
}

// Name returns a FieldID for a named field.
func Name(name string) FieldID { return FieldID{name: name, named: true} }

// Index returns a FieldID for a positional field.
func Index(i int) FieldID { return FieldID{index: i} }

// IsNamed reports whether the identifier is a name.
func (id FieldID) IsNamed() bool { return id.named }

// Name returns the field name when the identifier is named.
func (id FieldID) Name() (string, bool) { return id.name, id.named }

// Index returns the position when the identifier is positional.
func (id FieldID) Index() (int, bool) { return id.index, !id.named }

func (id FieldID) String() string {
	if id.named {
		return id.name
	}
	return strconv.Itoa(id.index)
}

// FieldsKind tells how the fields of a product or variant are addressed.
type FieldsKind int

const (
	FieldsUnit    FieldsKind = iota // No fields.
	FieldsNamed                     // Fields are addressed by name.
	FieldsIndexed                   // Fields are addressed by position.
)

func (k FieldsKind) String() string {
	switch k {
	case FieldsNamed:
		return "named"
	case FieldsIndexed:
		return "indexed"
	default:
		return "unit"
	}
}

// Field is a single field of a product or a variant.
// Type points at the interned schema of the field's type.
type Field struct {
	ID   FieldID
	Type *Type
}

// Fields is the ordered field list of a product or variant, in declaration order.
// Identifiers in one list are all names or all indexes (index == position).
type Fields struct {
	Kind FieldsKind
	List []Field
}

// Len returns the number of fields.
func (f Fields) Len() int { return len(f.List) }

// Find returns the position of the field with the given identifier.
func (f Fields) Find(id FieldID) (int, bool) {
	for i := range f.List {
		if f.List[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Variant is one alternative of a tagged union.
// Discriminator is the zero-based declaration order; it is informational.
type Variant struct {
	Name          string
	Fields        Fields
	Discriminator int
}

// DataKind classifies the data a type holds.
type DataKind int

const (
	KindPrimitive DataKind = iota // Built-in scalar or string; not constructible.
	KindProduct                   // Struct-like, with named or indexed fields.
	KindUnion                     // Tagged union of variants.
	KindUnit                      // User-defined fieldless type; constructible.
)

func (k DataKind) String() string {
	switch k {
	case KindProduct:
		return "product"
	case KindUnion:
		return "union"
	case KindUnit:
		return "unit"
	default:
		return "primitive"
	}
}

// Data describes the shape of a type. Fields is used by products,
// Variants by unions; both are empty for primitives and units.
type Data struct {
	Kind     DataKind
	Fields   Fields
	Variants []Variant
}

// Type is the schema of a reflectable type. Schemas are created once at
// registration and shared by pointer for the rest of the program; they must
// be treated as read-only.
type Type struct {
	// Name is the type name as declared.
	Name string
	Data Data
}

// Field returns the field of a product with the given identifier.
func (t *Type) Field(id FieldID) (Field, bool) {
	if t == nil || t.Data.Kind != KindProduct {
		return Field{}, false
	}
	i, ok := t.Data.Fields.Find(id)
	if !ok {
		return Field{}, false
	}
	return t.Data.Fields.List[i], true
}

// Variant returns the union variant with the given name.
func (t *Type) Variant(name string) (Variant, bool) {
	if t == nil || t.Data.Kind != KindUnion {
		return Variant{}, false
	}
	for _, v := range t.Data.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// String renders a one-line summary such as "Pair{a int32, b int32}".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	b := &strings.Builder{}
	b.WriteString(t.Name)
	switch t.Data.Kind {
	case KindProduct:
		writeFields(b, t.Data.Fields)
	case KindUnion:
		b.WriteString(" = ")
		for i, v := range t.Data.Variants {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(v.Name)
			writeFields(b, v.Fields)
		}
	}
	return b.String()
}

func writeFields(b *strings.Builder, f Fields) {
	if f.Kind == FieldsUnit {
		return
	}
	lb, rb := "{", "}"
	if f.Kind == FieldsIndexed {
		lb, rb = "(", ")"
	}
	b.WriteString(lb)
	for i, fd := range f.List {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Kind == FieldsNamed {
			b.WriteString(fd.ID.String())
			b.WriteByte(' ')
		}
		if fd.Type != nil {
			b.WriteString(fd.Type.Name)
		}
	}
	b.WriteString(rb)
}

// Equal reports whether two schemas describe the same shape.
// Field types are compared structurally; cycles terminate because a pair
// already under comparison is assumed equal.
func (t *Type) Equal(o *Type) bool {
	return typeEqual(t, o, map[[2]*Type]struct{}{})
}

func typeEqual(a, b *Type, seen map[[2]*Type]struct{}) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	key := [2]*Type{a, b}
	if _, ok := seen[key]; ok {
		return true
	}
	seen[key] = struct{}{}
	if a.Name != b.Name || a.Data.Kind != b.Data.Kind {
		return false
	}
	switch a.Data.Kind {
	case KindProduct:
		return fieldsEqual(a.Data.Fields, b.Data.Fields, seen)
	case KindUnion:
		if len(a.Data.Variants) != len(b.Data.Variants) {
			return false
		}
		for i := range a.Data.Variants {
			va, vb := a.Data.Variants[i], b.Data.Variants[i]
			if va.Name != vb.Name || va.Discriminator != vb.Discriminator {
				return false
			}
			if !fieldsEqual(va.Fields, vb.Fields, seen) {
				return false
			}
		}
	}
	return true
}

func fieldsEqual(a, b Fields, seen map[[2]*Type]struct{}) bool {
	if a.Kind != b.Kind || len(a.List) != len(b.List) {
		return false
	}
	for i := range a.List {
		if a.List[i].ID != b.List[i].ID {
			return false
		}
		if !typeEqual(a.List[i].Type, b.List[i].Type, seen) {
			return false
		}
	}
	return true
}
