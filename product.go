package goshape

import (
	"fmt"
	"reflect"
)

// FieldOf describes one field of T: its identifier, its Go type, and how to
// reach its storage inside a *T.
type FieldOf[T any] struct {
	id         FieldID
	positional bool
	typ        reflect.Type
	ptr        func(*T) any
	assign     func(*T, any) bool
}

func fieldOf[T, F any](id FieldID, positional bool, get func(*T) *F) FieldOf[T] {
	return FieldOf[T]{
		id:         id,
		positional: positional,
		typ:        reflect.TypeFor[F](),
		ptr:        func(v *T) any { return get(v) },
		assign: func(v *T, arg any) bool {
			f, ok := arg.(F)
			if !ok {
				return false
			}
			*get(v) = f
			return true
		},
	}
}

// Named declares a field addressed by name. get must return a pointer into
// the given value.
func Named[T, F any](name string, get func(*T) *F) FieldOf[T] {
	return fieldOf(Name(name), false, get)
}

// Positional declares a field addressed by its position in the declaration.
func Positional[T, F any](get func(*T) *F) FieldOf[T] {
	return fieldOf[T](FieldID{}, true, get)
}

// normalizeFields assigns indexes to positional fields and checks that a
// list does not mix names and positions or repeat a name.
func normalizeFields[T any](owner string, fields []FieldOf[T]) ([]FieldOf[T], FieldsKind) {
	if len(fields) == 0 {
		return nil, FieldsUnit
	}
	out := make([]FieldOf[T], len(fields))
	copy(out, fields)
	kind := FieldsNamed
	if out[0].positional {
		kind = FieldsIndexed
	}
	seen := map[FieldID]struct{}{}
	for i := range out {
		if out[i].positional != (kind == FieldsIndexed) {
			panic(fmt.Sprintf("goshape: %s mixes named and positional fields", owner))
		}
		if out[i].positional {
			out[i].id = Index(i)
		}
		if _, dup := seen[out[i].id]; dup {
			panic(fmt.Sprintf("goshape: %s declares field %q twice", owner, out[i].id))
		}
		seen[out[i].id] = struct{}{}
	}
	return out, kind
}

// resolveFields builds the schema field list. The caller holds reg.mu.
func resolveFields[T any](owner string, kind FieldsKind, fields []FieldOf[T]) Fields {
	fs := Fields{Kind: kind}
	for _, f := range fields {
		fs.List = append(fs.List, Field{ID: f.id, Type: reg.mustSchemaLocked(owner, f.typ)})
	}
	return fs
}

// ProductDesc is the registration of a product or unit type T. Generated
// methods on *T delegate to it.
type ProductDesc[T any] struct {
	typ    *Type
	fields []FieldOf[T]
	sealed bool
}

// Product registers T as a product type with the given fields in declaration
// order. A product without fields has a unit-shaped field list.
// Registering the same Go type twice panics.
func Product[T any](name string, fields ...FieldOf[T]) *ProductDesc[T] {
	norm, kind := normalizeFields(name, fields)
	d := &ProductDesc[T]{typ: &Type{Name: name}, fields: norm}
	reg.add(reflect.TypeFor[T](), d.typ, reflect.TypeFor[*T](),
		func(v any) Reflectable { return d.Bind(v.(*T)) },
		func() {
			d.typ.Data = Data{Kind: KindProduct, Fields: resolveFields(name, kind, norm)}
		})
	return d
}

// UnitType registers T as a user-defined fieldless type.
func UnitType[T any](name string) *ProductDesc[T] {
	d := &ProductDesc[T]{typ: &Type{Name: name, Data: Data{Kind: KindUnit}}}
	reg.add(reflect.TypeFor[T](), d.typ, reflect.TypeFor[*T](),
		func(v any) Reflectable { return d.Bind(v.(*T)) }, nil)
	return d
}

// Sealed marks T as not constructible from outside: ConstructProduct fails
// with CodePrivateFields. Field access is unaffected.
func (d *ProductDesc[T]) Sealed() *ProductDesc[T] {
	d.sealed = true
	return d
}

// Type returns the interned schema.
func (d *ProductDesc[T]) Type() *Type {
	reg.settle()
	return d.typ
}

// Bind returns the capability of v.
func (d *ProductDesc[T]) Bind(v *T) Reflectable { return productValue[T]{d: d, v: v} }

// ConstructProduct returns a new *T built from args.
func (d *ProductDesc[T]) ConstructProduct(args []any) (any, error) {
	t := d.Type()
	if d.sealed {
		return nil, &ConstructError{Code: CodePrivateFields, Type: t.Name}
	}
	v := new(T)
	if err := assignFields(t, "", d.fields, v, args); err != nil {
		return nil, err
	}
	return v, nil
}

// ConstructVariant always fails: T is not a union.
func (d *ProductDesc[T]) ConstructVariant(variant string, _ []any) (any, error) {
	return nil, &ConstructError{Code: CodeNotEnum, Type: d.Type().Name, Variant: variant}
}

// Field borrows the field id of v. A nil v has no fields.
func (d *ProductDesc[T]) Field(v *T, id FieldID) (Handle, error) {
	t := d.Type()
	if v == nil {
		return Handle{}, &FieldAccessError{Code: CodeNotFound, Type: t.Name, Field: id, Path: Path(id)}
	}
	i, err := findField(t, "", t.Data.Fields, id)
	if err != nil {
		return Handle{}, err
	}
	f := d.fields[i]
	return newHandle(f.ptr(v), f.typ, t.Data.Fields.List[i].Type), nil
}

// FieldMut borrows the field id of v mutably.
func (d *ProductDesc[T]) FieldMut(v *T, id FieldID) (MutHandle, error) {
	t := d.Type()
	if v == nil {
		return MutHandle{}, &FieldAccessError{Code: CodeNotFound, Type: t.Name, Field: id, Path: Path(id)}
	}
	i, err := findField(t, "", t.Data.Fields, id)
	if err != nil {
		return MutHandle{}, err
	}
	f := d.fields[i]
	return newMutHandle(f.ptr(v), f.typ, t.Data.Fields.List[i].Type), nil
}

type productValue[T any] struct {
	d *ProductDesc[T]
	v *T
}

func (p productValue[T]) Schema() *Type                            { return p.d.Type() }
func (p productValue[T]) ConstructProduct(args []any) (any, error) { return p.d.ConstructProduct(args) }
func (p productValue[T]) ConstructVariant(variant string, args []any) (any, error) {
	return p.d.ConstructVariant(variant, args)
}
func (p productValue[T]) Field(id FieldID) (Handle, error)       { return p.d.Field(p.v, id) }
func (p productValue[T]) FieldMut(id FieldID) (MutHandle, error) { return p.d.FieldMut(p.v, id) }
