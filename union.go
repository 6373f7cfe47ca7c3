package goshape

import (
	"fmt"
	"reflect"
)

// caseOps is the variant-typed half of a union case; U is the union
// interface and the concrete variant type is hidden behind it.
type caseOps[U any] interface {
	name() string
	goType() reflect.Type // *V
	kind() FieldsKind
	resolve(owner string) Fields
	field(u U, i int) (any, reflect.Type)
	construct(t *Type, args []any) (any, error)
}

// CaseOf is one variant of a union U.
type CaseOf[U any] struct {
	ops caseOps[U]
}

type caseImpl[U, V any] struct {
	variant string
	fields  []FieldOf[V]
	fkind   FieldsKind
}

// Case declares the variant name of union U, stored as a *V inside U.
// Fields follow the same rules as Product.
func Case[U, V any](name string, fields ...FieldOf[V]) CaseOf[U] {
	ut, vt := reflect.TypeFor[U](), reflect.TypeFor[*V]()
	if !vt.Implements(ut) {
		panic(fmt.Sprintf("goshape: variant %s: %s does not implement %s", name, vt, ut))
	}
	norm, kind := normalizeFields(name, fields)
	return CaseOf[U]{ops: &caseImpl[U, V]{variant: name, fields: norm, fkind: kind}}
}

func (c *caseImpl[U, V]) name() string         { return c.variant }
func (c *caseImpl[U, V]) goType() reflect.Type { return reflect.TypeFor[*V]() }
func (c *caseImpl[U, V]) kind() FieldsKind     { return c.fkind }

func (c *caseImpl[U, V]) resolve(owner string) Fields {
	return resolveFields(owner+"."+c.variant, c.fkind, c.fields)
}

func (c *caseImpl[U, V]) field(u U, i int) (any, reflect.Type) {
	v := any(u).(*V)
	f := c.fields[i]
	return f.ptr(v), f.typ
}

func (c *caseImpl[U, V]) construct(t *Type, args []any) (any, error) {
	v := new(V)
	if err := assignFields(t, c.variant, c.fields, v, args); err != nil {
		return nil, err
	}
	return any(v).(U), nil
}

// UnionDesc is the registration of a tagged union. U is an interface type; a
// live union value is a U holding a *V of one registered variant, which is
// the active variant. The variant changes only by replacing the U value.
type UnionDesc[U any] struct {
	typ    *Type
	cases  []caseOps[U]
	active map[reflect.Type]int // *V -> case position
}

// Union registers U as a tagged union. Case order is declaration order and
// defines each variant's discriminator.
func Union[U any](name string, cases ...CaseOf[U]) *UnionDesc[U] {
	ut := reflect.TypeFor[U]()
	if ut.Kind() != reflect.Interface {
		panic(fmt.Sprintf("goshape: union %s: %s is not an interface type", name, ut))
	}
	d := &UnionDesc[U]{typ: &Type{Name: name}, active: map[reflect.Type]int{}}
	for i, c := range cases {
		for _, prev := range d.cases {
			if prev.name() == c.ops.name() {
				panic(fmt.Sprintf("goshape: union %s declares variant %s twice", name, prev.name()))
			}
		}
		if _, dup := d.active[c.ops.goType()]; dup {
			panic(fmt.Sprintf("goshape: union %s uses %s for more than one variant", name, c.ops.goType()))
		}
		d.cases = append(d.cases, c.ops)
		d.active[c.ops.goType()] = i
	}
	reg.add(ut, d.typ, nil, nil, func() {
		vs := make([]Variant, len(d.cases))
		for i, c := range d.cases {
			vs[i] = Variant{Name: c.name(), Fields: c.resolve(name), Discriminator: i}
		}
		d.typ.Data = Data{Kind: KindUnion, Variants: vs}
	})
	for _, c := range d.cases {
		reg.add(nil, nil, c.goType(), func(v any) Reflectable { return d.Bind(v.(U)) }, nil)
	}
	return d
}

// Type returns the interned schema.
func (d *UnionDesc[U]) Type() *Type {
	reg.settle()
	return d.typ
}

// Bind returns the capability of u.
func (d *UnionDesc[U]) Bind(u U) Reflectable { return unionValue[U]{d: d, u: u} }

// Active returns the variant u currently holds.
func (d *UnionDesc[U]) Active(u U) (Variant, bool) {
	i, ok := d.active[reflect.TypeOf(u)]
	if !ok {
		return Variant{}, false
	}
	return d.Type().Data.Variants[i], true
}

// ConstructProduct always fails: U is a union.
func (d *UnionDesc[U]) ConstructProduct(_ []any) (any, error) {
	return nil, &ConstructError{Code: CodeNotStruct, Type: d.Type().Name}
}

// ConstructVariant builds a U holding the named variant. The name must match
// a declared variant exactly.
func (d *UnionDesc[U]) ConstructVariant(variant string, args []any) (any, error) {
	t := d.Type()
	for _, c := range d.cases {
		if c.name() == variant {
			return c.construct(t, args)
		}
	}
	return nil, &ConstructError{Code: CodeInvalidVariant, Type: t.Name, Variant: variant}
}

// lookup finds id among the active variant's fields. Identifiers of other
// variants are reported as not found.
func (d *UnionDesc[U]) lookup(u U, id FieldID) (caseOps[U], int, *Type, error) {
	t := d.Type()
	ci, ok := d.active[reflect.TypeOf(u)]
	if !ok || reflect.ValueOf(u).IsNil() {
		return nil, -1, nil, &FieldAccessError{Code: CodeNotFound, Type: t.Name, Field: id, Path: Path(id)}
	}
	v := t.Data.Variants[ci]
	i, err := findField(t, v.Name, v.Fields, id)
	if err != nil {
		return nil, -1, nil, err
	}
	return d.cases[ci], i, v.Fields.List[i].Type, nil
}

// Field borrows a field of u's active variant.
func (d *UnionDesc[U]) Field(u U, id FieldID) (Handle, error) {
	c, i, schema, err := d.lookup(u, id)
	if err != nil {
		return Handle{}, err
	}
	ptr, typ := c.field(u, i)
	return newHandle(ptr, typ, schema), nil
}

// FieldMut borrows a field of u's active variant mutably.
func (d *UnionDesc[U]) FieldMut(u U, id FieldID) (MutHandle, error) {
	c, i, schema, err := d.lookup(u, id)
	if err != nil {
		return MutHandle{}, err
	}
	ptr, typ := c.field(u, i)
	return newMutHandle(ptr, typ, schema), nil
}

type unionValue[U any] struct {
	d *UnionDesc[U]
	u U
}

func (p unionValue[U]) Schema() *Type                            { return p.d.Type() }
func (p unionValue[U]) ConstructProduct(args []any) (any, error) { return p.d.ConstructProduct(args) }
func (p unionValue[U]) ConstructVariant(variant string, args []any) (any, error) {
	return p.d.ConstructVariant(variant, args)
}
func (p unionValue[U]) Field(id FieldID) (Handle, error)       { return p.d.Field(p.u, id) }
func (p unionValue[U]) FieldMut(id FieldID) (MutHandle, error) { return p.d.FieldMut(p.u, id) }
