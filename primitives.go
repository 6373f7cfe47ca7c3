package goshape

import "reflect"

// primitiveValue is the capability of a pointer to a built-in scalar or
// string. Primitives are reflectable but never constructible or decomposable.
type primitiveValue struct {
	t *Type
}

func (p primitiveValue) Schema() *Type { return p.t }

func (p primitiveValue) ConstructProduct(_ []any) (any, error) {
	return nil, &ConstructError{Code: CodePrimitive, Type: p.t.Name}
}

func (p primitiveValue) ConstructVariant(variant string, _ []any) (any, error) {
	return nil, &ConstructError{Code: CodePrimitive, Type: p.t.Name, Variant: variant}
}

func (p primitiveValue) Field(id FieldID) (Handle, error) {
	return Handle{}, &FieldAccessError{Code: CodeUnit, Type: p.t.Name, Field: id, Path: Path(id)}
}

func (p primitiveValue) FieldMut(id FieldID) (MutHandle, error) {
	return MutHandle{}, &FieldAccessError{Code: CodeUnit, Type: p.t.Name, Field: id, Path: Path(id)}
}

// registerPrimitive interns the schema of T under its Go name. Values are
// bound through *T so that Of(&x) works.
func registerPrimitive[T any]() {
	rt := reflect.TypeFor[T]()
	t := &Type{Name: rt.String(), Data: Data{Kind: KindPrimitive}}
	reg.add(rt, t, reflect.TypeFor[*T](), func(any) Reflectable { return primitiveValue{t: t} }, nil)
}

// Primitive returns the capability of the built-in type T. It panics when T
// is not one of the registered primitives.
func Primitive[T any]() Reflectable {
	t := TypeOf[T]()
	if t.Data.Kind != KindPrimitive {
		panic("goshape: " + t.Name + " is not a primitive")
	}
	return primitiveValue{t: t}
}

func init() {
	registerPrimitive[bool]()
	registerPrimitive[string]()

	registerPrimitive[int]()
	registerPrimitive[int8]()
	registerPrimitive[int16]()
	registerPrimitive[int32]()
	registerPrimitive[int64]()

	registerPrimitive[uint]()
	registerPrimitive[uint8]()
	registerPrimitive[uint16]()
	registerPrimitive[uint32]()
	registerPrimitive[uint64]()
	registerPrimitive[uintptr]()

	registerPrimitive[float32]()
	registerPrimitive[float64]()
	registerPrimitive[complex64]()
	registerPrimitive[complex128]()
}
