package goshape

import (
	"fmt"
	"reflect"
)

// Reflectable is the capability every registered type exposes, whether the
// methods are generated or come from Of.
type Reflectable interface {
	// Schema returns the type's interned schema. Repeated calls return the same pointer.
	Schema() *Type

	// ConstructProduct builds a new value of a product or unit type from
	// arguments given in field declaration order. Each argument must have exactly
	// the field's Go type. The result is a pointer to the new value.
	ConstructProduct(args []any) (any, error)

	// ConstructVariant builds a union value holding the named variant, consuming
	// args in the variant's field declaration order.
	ConstructVariant(variant string, args []any) (any, error)

	// Field borrows a field immutably. For unions only the active variant's
	// fields are visible.
	Field(id FieldID) (Handle, error)

	// FieldMut borrows a field mutably.
	FieldMut(id FieldID) (MutHandle, error)
}

// Of returns the capability of v. v may implement Reflectable itself, or be a
// pointer to a registered product or primitive, or a union value whose
// variant is registered.
func Of(v any) (Reflectable, error) {
	if r, ok := v.(Reflectable); ok {
		return r, nil
	}
	rt := reflect.TypeOf(v)
	if rt == nil {
		return nil, ErrNotRegistered
	}
	if b, ok := reg.binder(rt); ok {
		reg.settle()
		return b(v), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRegistered, rt)
}

// WithField borrows a field for the duration of fn.
func WithField(r Reflectable, id FieldID, fn func(Handle)) error {
	h, err := r.Field(id)
	if err != nil {
		return err
	}
	defer h.Release()
	fn(h)
	return nil
}

// WithFieldMut borrows a field mutably for the duration of fn.
func WithFieldMut(r Reflectable, id FieldID, fn func(MutHandle)) error {
	h, err := r.FieldMut(id)
	if err != nil {
		return err
	}
	defer h.Release()
	fn(h)
	return nil
}

// findField resolves id against a field list, returning its position or the
// access error for t (and the active variant, if any).
func findField(t *Type, variant string, fs Fields, id FieldID) (int, error) {
	if fs.Kind == FieldsUnit {
		return -1, &FieldAccessError{Code: CodeUnit, Type: t.Name, Variant: variant, Field: id, Path: Path(id)}
	}
	i, ok := fs.Find(id)
	if !ok {
		return -1, &FieldAccessError{Code: CodeNotFound, Type: t.Name, Variant: variant, Field: id, Path: Path(id)}
	}
	return i, nil
}

// assignFields consumes args strictly in declaration order.
func assignFields[T any](t *Type, variant string, fields []FieldOf[T], v *T, args []any) error {
	for i, f := range fields {
		if i >= len(args) {
			return &ConstructError{Code: CodeNotEnoughArgs, Type: t.Name, Variant: variant, Index: i}
		}
		if !f.assign(v, args[i]) {
			return &ConstructError{Code: CodeUnexpectedType, Type: t.Name, Variant: variant, Index: i, Expected: f.typ.String()}
		}
	}
	if len(args) > len(fields) {
		return &ConstructError{Code: CodeTooManyArgs, Type: t.Name, Variant: variant, Index: len(fields)}
	}
	return nil
}
