package goshape

import "reflect"

// borrow is shared by every copy of a handle. Once released, no copy can be
// downcast again.
type borrow struct{ released bool }

// Handle is a read-only, type-erased view of a field. It pairs a pointer to
// the owner's storage with the field's runtime type and is redeemed by naming
// that exact type through Downcast.
//
// A Handle carries no ownership. It is valid only while the owner value is
// alive and not being mutated through another path; it must not be retained
// past the call that produced it. The scoped helpers (View, WithField) end the
// borrow when their callback returns.
type Handle struct {
	ptr    any // *F aliasing the owner's storage
	typ    reflect.Type
	schema *Type
	b      *borrow
}

func newHandle(ptr any, typ reflect.Type, schema *Type) Handle {
	return Handle{ptr: ptr, typ: typ, schema: schema, b: &borrow{}}
}

// Type returns the Go type of the field.
func (h Handle) Type() reflect.Type { return h.typ }

// Schema returns the schema of the field's type.
func (h Handle) Schema() *Type { return h.schema }

// Valid reports whether the handle refers to a field and is not released.
func (h Handle) Valid() bool { return h.ptr != nil && h.b != nil && !h.b.released }

// Release ends the borrow. Later downcasts through any copy fail.
func (h Handle) Release() {
	if h.b != nil {
		h.b.released = true
	}
}

// Downcast returns the field's current value iff T is exactly the field's type.
// A mismatch is reported as false, not as an error.
func Downcast[T any](h Handle) (T, bool) {
	var zero T
	if !h.Valid() {
		return zero, false
	}
	p, ok := h.ptr.(*T)
	if !ok {
		return zero, false
	}
	return *p, true
}

// Is reports whether the handle's field has type T and can still be downcast.
func Is[T any](h Handle) bool {
	return h.Valid() && h.typ == reflect.TypeFor[T]()
}

// Expect is Downcast for callers that want an error: a mismatch becomes a
// FieldAccessError with CodeUnmatchingType.
func Expect[T any](h Handle) (T, error) {
	if v, ok := Downcast[T](h); ok {
		return v, nil
	}
	var zero T
	return zero, unmatching(h.Valid(), h.typ, reflect.TypeFor[T]())
}

// View calls fn with the field's value and releases the handle afterwards.
// It reports false, without calling fn, when T does not match.
func View[T any](h Handle, fn func(T)) bool {
	v, ok := Downcast[T](h)
	if !ok {
		return false
	}
	defer h.Release()
	fn(v)
	return true
}

// MutHandle is the mutable counterpart of Handle. Writes through the pointer
// returned by DowncastMut are visible on the owner. While a MutHandle is live,
// no other handle to the same owner may be used.
type MutHandle struct {
	ptr    any
	typ    reflect.Type
	schema *Type
	b      *borrow
}

func newMutHandle(ptr any, typ reflect.Type, schema *Type) MutHandle {
	return MutHandle{ptr: ptr, typ: typ, schema: schema, b: &borrow{}}
}

// Type returns the Go type of the field.
func (h MutHandle) Type() reflect.Type { return h.typ }

// Schema returns the schema of the field's type.
func (h MutHandle) Schema() *Type { return h.schema }

// Valid reports whether the handle refers to a field and is not released.
func (h MutHandle) Valid() bool { return h.ptr != nil && h.b != nil && !h.b.released }

// Release ends the borrow.
func (h MutHandle) Release() {
	if h.b != nil {
		h.b.released = true
	}
}

// DowncastMut returns a pointer into the owner's storage iff T is exactly the
// field's type.
func DowncastMut[T any](h MutHandle) (*T, bool) {
	if !h.Valid() {
		return nil, false
	}
	p, ok := h.ptr.(*T)
	return p, ok
}

// IsMut reports whether the handle's field has type T.
func IsMut[T any](h MutHandle) bool {
	return h.Valid() && h.typ == reflect.TypeFor[T]()
}

// ExpectMut is DowncastMut returning a CodeUnmatchingType error on mismatch.
func ExpectMut[T any](h MutHandle) (*T, error) {
	if p, ok := DowncastMut[T](h); ok {
		return p, nil
	}
	return nil, unmatching(h.Valid(), h.typ, reflect.TypeFor[T]())
}

// Update calls fn with a pointer to the field and releases the handle
// afterwards. The pointer must not escape fn.
func Update[T any](h MutHandle, fn func(*T)) bool {
	p, ok := DowncastMut[T](h)
	if !ok {
		return false
	}
	defer h.Release()
	fn(p)
	return true
}

func unmatching(valid bool, got, want reflect.Type) error {
	e := &FieldAccessError{Code: CodeUnmatchingType, Want: want.String(), Got: "<released>"}
	if valid && got != nil {
		e.Got = got.String()
	}
	return e
}
