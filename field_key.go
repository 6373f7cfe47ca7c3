package goshape

import (
	"fmt"
	"reflect"
)

// KeyOf returns the schema name for the top-level struct field of S selected
// by get, using the same tag rules as cmd/goshape (see ResolveStructKey).
// Example: KeyOf(func(p *Pair) *int32 { return &p.A }) -> "a".
func KeyOf[S, F any](get func(*S) *F) string {
	if get == nil {
		panic("goshape.KeyOf: selector must not be nil")
	}
	var zero S
	fp := reflect.ValueOf(get(&zero)).Pointer()
	rv := reflect.ValueOf(&zero).Elem()
	if rv.Kind() != reflect.Struct {
		panic(fmt.Sprintf("goshape.KeyOf: %s is not a struct", rv.Type()))
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Type != reflect.TypeFor[F]() {
			continue
		}
		if rv.Field(i).Addr().Pointer() == fp {
			name := ResolveStructKey(sf)
			if name == "" || name == "-" {
				panic("goshape.KeyOf: selected field is disabled by its tag")
			}
			return name
		}
	}
	panic("goshape.KeyOf: selector must return the address of a top-level field")
}

// Keyed declares a named field whose name comes from the field's struct tags,
// so registrations stay in sync with json names:
//
//	goshape.Product[User]("User", goshape.Keyed(func(u *User) *string { return &u.Email }))
func Keyed[T, F any](get func(*T) *F) FieldOf[T] {
	return Named(KeyOf(get), get)
}

const maxPathDepth = 32

// PathTo returns the field identifiers leading from T to the field selected
// by get, for use with Lookup and LookupMut:
//
//	ids := goshape.PathTo(func(d *Drawing) *float64 { return &d.Origin.Y })
//	// [origin 1]
//
// Every hop must be a registered product; pointer and union hops cannot be
// resolved on a zero value and are not supported.
func PathTo[T, F any](get func(*T) *F) []FieldID {
	if get == nil {
		panic("goshape.PathTo: selector must not be nil")
	}
	var zero T
	target := reflect.ValueOf(get(&zero)).Pointer()
	ids, ok := findPath(&zero, target, reflect.TypeFor[F](), 0)
	if !ok {
		panic(fmt.Sprintf("goshape.PathTo: no registered field path from %s to the selected %s",
			reflect.TypeFor[T](), reflect.TypeFor[F]()))
	}
	return ids
}

// findPath searches the fields of owner, a pointer to a registered product,
// for storage at target. Fields that contain target are descended into.
func findPath(owner any, target uintptr, want reflect.Type, depth int) ([]FieldID, bool) {
	if depth > maxPathDepth {
		return nil, false
	}
	r, err := Of(owner)
	if err != nil {
		return nil, false
	}
	t := r.Schema()
	if t == nil || t.Data.Kind != KindProduct {
		return nil, false
	}
	for _, f := range t.Data.Fields.List {
		h, err := r.Field(f.ID)
		if err != nil {
			continue
		}
		start := reflect.ValueOf(h.ptr).Pointer()
		h.Release()
		if start == target && h.typ == want {
			return []FieldID{f.ID}, true
		}
		if h.typ.Kind() != reflect.Struct || target < start || target >= start+h.typ.Size() {
			continue
		}
		if rest, ok := findPath(h.ptr, target, want, depth+1); ok {
			return append([]FieldID{f.ID}, rest...), true
		}
	}
	return nil, false
}
