package goshape

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrNotRegistered is returned by Of when a value's type has no registration.
var ErrNotRegistered = errors.New("goshape: type is not registered")

// binder turns a pointer-like value of a registered type into its capability.
type binder func(v any) Reflectable

// registry is the process-wide table of interned schemas. Entries are added
// during package initialization and never removed. Reads after settle need
// no locking because schemas are not mutated once resolved.
type registry struct {
	mu      sync.RWMutex
	schemas map[reflect.Type]*Type // keyed by the Go type the schema describes
	binders map[reflect.Type]binder
	pending []func()
	waiting atomic.Int32
}

var reg = &registry{
	schemas: map[reflect.Type]*Type{},
	binders: map[reflect.Type]binder{},
}

// add registers schema t for goType and, when b is non-nil, a binder for
// values of bindType. resolve (optional) fills t.Data on first use.
func (r *registry) add(goType reflect.Type, t *Type, bindType reflect.Type, b binder, resolve func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if goType != nil {
		if prev, ok := r.schemas[goType]; ok {
			panic(fmt.Sprintf("goshape: %s already registered as %q", goType, prev.Name))
		}
		r.schemas[goType] = t
	}
	if b != nil {
		if _, ok := r.binders[bindType]; ok {
			panic(fmt.Sprintf("goshape: %s already registered", bindType))
		}
		r.binders[bindType] = b
	}
	if resolve != nil {
		r.pending = append(r.pending, resolve)
		r.waiting.Add(1)
	}
}

// settle runs all pending schema resolvers. Resolvers only need the *Type
// pointers of their field types, so registration order and self references
// do not matter.
func (r *registry) settle() {
	if r.waiting.Load() == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.pending) > 0 {
		p := r.pending
		r.pending = nil
		for _, fn := range p {
			fn()
		}
	}
	r.waiting.Store(0)
}

// schemaLocked resolves goType to its interned schema. Pointer types fall
// back to their element type so that *Node fields describe Node.
// The caller holds r.mu.
func (r *registry) schemaLocked(goType reflect.Type) (*Type, bool) {
	if t, ok := r.schemas[goType]; ok {
		return t, true
	}
	if goType.Kind() == reflect.Pointer {
		if t, ok := r.schemas[goType.Elem()]; ok {
			return t, true
		}
	}
	return nil, false
}

// mustSchemaLocked is used by resolvers. An unregistered field type is a
// programming error.
func (r *registry) mustSchemaLocked(owner string, goType reflect.Type) *Type {
	t, ok := r.schemaLocked(goType)
	if !ok {
		panic(fmt.Sprintf("goshape: %s: field type %s is not registered", owner, goType))
	}
	return t
}

func (r *registry) schema(goType reflect.Type) (*Type, bool) {
	r.settle()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemaLocked(goType)
}

func (r *registry) binder(goType reflect.Type) (binder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.binders[goType]
	return b, ok
}

// TypeOf returns the interned schema of T. It panics when T is not registered.
func TypeOf[T any]() *Type {
	rt := reflect.TypeFor[T]()
	t, ok := reg.schema(rt)
	if !ok {
		panic(fmt.Sprintf("goshape: %s is not registered", rt))
	}
	return t
}

// SchemaFor returns the interned schema of a Go type, if registered.
func SchemaFor(t reflect.Type) (*Type, bool) {
	if t == nil {
		return nil, false
	}
	return reg.schema(t)
}

// Registered returns the schema registered under name. Names are not required
// to be unique across packages; the first match in Entries order wins.
func Registered(name string) (*Type, bool) {
	for _, e := range Entries() {
		if e.Schema.Name == name {
			return e.Schema, true
		}
	}
	return nil, false
}

// Entry is a single registration in an Entries snapshot.
type Entry struct {
	GoType reflect.Type
	Schema *Type
}

// Entries returns every registered schema ordered by schema name, then by Go type.
func Entries() []Entry {
	reg.settle()
	reg.mu.RLock()
	out := make([]Entry, 0, len(reg.schemas))
	for gt, t := range reg.schemas {
		out = append(out, Entry{GoType: gt, Schema: t})
	}
	reg.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Schema.Name != out[j].Schema.Name {
			return out[i].Schema.Name < out[j].Schema.Name
		}
		return out[i].GoType.String() < out[j].GoType.String()
	})
	return out
}
