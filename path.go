package goshape

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// PathRef builds pointer-style field paths in a chain-safe way.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	ID(id FieldID) PathRef
	Pointer() string
}

type pathRef struct {
	parts []string
}

// Root returns an empty path ("/").
func Root() PathRef { return &pathRef{} }

func (p *pathRef) Field(name string) PathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) ID(id FieldID) PathRef {
	if name, ok := id.Name(); ok {
		return p.Field(name)
	}
	i, _ := id.Index()
	return p.Index(i)
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Path renders a sequence of field identifiers as a pointer, e.g. "/inner/0".
func Path(ids ...FieldID) string {
	var p PathRef = Root()
	for _, id := range ids {
		p = p.ID(id)
	}
	return p.Pointer()
}

// ParsePath splits a pointer into identifiers. Segments made only of digits
// become indexes; everything else becomes a name.
func ParsePath(pointer string) []FieldID {
	var ids []FieldID
	for _, seg := range strings.Split(pointer, "/") {
		if seg == "" {
			continue
		}
		if n, err := strconv.Atoi(seg); err == nil && n >= 0 && seg == strconv.Itoa(n) {
			ids = append(ids, Index(n))
			continue
		}
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		ids = append(ids, Name(seg))
	}
	return ids
}

// Lookup walks path through nested reflectable fields of v and borrows the
// last one. Intermediate fields that are pointers or union interfaces are
// followed to the value they hold.
func Lookup(v any, path ...FieldID) (Handle, error) {
	r, last, err := walk(v, path)
	if err != nil {
		return Handle{}, err
	}
	h, err := r.Field(last)
	if err != nil {
		return Handle{}, atPath(err, path)
	}
	return h, nil
}

// LookupMut is Lookup returning a mutable handle.
func LookupMut(v any, path ...FieldID) (MutHandle, error) {
	r, last, err := walk(v, path)
	if err != nil {
		return MutHandle{}, err
	}
	h, err := r.FieldMut(last)
	if err != nil {
		return MutHandle{}, atPath(err, path)
	}
	return h, nil
}

// LookupPointer is Lookup with a pointer string such as "/shape/0".
func LookupPointer(v any, pointer string) (Handle, error) {
	return Lookup(v, ParsePath(pointer)...)
}

// walk resolves every identifier but the last and returns the capability
// owning the final field.
func walk(v any, path []FieldID) (Reflectable, FieldID, error) {
	if len(path) == 0 {
		return nil, FieldID{}, &FieldAccessError{Code: CodeNotFound, Path: "/"}
	}
	cur := v
	for i, id := range path {
		r, err := Of(cur)
		if err != nil {
			return nil, FieldID{}, fmt.Errorf("goshape: at %s: %w", Path(path[:i]...), err)
		}
		if i == len(path)-1 {
			return r, id, nil
		}
		h, err := r.Field(id)
		if err != nil {
			return nil, FieldID{}, atPath(err, path[:i+1])
		}
		next, ok := follow(h.ptr)
		h.Release()
		if !ok {
			t := ""
			if s := r.Schema(); s != nil {
				t = s.Name
			}
			return nil, FieldID{}, &FieldAccessError{Code: CodeNotFound, Type: t, Field: id, Path: Path(path[:i+1]...)}
		}
		cur = next
	}
	panic("unreachable")
}

// follow turns a pointer to a field into the value to reflect on next:
// pointer and interface fields yield what they hold, anything else stays
// addressed through the pointer. A nil holder reports false.
func follow(ptr any) (any, bool) {
	rv := reflect.ValueOf(ptr).Elem()
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
		return rv.Interface(), true
	}
	return ptr, true
}

func atPath(err error, path []FieldID) error {
	fe, ok := err.(*FieldAccessError)
	if !ok {
		return err
	}
	cp := *fe
	cp.Path = Path(path...)
	return &cp
}
