package goshape_test

import (
	"errors"
	"reflect"
	"testing"

	goshape "github.com/reoring/goshape"
)

func TestRegistry_SelfReference(t *testing.T) {
	nt := goshape.TypeOf[Node]()
	f, ok := nt.Field(goshape.Name("next"))
	if !ok {
		t.Fatalf("field next missing")
	}
	if f.Type != nt {
		t.Fatalf("*Node field should resolve to the Node schema, got %v", f.Type)
	}
	if nodeShape.Type() != nt {
		t.Fatalf("descriptor and registry disagree")
	}
}

func TestRegistry_ForwardReferences(t *testing.T) {
	ot := outerShape.Type()
	want := map[string]*goshape.Type{
		"inner":    goshape.TypeOf[Pair](),
		"shape":    goshape.TypeOf[Shape](),
		"tags/all": goshape.TypeOf[string](),
		"head":     goshape.TypeOf[Node](),
	}
	for name, wt := range want {
		f, ok := ot.Field(goshape.Name(name))
		if !ok || f.Type != wt {
			t.Fatalf("field %s: got %v want %v", name, f.Type, wt)
		}
	}
}

func TestRegistry_SchemaFor(t *testing.T) {
	if st, ok := goshape.SchemaFor(reflect.TypeFor[Tuple]()); !ok || st.Name != "Tuple" {
		t.Fatalf("SchemaFor(Tuple): %v %v", st, ok)
	}
	if st, ok := goshape.SchemaFor(reflect.TypeFor[*Tuple]()); !ok || st.Name != "Tuple" {
		t.Fatalf("pointers fall back to their element: %v %v", st, ok)
	}
	if _, ok := goshape.SchemaFor(reflect.TypeFor[map[string]int]()); ok {
		t.Fatalf("unregistered type found")
	}
	if _, ok := goshape.SchemaFor(nil); ok {
		t.Fatalf("nil type found")
	}
}

func TestRegistry_Entries(t *testing.T) {
	es := goshape.Entries()
	seen := map[reflect.Type]string{}
	for i, e := range es {
		if i > 0 && es[i-1].Schema.Name > e.Schema.Name {
			t.Fatalf("entries not sorted at %d: %s > %s", i, es[i-1].Schema.Name, e.Schema.Name)
		}
		seen[e.GoType] = e.Schema.Name
	}
	for rt, name := range map[reflect.Type]string{
		reflect.TypeFor[Pair]():   "Pair",
		reflect.TypeFor[Shape]():  "Shape",
		reflect.TypeFor[uint8]():  "uint8",
		reflect.TypeFor[string](): "string",
	} {
		if seen[rt] != name {
			t.Fatalf("entry %v: got %q want %q", rt, seen[rt], name)
		}
	}
	if st, ok := goshape.Registered("Nothing"); !ok || st != nothingShape.Type() {
		t.Fatalf("Registered(Nothing): %v %v", st, ok)
	}
	if _, ok := goshape.Registered("NoSuchType"); ok {
		t.Fatalf("Registered found an unknown name")
	}
}

func TestTypeOf_PanicsWhenUnregistered(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	goshape.TypeOf[struct{ X int }]()
}

func TestOf(t *testing.T) {
	p := &Pair{}
	r, err := goshape.Of(p)
	if err != nil {
		t.Fatal(err)
	}
	if r != goshape.Reflectable(p) {
		t.Fatalf("a value with its own methods is returned as is")
	}
	if _, err := goshape.Of(Tuple{}); !errors.Is(err, goshape.ErrNotRegistered) {
		t.Fatalf("non-pointer product: %v", err)
	}
	if _, err := goshape.Of(&struct{}{}); !errors.Is(err, goshape.ErrNotRegistered) {
		t.Fatalf("unregistered pointer: %v", err)
	}
	if _, err := goshape.Of(nil); !errors.Is(err, goshape.ErrNotRegistered) {
		t.Fatalf("nil: %v", err)
	}
}
