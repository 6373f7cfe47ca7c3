package goshape_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	goshape "github.com/reoring/goshape"
)

func TestPathRef_Pointer(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"root", goshape.Root().Pointer(), "/"},
		{"field", goshape.Root().Field("a").Pointer(), "/a"},
		{"index", goshape.Root().Field("items").Index(2).Pointer(), "/items/2"},
		{"escape", goshape.Root().Field("a/b").Field("m~n").Pointer(), "/a~1b/m~0n"},
		{"ids", goshape.Path(goshape.Name("inner"), goshape.Index(0)), "/inner/0"},
		{"empty ids", goshape.Path(), "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %q want %q", tc.got, tc.want)
			}
		})
	}
}

func TestPathRef_ChainDoesNotShare(t *testing.T) {
	base := goshape.Root().Field("x")
	a := base.Field("a")
	b := base.Field("b")
	if a.Pointer() != "/x/a" || b.Pointer() != "/x/b" || base.Pointer() != "/x" {
		t.Fatalf("chains interfere: %s %s %s", a.Pointer(), b.Pointer(), base.Pointer())
	}
}

func TestParsePath(t *testing.T) {
	got := goshape.ParsePath("/shape/0/a~1b/01")
	want := []goshape.FieldID{goshape.Name("shape"), goshape.Index(0), goshape.Name("a/b"), goshape.Name("01")}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b goshape.FieldID) bool { return a == b })); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	if ids := goshape.ParsePath("/"); len(ids) != 0 {
		t.Fatalf("root: %v", ids)
	}
}

func newOuter() *Outer {
	return &Outer{
		Inner: Pair{A: 1, B: 2},
		Shape: &Circle{R: 1.5},
		Tags:  "t",
		Head:  &Node{Value: 1, Next: &Node{Value: 2}},
	}
}

func TestLookup_Nested(t *testing.T) {
	o := newOuter()
	cases := []struct {
		name string
		path []goshape.FieldID
		want any
	}{
		{"product in product", []goshape.FieldID{goshape.Name("inner"), goshape.Name("b")}, int32(2)},
		{"union field", []goshape.FieldID{goshape.Name("shape"), goshape.Index(0)}, 1.5},
		{"pointer chain", []goshape.FieldID{goshape.Name("head"), goshape.Name("next"), goshape.Name("value")}, 2},
		{"escaped name", []goshape.FieldID{goshape.Name("tags/all")}, "t"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := goshape.Lookup(o, tc.path...)
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			var got any
			switch tc.want.(type) {
			case int32:
				got, _ = goshape.Downcast[int32](h)
			case float64:
				got, _ = goshape.Downcast[float64](h)
			case int:
				got, _ = goshape.Downcast[int](h)
			case string:
				got, _ = goshape.Downcast[string](h)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}

	h, err := goshape.LookupPointer(o, "/tags~1all")
	if err != nil {
		t.Fatalf("lookup pointer: %v", err)
	}
	if s, _ := goshape.Downcast[string](h); s != "t" {
		t.Fatalf("lookup pointer: %q", s)
	}
}

func TestLookupMut_WritesThrough(t *testing.T) {
	o := newOuter()
	mh, err := goshape.LookupMut(o, goshape.Name("head"), goshape.Name("next"), goshape.Name("value"))
	if err != nil {
		t.Fatal(err)
	}
	goshape.Update(mh, func(v *int) { *v = 20 })
	if o.Head.Next.Value != 20 {
		t.Fatalf("nested write not visible: %d", o.Head.Next.Value)
	}
}

func TestLookup_Errors(t *testing.T) {
	o := newOuter()
	cases := []struct {
		name     string
		path     []goshape.FieldID
		sentinel error
		at       string
	}{
		{"empty path", nil, goshape.ErrNotFound, "/"},
		{"missing leaf", []goshape.FieldID{goshape.Name("inner"), goshape.Name("z")}, goshape.ErrNotFound, "/inner/z"},
		{"missing step", []goshape.FieldID{goshape.Name("nope"), goshape.Name("a")}, goshape.ErrNotFound, "/nope"},
		{"inactive variant", []goshape.FieldID{goshape.Name("shape"), goshape.Name("side")}, goshape.ErrNotFound, "/shape/side"},
		{"nil pointer", []goshape.FieldID{goshape.Name("head"), goshape.Name("next"), goshape.Name("next"), goshape.Name("value")}, goshape.ErrNotFound, "/head/next/next"},
		{"into primitive", []goshape.FieldID{goshape.Name("tags/all"), goshape.Index(0)}, goshape.ErrUnit, "/tags~1all/0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := goshape.Lookup(o, tc.path...)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			fe, _ := goshape.AsFieldAccessError(err)
			if fe.Path != tc.at {
				t.Fatalf("path: got %q want %q", fe.Path, tc.at)
			}
		})
	}

	if _, err := goshape.Lookup(&struct{ X int }{}, goshape.Name("X")); !errors.Is(err, goshape.ErrNotRegistered) {
		t.Fatalf("unregistered root: %v", err)
	}
}
