package scan

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reoring/goshape/internal/ir"
)

const src = `package geo

import (
	"time"
	tz "example.com/zone"
)

type Pair struct {
	A int32 ` + "`json:\"a\"`" + `
	B int32 ` + "`goshape:\"name=second\" json:\"b\"`" + `
	skip int ` + "`json:\"-\"`" + `
	_ int
}

// Point is a 2D point.
//goshape:indexed
type Point struct {
	X, Y float64
}

//goshape:sealed
type Stamp struct {
	At   time.Duration
	Zone tz.Name ` + "`json:\",omitempty\"`" + `
}

//goshape:unit
type Marker struct{}

type Hollow struct{}

// Shape is closed.
//goshape:union Circle, Square,Empty
type Shape interface {
	isShape()
	Area() float64
}

//goshape:indexed
type Circle struct{ R float64 }

type Square struct {
	Side float64 ` + "`json:\"side\"`" + `
}

type Empty struct{}

type (
	// grouped declarations keep their own docs
	//goshape:indexed
	Grouped struct{ V []string }
)

type Alias = int
`

func parse(t *testing.T) []*ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "geo.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return []*ast.File{f}
}

func TestFiles_Products(t *testing.T) {
	got, err := Files("geo", parse(t), []string{"Pair", "Point", "Stamp", "Marker", "Hollow", "Grouped"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := &ir.File{
		Package: "geo",
		Imports: []ir.Import{{Name: "tz", Path: "example.com/zone"}, {Path: "time"}},
		Decls: []ir.Decl{
			{Name: "Pair", Kind: ir.DeclProduct, Fields: []ir.Field{
				{Key: "a", GoName: "A", GoType: "int32"},
				{Key: "second", GoName: "B", GoType: "int32"},
			}},
			{Name: "Point", Kind: ir.DeclProduct, Indexed: true, Fields: []ir.Field{
				{Key: "X", GoName: "X", GoType: "float64"},
				{Key: "Y", GoName: "Y", GoType: "float64"},
			}},
			{Name: "Stamp", Kind: ir.DeclProduct, Sealed: true, Fields: []ir.Field{
				{Key: "At", GoName: "At", GoType: "time.Duration"},
				{Key: "Zone", GoName: "Zone", GoType: "tz.Name"},
			}},
			{Name: "Marker", Kind: ir.DeclUnit},
			{Name: "Hollow", Kind: ir.DeclProduct},
			{Name: "Grouped", Kind: ir.DeclProduct, Indexed: true, Fields: []ir.Field{
				{Key: "V", GoName: "V", GoType: "[]string"},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ir (-want +got):\n%s", diff)
	}
}

func TestFiles_Union(t *testing.T) {
	got, err := Files("geo", parse(t), []string{"Shape"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []ir.Decl{{
		Name:   "Shape",
		Kind:   ir.DeclUnion,
		Marker: "isShape",
		Variants: []ir.Variant{
			{Name: "Circle", GoType: "Circle", Indexed: true, Fields: []ir.Field{{Key: "R", GoName: "R", GoType: "float64"}}},
			{Name: "Square", GoType: "Square", Fields: []ir.Field{{Key: "side", GoName: "Side", GoType: "float64"}}},
			{Name: "Empty", GoType: "Empty"},
		},
	}}
	if diff := cmp.Diff(want, got.Decls); diff != "" {
		t.Fatalf("decls (-want +got):\n%s", diff)
	}
	if len(got.Imports) != 0 {
		t.Fatalf("no imports expected: %v", got.Imports)
	}
}

func TestFiles_Errors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		types []string
		want  string
	}{
		{"missing", "package p\n", []string{"Nope"}, "type Nope not found"},
		{"not struct", "package p\ntype A int\n", []string{"A"}, "neither a struct nor an interface"},
		{"embedded", "package p\ntype B struct{}\ntype A struct{ B }\n", []string{"A"}, "embedded field B"},
		{"bare interface", "package p\ntype U interface{ m() }\n", []string{"U"}, "no //goshape:union directive"},
		{"empty union", "package p\n//goshape:union\ntype U interface{ m() }\n", []string{"U"}, "lists no variants"},
		{"unknown variant", "package p\n//goshape:union X\ntype U interface{ m() }\n", []string{"U"}, "variant type X not found"},
		{"variant not struct", "package p\n//goshape:union X\ntype U interface{ m() }\ntype X int\n", []string{"U"}, "variant X is not a struct"},
		{"unit with fields", "package p\n//goshape:unit\ntype A struct{ X int }\n", []string{"A"}, "marked unit but has fields"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := parser.ParseFile(token.NewFileSet(), "p.go", tc.src, parser.ParseComments)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = Files("p", []*ast.File{f}, tc.types)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.go", "package geo\n\ntype Pair struct{ A, B int32 }\n")
	write("b.go", "package geo\n\n//goshape:unit\ntype Marker struct{}\n")
	write("a_test.go", "package geo_test\n\ntype Ignored struct{}\n")

	got, err := Dir(dir, []string{"Marker", "Pair"})
	if err != nil {
		t.Fatalf("dir: %v", err)
	}
	if got.Package != "geo" || len(got.Decls) != 2 {
		t.Fatalf("unexpected: %+v", got)
	}
	if got.Decls[0].Name != "Marker" || got.Decls[1].Name != "Pair" {
		t.Fatalf("declarations follow the requested order: %v, %v", got.Decls[0].Name, got.Decls[1].Name)
	}
	if _, err := Dir(dir, []string{"Ignored"}); err == nil {
		t.Fatalf("types from _test files must not be visible")
	}

	write("c.go", "package other\n")
	if _, err := Dir(dir, []string{"Pair"}); err == nil {
		t.Fatalf("expected an error for a directory with two packages")
	}
}

func TestDirectives(t *testing.T) {
	ds := directiveSet{"//goshape:indexed", "//goshape:union A, B"}
	if !ds.has(directiveIndexed) || ds.has(directiveSealed) {
		t.Fatalf("has")
	}
	v, ok := ds.value(directiveUnion)
	if !ok || v != "A, B" {
		t.Fatalf("value: %q %v", v, ok)
	}
	if diff := cmp.Diff([]string{"A", "B"}, splitList(v)); diff != "" {
		t.Fatalf("splitList (-want +got):\n%s", diff)
	}
	// a longer directive sharing a prefix does not match
	if (directiveSet{"//goshape:unitary"}).has(directiveUnit) {
		t.Fatalf("prefix matched")
	}
}
