package scan

// Package scan turns Go type declarations into ir declarations. It only reads
// syntax; no type checking or reflection is involved.

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/internal/ir"
)

// Directive prefixes recognized in type doc comments.
const (
	directiveIndexed = "//goshape:indexed"
	directiveSealed  = "//goshape:sealed"
	directiveUnit    = "//goshape:unit"
	directiveUnion   = "//goshape:union"
)

type typeInfo struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
	file *ast.File
}

// Dir parses the non-test Go files in dir and returns declarations for the
// named types, in the order given.
func Dir(dir string, names []string) (*ir.File, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("scan: expected one package in %s, found %d", dir, len(pkgs))
	}
	var pkg *ast.Package
	for _, p := range pkgs {
		pkg = p
	}
	files := make([]*ast.File, 0, len(pkg.Files))
	for _, f := range pkg.Files {
		files = append(files, f)
	}
	return Files(pkg.Name, files, names)
}

// Files is Dir over already parsed files of one package.
func Files(pkgName string, files []*ast.File, names []string) (*ir.File, error) {
	index := map[string]typeInfo{}
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name == nil {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				index[ts.Name.Name] = typeInfo{spec: ts, doc: doc, file: f}
			}
		}
	}

	s := &scanner{index: index, imports: map[string]ir.Import{}}
	out := &ir.File{Package: pkgName}
	for _, name := range names {
		d, err := s.decl(name)
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, d)
	}
	for _, imp := range s.imports {
		out.Imports = append(out.Imports, imp)
	}
	sort.Slice(out.Imports, func(i, j int) bool { return out.Imports[i].Path < out.Imports[j].Path })
	return out, nil
}

type scanner struct {
	index   map[string]typeInfo
	imports map[string]ir.Import // keyed by path
}

func (s *scanner) decl(name string) (ir.Decl, error) {
	ti, ok := s.index[name]
	if !ok {
		return ir.Decl{}, fmt.Errorf("scan: type %s not found", name)
	}
	dirs := directives(ti.doc)
	switch t := ti.spec.Type.(type) {
	case *ast.StructType:
		d := ir.Decl{Name: name, Kind: ir.DeclProduct, Sealed: dirs.has(directiveSealed)}
		if dirs.has(directiveUnit) {
			if len(t.Fields.List) > 0 {
				return ir.Decl{}, fmt.Errorf("scan: %s is marked unit but has fields", name)
			}
			d.Kind = ir.DeclUnit
			return d, nil
		}
		fields, err := s.fields(name, ti, t)
		if err != nil {
			return ir.Decl{}, err
		}
		d.Fields = fields
		d.Indexed = dirs.has(directiveIndexed) && len(fields) > 0
		return d, nil
	case *ast.InterfaceType:
		list, ok := dirs.value(directiveUnion)
		if !ok {
			return ir.Decl{}, fmt.Errorf("scan: interface %s has no %s directive", name, directiveUnion)
		}
		d := ir.Decl{Name: name, Kind: ir.DeclUnion, Marker: marker(t)}
		for _, vn := range splitList(list) {
			v, err := s.variant(name, vn)
			if err != nil {
				return ir.Decl{}, err
			}
			d.Variants = append(d.Variants, v)
		}
		if len(d.Variants) == 0 {
			return ir.Decl{}, fmt.Errorf("scan: union %s lists no variants", name)
		}
		return d, nil
	default:
		return ir.Decl{}, fmt.Errorf("scan: %s is neither a struct nor an interface", name)
	}
}

func (s *scanner) variant(union, name string) (ir.Variant, error) {
	ti, ok := s.index[name]
	if !ok {
		return ir.Variant{}, fmt.Errorf("scan: union %s: variant type %s not found", union, name)
	}
	st, ok := ti.spec.Type.(*ast.StructType)
	if !ok {
		return ir.Variant{}, fmt.Errorf("scan: union %s: variant %s is not a struct", union, name)
	}
	fields, err := s.fields(name, ti, st)
	if err != nil {
		return ir.Variant{}, err
	}
	return ir.Variant{
		Name:    name,
		GoType:  name,
		Indexed: directives(ti.doc).has(directiveIndexed) && len(fields) > 0,
		Fields:  fields,
	}, nil
}

func (s *scanner) fields(owner string, ti typeInfo, st *ast.StructType) ([]ir.Field, error) {
	var out []ir.Field
	if st.Fields == nil {
		return nil, nil
	}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, fmt.Errorf("scan: %s: embedded field %s is not supported", owner, types.ExprString(f.Type))
		}
		var tag reflect.StructTag
		if f.Tag != nil {
			lit, err := strconv.Unquote(f.Tag.Value)
			if err != nil {
				return nil, fmt.Errorf("scan: %s: bad struct tag %s: %w", owner, f.Tag.Value, err)
			}
			tag = reflect.StructTag(lit)
		}
		goType := types.ExprString(f.Type)
		s.collectImports(ti.file, f.Type)
		for _, n := range f.Names {
			if n.Name == "_" {
				continue
			}
			key := goshape.ResolveStructKey(reflect.StructField{Name: n.Name, Tag: tag})
			if key == "-" {
				continue
			}
			out = append(out, ir.Field{Key: key, GoName: n.Name, GoType: goType})
		}
	}
	return out, nil
}

// collectImports records the imports referenced by qualified identifiers in expr.
func (s *scanner) collectImports(f *ast.File, expr ast.Expr) {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		for _, is := range f.Imports {
			p, err := strconv.Unquote(is.Path.Value)
			if err != nil {
				continue
			}
			local := path.Base(p)
			if is.Name != nil {
				local = is.Name.Name
			}
			if local != id.Name {
				continue
			}
			imp := ir.Import{Path: p}
			if is.Name != nil {
				imp.Name = is.Name.Name
			}
			s.imports[p] = imp
		}
		return false
	})
}

// marker returns the unexported, niladic method of a union interface, if any.
func marker(it *ast.InterfaceType) string {
	if it.Methods == nil {
		return ""
	}
	for _, m := range it.Methods.List {
		if len(m.Names) != 1 || ast.IsExported(m.Names[0].Name) {
			continue
		}
		ft, ok := m.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		if ft.Params.NumFields() == 0 && ft.Results.NumFields() == 0 {
			return m.Names[0].Name
		}
	}
	return ""
}

type directiveSet []string

func directives(cg *ast.CommentGroup) directiveSet {
	if cg == nil {
		return nil
	}
	var out directiveSet
	for _, c := range cg.List {
		if strings.HasPrefix(c.Text, "//goshape:") {
			out = append(out, strings.TrimSpace(c.Text))
		}
	}
	return out
}

func (ds directiveSet) has(name string) bool {
	_, ok := ds.value(name)
	return ok
}

func (ds directiveSet) value(name string) (string, bool) {
	for _, d := range ds {
		if d == name {
			return "", true
		}
		if strings.HasPrefix(d, name+" ") {
			return strings.TrimSpace(strings.TrimPrefix(d, name)), true
		}
	}
	return "", false
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
