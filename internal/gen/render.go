package gen

// Package gen renders goshape registrations and Reflectable methods from ir
// declarations.

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	ir "github.com/reoring/goshape/internal/ir"
)

// ImportPath is the import path of the runtime package used by generated code.
const ImportPath = "github.com/reoring/goshape"

// reserved are the method names generated on every reflectable type.
var reserved = map[string]struct{}{
	"Schema":           {},
	"ConstructProduct": {},
	"ConstructVariant": {},
	"Field":            {},
	"FieldMut":         {},
}

// Validate checks declarations for problems that would otherwise surface as
// compile errors or registration panics in generated code.
func Validate(f *ir.File) error {
	if f.Package == "" {
		return fmt.Errorf("gen: package name is empty")
	}
	seen := map[string]struct{}{}
	for _, d := range f.Decls {
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("gen: %s declared twice", d.Name)
		}
		seen[d.Name] = struct{}{}
		switch d.Kind {
		case ir.DeclProduct:
			if err := validateFields(d.Name, d.Indexed, d.Fields); err != nil {
				return err
			}
		case ir.DeclUnit:
			if len(d.Fields) > 0 {
				return fmt.Errorf("gen: unit %s has fields", d.Name)
			}
		case ir.DeclUnion:
			if len(d.Variants) == 0 {
				return fmt.Errorf("gen: union %s has no variants", d.Name)
			}
			names := map[string]struct{}{}
			for _, v := range d.Variants {
				if _, dup := names[v.Name]; dup {
					return fmt.Errorf("gen: union %s declares variant %s twice", d.Name, v.Name)
				}
				names[v.Name] = struct{}{}
				if _, dup := seen[v.GoType]; dup {
					return fmt.Errorf("gen: %s is used as a variant and declared on its own", v.GoType)
				}
				seen[v.GoType] = struct{}{}
				if err := validateFields(d.Name+"."+v.Name, v.Indexed, v.Fields); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("gen: %s has unknown kind %v", d.Name, d.Kind)
		}
	}
	return nil
}

func validateFields(owner string, indexed bool, fields []ir.Field) error {
	keys := map[string]struct{}{}
	for _, f := range fields {
		if _, bad := reserved[f.GoName]; bad {
			return fmt.Errorf("gen: %s: field %s collides with a generated method", owner, f.GoName)
		}
		if indexed {
			continue
		}
		if _, dup := keys[f.Key]; dup {
			return fmt.Errorf("gen: %s: duplicate field key %q", owner, f.Key)
		}
		keys[f.Key] = struct{}{}
	}
	return nil
}

// Render produces a gofmt'ed Go source file for f.
func Render(f *ir.File) ([]byte, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, f); err != nil {
		return nil, err
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w\n%s", err, buf.String())
	}
	return out, nil
}

// descVar names the package-level descriptor of a type: Pair -> pairShape.
func descVar(name string) string {
	r := []rune(name)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	// Lower the leading run of capitals, keeping the last one of a longer run
	// when it starts the next word (HTTPServer -> httpServer).
	if i > 1 && i < len(r) {
		i--
	}
	return strings.ToLower(string(r[:i])) + string(r[i:]) + "Shape"
}

type fieldsData struct {
	Owner   string
	Indexed bool
	Fields  []ir.Field
}

type methodsData struct {
	Recv string
	Desc string
}

var funcs = template.FuncMap{
	"desc":  descVar,
	"quote": strconv.Quote,
	"runtime": func() string { return ImportPath },
	"fieldsOf": func(owner string, indexed bool, fields []ir.Field) fieldsData {
		return fieldsData{Owner: owner, Indexed: indexed, Fields: fields}
	},
	"methodsOf": func(recv, desc string) methodsData {
		return methodsData{Recv: recv, Desc: desc}
	},
}

var fileTmpl = template.Must(template.New("file").Funcs(funcs).Parse(`// Code generated by goshape. DO NOT EDIT.

package {{.Package}}

import (
	{{quote runtime}}
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}{{quote .Path}}
{{- end}}
)
{{range .Decls}}
{{- if eq .Kind.String "union"}}{{template "union" .}}{{else}}{{template "product" .}}{{end}}
{{- end}}

{{- define "fields"}}
{{- $owner := .Owner}}{{$indexed := .Indexed}}
{{- range .Fields}}
	{{if $indexed}}goshape.Positional(func(v *{{$owner}}) *{{.GoType}} { return &v.{{.GoName}} }){{else}}goshape.Named({{quote .Key}}, func(v *{{$owner}}) *{{.GoType}} { return &v.{{.GoName}} }){{end}},
{{- end}}
{{- end}}

{{- define "methods"}}

func (v *{{.Recv}}) Schema() *goshape.Type { return {{.Desc}}.Type() }

func (v *{{.Recv}}) ConstructProduct(args []any) (any, error) { return {{.Desc}}.ConstructProduct(args) }

func (v *{{.Recv}}) ConstructVariant(variant string, args []any) (any, error) {
	return {{.Desc}}.ConstructVariant(variant, args)
}

func (v *{{.Recv}}) Field(id goshape.FieldID) (goshape.Handle, error) { return {{.Desc}}.Field(v, id) }

func (v *{{.Recv}}) FieldMut(id goshape.FieldID) (goshape.MutHandle, error) {
	return {{.Desc}}.FieldMut(v, id)
}
{{- end}}

{{- define "product"}}
{{- if eq .Kind.String "unit"}}
var {{desc .Name}} = goshape.UnitType[{{.Name}}]({{quote .Name}}){{if .Sealed}}.Sealed(){{end}}
{{- else}}
var {{desc .Name}} = goshape.Product[{{.Name}}]({{quote .Name}}{{if .Fields}},{{template "fields" (fieldsOf .Name .Indexed .Fields)}}
{{end}}){{if .Sealed}}.Sealed(){{end}}
{{- end}}
{{- template "methods" (methodsOf .Name (desc .Name))}}
{{end}}

{{- define "union"}}
{{- $u := .Name}}
var {{desc .Name}} = goshape.Union[{{.Name}}]({{quote .Name}},
{{- range .Variants}}
	goshape.Case[{{$u}}, {{.GoType}}]({{quote .Name}}{{if .Fields}},{{template "fields" (fieldsOf .GoType .Indexed .Fields)}}
	{{end}}),
{{- end}}
)
{{- $d := desc .Name}}{{$m := .Marker}}
{{- range .Variants}}
{{- if $m}}

func (*{{.GoType}}) {{$m}}() {}
{{- end}}
{{- template "methods" (methodsOf .GoType $d)}}
{{- end}}
{{end}}
`))
