package ir

// Package ir defines the declaration model shared by the scanner and the code
// generator. This package is internal and not part of the public API.

import "fmt"

// DeclKind identifies how a declaration is registered.
type DeclKind int

const (
	DeclProduct DeclKind = iota
	DeclUnit
	DeclUnion
)

func (k DeclKind) String() string {
	switch k {
	case DeclProduct:
		return "product"
	case DeclUnit:
		return "unit"
	case DeclUnion:
		return "union"
	}
	return fmt.Sprintf("DeclKind(%d)", int(k))
}

// MarshalText renders the kind by name in IR dumps.
func (k DeclKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (k *DeclKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "product":
		*k = DeclProduct
	case "unit":
		*k = DeclUnit
	case "union":
		*k = DeclUnion
	default:
		return fmt.Errorf("ir: unknown decl kind %q", b)
	}
	return nil
}

// File is the unit of generation: one package, its imports and declarations.
type File struct {
	Package string   `json:"package" yaml:"package"`
	Imports []Import `json:"imports,omitempty" yaml:"imports,omitempty"`
	Decls   []Decl   `json:"decls" yaml:"decls"`
}

// Import is an import needed by field types.
type Import struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"` // explicit alias, if any
	Path string `json:"path" yaml:"path"`
}

// Decl is one reflectable type.
type Decl struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     DeclKind  `json:"kind" yaml:"kind"`
	Indexed  bool      `json:"indexed,omitempty" yaml:"indexed,omitempty"`
	Sealed   bool      `json:"sealed,omitempty" yaml:"sealed,omitempty"`
	Fields   []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
	// Marker is the unexported method sealing a union interface; generated for
	// every variant when set.
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// Field maps a schema key to a Go struct field.
type Field struct {
	Key    string `json:"key" yaml:"key"`       // schema name; unused when the owner is indexed
	GoName string `json:"goName" yaml:"goName"` // struct field name
	GoType string `json:"goType" yaml:"goType"` // type expression as written in source
}

// Variant is one case of a union, backed by the struct type GoType.
type Variant struct {
	Name    string  `json:"name" yaml:"name"`
	GoType  string  `json:"goType" yaml:"goType"`
	Indexed bool    `json:"indexed,omitempty" yaml:"indexed,omitempty"`
	Fields  []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}
