package goshape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/goshape/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention).
const (
	// Field access
	CodeUnmatchingType = "unmatching_type"
	CodeUnit           = "unit"
	CodeNotFound       = "not_found"
	// Construction
	CodePrimitive      = "primitive"
	CodeUnexpectedType = "unexpected_type"
	CodeInvalidVariant = "invalid_variant"
	CodePrivateFields  = "private_fields"
	CodeNotStruct      = "not_struct"
	CodeNotEnum        = "not_enum"
	CodeNotEnoughArgs  = "not_enough_args"
	CodeTooManyArgs    = "too_many_args"
)

// FieldAccessError reports a failed field lookup or downcast.
type FieldAccessError struct {
	Code    string  // CodeUnmatchingType, CodeUnit or CodeNotFound.
	Type    string  // Schema name of the owner.
	Variant string  // Active variant, for unions.
	Field   FieldID // Requested identifier.
	Path    string  // Pointer-style path of the requested field (for example: /inner/0).
	// Want and Got name the Go types of a failed downcast.
	Want string
	Got  string
}

func (e *FieldAccessError) Error() string {
	b := &strings.Builder{}
	b.WriteString("goshape: ")
	b.WriteString(i18n.T(e.Code, nil))
	if e.Type != "" {
		fmt.Fprintf(b, " in %s", e.Type)
		if e.Variant != "" {
			fmt.Fprintf(b, ".%s", e.Variant)
		}
	}
	if e.Path != "" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Want != "" {
		fmt.Fprintf(b, " (want %s, got %s)", e.Want, e.Got)
	}
	return b.String()
}

// Is matches another *FieldAccessError by code, so errors.Is(err, ErrNotFound) works.
func (e *FieldAccessError) Is(target error) bool {
	t, ok := target.(*FieldAccessError)
	return ok && t.Code == e.Code
}

// ConstructError reports a failed runtime construction.
type ConstructError struct {
	Code     string // One of the construction codes.
	Type     string // Schema name of the constructed type.
	Variant  string // Requested variant, for unions.
	Index    int    // Argument position for CodeUnexpectedType, CodeNotEnoughArgs and CodeTooManyArgs.
	Expected string // Go type expected at Index, for CodeUnexpectedType.
}

func (e *ConstructError) Error() string {
	b := &strings.Builder{}
	b.WriteString("goshape: ")
	b.WriteString(i18n.T(e.Code, nil))
	if e.Type != "" {
		fmt.Fprintf(b, " for %s", e.Type)
		if e.Variant != "" {
			fmt.Fprintf(b, ".%s", e.Variant)
		}
	}
	switch e.Code {
	case CodeUnexpectedType:
		fmt.Fprintf(b, " at argument %d (expected %s)", e.Index, e.Expected)
	case CodeNotEnoughArgs, CodeTooManyArgs:
		fmt.Fprintf(b, " (argument %d)", e.Index)
	}
	return b.String()
}

// Is matches another *ConstructError by code.
func (e *ConstructError) Is(target error) bool {
	t, ok := target.(*ConstructError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is. They carry only a code.
var (
	ErrUnmatchingType = &FieldAccessError{Code: CodeUnmatchingType}
	ErrUnit           = &FieldAccessError{Code: CodeUnit}
	ErrNotFound       = &FieldAccessError{Code: CodeNotFound}

	ErrPrimitive      = &ConstructError{Code: CodePrimitive}
	ErrUnexpectedType = &ConstructError{Code: CodeUnexpectedType}
	ErrInvalidVariant = &ConstructError{Code: CodeInvalidVariant}
	ErrPrivateFields  = &ConstructError{Code: CodePrivateFields}
	ErrNotStruct      = &ConstructError{Code: CodeNotStruct}
	ErrNotEnum        = &ConstructError{Code: CodeNotEnum}
	ErrNotEnoughArgs  = &ConstructError{Code: CodeNotEnoughArgs}
	ErrTooManyArgs    = &ConstructError{Code: CodeTooManyArgs}
)

// AsFieldAccessError extracts a *FieldAccessError using errors.As internally.
func AsFieldAccessError(err error) (*FieldAccessError, bool) {
	var fe *FieldAccessError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// AsConstructError extracts a *ConstructError using errors.As internally.
func AsConstructError(err error) (*ConstructError, bool) {
	var ce *ConstructError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
