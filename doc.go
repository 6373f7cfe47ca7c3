package goshape

// Package goshape provides run-time reflection over registered Go types:
//
// - A static schema model (Type) describing products with named or indexed
//   fields, tagged unions of variants, units and primitives
// - Type-erased field handles (Handle, MutHandle) that alias the owner's storage
//   and are redeemed only by naming the field's exact type
// - Positional construction of products and union variants from []any arguments
// - A process-wide registry of interned schemas, filled by generated code
//
// Design policy:
// - Types become reflectable through an explicit registration (Product, UnitType,
//   Union); cmd/goshape generates these registrations and the Reflectable methods.
// - Failures are returned as *FieldAccessError or *ConstructError with stable codes.
// - The protocol is synchronous and does not lock; callers keep one writer or many
//   readers per value.
//
// Typical usage:
//
//  r, _ := goshape.Of(&pair)
//  h, err := r.Field(goshape.Name("a"))
//  a, ok := goshape.Downcast[int32](h)
//
//  v, err := r.ConstructProduct([]any{int32(1), int32(2)})
//  p := v.(*Pair)
//
