package goshape_test

import goshape "github.com/reoring/goshape"

// Pair carries hand-written Reflectable methods in the shape cmd/goshape emits.
type Pair struct {
	A int32
	B int32
}

var pairShape = goshape.Product[Pair]("Pair",
	goshape.Named("a", func(v *Pair) *int32 { return &v.A }),
	goshape.Named("b", func(v *Pair) *int32 { return &v.B }),
)

func (v *Pair) Schema() *goshape.Type { return pairShape.Type() }

func (v *Pair) ConstructProduct(args []any) (any, error) { return pairShape.ConstructProduct(args) }

func (v *Pair) ConstructVariant(variant string, args []any) (any, error) {
	return pairShape.ConstructVariant(variant, args)
}

func (v *Pair) Field(id goshape.FieldID) (goshape.Handle, error) { return pairShape.Field(v, id) }

func (v *Pair) FieldMut(id goshape.FieldID) (goshape.MutHandle, error) {
	return pairShape.FieldMut(v, id)
}

// Tuple is reached through goshape.Of only.
type Tuple struct {
	N int32
	S string
}

var tupleShape = goshape.Product[Tuple]("Tuple",
	goshape.Positional(func(v *Tuple) *int32 { return &v.N }),
	goshape.Positional(func(v *Tuple) *string { return &v.S }),
)

type Secret struct {
	key string
}

var secretShape = goshape.Product[Secret]("Secret",
	goshape.Named("key", func(v *Secret) *string { return &v.key }),
).Sealed()

type Nothing struct{}

var nothingShape = goshape.UnitType[Nothing]("Nothing")

type Hollow struct{}

var hollowShape = goshape.Product[Hollow]("Hollow")

type Shape interface{ isShape() }

type Circle struct{ R float64 }
type Square struct{ Side float64 }
type Blank struct{}

func (*Circle) isShape() {}
func (*Square) isShape() {}
func (*Blank) isShape()  {}

var shapeShape = goshape.Union[Shape]("Shape",
	goshape.Case[Shape, Circle]("Circle", goshape.Positional(func(v *Circle) *float64 { return &v.R })),
	goshape.Case[Shape, Square]("Square", goshape.Named("side", func(v *Square) *float64 { return &v.Side })),
	goshape.Case[Shape, Blank]("Blank"),
)

// Node refers to itself through a pointer and is declared before Outer,
// which in turn refers to it.
type Node struct {
	Value int
	Next  *Node
}

var nodeShape = goshape.Product[Node]("Node",
	goshape.Named("value", func(v *Node) *int { return &v.Value }),
	goshape.Named("next", func(v *Node) **Node { return &v.Next }),
)

type Outer struct {
	Inner Pair
	Shape Shape
	Tags  string
	Head  *Node
}

var outerShape = goshape.Product[Outer]("Outer",
	goshape.Named("inner", func(v *Outer) *Pair { return &v.Inner }),
	goshape.Named("shape", func(v *Outer) *Shape { return &v.Shape }),
	goshape.Named("tags/all", func(v *Outer) *string { return &v.Tags }),
	goshape.Named("head", func(v *Outer) **Node { return &v.Head }),
)
