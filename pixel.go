package pixz

import "golang.org/x/exp/constraints"

// Scalar constrains the component type of the built-in pixel values.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Gray is a single-channel pixel value. The core treats pixel values as
// opaque; Gray and RGB are conveniences for leaves and tests, and callers are
// free to use any copyable type of their own instead.
type Gray[T Scalar] struct {
	Value T
}

// RGB is a three-channel pixel value.
type RGB[T Scalar] struct {
	R, G, B T
}
