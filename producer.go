package pixz

import (
	"context"
	"time"
)

// Producer is a leaf source backed by a per-coordinate function. It contains
// a descriptive name for debugging, the declared rectangle, and a private
// function that produces the value. Producers are the basic building block
// created by the adapter functions Generate and Fetch.
//
// The fn field is intentionally private to ensure producers are only created
// through the provided adapters, keeping bounds checking and error handling
// consistent.
//
// Best practices for producer names:
//   - Use descriptive, content-oriented names ("gradient", "noise-tile")
//   - Names appear in Error.Path for debugging (e.g., ["zoom", "gradient"])
type Producer[P any] struct {
	fn     func(context.Context, int, int) (P, bool, *Error)
	name   Name
	width  int
	height int
}

// Lookup implements the Source interface. Coordinates outside the declared
// rectangle yield absence without invoking the wrapped function.
func (p Producer[P]) Lookup(ctx context.Context, x, y int) (P, bool, *Error) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		var zero P
		return zero, false, nil
	}
	return p.fn(ctx, x, y)
}

// Dimensions returns the declared rectangle.
func (p Producer[P]) Dimensions() (int, int) {
	return p.width, p.height
}

// Name returns the name of the producer for debugging and error reporting.
func (p Producer[P]) Name() Name {
	return p.name
}

// Generate creates a Producer from a total per-coordinate function.
// Generate is the simplest leaf - use it when every in-bounds coordinate has
// a value and computing it cannot fail.
//
// Ideal for:
//   - Synthetic content (gradients, checkerboards, noise)
//   - Wrapping an already materialized in-memory buffer
//   - Test fixtures
//
// If producing a value might fail, use Fetch instead.
//
// Example:
//
//	gradient := pixz.Generate("gradient", 50, 50, func(_ context.Context, x, y int) pixz.Gray[int] {
//	    return pixz.Gray[int]{Value: x + y}
//	})
func Generate[P any](name Name, width, height int, fn func(context.Context, int, int) P) Producer[P] {
	return Producer[P]{
		name:   name,
		width:  max(width, 0),
		height: max(height, 0),
		fn: func(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
			defer recoverToError(&pixel, &ok, &err, name, x, y)
			pixel = fn(ctx, x, y)
			return pixel, true, nil
		},
	}
}

// Fetch creates a Producer from a per-coordinate function that may fail.
// An error from fn becomes a *Error failure rooted at this leaf; it will
// travel up through every wrapping combinator unchanged.
//
// Example:
//
//	tile := pixz.Fetch("remote-tile", 256, 256, func(ctx context.Context, x, y int) (pixz.RGB[uint8], error) {
//	    return store.Pixel(ctx, x, y)
//	})
func Fetch[P any](name Name, width, height int, fn func(context.Context, int, int) (P, error)) Producer[P] {
	return Producer[P]{
		name:   name,
		width:  max(width, 0),
		height: max(height, 0),
		fn: func(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
			defer recoverToError(&pixel, &ok, &err, name, x, y)
			start := time.Now()
			result, fnErr := fn(ctx, x, y)
			if fnErr != nil {
				var zero P
				return zero, false, newError(name, x, y, start, fnErr)
			}
			return result, true, nil
		},
	}
}
