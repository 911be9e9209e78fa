// Package pixz provides a lightweight, type-safe library for building lazily
// evaluated, composable 2-D pixel-access pipelines in Go.
//
// # Overview
//
// pixz lets you describe image-shaped computations as an immutable tree of
// small nodes instead of materializing pixel buffers at every step. A query
// for a single coordinate enters at the root of the tree and is translated
// and delegated downward until it reaches a leaf; the result (or its absence,
// or a failure) propagates back up, transformed at each node. Nothing is
// computed until a coordinate is asked for, and nothing is cached unless you
// explicitly wrap a node in a Cache.
//
// # Core Concepts
//
// The library is built around a single, uniform interface:
//
//	type Source[P any] interface {
//	    Lookup(ctx context.Context, x, y int) (P, bool, *Error)
//	    Dimensions() (width, height int)
//	    Name() Name
//	}
//
// Key components:
//   - Producers: leaf sources created with adapter functions (Generate, Fetch)
//   - Combinators: nodes wrapping one or two sources (Map, Filter, Chain,
//     Transformed, Cache) while re-exposing the same interface
//   - Coordinate algebra: exact rational Real, Scale, Offset and Place values
//     plus the float-based AffineTransform that Transformed samples through
//
// Design philosophy:
//   - Sources are pure functions of their immutable state and the queried
//     coordinates; a fully constructed tree is safe for concurrent queries
//   - Absence ("no such coordinate here") and failure ("could not compute a
//     value it otherwise would have") are distinct outcomes
//   - Combinators never invent or mask failures; they only relay them,
//     prepending their name to the error path for debugging
//
// # Quick Start
//
//	gradient := pixz.Generate("gradient", 10, 10, func(_ context.Context, x, y int) pixz.Gray[int] {
//	    return pixz.Gray[int]{Value: x + y}
//	})
//
//	doubled := pixz.NewMap("double", gradient, func(_ context.Context, p pixz.Gray[int]) pixz.Gray[int] {
//	    return pixz.Gray[int]{Value: p.Value * 2}
//	})
//
//	dim := pixz.NewFilter("dim-only", doubled, func(_ context.Context, p pixz.Gray[int]) bool {
//	    return p.Value < 10
//	})
//
//	px, ok, err := dim.Lookup(context.Background(), 2, 2)
//	// px.Value == 8, ok == true, err == nil
//
// Spatial transforms go through the exact coordinate algebra:
//
//	zoomed := pixz.NewTransformed("zoom", gradient,
//	    pixz.Translation(10, 10).Compose(pixz.Scaling(0.5, 0.5)))
//
// # Choosing the Right Node
//
//   - Generate/Fetch: leaf sources over a per-coordinate function
//   - Map: reshape present pixel values (may change the pixel type)
//   - Filter: convert unwanted present values into absence
//   - Chain: concatenate two sources side by side
//   - Transformed: resample a source through an affine transform
//   - Cache: opt-in memoization of present/absent outcomes with TTL
//   - Backed: expose a Backend's operation output as an ordinary source
//
// # Error Handling
//
// Every lookup returns either a present value, an absence, or a *pixz.Error
// carrying the coordinate, the failing leaf's error, and the path of nodes it
// traveled through:
//
//	px, ok, err := root.Lookup(ctx, x, y)
//	switch {
//	case err != nil:
//	    log.Printf("failed at %s: %v", strings.Join(err.Path, " -> "), err)
//	case !ok:
//	    // outside the effective domain; not an error
//	default:
//	    use(px)
//	}
package pixz

import "context"

// Source defines the interface for any node that can produce pixels of type P
// for integer coordinates inside a declared rectangle. This interface is the
// foundation of pixz - every leaf producer and every combinator implements
// it, enabling arbitrary-depth composition while maintaining type safety
// through Go generics.
//
// Lookup returns one of three mutually exclusive outcomes:
//   - (pixel, true, nil): a value is present at (x, y)
//   - (zero, false, nil): the coordinate is outside this node's effective
//     domain; absence, not an error
//   - (zero, false, *Error): the node could not compute a value it otherwise
//     would have produced
//
// Dimensions declares the addressable rectangle and must be stable for the
// node's lifetime. Coordinates outside it yield absence, never panics.
type Source[P any] interface {
	Lookup(ctx context.Context, x, y int) (P, bool, *Error)
	Dimensions() (width, height int)
	Name() Name
}

// Name is a type alias for producer and combinator names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    GradientName Name = "gradient"
//	    ZoomName     Name = "zoom"
//	)
type Name = string
