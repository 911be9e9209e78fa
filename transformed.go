package pixz

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Transformed node observability.
const (
	TransformedLookupsTotal  = metricz.Key("transformed.lookups.total")
	TransformedSampledTotal  = metricz.Key("transformed.sampled.total")
	TransformedOutsideTotal  = metricz.Key("transformed.outside.total")
	TransformedSingularTotal = metricz.Key("transformed.singular.total")
	TransformedErrorsTotal   = metricz.Key("transformed.errors.total")
)

// Span names for Transformed node.
const (
	TransformedLookupSpan = tracez.Key("transformed.lookup")
)

// Span tags for Transformed node.
const (
	TransformedTagNode     = tracez.Tag("transformed.node")
	TransformedTagSingular = tracez.Tag("transformed.singular")
	TransformedTagSourceX  = tracez.Tag("transformed.source_x")
	TransformedTagSourceY  = tracez.Tag("transformed.source_y")
	TransformedTagError    = tracez.Tag("transformed.error")

	// Hook event keys.
	TransformedEventSampled  = hookz.Key("transformed.sampled")
	TransformedEventSingular = hookz.Key("transformed.singular")
)

// TransformedEvent reports one resampling decision.
type TransformedEvent struct {
	Name      Name      // Node name
	X, Y      int       // Destination coordinate
	SourceX   int       // Rounded source x (when not singular)
	SourceY   int       // Rounded source y (when not singular)
	Singular  bool      // Whether the transform was non-invertible
	Present   bool      // Whether the wrapped source produced a value
	Timestamp time.Time // When the event occurred
}

// Transformed resamples a source through an affine transform using
// nearest-neighbor sampling. For a destination coordinate (x, y) the node
// inverts its transform, maps (x, y) through the inverse via the exact
// coordinate algebra, rounds each source coordinate to the nearest integer
// and delegates to the wrapped source there.
//
// Degradation is graceful and per-query:
//   - a singular transform (determinant magnitude below 1e-10) yields
//     absence for every query, never an error
//   - a rounded source coordinate below zero yields absence
//   - anything else is the wrapped source's own outcome
//
// Dimensions are the wrapped source's dimensions. The true transformed
// bounding box is not recomputed; this is a known limitation kept for
// compatibility, so rotations and scales can move content outside the
// declared rectangle.
//
// Example - translate, then shrink to half size:
//
//	zoomed := pixz.NewTransformed("zoom", source,
//	    pixz.Translation(10, 10).Compose(pixz.Scaling(0.5, 0.5)))
type Transformed[P any] struct {
	source    Source[P]
	transform AffineTransform
	name      Name
	mu        sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[TransformedEvent]
}

// NewTransformed creates a Transformed node over source. Ownership of source
// transfers to the node. A singular transform is accepted: the node stays
// queryable and answers absence, and a capitan signal flags the condition at
// construction.
func NewTransformed[P any](name Name, source Source[P], transform AffineTransform) *Transformed[P] {
	registry := metricz.New()
	registry.Counter(TransformedLookupsTotal)
	registry.Counter(TransformedSampledTotal)
	registry.Counter(TransformedOutsideTotal)
	registry.Counter(TransformedSingularTotal)
	registry.Counter(TransformedErrorsTotal)

	if _, ok := transform.Inverse(); !ok {
		capitan.Warn(context.Background(), SignalTransformedSingular,
			FieldName.Field(string(name)),
			FieldDeterminant.Field(transform.Determinant()),
			FieldTimestamp.Field(float64(time.Now().Unix())),
		)
	}

	return &Transformed[P]{
		name:      name,
		source:    source,
		transform: transform,
		metrics:   registry,
		tracer:    tracez.New(),
		hooks:     hookz.New[TransformedEvent](),
	}
}

// Lookup implements the Source interface.
func (t *Transformed[P]) Lookup(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
	defer recoverToError(&pixel, &ok, &err, t.name, x, y)

	t.mu.RLock()
	source := t.source
	transform := t.transform
	t.mu.RUnlock()

	ctx, span := t.tracer.StartSpan(ctx, TransformedLookupSpan)
	defer span.Finish()
	span.SetTag(TransformedTagNode, string(t.name))

	t.metrics.Counter(TransformedLookupsTotal).Inc()

	inverse, invertible := transform.Inverse()
	if !invertible {
		t.metrics.Counter(TransformedSingularTotal).Inc()
		span.SetTag(TransformedTagSingular, "true")

		_ = t.hooks.Emit(ctx, TransformedEventSingular, TransformedEvent{ //nolint:errcheck
			Name:      t.name,
			X:         x,
			Y:         y,
			Singular:  true,
			Timestamp: time.Now(),
		})

		var zero P
		return zero, false, nil
	}

	destination, _ := NewPlace(float64(x), float64(y)) // integer coordinates are always finite
	mapped, finite := inverse.TransformPlace(destination)
	if !finite {
		t.metrics.Counter(TransformedOutsideTotal).Inc()
		var zero P
		return zero, false, nil
	}

	sourceX := int(math.Round(mapped.X().Float64()))
	sourceY := int(math.Round(mapped.Y().Float64()))
	span.SetTag(TransformedTagSourceX, strconv.Itoa(sourceX))
	span.SetTag(TransformedTagSourceY, strconv.Itoa(sourceY))

	if sourceX < 0 || sourceY < 0 {
		t.metrics.Counter(TransformedOutsideTotal).Inc()
		var zero P
		return zero, false, nil
	}

	value, present, srcErr := source.Lookup(ctx, sourceX, sourceY)
	if srcErr != nil {
		t.metrics.Counter(TransformedErrorsTotal).Inc()
		span.SetTag(TransformedTagError, srcErr.Error())
		var zero P
		return zero, false, relayError(srcErr, t.name)
	}

	t.metrics.Counter(TransformedSampledTotal).Inc()
	_ = t.hooks.Emit(ctx, TransformedEventSampled, TransformedEvent{ //nolint:errcheck
		Name:      t.name,
		X:         x,
		Y:         y,
		SourceX:   sourceX,
		SourceY:   sourceY,
		Present:   present,
		Timestamp: time.Now(),
	})

	if !present {
		var zero P
		return zero, false, nil
	}
	return value, true, nil
}

// Dimensions returns the wrapped source's dimensions, not the transformed
// bounding box. See the type documentation.
func (t *Transformed[P]) Dimensions() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.source.Dimensions()
}

// Name returns the name of this node.
func (t *Transformed[P]) Name() Name {
	return t.name
}

// Transform returns the node's transform.
func (t *Transformed[P]) Transform() AffineTransform {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.transform
}

// SetTransform replaces the transform at runtime.
func (t *Transformed[P]) SetTransform(transform AffineTransform) *Transformed[P] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transform = transform
	return t
}

// Source returns the wrapped source.
func (t *Transformed[P]) Source() Source[P] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.source
}

// Metrics returns the metrics registry for this node.
func (t *Transformed[P]) Metrics() *metricz.Registry {
	return t.metrics
}

// Tracer returns the tracer for this node.
func (t *Transformed[P]) Tracer() *tracez.Tracer {
	return t.tracer
}

// OnSampled registers a handler called asynchronously after each resampled
// lookup.
func (t *Transformed[P]) OnSampled(handler func(context.Context, TransformedEvent) error) error {
	_, err := t.hooks.Hook(TransformedEventSampled, handler)
	return err
}

// OnSingular registers a handler called asynchronously when a query hits a
// non-invertible transform.
func (t *Transformed[P]) OnSingular(handler func(context.Context, TransformedEvent) error) error {
	_, err := t.hooks.Hook(TransformedEventSingular, handler)
	return err
}

// Close gracefully shuts down observability components.
func (t *Transformed[P]) Close() error {
	if t.tracer != nil {
		t.tracer.Close()
	}
	t.hooks.Close()
	return nil
}
