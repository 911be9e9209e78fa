package pixz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Map node observability.
const (
	MapLookupsTotal = metricz.Key("map.lookups.total")
	MapAppliedTotal = metricz.Key("map.applied.total")
	MapAbsentTotal  = metricz.Key("map.absent.total")
	MapErrorsTotal  = metricz.Key("map.errors.total")
)

// Span names for Map node.
const (
	MapLookupSpan = tracez.Key("map.lookup")
)

// Span tags for Map node.
const (
	MapTagNode    = tracez.Tag("map.node")
	MapTagPresent = tracez.Tag("map.present")
	MapTagError   = tracez.Tag("map.error")

	// Hook event keys.
	MapEventApplied = hookz.Key("map.applied")
)

// MapEvent represents a successful application of the mapping function.
type MapEvent struct {
	Name      Name          // Node name
	X, Y      int           // Queried coordinate
	Duration  time.Duration // Time spent in the wrapped source plus the function
	Timestamp time.Time     // When the event occurred
}

// Map applies a total function to every present pixel value produced by the
// wrapped source. Absence and failure pass through unchanged, and the
// declared dimensions are those of the wrapped source. The mapping function
// may change the pixel type, which is why Map carries two type parameters.
//
// The function must be total: it is only consulted for present values and
// has no way to reject one. To discard values, wrap with Filter instead; to
// signal failure, put the fallible step in the leaf via Fetch.
//
// Example:
//
//	brighter := pixz.NewMap("brighten", source, func(_ context.Context, p pixz.Gray[int]) pixz.Gray[int] {
//	    return pixz.Gray[int]{Value: p.Value + 16}
//	})
//
// Map is safe for concurrent lookups. The mapping function can be swapped at
// runtime with SetFunc.
type Map[P, Q any] struct {
	source Source[P]
	fn     func(context.Context, P) Q
	name   Name
	mu     sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[MapEvent]
}

// NewMap creates a Map node over source. Ownership of source transfers to
// the node; it must not be mutated afterwards.
func NewMap[P, Q any](name Name, source Source[P], fn func(context.Context, P) Q) *Map[P, Q] {
	registry := metricz.New()
	registry.Counter(MapLookupsTotal)
	registry.Counter(MapAppliedTotal)
	registry.Counter(MapAbsentTotal)
	registry.Counter(MapErrorsTotal)

	return &Map[P, Q]{
		name:    name,
		source:  source,
		fn:      fn,
		metrics: registry,
		tracer:  tracez.New(),
		hooks:   hookz.New[MapEvent](),
	}
}

// Lookup implements the Source interface.
func (m *Map[P, Q]) Lookup(ctx context.Context, x, y int) (pixel Q, ok bool, err *Error) {
	defer recoverToError(&pixel, &ok, &err, m.name, x, y)

	m.mu.RLock()
	source := m.source
	fn := m.fn
	m.mu.RUnlock()

	ctx, span := m.tracer.StartSpan(ctx, MapLookupSpan)
	defer span.Finish()
	span.SetTag(MapTagNode, string(m.name))

	m.metrics.Counter(MapLookupsTotal).Inc()

	start := time.Now()
	value, present, srcErr := source.Lookup(ctx, x, y)
	if srcErr != nil {
		m.metrics.Counter(MapErrorsTotal).Inc()
		span.SetTag(MapTagError, srcErr.Error())
		var zero Q
		return zero, false, relayError(srcErr, m.name)
	}
	if !present {
		m.metrics.Counter(MapAbsentTotal).Inc()
		span.SetTag(MapTagPresent, "false")
		var zero Q
		return zero, false, nil
	}

	result := fn(ctx, value)
	m.metrics.Counter(MapAppliedTotal).Inc()
	span.SetTag(MapTagPresent, "true")

	_ = m.hooks.Emit(ctx, MapEventApplied, MapEvent{ //nolint:errcheck
		Name:      m.name,
		X:         x,
		Y:         y,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	})

	return result, true, nil
}

// Dimensions returns the wrapped source's dimensions.
func (m *Map[P, Q]) Dimensions() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source.Dimensions()
}

// Name returns the name of this node.
func (m *Map[P, Q]) Name() Name {
	return m.name
}

// SetFunc replaces the mapping function at runtime.
func (m *Map[P, Q]) SetFunc(fn func(context.Context, P) Q) *Map[P, Q] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	return m
}

// Source returns the wrapped source.
func (m *Map[P, Q]) Source() Source[P] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source
}

// Metrics returns the metrics registry for this node.
func (m *Map[P, Q]) Metrics() *metricz.Registry {
	return m.metrics
}

// Tracer returns the tracer for this node.
func (m *Map[P, Q]) Tracer() *tracez.Tracer {
	return m.tracer
}

// OnApplied registers a handler called asynchronously after the mapping
// function runs for a present value.
func (m *Map[P, Q]) OnApplied(handler func(context.Context, MapEvent) error) error {
	_, err := m.hooks.Hook(MapEventApplied, handler)
	return err
}

// Close gracefully shuts down observability components.
func (m *Map[P, Q]) Close() error {
	if m.tracer != nil {
		m.tracer.Close()
	}
	m.hooks.Close()
	return nil
}
