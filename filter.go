package pixz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Filter node observability.
const (
	FilterLookupsTotal  = metricz.Key("filter.lookups.total")
	FilterPassedTotal   = metricz.Key("filter.passed.total")
	FilterRejectedTotal = metricz.Key("filter.rejected.total")
	FilterAbsentTotal   = metricz.Key("filter.absent.total")
	FilterErrorsTotal   = metricz.Key("filter.errors.total")
)

// Span names for Filter node.
const (
	FilterLookupSpan = tracez.Key("filter.lookup")
)

// Span tags for Filter node.
const (
	FilterTagNode     = tracez.Tag("filter.node")
	FilterTagAccepted = tracez.Tag("filter.accepted")
	FilterTagError    = tracez.Tag("filter.error")

	// Hook event keys.
	FilterEventPassed   = hookz.Key("filter.passed")
	FilterEventRejected = hookz.Key("filter.rejected")
)

// FilterEvent represents a filter decision on a present pixel value.
// This is emitted via hookz whenever the predicate runs, allowing external
// systems to track how much of a source a filter is discarding.
type FilterEvent struct {
	Name      Name      // Node name
	X, Y      int       // Queried coordinate
	Accepted  bool      // Whether the predicate accepted the value
	Timestamp time.Time // When the event occurred
}

// Filter converts unwanted present values into absence. For each lookup the
// wrapped source is consulted first; if it produced a value and the predicate
// rejects it, the result becomes absence - indistinguishable from the
// coordinate never having had a value. Absence and failure from the wrapped
// source pass through untouched, and dimensions are unchanged.
//
// Rejection is deliberately absence rather than an error: a filtered-out
// pixel is "no such coordinate here", not a computation that went wrong.
//
// Example - keep only dim pixels:
//
//	dim := pixz.NewFilter("dim-only", source, func(_ context.Context, p pixz.Gray[int]) bool {
//	    return p.Value < 10
//	})
//
// Filter is safe for concurrent lookups. The predicate can be swapped at
// runtime with SetPredicate.
type Filter[P any] struct {
	source    Source[P]
	predicate func(context.Context, P) bool
	name      Name
	mu        sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[FilterEvent]
}

// NewFilter creates a Filter node over source. Ownership of source transfers
// to the node.
func NewFilter[P any](name Name, source Source[P], predicate func(context.Context, P) bool) *Filter[P] {
	registry := metricz.New()
	registry.Counter(FilterLookupsTotal)
	registry.Counter(FilterPassedTotal)
	registry.Counter(FilterRejectedTotal)
	registry.Counter(FilterAbsentTotal)
	registry.Counter(FilterErrorsTotal)

	return &Filter[P]{
		name:      name,
		source:    source,
		predicate: predicate,
		metrics:   registry,
		tracer:    tracez.New(),
		hooks:     hookz.New[FilterEvent](),
	}
}

// Lookup implements the Source interface.
func (f *Filter[P]) Lookup(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
	defer recoverToError(&pixel, &ok, &err, f.name, x, y)

	f.mu.RLock()
	source := f.source
	predicate := f.predicate
	f.mu.RUnlock()

	ctx, span := f.tracer.StartSpan(ctx, FilterLookupSpan)
	defer span.Finish()
	span.SetTag(FilterTagNode, string(f.name))

	f.metrics.Counter(FilterLookupsTotal).Inc()

	value, present, srcErr := source.Lookup(ctx, x, y)
	if srcErr != nil {
		f.metrics.Counter(FilterErrorsTotal).Inc()
		span.SetTag(FilterTagError, srcErr.Error())
		var zero P
		return zero, false, relayError(srcErr, f.name)
	}
	if !present {
		f.metrics.Counter(FilterAbsentTotal).Inc()
		var zero P
		return zero, false, nil
	}

	accepted := predicate(ctx, value)
	span.SetTag(FilterTagAccepted, boolTag(accepted))

	if !accepted {
		f.metrics.Counter(FilterRejectedTotal).Inc()
		_ = f.hooks.Emit(ctx, FilterEventRejected, FilterEvent{ //nolint:errcheck
			Name:      f.name,
			X:         x,
			Y:         y,
			Accepted:  false,
			Timestamp: time.Now(),
		})
		var zero P
		return zero, false, nil
	}

	f.metrics.Counter(FilterPassedTotal).Inc()
	_ = f.hooks.Emit(ctx, FilterEventPassed, FilterEvent{ //nolint:errcheck
		Name:      f.name,
		X:         x,
		Y:         y,
		Accepted:  true,
		Timestamp: time.Now(),
	})

	return value, true, nil
}

// Dimensions returns the wrapped source's dimensions.
func (f *Filter[P]) Dimensions() (int, int) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.source.Dimensions()
}

// Name returns the name of this node.
func (f *Filter[P]) Name() Name {
	return f.name
}

// SetPredicate replaces the predicate at runtime.
func (f *Filter[P]) SetPredicate(predicate func(context.Context, P) bool) *Filter[P] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predicate = predicate
	return f
}

// Source returns the wrapped source.
func (f *Filter[P]) Source() Source[P] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.source
}

// Metrics returns the metrics registry for this node.
func (f *Filter[P]) Metrics() *metricz.Registry {
	return f.metrics
}

// Tracer returns the tracer for this node.
func (f *Filter[P]) Tracer() *tracez.Tracer {
	return f.tracer
}

// OnPassed registers a handler called asynchronously when the predicate
// accepts a value.
func (f *Filter[P]) OnPassed(handler func(context.Context, FilterEvent) error) error {
	_, err := f.hooks.Hook(FilterEventPassed, handler)
	return err
}

// OnRejected registers a handler called asynchronously when the predicate
// rejects a value and the result becomes absence.
func (f *Filter[P]) OnRejected(handler func(context.Context, FilterEvent) error) error {
	_, err := f.hooks.Hook(FilterEventRejected, handler)
	return err
}

// Close gracefully shuts down observability components.
func (f *Filter[P]) Close() error {
	if f.tracer != nil {
		f.tracer.Close()
	}
	f.hooks.Close()
	return nil
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
