package pixz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Chain node observability.
const (
	ChainLookupsTotal = metricz.Key("chain.lookups.total")
	ChainFirstTotal   = metricz.Key("chain.first.total")
	ChainSecondTotal  = metricz.Key("chain.second.total")
	ChainErrorsTotal  = metricz.Key("chain.errors.total")
)

// Span names for Chain node.
const (
	ChainLookupSpan = tracez.Key("chain.lookup")
)

// Span tags for Chain node.
const (
	ChainTagNode  = tracez.Tag("chain.node")
	ChainTagChild = tracez.Tag("chain.child")
	ChainTagError = tracez.Tag("chain.error")

	// Hook event keys.
	ChainEventRouted = hookz.Key("chain.routed")
)

// ChainEvent reports which child a query was routed to.
type ChainEvent struct {
	Name      Name      // Node name
	Child     Name      // Name of the child consulted
	X, Y      int       // Queried coordinate (as seen by this node)
	Present   bool      // Whether the child produced a value
	Timestamp time.Time // When the event occurred
}

// Chain concatenates two sources horizontally. Queries with x below the
// first child's width go to the first child at (x, y); everything else goes
// to the second child at (x - width(first), y). The combined rectangle is
// (width(first)+width(second), max(height(first), height(second))).
//
// The y coordinate is only validated by each child's own bound check, so a
// query in the gap between a shorter child's height and the combined height
// yields that child's own absence, not an error. The routed hook event
// records which child was consulted, which makes gap queries observable
// without changing the outcome.
//
// Example:
//
//	wide := pixz.NewChain("side-by-side", left, right)
//
// Chain is safe for concurrent lookups. The children are fixed at
// construction; swapping one would silently change the split column under
// in-flight queries.
type Chain[P any] struct {
	first  Source[P]
	second Source[P]
	name   Name
	mu     sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[ChainEvent]
}

// NewChain creates a Chain node over first and second. Ownership of both
// sources transfers to the node.
func NewChain[P any](name Name, first, second Source[P]) *Chain[P] {
	registry := metricz.New()
	registry.Counter(ChainLookupsTotal)
	registry.Counter(ChainFirstTotal)
	registry.Counter(ChainSecondTotal)
	registry.Counter(ChainErrorsTotal)

	return &Chain[P]{
		name:    name,
		first:   first,
		second:  second,
		metrics: registry,
		tracer:  tracez.New(),
		hooks:   hookz.New[ChainEvent](),
	}
}

// Lookup implements the Source interface.
func (c *Chain[P]) Lookup(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
	defer recoverToError(&pixel, &ok, &err, c.name, x, y)

	c.mu.RLock()
	first := c.first
	second := c.second
	c.mu.RUnlock()

	ctx, span := c.tracer.StartSpan(ctx, ChainLookupSpan)
	defer span.Finish()
	span.SetTag(ChainTagNode, string(c.name))

	c.metrics.Counter(ChainLookupsTotal).Inc()

	firstWidth, _ := first.Dimensions()

	child := first
	childX := x
	if x >= firstWidth {
		child = second
		childX = x - firstWidth
		c.metrics.Counter(ChainSecondTotal).Inc()
	} else {
		c.metrics.Counter(ChainFirstTotal).Inc()
	}
	span.SetTag(ChainTagChild, string(child.Name()))

	value, present, childErr := child.Lookup(ctx, childX, y)
	if childErr != nil {
		c.metrics.Counter(ChainErrorsTotal).Inc()
		span.SetTag(ChainTagError, childErr.Error())
		var zero P
		return zero, false, relayError(childErr, c.name)
	}

	_ = c.hooks.Emit(ctx, ChainEventRouted, ChainEvent{ //nolint:errcheck
		Name:      c.name,
		Child:     child.Name(),
		X:         x,
		Y:         y,
		Present:   present,
		Timestamp: time.Now(),
	})

	if !present {
		var zero P
		return zero, false, nil
	}
	return value, true, nil
}

// Dimensions returns the combined rectangle: widths add, heights take the
// maximum.
func (c *Chain[P]) Dimensions() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w1, h1 := c.first.Dimensions()
	w2, h2 := c.second.Dimensions()
	return w1 + w2, max(h1, h2)
}

// Name returns the name of this node.
func (c *Chain[P]) Name() Name {
	return c.name
}

// First returns the left child.
func (c *Chain[P]) First() Source[P] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.first
}

// Second returns the right child.
func (c *Chain[P]) Second() Source[P] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.second
}

// Metrics returns the metrics registry for this node.
func (c *Chain[P]) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this node.
func (c *Chain[P]) Tracer() *tracez.Tracer {
	return c.tracer
}

// OnRouted registers a handler called asynchronously after each successful
// routing decision.
func (c *Chain[P]) OnRouted(handler func(context.Context, ChainEvent) error) error {
	_, err := c.hooks.Hook(ChainEventRouted, handler)
	return err
}

// Close gracefully shuts down observability components.
func (c *Chain[P]) Close() error {
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
	return nil
}
