package pixz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// ErrNotSupported is returned by a Backend that cannot execute the given
// operation.
var ErrNotSupported = errors.New("operation not supported on this backend")

// ExecutionError reports a backend that accepted an operation but failed
// while running it.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed: %s", e.Message)
}

// Backend is a capability that executes operation descriptions, producing a
// flat row-major sequence of pixel values. Backends are external
// collaborators: the core never inspects how they run, only whether they
// produced output or failed with ErrNotSupported or an *ExecutionError.
type Backend[P any] interface {
	Execute(ctx context.Context, op Operation[P]) ([]P, error)
	Name() Name
}

// CPUBackend is the placeholder CPU execution strategy. Pointwise and
// convolution execution are not implemented yet and produce empty output;
// custom operations echo their carried data.
type CPUBackend[P any] struct{}

// Execute implements the Backend interface.
func (CPUBackend[P]) Execute(_ context.Context, op Operation[P]) ([]P, error) {
	switch op.Kind {
	case KindPointwise, KindConvolve:
		return []P{}, nil
	case KindCustom:
		out := make([]P, len(op.Data))
		copy(out, op.Data)
		return out, nil
	default:
		return nil, ErrNotSupported
	}
}

// Name implements the Backend interface.
func (CPUBackend[P]) Name() Name {
	return "cpu"
}

// GPUBackend is the placeholder GPU execution strategy. No operation is
// supported yet.
type GPUBackend[P any] struct {
	deviceID int
}

// NewGPUBackend creates a GPU backend for the specified device.
func NewGPUBackend[P any](deviceID int) *GPUBackend[P] {
	return &GPUBackend[P]{deviceID: deviceID}
}

// Execute implements the Backend interface.
func (*GPUBackend[P]) Execute(_ context.Context, _ Operation[P]) ([]P, error) {
	return nil, ErrNotSupported
}

// Name implements the Backend interface.
func (*GPUBackend[P]) Name() Name {
	return "gpu"
}

// Metric keys for Backed node observability.
const (
	BackedLookupsTotal  = metricz.Key("backed.lookups.total")
	BackedProducedTotal = metricz.Key("backed.produced.total")
	BackedAbsentTotal   = metricz.Key("backed.absent.total")
	BackedErrorsTotal   = metricz.Key("backed.errors.total")
)

// Span names for Backed node.
const (
	BackedLookupSpan = tracez.Key("backed.lookup")
)

// Span tags for Backed node.
const (
	BackedTagNode    = tracez.Tag("backed.node")
	BackedTagBackend = tracez.Tag("backed.backend")
	BackedTagError   = tracez.Tag("backed.error")

	// Hook event keys.
	BackedEventExecuted = hookz.Key("backed.executed")
	BackedEventFailed   = hookz.Key("backed.failed")
)

// BackedEvent reports one backend execution triggered by a lookup.
type BackedEvent struct {
	Name      Name      // Node name
	Backend   Name      // Backend name
	X, Y      int       // Queried coordinate
	Present   bool      // Whether the output covered the coordinate
	Error     error     // Backend error, if any
	Timestamp time.Time // When the event occurred
}

// Backed exposes a (backend, operation, width, height) tuple as an ordinary
// pixel source. A lookup inside the declared rectangle executes the
// operation on the backend and indexes the produced sequence row-major; an
// index past the end of the output is absence, and a backend error is a
// failure rooted at this node.
//
// Backed re-executes the backend per lookup, like every other node
// re-evaluates per query. Wrap it in a Cache when the backend is expensive:
//
//	src := pixz.NewCache("memo",
//	    pixz.NewBacked[pixz.Gray[uint8]]("negated", backend, op, 64, 64),
//	    0)
type Backed[P any] struct {
	backend   Backend[P]
	operation Operation[P]
	name      Name
	width     int
	height    int
	mu        sync.RWMutex

	// Observability
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[BackedEvent]
}

// NewBacked creates a Backed source for the given backend and operation.
func NewBacked[P any](name Name, backend Backend[P], op Operation[P], width, height int) *Backed[P] {
	registry := metricz.New()
	registry.Counter(BackedLookupsTotal)
	registry.Counter(BackedProducedTotal)
	registry.Counter(BackedAbsentTotal)
	registry.Counter(BackedErrorsTotal)

	return &Backed[P]{
		name:      name,
		backend:   backend,
		operation: op,
		width:     max(width, 0),
		height:    max(height, 0),
		metrics:   registry,
		tracer:    tracez.New(),
		hooks:     hookz.New[BackedEvent](),
	}
}

// Lookup implements the Source interface.
func (b *Backed[P]) Lookup(ctx context.Context, x, y int) (pixel P, ok bool, err *Error) {
	defer recoverToError(&pixel, &ok, &err, b.name, x, y)

	b.mu.RLock()
	backend := b.backend
	operation := b.operation
	width := b.width
	height := b.height
	b.mu.RUnlock()

	ctx, span := b.tracer.StartSpan(ctx, BackedLookupSpan)
	defer span.Finish()
	span.SetTag(BackedTagNode, string(b.name))
	span.SetTag(BackedTagBackend, string(backend.Name()))

	b.metrics.Counter(BackedLookupsTotal).Inc()

	if x < 0 || y < 0 || x >= width || y >= height {
		b.metrics.Counter(BackedAbsentTotal).Inc()
		var zero P
		return zero, false, nil
	}

	start := time.Now()
	pixels, execErr := backend.Execute(ctx, operation)
	if execErr != nil {
		b.metrics.Counter(BackedErrorsTotal).Inc()
		span.SetTag(BackedTagError, execErr.Error())

		capitan.Error(ctx, SignalBackendFailed,
			FieldName.Field(string(b.name)),
			FieldBackend.Field(string(backend.Name())),
			FieldOperation.Field(operation.Kind.String()),
			FieldError.Field(execErr.Error()),
			FieldX.Field(x),
			FieldY.Field(y),
		)
		_ = b.hooks.Emit(ctx, BackedEventFailed, BackedEvent{ //nolint:errcheck
			Name:      b.name,
			Backend:   backend.Name(),
			X:         x,
			Y:         y,
			Error:     execErr,
			Timestamp: time.Now(),
		})

		var zero P
		return zero, false, newError(b.name, x, y, start, execErr)
	}

	index := y*width + x
	present := index < len(pixels)
	if present {
		b.metrics.Counter(BackedProducedTotal).Inc()
	} else {
		b.metrics.Counter(BackedAbsentTotal).Inc()
	}

	_ = b.hooks.Emit(ctx, BackedEventExecuted, BackedEvent{ //nolint:errcheck
		Name:      b.name,
		Backend:   backend.Name(),
		X:         x,
		Y:         y,
		Present:   present,
		Timestamp: time.Now(),
	})

	if !present {
		var zero P
		return zero, false, nil
	}
	return pixels[index], true, nil
}

// Dimensions returns the declared rectangle.
func (b *Backed[P]) Dimensions() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.width, b.height
}

// Name returns the name of this node.
func (b *Backed[P]) Name() Name {
	return b.name
}

// Backend returns the wrapped backend.
func (b *Backed[P]) Backend() Backend[P] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.backend
}

// Operation returns the operation description.
func (b *Backed[P]) Operation() Operation[P] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.operation
}

// SetOperation replaces the operation description at runtime.
func (b *Backed[P]) SetOperation(op Operation[P]) *Backed[P] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.operation = op
	return b
}

// Metrics returns the metrics registry for this node.
func (b *Backed[P]) Metrics() *metricz.Registry {
	return b.metrics
}

// Tracer returns the tracer for this node.
func (b *Backed[P]) Tracer() *tracez.Tracer {
	return b.tracer
}

// OnExecuted registers a handler called asynchronously after a successful
// backend execution.
func (b *Backed[P]) OnExecuted(handler func(context.Context, BackedEvent) error) error {
	_, err := b.hooks.Hook(BackedEventExecuted, handler)
	return err
}

// OnFailed registers a handler called asynchronously when the backend fails.
func (b *Backed[P]) OnFailed(handler func(context.Context, BackedEvent) error) error {
	_, err := b.hooks.Hook(BackedEventFailed, handler)
	return err
}

// Close gracefully shuts down observability components.
func (b *Backed[P]) Close() error {
	if b.tracer != nil {
		b.tracer.Close()
	}
	b.hooks.Close()
	return nil
}
