package pixz

import (
	"fmt"
	"sync"
)

// Registry is a named catalog of operation descriptions. It replaces
// code-generation approaches to declaring operations: instead of turning
// annotated functions into types, callers register plain Operation values
// under a name and look them up when wiring a Backed source.
//
// Example:
//
//	reg := pixz.NewRegistry[pixz.Gray[uint8]]()
//	reg.Register("invert", pixz.Pointwise[pixz.Gray[uint8]](pixz.PointwiseNegate))
//	reg.Register("brighten-25", pixz.PointwiseWith[pixz.Gray[uint8]](pixz.PointwiseBrighten, 0.25))
//
//	op, err := reg.Get("invert")
//
// Registry is safe for concurrent use.
type Registry[P any] struct {
	operations map[Name]Operation[P]
	mu         sync.RWMutex
}

// NewRegistry creates an empty operation registry.
func NewRegistry[P any]() *Registry[P] {
	return &Registry[P]{
		operations: make(map[Name]Operation[P]),
	}
}

// Register stores op under name, replacing any previous registration.
// Returns the registry to allow chaining.
func (r *Registry[P]) Register(name Name, op Operation[P]) *Registry[P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[name] = op
	return r
}

// Unregister removes the operation stored under name, if any.
func (r *Registry[P]) Unregister(name Name) *Registry[P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.operations, name)
	return r
}

// Get returns the operation stored under name.
func (r *Registry[P]) Get(name Name) (Operation[P], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, exists := r.operations[name]
	if !exists {
		return Operation[P]{}, fmt.Errorf("no operation registered under %q", name)
	}
	return op, nil
}

// Has reports whether an operation is registered under name.
func (r *Registry[P]) Has(name Name) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.operations[name]
	return exists
}

// Names returns the registered names in unspecified order.
func (r *Registry[P]) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]Name, 0, len(r.operations))
	for name := range r.operations {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered operations.
func (r *Registry[P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operations)
}
