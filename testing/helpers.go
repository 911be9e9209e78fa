// Package testing provides test utilities and helpers for pixz-based code.
//
// This package includes a configurable mock source and assertion helpers to
// make testing pixel pipelines easier.
//
// Example usage:
//
//	func TestMyPipeline(t *testing.T) {
//		mock := pixztesting.NewMockSource[int](t, "mock-source", 10, 10)
//		mock.WithPixel(42)
//
//		root := pixz.NewMap("double", mock, func(_ context.Context, v int) int { return v * 2 })
//		px, ok, err := root.Lookup(context.Background(), 3, 3)
//		// px == 84, ok == true, err == nil
//		pixztesting.AssertLookups(t, mock, 1)
//	}
package testing

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/pixz"
)

// MockSource provides a configurable mock implementation of pixz.Source[P].
// It tracks lookups, allows configuring the returned outcome, and provides
// assertion methods for testing pipeline behavior.
type MockSource[P any] struct {
	t           *testing.T
	name        pixz.Name
	width       int
	height      int
	callCount   int64
	returnPixel P
	returnOK    bool
	returnErr   error
	panicMsg    string
	mu          sync.RWMutex
	lastX       int
	lastY       int
}

// NewMockSource creates a mock source for testing. By default every
// in-bounds lookup is absent; configure an outcome with WithPixel,
// WithAbsent or WithFailure.
func NewMockSource[P any](t *testing.T, name pixz.Name, width, height int) *MockSource[P] {
	t.Helper()
	return &MockSource[P]{
		t:      t,
		name:   name,
		width:  width,
		height: height,
	}
}

// WithPixel configures the mock to return the given value for all in-bounds
// lookups.
func (m *MockSource[P]) WithPixel(pixel P) *MockSource[P] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returnPixel = pixel
	m.returnOK = true
	m.returnErr = nil
	return m
}

// WithAbsent configures the mock to return absence for all lookups.
func (m *MockSource[P]) WithAbsent() *MockSource[P] {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero P
	m.returnPixel = zero
	m.returnOK = false
	m.returnErr = nil
	return m
}

// WithFailure configures the mock to fail every in-bounds lookup with err.
func (m *MockSource[P]) WithFailure(err error) *MockSource[P] {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero P
	m.returnPixel = zero
	m.returnOK = false
	m.returnErr = err
	return m
}

// WithPanic configures the mock to panic with msg on every in-bounds lookup,
// for testing panic recovery in wrapping nodes.
func (m *MockSource[P]) WithPanic(msg string) *MockSource[P] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panicMsg = msg
	return m
}

// Lookup implements pixz.Source.
func (m *MockSource[P]) Lookup(_ context.Context, x, y int) (P, bool, *pixz.Error) {
	atomic.AddInt64(&m.callCount, 1)

	m.mu.Lock()
	m.lastX, m.lastY = x, y
	pixel := m.returnPixel
	ok := m.returnOK
	err := m.returnErr
	panicMsg := m.panicMsg
	m.mu.Unlock()

	var zero P
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return zero, false, nil
	}
	if panicMsg != "" {
		panic(panicMsg)
	}
	if err != nil {
		return zero, false, &pixz.Error{
			Path:      []pixz.Name{m.name},
			X:         x,
			Y:         y,
			Err:       err,
			Timestamp: time.Now(),
		}
	}
	if !ok {
		return zero, false, nil
	}
	return pixel, true, nil
}

// Dimensions implements pixz.Source.
func (m *MockSource[P]) Dimensions() (int, int) {
	return m.width, m.height
}

// Name implements pixz.Source.
func (m *MockSource[P]) Name() pixz.Name {
	return m.name
}

// CallCount returns the number of lookups the mock has received.
func (m *MockSource[P]) CallCount() int {
	return int(atomic.LoadInt64(&m.callCount))
}

// LastCoordinate returns the coordinate of the most recent lookup.
func (m *MockSource[P]) LastCoordinate() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastX, m.lastY
}

// Reset clears the call count and recorded coordinate.
func (m *MockSource[P]) Reset() *MockSource[P] {
	atomic.StoreInt64(&m.callCount, 0)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastX, m.lastY = 0, 0
	return m
}

// AssertLookups fails the test if the mock did not receive exactly expected
// lookups.
func AssertLookups[P any](t *testing.T, mock *MockSource[P], expected int) {
	t.Helper()
	if got := mock.CallCount(); got != expected {
		t.Errorf("expected %d lookups, got %d", expected, got)
	}
}

// AssertLastCoordinate fails the test if the mock's most recent lookup was
// not at (x, y).
func AssertLastCoordinate[P any](t *testing.T, mock *MockSource[P], x, y int) {
	t.Helper()
	gotX, gotY := mock.LastCoordinate()
	if gotX != x || gotY != y {
		t.Errorf("expected last lookup at (%d, %d), got (%d, %d)", x, y, gotX, gotY)
	}
}
