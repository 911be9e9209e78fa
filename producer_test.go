package pixz

import (
	"context"
	"errors"
	"testing"
)

// gradient returns a w×h source whose value at (x, y) is x+y.
func gradient(name Name, w, h int) Producer[Gray[int]] {
	return Generate(name, w, h, func(_ context.Context, x, y int) Gray[int] {
		return Gray[int]{Value: x + y}
	})
}

func TestGenerate_Lookup(t *testing.T) {
	source := gradient("gradient", 10, 10)

	px, ok, err := source.Lookup(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("expected a present value")
	}
	if px.Value != 10 {
		t.Errorf("expected value 10, got %d", px.Value)
	}
}

func TestGenerate_OutOfBoundsIsAbsent(t *testing.T) {
	source := gradient("gradient", 10, 10)

	for _, coord := range [][2]int{{10, 5}, {5, 10}, {-1, 5}, {5, -1}} {
		_, ok, err := source.Lookup(context.Background(), coord[0], coord[1])
		if err != nil {
			t.Fatalf("expected no error at (%d, %d), got %v", coord[0], coord[1], err)
		}
		if ok {
			t.Errorf("expected absence at (%d, %d)", coord[0], coord[1])
		}
	}
}

func TestGenerate_Dimensions(t *testing.T) {
	source := gradient("gradient", 10, 20)
	w, h := source.Dimensions()
	if w != 10 || h != 20 {
		t.Errorf("expected dimensions (10, 20), got (%d, %d)", w, h)
	}
	if source.Name() != "gradient" {
		t.Errorf("expected name 'gradient', got %s", source.Name())
	}
}

func TestGenerate_NegativeDimensionsClampToZero(t *testing.T) {
	source := Generate("empty", -3, -1, func(_ context.Context, x, y int) int { return x + y })
	w, h := source.Dimensions()
	if w != 0 || h != 0 {
		t.Errorf("expected dimensions (0, 0), got (%d, %d)", w, h)
	}
}

func TestGenerate_PanicBecomesFailure(t *testing.T) {
	source := Generate("poisoned", 4, 4, func(_ context.Context, _, _ int) int {
		panic("bad pixel math")
	})

	_, ok, err := source.Lookup(context.Background(), 1, 1)
	if ok {
		t.Error("expected no value from a panicking producer")
	}
	if err == nil {
		t.Fatal("expected the panic to surface as a failure")
	}
	if len(err.Path) != 1 || err.Path[0] != "poisoned" {
		t.Errorf("expected error path [poisoned], got %v", err.Path)
	}
}

func TestFetch_Error(t *testing.T) {
	cause := errors.New("backing store unavailable")
	source := Fetch("store", 8, 8, func(_ context.Context, _, _ int) (int, error) {
		return 0, cause
	})

	_, ok, err := source.Lookup(context.Background(), 3, 3)
	if ok {
		t.Error("expected no value from a failing leaf")
	}
	if err == nil {
		t.Fatal("expected a failure")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the leaf error to be preserved through Unwrap")
	}
	if err.X != 3 || err.Y != 3 {
		t.Errorf("expected failure at (3, 3), got (%d, %d)", err.X, err.Y)
	}
}

func TestFetch_Success(t *testing.T) {
	source := Fetch("store", 8, 8, func(_ context.Context, x, y int) (int, error) {
		return x * y, nil
	})

	px, ok, err := source.Lookup(context.Background(), 3, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || px != 12 {
		t.Errorf("expected present 12, got present=%t value=%d", ok, px)
	}
}

func TestFetch_OutOfBoundsSkipsFunction(t *testing.T) {
	called := false
	source := Fetch("store", 2, 2, func(_ context.Context, _, _ int) (int, error) {
		called = true
		return 0, nil
	})

	_, ok, err := source.Lookup(context.Background(), 5, 5)
	if ok || err != nil {
		t.Error("expected plain absence out of bounds")
	}
	if called {
		t.Error("expected the leaf function not to run out of bounds")
	}
}
