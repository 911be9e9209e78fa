package pixz

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestMap_AppliesToPresentValues(t *testing.T) {
	doubled := NewMap("double", gradient("gradient", 10, 10), func(_ context.Context, p Gray[int]) Gray[int] {
		return Gray[int]{Value: p.Value * 2}
	})
	defer doubled.Close()

	px, ok, err := doubled.Lookup(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || px.Value != 20 {
		t.Errorf("expected present 20, got present=%t value=%d", ok, px.Value)
	}
}

func TestMap_AbsencePassesThrough(t *testing.T) {
	calls := 0
	doubled := NewMap("double", gradient("gradient", 4, 4), func(_ context.Context, p Gray[int]) Gray[int] {
		calls++
		return p
	})
	defer doubled.Close()

	_, ok, err := doubled.Lookup(context.Background(), 9, 9)
	if ok || err != nil {
		t.Error("expected plain absence outside the source rectangle")
	}
	if calls != 0 {
		t.Error("expected the mapping function not to run for absence")
	}
}

func TestMap_FailurePassesThroughWithPath(t *testing.T) {
	cause := errors.New("leaf failure")
	leaf := Fetch("leaf", 4, 4, func(_ context.Context, _, _ int) (int, error) {
		return 0, cause
	})
	mapped := NewMap("annotate", leaf, func(_ context.Context, v int) int { return v + 1 })
	defer mapped.Close()

	_, ok, err := mapped.Lookup(context.Background(), 1, 1)
	if ok {
		t.Error("expected no value")
	}
	if err == nil {
		t.Fatal("expected the leaf failure to propagate")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the underlying error to be relayed unchanged")
	}
	if len(err.Path) != 2 || err.Path[0] != "annotate" || err.Path[1] != "leaf" {
		t.Errorf("expected error path [annotate leaf], got %v", err.Path)
	}
}

func TestMap_ChangesPixelType(t *testing.T) {
	labeled := NewMap("label", gradient("gradient", 4, 4), func(_ context.Context, p Gray[int]) string {
		return strconv.Itoa(p.Value)
	})
	defer labeled.Close()

	px, ok, err := labeled.Lookup(context.Background(), 1, 2)
	if err != nil || !ok {
		t.Fatalf("expected a present value, got present=%t err=%v", ok, err)
	}
	if px != "3" {
		t.Errorf("expected \"3\", got %q", px)
	}
}

func TestMap_DimensionsUnchanged(t *testing.T) {
	doubled := NewMap("double", gradient("gradient", 7, 3), func(_ context.Context, p Gray[int]) Gray[int] {
		return p
	})
	defer doubled.Close()

	w, h := doubled.Dimensions()
	if w != 7 || h != 3 {
		t.Errorf("expected dimensions (7, 3), got (%d, %d)", w, h)
	}
}

func TestMap_SetFunc(t *testing.T) {
	mapped := NewMap("adjust", gradient("gradient", 4, 4), func(_ context.Context, p Gray[int]) Gray[int] {
		return Gray[int]{Value: p.Value * 2}
	})
	defer mapped.Close()

	mapped.SetFunc(func(_ context.Context, p Gray[int]) Gray[int] {
		return Gray[int]{Value: p.Value * 3}
	})

	px, _, _ := mapped.Lookup(context.Background(), 1, 1)
	if px.Value != 6 {
		t.Errorf("expected new function result 6, got %d", px.Value)
	}
}

func TestMap_PanicInFunctionBecomesFailure(t *testing.T) {
	mapped := NewMap("explode", gradient("gradient", 4, 4), func(_ context.Context, _ Gray[int]) Gray[int] {
		panic("mapping bug")
	})
	defer mapped.Close()

	_, ok, err := mapped.Lookup(context.Background(), 1, 1)
	if ok {
		t.Error("expected no value from a panicking function")
	}
	if err == nil || len(err.Path) == 0 || err.Path[0] != "explode" {
		t.Errorf("expected a failure rooted at 'explode', got %v", err)
	}
}

func TestMap_Metrics(t *testing.T) {
	doubled := NewMap("double", gradient("gradient", 4, 4), func(_ context.Context, p Gray[int]) Gray[int] {
		return p
	})
	defer doubled.Close()

	doubled.Lookup(context.Background(), 1, 1)
	doubled.Lookup(context.Background(), 9, 9)

	if got := doubled.Metrics().Counter(MapLookupsTotal).Value(); got != 2 {
		t.Errorf("expected 2 lookups counted, got %v", got)
	}
	if got := doubled.Metrics().Counter(MapAppliedTotal).Value(); got != 1 {
		t.Errorf("expected 1 application counted, got %v", got)
	}
	if got := doubled.Metrics().Counter(MapAbsentTotal).Value(); got != 1 {
		t.Errorf("expected 1 absence counted, got %v", got)
	}
}
