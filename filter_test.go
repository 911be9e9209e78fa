package pixz

import (
	"context"
	"errors"
	"testing"
)

// dimPipeline is the doubled-then-thresholded gradient used across the filter
// tests: values are (x+y)*2 and only values below 10 survive.
func dimPipeline(t *testing.T) *Filter[Gray[int]] {
	t.Helper()
	doubled := NewMap("double", gradient("gradient", 10, 10), func(_ context.Context, p Gray[int]) Gray[int] {
		return Gray[int]{Value: p.Value * 2}
	})
	return NewFilter("dim-only", doubled, func(_ context.Context, p Gray[int]) bool {
		return p.Value < 10
	})
}

func TestFilter_RejectionBecomesAbsence(t *testing.T) {
	dim := dimPipeline(t)
	defer dim.Close()

	_, ok, err := dim.Lookup(context.Background(), 5, 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected (5, 5) with value 20 to be filtered to absence")
	}
}

func TestFilter_AcceptedValuePasses(t *testing.T) {
	dim := dimPipeline(t)
	defer dim.Close()

	px, ok, err := dim.Lookup(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok || px.Value != 8 {
		t.Errorf("expected present 8 at (2, 2), got present=%t value=%d", ok, px.Value)
	}
}

func TestFilter_AbsencePassesThroughWithoutPredicate(t *testing.T) {
	calls := 0
	filtered := NewFilter("count", gradient("gradient", 4, 4), func(_ context.Context, _ Gray[int]) bool {
		calls++
		return true
	})
	defer filtered.Close()

	_, ok, err := filtered.Lookup(context.Background(), 9, 9)
	if ok || err != nil {
		t.Error("expected plain absence outside the source rectangle")
	}
	if calls != 0 {
		t.Error("expected the predicate not to run for absence")
	}
}

func TestFilter_FailurePassesThroughWithPath(t *testing.T) {
	cause := errors.New("leaf failure")
	leaf := Fetch("leaf", 4, 4, func(_ context.Context, _, _ int) (int, error) {
		return 0, cause
	})
	filtered := NewFilter("screen", leaf, func(_ context.Context, _ int) bool { return true })
	defer filtered.Close()

	_, _, err := filtered.Lookup(context.Background(), 1, 1)
	if err == nil {
		t.Fatal("expected the leaf failure to propagate")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the underlying error to be relayed unchanged")
	}
	if len(err.Path) != 2 || err.Path[0] != "screen" || err.Path[1] != "leaf" {
		t.Errorf("expected error path [screen leaf], got %v", err.Path)
	}
}

func TestFilter_SetPredicate(t *testing.T) {
	filtered := NewFilter("threshold", gradient("gradient", 10, 10), func(_ context.Context, p Gray[int]) bool {
		return p.Value < 5
	})
	defer filtered.Close()

	if _, ok, _ := filtered.Lookup(context.Background(), 4, 4); ok {
		t.Error("expected value 8 to be rejected by the original predicate")
	}

	filtered.SetPredicate(func(_ context.Context, p Gray[int]) bool {
		return p.Value < 100
	})

	if _, ok, _ := filtered.Lookup(context.Background(), 4, 4); !ok {
		t.Error("expected value 8 to pass the replaced predicate")
	}
}

func TestFilter_DimensionsUnchanged(t *testing.T) {
	filtered := NewFilter("any", gradient("gradient", 6, 9), func(_ context.Context, _ Gray[int]) bool {
		return true
	})
	defer filtered.Close()

	w, h := filtered.Dimensions()
	if w != 6 || h != 9 {
		t.Errorf("expected dimensions (6, 9), got (%d, %d)", w, h)
	}
}

func TestFilter_Metrics(t *testing.T) {
	dim := dimPipeline(t)
	defer dim.Close()

	dim.Lookup(context.Background(), 5, 5)  // rejected
	dim.Lookup(context.Background(), 2, 2)  // passed
	dim.Lookup(context.Background(), 50, 0) // absent below

	if got := dim.Metrics().Counter(FilterRejectedTotal).Value(); got != 1 {
		t.Errorf("expected 1 rejection counted, got %v", got)
	}
	if got := dim.Metrics().Counter(FilterPassedTotal).Value(); got != 1 {
		t.Errorf("expected 1 pass counted, got %v", got)
	}
	if got := dim.Metrics().Counter(FilterAbsentTotal).Value(); got != 1 {
		t.Errorf("expected 1 absence counted, got %v", got)
	}
}
