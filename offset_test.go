package pixz

import (
	"math"
	"testing"
)

func TestOffset_NewOffset_NonFinite(t *testing.T) {
	if _, ok := NewOffset(math.NaN(), 0); ok {
		t.Error("expected NewOffset with NaN dx to fail")
	}
	if _, ok := NewOffset(0, math.Inf(-1)); ok {
		t.Error("expected NewOffset with -Inf dy to fail")
	}
}

func TestOffset_GroupLaws(t *testing.T) {
	r := newLawRand(t)
	for i := 0; i < lawIterations; i++ {
		a, b, c := randOffset(t, r), randOffset(t, r), randOffset(t, r)

		if !a.Add(b.Add(c)).Equal(a.Add(b).Add(c)) {
			t.Fatalf("offset addition not associative for %s, %s, %s", a, b, c)
		}
		if !a.Add(b).Equal(b.Add(a)) {
			t.Fatalf("offset addition not commutative for %s, %s", a, b)
		}
		if !a.Add(OffsetZero()).Equal(a) || !OffsetZero().Add(a).Equal(a) {
			t.Fatalf("OffsetZero is not the identity for %s", a)
		}
		if !a.Add(a.Neg()).Equal(OffsetZero()) {
			t.Fatalf("negation is not the additive inverse for %s", a)
		}
	}
}

func TestOffset_ScalarActionLaws(t *testing.T) {
	r := newLawRand(t)
	for i := 0; i < lawIterations; i++ {
		a, b := randOffset(t, r), randOffset(t, r)
		m, n := randScale(t, r), randScale(t, r)

		if !a.Add(b).ScaleBy(m).Equal(a.ScaleBy(m).Add(b.ScaleBy(m))) {
			t.Fatalf("scaling does not distribute over offset addition for %s, %s, %s", a, b, m)
		}
		if !a.ScaleBy(m.Add(n)).Equal(a.ScaleBy(m).Add(a.ScaleBy(n))) {
			t.Fatalf("scaling does not distribute over scale addition for %s, %s, %s", a, m, n)
		}
		if !a.ScaleBy(ScaleOne()).Equal(a) {
			t.Fatalf("ScaleOne is not the right identity of the action for %s", a)
		}
		if !a.ScaleBy(m).ScaleBy(n).Equal(a.ScaleBy(m.Mul(n))) {
			t.Fatalf("scalar action not associative for %s, %s, %s", a, m, n)
		}
	}
}

func TestOffset_SubIsAdditionOfInverse(t *testing.T) {
	r := newLawRand(t)
	for i := 0; i < lawIterations; i++ {
		a, b := randOffset(t, r), randOffset(t, r)
		if !a.Sub(b).Equal(a.Add(b.Neg())) {
			t.Fatalf("a-b != a+(-b) for %s, %s", a, b)
		}
	}
}

func TestOffset_Components(t *testing.T) {
	a, _ := NewOffset(1.5, -2.25)
	want, _ := NewReal(1.5)
	if !a.Dx().Equal(want) {
		t.Errorf("expected dx 3/2, got %s", a.Dx())
	}
	want, _ = NewReal(-2.25)
	if !a.Dy().Equal(want) {
		t.Errorf("expected dy -9/4, got %s", a.Dy())
	}
}
