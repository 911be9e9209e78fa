package pixz

import (
	"math"
	"math/big"
)

// Real is an exact rational scalar with an arbitrary-precision numerator and
// denominator. Unlike float64, repeated Real arithmetic never drifts: the
// algebraic laws over Real, Scale, Offset and Place hold bit-for-bit, which
// is what keeps deeply composed pipelines correct. The only inexact
// operations are the explicit float bridges (Sin, Cos, Float64).
//
// Real values are immutable; every operation returns a new value. The zero
// value is a valid Real equal to zero.
type Real struct {
	rat *big.Rat // nil means exactly zero
}

// NewReal constructs a Real from a finite float. It reports false for NaN and
// ±Inf, leaving no partially built value behind.
func NewReal(value float64) (Real, bool) {
	rat := new(big.Rat).SetFloat64(value)
	if rat == nil {
		return Real{}, false
	}
	return Real{rat: rat}, true
}

// RealZero returns the additive identity.
func RealZero() Real {
	return Real{}
}

// RealOne returns the multiplicative identity.
func RealOne() Real {
	return Real{rat: big.NewRat(1, 1)}
}

func (a Real) val() *big.Rat {
	if a.rat == nil {
		return new(big.Rat)
	}
	return a.rat
}

// Add returns a + b.
func (a Real) Add(b Real) Real {
	return Real{rat: new(big.Rat).Add(a.val(), b.val())}
}

// Sub returns a - b.
func (a Real) Sub(b Real) Real {
	return Real{rat: new(big.Rat).Sub(a.val(), b.val())}
}

// Mul returns a * b.
func (a Real) Mul(b Real) Real {
	return Real{rat: new(big.Rat).Mul(a.val(), b.val())}
}

// Div returns a / b. Dividing by an exactly-zero Real is a programming error
// at the call site, not a runtime condition to handle, and panics.
func (a Real) Div(b Real) Real {
	if b.IsZero() {
		panic("pixz: division of Real by exactly zero")
	}
	return Real{rat: new(big.Rat).Quo(a.val(), b.val())}
}

// Neg returns -a.
func (a Real) Neg() Real {
	return Real{rat: new(big.Rat).Neg(a.val())}
}

// IsZero reports whether a is exactly zero.
func (a Real) IsZero() bool {
	return a.rat == nil || a.rat.Sign() == 0
}

// Equal reports whether a and b denote the same rational.
func (a Real) Equal(b Real) bool {
	return a.val().Cmp(b.val()) == 0
}

// Cmp compares a and b, returning -1, 0 or +1.
func (a Real) Cmp(b Real) int {
	return a.val().Cmp(b.val())
}

// Float64 returns the nearest float64 to a.
func (a Real) Float64() float64 {
	f, _ := a.val().Float64()
	return f
}

// Sin returns sin(a), computed by round-tripping through float64 once. This
// is the sole bridge out of exact arithmetic for sine and is therefore only
// accurate to float precision. Values too large for float64 panic, matching
// the precondition that the bridge operates on finite floats.
func (a Real) Sin() Real {
	return a.bridge(math.Sin)
}

// Cos returns cos(a) via the same float bridge as Sin.
func (a Real) Cos() Real {
	return a.bridge(math.Cos)
}

func (a Real) bridge(fn func(float64) float64) Real {
	f := a.Float64()
	if math.IsInf(f, 0) {
		panic("pixz: Real float bridge requires a value representable as a finite float64")
	}
	result, ok := NewReal(fn(f))
	if !ok {
		panic("pixz: Real float bridge produced a non-finite result")
	}
	return result
}

// String formats a as an exact fraction, e.g. "3/2".
func (a Real) String() string {
	return a.val().RatString()
}
