package pixz

import "fmt"

// Offset is a free vector: the difference between two absolute points.
// Offsets form an abelian group under Add, and Scale acts on them by
// ScaleBy, distributing over both offset addition and scale addition.
type Offset struct {
	dx Real
	dy Real
}

// NewOffset constructs an Offset from finite floats, reporting false if
// either component is NaN or ±Inf.
func NewOffset(dx, dy float64) (Offset, bool) {
	rdx, ok := NewReal(dx)
	if !ok {
		return Offset{}, false
	}
	rdy, ok := NewReal(dy)
	if !ok {
		return Offset{}, false
	}
	return Offset{dx: rdx, dy: rdy}, true
}

// OffsetZero returns the group identity.
func OffsetZero() Offset {
	return Offset{}
}

// Add returns a + b.
func (a Offset) Add(b Offset) Offset {
	return Offset{dx: a.dx.Add(b.dx), dy: a.dy.Add(b.dy)}
}

// Neg returns the additive inverse of a.
func (a Offset) Neg() Offset {
	return Offset{dx: a.dx.Neg(), dy: a.dy.Neg()}
}

// Sub returns a - b.
func (a Offset) Sub(b Offset) Offset {
	return a.Add(b.Neg())
}

// ScaleBy returns a scaled by m. ScaleOne is the right identity of this
// action.
func (a Offset) ScaleBy(m Scale) Offset {
	return Offset{dx: a.dx.Mul(m.r), dy: a.dy.Mul(m.r)}
}

// Equal reports whether a and b denote the same vector.
func (a Offset) Equal(b Offset) bool {
	return a.dx.Equal(b.dx) && a.dy.Equal(b.dy)
}

// Dx returns the horizontal component.
func (a Offset) Dx() Real {
	return a.dx
}

// Dy returns the vertical component.
func (a Offset) Dy() Real {
	return a.dy
}

func (a Offset) String() string {
	return fmt.Sprintf("{dx: %s, dy: %s}", a.dx, a.dy)
}
