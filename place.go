package pixz

import "fmt"

// Place is an absolute point in the plane. Places are not vectors: they
// cannot be added to each other or scaled. They form a torsor over Offset -
// a Place plus an Offset is a Place, the difference of two Places is an
// Offset, and p.Add(q.Sub(p)) equals q exactly.
type Place struct {
	x Real
	y Real
}

// NewPlace constructs a Place from finite floats, reporting false if either
// coordinate is NaN or ±Inf.
func NewPlace(x, y float64) (Place, bool) {
	rx, ok := NewReal(x)
	if !ok {
		return Place{}, false
	}
	ry, ok := NewReal(y)
	if !ok {
		return Place{}, false
	}
	return Place{x: rx, y: ry}, true
}

// Origin returns the distinguished absolute point (0, 0).
func Origin() Place {
	return Place{}
}

// Add returns the place reached by following a from p.
func (p Place) Add(a Offset) Place {
	return Place{x: p.x.Add(a.dx), y: p.y.Add(a.dy)}
}

// Sub returns the offset from q to p, so that q.Add(p.Sub(q)) == p.
func (p Place) Sub(q Place) Offset {
	return Offset{dx: p.x.Sub(q.x), dy: p.y.Sub(q.y)}
}

// OffsetTo returns the offset from p to q.
func (p Place) OffsetTo(q Place) Offset {
	return q.Sub(p)
}

// Equal reports whether p and q denote the same point.
func (p Place) Equal(q Place) bool {
	return p.x.Equal(q.x) && p.y.Equal(q.y)
}

// X returns the horizontal coordinate.
func (p Place) X() Real {
	return p.x
}

// Y returns the vertical coordinate.
func (p Place) Y() Real {
	return p.y
}

func (p Place) String() string {
	return fmt.Sprintf("{x: %s, y: %s}", p.x, p.y)
}
