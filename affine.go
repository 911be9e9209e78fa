package pixz

import "math"

// singularEpsilon is the determinant magnitude below which a transform is
// treated as non-invertible.
const singularEpsilon = 1e-10

// AffineTransform is a 2-D linear-plus-translation map:
//
//	[x']   [A  B  TX]   [x]
//	[y'] = [C  D  TY] * [y]
//	[1 ]   [0  0  1 ]   [1]
//
// Transforms carry float coefficients even though the coordinate algebra
// below them is exact; inverse round-trips are therefore accurate to float
// tolerance rather than bit-for-bit. Composition is associative but not
// commutative, and Identity is the two-sided identity for both composition
// and point mapping.
type AffineTransform struct {
	A, B, C, D, TX, TY float64
}

// Identity returns the transform that maps every point to itself.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns the transform moving every point by (dx, dy).
func Translation(dx, dy float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: dx, TY: dy}
}

// Scaling returns the transform scaling x by sx and y by sy about the origin.
func Scaling(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Rotation returns the counter-clockwise rotation by angle radians about the
// origin.
func Rotation(angle float64) AffineTransform {
	sin, cos := math.Sincos(angle)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// TransformPoint applies the transform to (x, y).
func (t AffineTransform) TransformPoint(x, y float64) (float64, float64) {
	return t.A*x + t.B*y + t.TX, t.C*x + t.D*y + t.TY
}

// TransformPlace maps an exact point through the transform's float
// coefficients and back into the exact layer. It reports false when the
// result is not representable as a finite value, which can only happen with
// non-finite coefficients.
func (t AffineTransform) TransformPlace(p Place) (Place, bool) {
	x, y := t.TransformPoint(p.X().Float64(), p.Y().Float64())
	return NewPlace(x, y)
}

// Determinant returns the determinant of the linear block.
func (t AffineTransform) Determinant() float64 {
	return t.A*t.D - t.B*t.C
}

// Inverse returns the transform undoing t. It reports false when the
// determinant magnitude is below singularEpsilon, in which case no inverse
// exists and resampling through t yields absence.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	det := t.Determinant()
	if math.Abs(det) < singularEpsilon {
		return AffineTransform{}, false
	}

	invDet := 1 / det
	return AffineTransform{
		A:  t.D * invDet,
		B:  -t.B * invDet,
		C:  -t.C * invDet,
		D:  t.A * invDet,
		TX: (t.B*t.TY - t.D*t.TX) * invDet,
		TY: (t.C*t.TX - t.A*t.TY) * invDet,
	}, true
}

// Compose returns the transform that applies t first and then other - the
// homogeneous matrix product other·t. Order is significant:
// a.Compose(b) generally differs from b.Compose(a).
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  other.A*t.A + other.B*t.C,
		B:  other.A*t.B + other.B*t.D,
		C:  other.C*t.A + other.D*t.C,
		D:  other.C*t.B + other.D*t.D,
		TX: other.A*t.TX + other.B*t.TY + other.TX,
		TY: other.C*t.TX + other.D*t.TY + other.TY,
	}
}
