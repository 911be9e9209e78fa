package pixz

// Scale is a scalar multiplier acting on offsets. Scales form a commutative
// ring under Add and Mul, with ScaleZero as the additive identity and
// ScaleOne as the multiplicative identity.
type Scale struct {
	r Real
}

// NewScale constructs a Scale from a finite float, reporting false for NaN
// and ±Inf.
func NewScale(value float64) (Scale, bool) {
	r, ok := NewReal(value)
	if !ok {
		return Scale{}, false
	}
	return Scale{r: r}, true
}

// ScaleOne returns the multiplicative identity.
func ScaleOne() Scale {
	return Scale{r: RealOne()}
}

// ScaleZero returns the additive identity.
func ScaleZero() Scale {
	return Scale{}
}

// Add returns m + n.
func (m Scale) Add(n Scale) Scale {
	return Scale{r: m.r.Add(n.r)}
}

// Mul returns m * n.
func (m Scale) Mul(n Scale) Scale {
	return Scale{r: m.r.Mul(n.r)}
}

// Neg returns -m.
func (m Scale) Neg() Scale {
	return Scale{r: m.r.Neg()}
}

// Equal reports whether m and n denote the same multiplier.
func (m Scale) Equal(n Scale) bool {
	return m.r.Equal(n.r)
}

// Real returns the underlying scalar.
func (m Scale) Real() Real {
	return m.r
}

func (m Scale) String() string {
	return m.r.String()
}
