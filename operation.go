package pixz

// OperationKind discriminates the closed set of operation descriptions.
type OperationKind int

const (
	// KindPointwise is a per-pixel function from the PointwiseOp enumeration.
	KindPointwise OperationKind = iota
	// KindConvolve is a convolution with a rectangular kernel of float weights.
	KindConvolve
	// KindCustom is an opaque named operation carrying raw pixel data.
	KindCustom
)

func (k OperationKind) String() string {
	switch k {
	case KindPointwise:
		return "pointwise"
	case KindConvolve:
		return "convolve"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// PointwiseOp enumerates the built-in per-pixel functions.
type PointwiseOp int

const (
	PointwiseIdentity PointwiseOp = iota
	PointwiseNegate
	PointwiseBrighten
	PointwiseContrast
)

func (op PointwiseOp) String() string {
	switch op {
	case PointwiseIdentity:
		return "identity"
	case PointwiseNegate:
		return "negate"
	case PointwiseBrighten:
		return "brighten"
	case PointwiseContrast:
		return "contrast"
	default:
		return "unknown"
	}
}

// Operation is a named, data-only description of work a Backend can execute.
// An operation is always a plain value - kind plus parameters - never a
// generated type, so descriptions can be stored, compared, registered and
// shipped to backends without the core knowing how any backend runs them.
//
// Exactly the fields relevant to Kind are meaningful:
//   - KindPointwise: Pointwise, and Amount for brighten/contrast
//   - KindConvolve: Kernel, a rectangular matrix of weights
//   - KindCustom: Name and Data
type Operation[P any] struct {
	Kind      OperationKind
	Pointwise PointwiseOp
	Amount    float64
	Kernel    [][]float64
	Name      Name
	Data      []P
}

// Pointwise describes a parameterless per-pixel operation.
func Pointwise[P any](op PointwiseOp) Operation[P] {
	return Operation[P]{Kind: KindPointwise, Pointwise: op}
}

// PointwiseWith describes a per-pixel operation with an amount parameter,
// such as brighten or contrast.
func PointwiseWith[P any](op PointwiseOp, amount float64) Operation[P] {
	return Operation[P]{Kind: KindPointwise, Pointwise: op, Amount: amount}
}

// Convolve describes a convolution with the given rectangular kernel.
func Convolve[P any](kernel [][]float64) Operation[P] {
	return Operation[P]{Kind: KindConvolve, Kernel: kernel}
}

// Custom describes an opaque named operation carrying raw pixel data.
func Custom[P any](name Name, data []P) Operation[P] {
	return Operation[P]{Kind: KindCustom, Name: name, Data: data}
}
