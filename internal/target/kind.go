package target

// Kind enumerates the native primitives of the target accelerator.
type Kind int

// Target operator kinds.
const (
	Invalid Kind = iota
	Sigmoid
	Relu
	Relu6
	Tanh
	Add
	Mul
	Div
	Scale       // y = x*scale + bias
	ClipByValue // y = min(max(x, lo), hi)
	Range       // y = [start, start+step, ...) up to end
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	Sigmoid:     "Sigmoid",
	Relu:        "Relu",
	Relu6:       "Relu6",
	Tanh:        "Tanh",
	Add:         "Add",
	Mul:         "Mul",
	Div:         "Div",
	Scale:       "Scale",
	ClipByValue: "ClipByValue",
	Range:       "Range",
}

// String returns the primitive's name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

// Valid reports whether k names a real primitive.
func (k Kind) Valid() bool {
	return k > Invalid && int(k) < len(kindNames)
}

// inputArity returns the accepted input counts of a primitive.
// Elementwise binaries take an optional trailing fuse-code operand.
func (k Kind) inputArity() (lo, hi int) {
	switch k {
	case Sigmoid, Relu, Relu6, Tanh:
		return 1, 1
	case Add, Mul, Div:
		return 2, 3
	case Scale, ClipByValue, Range:
		return 3, 3
	default:
		return 0, 0
	}
}

// Fuse codes accepted as the trailing int32 operand of Add, Mul and Div.
const (
	FuseNone  int32 = 0
	FuseRelu  int32 = 1
	FuseRelu1 int32 = 2
	FuseRelu6 int32 = 3
)
