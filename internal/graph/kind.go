package graph

import "strings"

// Kind is the closed set of source operator kinds the lowering engine knows.
type Kind int

// Source operator kinds.
const (
	Invalid Kind = iota
	Sigmoid
	Relu
	Relu6
	Tanh
	HardSwish
	HardSigmoid
	Range
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	Sigmoid:     "Sigmoid",
	Relu:        "Relu",
	Relu6:       "Relu6",
	Tanh:        "Tanh",
	HardSwish:   "HardSwish",
	HardSigmoid: "HardSigmoid",
	Range:       "Range",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := Sigmoid; int(k) < len(kindNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind maps an operator type string to its Kind. Both framework spellings
// ("hard_swish") and canonical ones ("HardSwish") are accepted, ignoring case.
// Unknown types map to Invalid.
func ParseKind(opType string) Kind {
	norm := strings.ToLower(strings.ReplaceAll(opType, "_", ""))
	for k := Sigmoid; int(k) < len(kindNames); k++ {
		if strings.ToLower(kindNames[k]) == norm {
			return k
		}
	}
	return Invalid
}
