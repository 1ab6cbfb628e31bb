package lower

import (
	"fmt"
	"strings"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/target"
)

// lowerFunc emits the target operators for one source operator and returns
// the operands produced for its outputs, in output order.
type lowerFunc func(c *lowering) ([]*target.Operand, error)

// entry is one row of the lowering table.
type entry struct {
	// arity lists the accepted (inputs, outputs) pairs.
	arity []arity
	lower lowerFunc
}

type arity struct{ in, out int }

func (e entry) accepts(in, out int) bool {
	for _, a := range e.arity {
		if a.in == in && a.out == out {
			return true
		}
	}
	return false
}

func (e entry) want() string {
	parts := make([]string, len(e.arity))
	for i, a := range e.arity {
		parts[i] = fmt.Sprintf("%d input(s) and %d output(s)", a.in, a.out)
	}
	return strings.Join(parts, " or ")
}

// directKinds maps source kinds lowered 1:1 onto a target primitive.
var directKinds = map[graph.Kind]target.Kind{
	graph.Sigmoid: target.Sigmoid,
	graph.Relu:    target.Relu,
	graph.Relu6:   target.Relu6,
	graph.Tanh:    target.Tanh,
}

// Table dispatches source operator kinds to their lowering routine.
type Table struct {
	entries map[graph.Kind]entry
}

// NewTable creates the lowering table for every supported kind.
func NewTable() *Table {
	t := &Table{entries: make(map[graph.Kind]entry)}
	for src, dst := range directKinds {
		t.entries[src] = entry{arity: []arity{{1, 1}}, lower: lowerDirect(dst)}
	}
	t.entries[graph.HardSwish] = entry{arity: []arity{{4, 1}, {1, 1}}, lower: lowerHardSwish}
	t.entries[graph.HardSigmoid] = entry{arity: []arity{{1, 1}}, lower: lowerHardSigmoid}
	t.entries[graph.Range] = entry{arity: []arity{{3, 1}}, lower: lowerRange}
	return t
}

func (t *Table) lookup(k graph.Kind) (entry, bool) {
	e, ok := t.entries[k]
	return e, ok
}

// Supports reports whether kind has a lowering.
func (t *Table) Supports(k graph.Kind) bool {
	_, ok := t.entries[k]
	return ok
}

// Kinds returns the supported kinds in declaration order.
func (t *Table) Kinds() []graph.Kind {
	var kinds []graph.Kind
	for _, k := range graph.Kinds() {
		if t.Supports(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
