package target

import (
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// Builder contract violations.
var (
	ErrSlotBound       = errors.New("slot already bound")
	ErrForeignOperand  = errors.New("operand belongs to another graph")
	ErrForeignOperator = errors.New("operator belongs to another graph")
	ErrInvalidSlot     = errors.New("invalid slot")
	ErrInvalidKind     = errors.New("invalid operator kind")
	ErrLiteralMismatch = errors.New("literal does not match operand spec")
	ErrIncomplete      = errors.New("operator is not fully wired")
)

// Graph is an in-memory target graph. It implements Builder.
// Operators are kept in creation order, which is a valid execution order
// because inputs are always bound from already existing operands.
type Graph struct {
	operands  []*Operand
	operators []*Operator
}

var _ Builder = (*Graph)(nil)

// NewGraph creates an empty target graph.
func NewGraph() *Graph {
	return &Graph{}
}

// CreateOperand creates a variable operand.
func (g *Graph) CreateOperand(spec OperandSpec) (*Operand, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrapf(err, "operand %q", spec.Name)
	}
	return g.newOperand(spec, nil, nil), nil
}

// CreateConstantOperand creates a constant operand. The literal's kind and
// shape must match the spec.
func (g *Graph) CreateConstantOperand(spec OperandSpec, literal *tensor.Literal) (*Operand, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrapf(err, "constant operand %q", spec.Name)
	}
	if literal == nil {
		return nil, errors.Wrap(ErrLiteralMismatch, "nil literal")
	}
	if literal.DataType() != spec.DataType || !literal.Shape().Equal(spec.Shape) {
		return nil, errors.Wrapf(ErrLiteralMismatch, "literal %s%s, spec %s",
			literal.DataType(), literal.Shape(), spec)
	}
	return g.newOperand(spec, literal, nil), nil
}

// CreateOperator creates an unwired operator.
func (g *Graph) CreateOperator(kind Kind, name string) (*Operator, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrInvalidKind, "kind %d", int(kind))
	}
	op := &Operator{ID: len(g.operators), Kind: kind, Name: name, graph: g}
	g.operators = append(g.operators, op)
	return op, nil
}

// BindInput wires operand into slot.
func (g *Graph) BindInput(op *Operator, slot int, operand *Operand) error {
	if op == nil || op.graph != g {
		return ErrForeignOperator
	}
	if operand == nil || operand.graph != g {
		return errors.Wrapf(ErrForeignOperand, "operator %s input %d", op.Name, slot)
	}
	if _, hi := op.Kind.inputArity(); slot < 0 || slot >= hi {
		return errors.Wrapf(ErrInvalidSlot, "%s input %d", op.Kind, slot)
	}
	for len(op.Inputs) <= slot {
		op.Inputs = append(op.Inputs, nil)
	}
	if op.Inputs[slot] != nil {
		return errors.Wrapf(ErrSlotBound, "operator %s input %d", op.Name, slot)
	}
	op.Inputs[slot] = operand
	return nil
}

// BindOutput creates the operand produced at slot.
func (g *Graph) BindOutput(op *Operator, slot int, spec OperandSpec) (*Operand, error) {
	if op == nil || op.graph != g {
		return nil, ErrForeignOperator
	}
	if slot != 0 {
		return nil, errors.Wrapf(ErrInvalidSlot, "%s output %d", op.Kind, slot)
	}
	if len(op.Outputs) > slot && op.Outputs[slot] != nil {
		return nil, errors.Wrapf(ErrSlotBound, "operator %s output %d", op.Name, slot)
	}
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrapf(err, "operator %s output", op.Name)
	}
	out := g.newOperand(spec, nil, op)
	for len(op.Outputs) <= slot {
		op.Outputs = append(op.Outputs, nil)
	}
	op.Outputs[slot] = out
	return out, nil
}

func (g *Graph) newOperand(spec OperandSpec, lit *tensor.Literal, producer *Operator) *Operand {
	spec.Shape = spec.Shape.Clone()
	o := &Operand{
		ID:       len(g.operands),
		Spec:     spec,
		Literal:  lit,
		Producer: producer,
		graph:    g,
	}
	g.operands = append(g.operands, o)
	return o
}

// Operators returns the operators in creation order.
func (g *Graph) Operators() []*Operator {
	return append([]*Operator(nil), g.operators...)
}

// Operands returns the operands in creation order.
func (g *Graph) Operands() []*Operand {
	return append([]*Operand(nil), g.operands...)
}

// Operand returns the first operand labelled name.
func (g *Graph) Operand(name string) (*Operand, bool) {
	for _, o := range g.operands {
		if o.Spec.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Inputs returns the variable operands no operator produces: the values the
// host must feed at execution time.
func (g *Graph) Inputs() []*Operand {
	var in []*Operand
	for _, o := range g.operands {
		if o.Producer == nil && !o.IsConstant() {
			in = append(in, o)
		}
	}
	return in
}

// Validate checks that every operator has all input slots bound within its
// arity and exactly one output.
func (g *Graph) Validate() error {
	for _, op := range g.operators {
		lo, hi := op.Kind.inputArity()
		if len(op.Inputs) < lo || len(op.Inputs) > hi {
			return errors.Wrapf(ErrIncomplete, "%s %q has %d inputs, want %d..%d",
				op.Kind, op.Name, len(op.Inputs), lo, hi)
		}
		for slot, in := range op.Inputs {
			if in == nil {
				return errors.Wrapf(ErrIncomplete, "%s %q input %d unbound", op.Kind, op.Name, slot)
			}
		}
		if len(op.Outputs) != 1 || op.Outputs[0] == nil {
			return errors.Wrapf(ErrIncomplete, "%s %q has no output", op.Kind, op.Name)
		}
	}
	return nil
}
