package target

import (
	"fmt"

	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// OperandSpec describes an operand's type.
type OperandSpec struct {
	Name     string // Optional label, the source tensor name for cached operands
	Shape    tensor.Shape
	DataType tensor.DataType
	Quant    tensor.QuantParams // Set only for quantized kinds
}

// Float32Spec returns a float32 operand spec.
func Float32Spec(name string, shape tensor.Shape) OperandSpec {
	return OperandSpec{Name: name, Shape: shape.Clone(), DataType: tensor.Float32}
}

// QInt8Spec returns a symmetric quantized int8 operand spec.
func QInt8Spec(name string, shape tensor.Shape, scale float32) OperandSpec {
	return OperandSpec{
		Name:     name,
		Shape:    shape.Clone(),
		DataType: tensor.QInt8,
		Quant:    tensor.QuantParams{Scale: scale},
	}
}

// Validate checks the spec is self-consistent.
func (s OperandSpec) Validate() error {
	if err := s.Shape.Validate(); err != nil {
		return err
	}
	if s.DataType.IsQuantized() {
		if s.Quant.Scale <= 0 {
			return errors.Errorf("quantized operand needs a positive scale, got %v", s.Quant.Scale)
		}
	} else if s.Quant != (tensor.QuantParams{}) {
		return errors.Errorf("%s operand cannot carry quantization parameters", s.DataType)
	}
	return nil
}

// String formats the spec as "qint8(0.1)[1,3]".
func (s OperandSpec) String() string {
	if s.DataType.IsQuantized() {
		return fmt.Sprintf("%s(%g)%s", s.DataType, s.Quant.Scale, s.Shape)
	}
	return s.DataType.String() + s.Shape.String()
}

// Operand is a value of the target graph: a variable (runtime value) or a
// constant backed by an owned literal.
type Operand struct {
	ID       int
	Spec     OperandSpec
	Literal  *tensor.Literal // nil for variables
	Producer *Operator       // nil for graph inputs and constants

	graph *Graph
}

// IsConstant reports whether the operand carries a literal.
func (o *Operand) IsConstant() bool { return o.Literal != nil }

// Name returns the operand's label.
func (o *Operand) Name() string { return o.Spec.Name }

// Operator is a primitive node of the target graph.
type Operator struct {
	ID      int
	Kind    Kind
	Name    string
	Inputs  []*Operand // Indexed by slot; nil until bound
	Outputs []*Operand

	graph *Graph
}
