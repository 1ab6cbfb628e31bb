package lower

import (
	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/target"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// Synthesizer creates target operands. It never touches the cache: callers
// decide what gets cached.
type Synthesizer struct {
	b target.Builder
}

// NewSynthesizer creates a synthesizer emitting into b.
func NewSynthesizer(b target.Builder) *Synthesizer {
	return &Synthesizer{b: b}
}

// Spec returns the operand spec representing t: quantized int8 carrying t's
// scale when t has one, float32 otherwise.
func (s *Synthesizer) Spec(t graph.TensorRef) (target.OperandSpec, error) {
	dtype := t.DataType()
	scale, quantized := t.QuantScale()
	switch {
	case dtype != tensor.Float32 && dtype != tensor.Int8:
		return target.OperandSpec{}, &UnsupportedElementKindError{Tensor: t.Name(), DataType: dtype}
	case quantized:
		if scale <= 0 {
			return target.OperandSpec{}, &UnsupportedElementKindError{
				Tensor: t.Name(), DataType: dtype, Reason: "non-positive quantization scale",
			}
		}
		return target.QInt8Spec(t.Name(), t.Shape(), scale), nil
	case dtype == tensor.Int8:
		return target.OperandSpec{}, &UnsupportedElementKindError{
			Tensor: t.Name(), DataType: dtype, Reason: "int8 without quantization scale",
		}
	default:
		return target.Float32Spec(t.Name(), t.Shape()), nil
	}
}

// MaterializeVariable creates the variable operand for t.
func (s *Synthesizer) MaterializeVariable(t graph.TensorRef) (*target.Operand, error) {
	spec, err := s.Spec(t)
	if err != nil {
		return nil, err
	}
	return s.b.CreateOperand(spec)
}

// Materialize creates the operand for t: a constant holding t's values when
// t is persistable, a variable otherwise.
func (s *Synthesizer) Materialize(t graph.TensorRef) (*target.Operand, error) {
	if !t.Persistable() {
		return s.MaterializeVariable(t)
	}
	spec, err := s.Spec(t)
	if err != nil {
		return nil, err
	}

	var lit *tensor.Literal
	if spec.DataType.IsQuantized() {
		lit, err = tensor.NewQInt8Literal(t.Values(), spec.Shape, spec.Quant)
	} else {
		lit, err = tensor.NewFloat32Literal(t.Values(), spec.Shape)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "tensor %q", t.Name())
	}
	return s.b.CreateConstantOperand(spec, lit)
}

// MaterializeConstant creates an anonymous float32 constant of the given
// shape. values holds shape.NumElements() entries or a single entry that is
// repeated; it is copied, so the caller keeps ownership of its slice.
func (s *Synthesizer) MaterializeConstant(values []float32, shape tensor.Shape) (*target.Operand, error) {
	lit, err := tensor.NewFloat32Literal(values, shape)
	if err != nil {
		return nil, errors.Wrap(err, "constant operand")
	}
	return s.b.CreateConstantOperand(target.Float32Spec("", shape), lit)
}

// MaterializeInt32Constant creates an anonymous int32 constant.
func (s *Synthesizer) MaterializeInt32Constant(values []int32, shape tensor.Shape) (*target.Operand, error) {
	lit, err := tensor.NewInt32Literal(values, shape)
	if err != nil {
		return nil, errors.Wrap(err, "constant operand")
	}
	return s.b.CreateConstantOperand(target.OperandSpec{Shape: shape.Clone(), DataType: tensor.Int32}, lit)
}

// Scalar creates a float32 constant holding v, shaped [1,...,1] with the
// given rank so it broadcasts against a tensor of that rank.
func (s *Synthesizer) Scalar(v float32, rank int) (*target.Operand, error) {
	return s.MaterializeConstant([]float32{v}, tensor.Ones(rank))
}
