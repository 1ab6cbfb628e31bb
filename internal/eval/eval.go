// Package eval is a float32 reference interpreter for target graphs.
//
// It executes operators in emission order and is used to check that a
// lowering computes the same function as its source operator. Quantized
// operands are evaluated in their real, dequantized values.
package eval

import (
	"math"

	"github.com/born-ml/nnlower/internal/target"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// ErrMissingFeed is returned when a graph input has no feed.
var ErrMissingFeed = errors.New("missing feed")

// Run evaluates g. feeds supplies a value for every graph input operand, keyed
// by operand name. The result holds the value of every named operand.
func Run(g *target.Graph, feeds map[string][]float32) (map[string][]float32, error) {
	vals, err := run(g, feeds)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float32)
	for o, v := range vals {
		if o.Name() != "" {
			out[o.Name()] = v.data
		}
	}
	return out, nil
}

// Shapes evaluates g like Run and returns the shape of every named operand.
func Shapes(g *target.Graph, feeds map[string][]float32) (map[string]tensor.Shape, error) {
	vals, err := run(g, feeds)
	if err != nil {
		return nil, err
	}
	out := make(map[string]tensor.Shape)
	for o, v := range vals {
		if o.Name() != "" {
			out[o.Name()] = v.shape
		}
	}
	return out, nil
}

func run(g *target.Graph, feeds map[string][]float32) (map[*target.Operand]value, error) {
	vals := make(map[*target.Operand]value)
	for _, in := range g.Inputs() {
		data, ok := feeds[in.Name()]
		if !ok {
			return nil, errors.Wrapf(ErrMissingFeed, "input %q", in.Name())
		}
		if n := in.Spec.Shape.NumElements(); len(data) != n {
			return nil, errors.Errorf("input %q: got %d values, shape %v needs %d",
				in.Name(), len(data), in.Spec.Shape, n)
		}
		vals[in] = value{shape: in.Spec.Shape.Clone(), data: append([]float32(nil), data...)}
	}

	for _, op := range g.Operators() {
		args := make([]value, len(op.Inputs))
		for i, in := range op.Inputs {
			v, err := operandValue(vals, in)
			if err != nil {
				return nil, errors.Wrapf(err, "operator %s %q input %d", op.Kind, op.Name, i)
			}
			args[i] = v
		}
		res, err := apply(op, args)
		if err != nil {
			return nil, errors.Wrapf(err, "operator %s %q", op.Kind, op.Name)
		}
		vals[op.Outputs[0]] = res
	}
	return vals, nil
}

func operandValue(vals map[*target.Operand]value, o *target.Operand) (value, error) {
	if o == nil {
		return value{}, errors.New("unbound operand")
	}
	if o.IsConstant() {
		return value{shape: o.Literal.Shape(), data: o.Literal.Reals(o.Spec.Quant)}, nil
	}
	v, ok := vals[o]
	if !ok {
		return value{}, errors.Errorf("operand %%%d used before it is produced", o.ID)
	}
	return v, nil
}

func apply(op *target.Operator, args []value) (value, error) {
	switch op.Kind {
	case target.Sigmoid:
		return unary(args[0], sigmoid), nil
	case target.Relu:
		return unary(args[0], relu), nil
	case target.Relu6:
		return unary(args[0], relu6), nil
	case target.Tanh:
		return unary(args[0], tanh), nil
	case target.Add, target.Mul, target.Div:
		return applyBinary(op, args)
	case target.Scale:
		prod, err := binary(args[0], args[1], mul)
		if err != nil {
			return value{}, err
		}
		return binary(prod, args[2], add)
	case target.ClipByValue:
		lower, err := binary(args[0], args[1], func(x, lo float32) float32 { return max(x, lo) })
		if err != nil {
			return value{}, err
		}
		return binary(lower, args[2], func(x, hi float32) float32 { return min(x, hi) })
	case target.Range:
		return rangeValues(args[0], args[1], args[2])
	default:
		return value{}, errors.Errorf("unsupported operator kind %s", op.Kind)
	}
}

func applyBinary(op *target.Operator, args []value) (value, error) {
	var f func(x, y float32) float32
	switch op.Kind {
	case target.Add:
		f = add
	case target.Mul:
		f = mul
	default:
		f = div
	}
	res, err := binary(args[0], args[1], f)
	if err != nil {
		return value{}, err
	}
	if len(op.Inputs) < 3 {
		return res, nil
	}

	fuse := op.Inputs[2]
	if !fuse.IsConstant() || fuse.Spec.DataType != tensor.Int32 {
		return value{}, errors.New("fuse code must be an int32 constant")
	}
	switch code := fuse.Literal.Int32s()[0]; code {
	case target.FuseNone:
		return res, nil
	case target.FuseRelu:
		return unary(res, relu), nil
	case target.FuseRelu1:
		return unary(res, relu1), nil
	case target.FuseRelu6:
		return unary(res, relu6), nil
	default:
		return value{}, errors.Errorf("unknown fuse code %d", code)
	}
}

func rangeValues(start, end, step value) (value, error) {
	if len(start.data) == 0 || len(end.data) == 0 || len(step.data) == 0 {
		return value{}, errors.New("range bounds must not be empty")
	}
	lo, hi, inc := start.data[0], end.data[0], step.data[0]
	if inc == 0 {
		return value{}, errors.New("range step must not be zero")
	}
	n := int(math.Ceil(float64(hi-lo) / float64(inc)))
	if n < 0 {
		n = 0
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = lo + float32(i)*inc
	}
	return value{shape: tensor.Shape{n}, data: out}, nil
}
