package lower

import (
	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/target"
	"github.com/pkg/errors"
)

// lowering is the state handed to a table entry for one source operator.
type lowering struct {
	op      graph.OperatorRef
	b       target.Builder
	synth   *Synthesizer
	profile Profile

	inputs  []*target.Operand // resolved operands, in input order
	sources []graph.TensorRef // input tensors, in input order
	outputs []graph.TensorRef // output tensors, in output order

	fuse *target.Operand // lazily created fuse-code constant
}

// outputSpec returns the spec of the i-th declared output.
func (c *lowering) outputSpec(i int) (target.OperandSpec, error) {
	return c.synth.Spec(c.outputs[i])
}

// emit creates one operator of the given kind, binds inputs to consecutive
// slots and returns its output operand.
func (c *lowering) emit(kind target.Kind, name string, spec target.OperandSpec, inputs ...*target.Operand) (*target.Operand, error) {
	op, err := c.b.CreateOperator(kind, name)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", kind)
	}
	for slot, in := range inputs {
		if err := c.b.BindInput(op, slot, in); err != nil {
			return nil, errors.Wrapf(err, "bind %s input %d", kind, slot)
		}
	}
	out, err := c.b.BindOutput(op, 0, spec)
	if err != nil {
		return nil, errors.Wrapf(err, "bind %s output", kind)
	}
	return out, nil
}

// binary emits an elementwise Add, Mul or Div, appending the fuse-code operand
// when the profile asks for it.
func (c *lowering) binary(kind target.Kind, name string, spec target.OperandSpec, a, b *target.Operand) (*target.Operand, error) {
	if !c.profile.FuseCode {
		return c.emit(kind, name, spec, a, b)
	}
	if c.fuse == nil {
		fuse, err := c.synth.MaterializeInt32Constant([]int32{target.FuseNone}, nil)
		if err != nil {
			return nil, err
		}
		c.fuse = fuse
	}
	return c.emit(kind, name, spec, a, b, c.fuse)
}

// scalars creates one broadcastable constant per value, shaped to the rank
// of the first input.
func (c *lowering) scalars(values ...float32) ([]*target.Operand, error) {
	rank := len(c.sources[0].Shape())
	out := make([]*target.Operand, len(values))
	for i, v := range values {
		o, err := c.synth.Scalar(v, rank)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// attr returns a scalar attribute or def when absent.
func (c *lowering) attr(name string, def float32) float32 {
	if v, ok := c.op.Attribute(name); ok {
		return v
	}
	return def
}

// intermediate returns the anonymous float32 spec of a decomposition-internal
// value. Values such as x+offset exceed a quantized output's range, so only
// the final operator carries the output's quantization.
func intermediate(out target.OperandSpec) target.OperandSpec {
	return target.Float32Spec("", out.Shape)
}
