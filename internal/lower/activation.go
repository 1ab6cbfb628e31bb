package lower

import (
	"fmt"

	"github.com/born-ml/nnlower/internal/target"
	"github.com/pkg/errors"
)

// HardSwish attribute defaults: x * min(max(x+3, 0), 6) / 6.
const (
	defaultHardSwishOffset    = 3
	defaultHardSwishThreshold = 6
	defaultHardSwishScale     = 6
)

// HardSigmoid attribute defaults: clip(0.2*x + 0.5, 0, 1).
const (
	defaultHardSigmoidSlope  = 0.2
	defaultHardSigmoidOffset = 0.5
)

// lowerDirect returns the routine for kinds mapped onto a single primitive.
func lowerDirect(kind target.Kind) lowerFunc {
	return func(c *lowering) ([]*target.Operand, error) {
		spec, err := c.outputSpec(0)
		if err != nil {
			return nil, err
		}
		out, err := c.emit(kind, c.outputs[0].Name(), spec, c.inputs[0])
		if err != nil {
			return nil, err
		}
		return []*target.Operand{out}, nil
	}
}

// hardSwishOperands returns the offset, threshold and scale operands and the
// threshold value when it is known at lowering time.
func hardSwishOperands(c *lowering) (ops []*target.Operand, threshold float32, known bool, err error) {
	if len(c.inputs) == 4 {
		if scale := c.sources[3]; scale.Persistable() && hasZero(scale.Values()) {
			return nil, 0, false, zeroScaleError(c)
		}
		threshold, known = uniformValue(c.sources[2].Values())
		return c.inputs[1:4], threshold, known, nil
	}

	offset := c.attr("offset", defaultHardSwishOffset)
	threshold = c.attr("threshold", defaultHardSwishThreshold)
	scale := c.attr("scale", defaultHardSwishScale)
	if scale == 0 {
		return nil, 0, false, zeroScaleError(c)
	}
	ops, err = c.scalars(offset, threshold, scale)
	return ops, threshold, true, err
}

func zeroScaleError(c *lowering) error {
	return &InvalidAttributeError{Op: c.op.Name(), Attribute: "scale", Reason: "must be non-zero"}
}

func hasZero(values []float32) bool {
	for _, v := range values {
		if v == 0 {
			return true
		}
	}
	return false
}

// uniformValue reports the single value of a persistable tensor whose
// elements are all equal.
func uniformValue(values []float32) (float32, bool) {
	if len(values) == 0 {
		return 0, false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return 0, false
		}
	}
	return values[0], true
}

// lowerHardSwish decomposes x * min(max(x+offset, 0), threshold) / scale.
//
// clip:  Scale(x, 1, offset) -> ClipByValue(0, threshold) -> Mul(x, .) -> Div(., scale)
// relu6: Add(x, offset) -> Relu6 -> Mul(x, .) -> Div(., scale)
func lowerHardSwish(c *lowering) ([]*target.Operand, error) {
	outSpec, err := c.outputSpec(0)
	if err != nil {
		return nil, err
	}
	mid := intermediate(outSpec)
	name := c.outputs[0].Name()
	x := c.inputs[0]

	params, threshold, known, err := hardSwishOperands(c)
	if err != nil {
		return nil, err
	}
	offset, thresholdOp, scale := params[0], params[1], params[2]

	var activated *target.Operand
	switch c.profile.Strategy {
	case StrategyClip:
		bounds, err := c.scalars(1, 0)
		if err != nil {
			return nil, err
		}
		shifted, err := c.emit(target.Scale, name+"/scale", mid, x, bounds[0], offset)
		if err != nil {
			return nil, err
		}
		activated, err = c.emit(target.ClipByValue, name+"/clip", mid, shifted, bounds[1], thresholdOp)
		if err != nil {
			return nil, err
		}
	case StrategyRelu6:
		if !known || threshold != 6 {
			reason := "relu6 decomposition needs a constant threshold of 6"
			if known {
				reason = fmt.Sprintf("%s, got %g", reason, threshold)
			}
			return nil, &InvalidAttributeError{Op: c.op.Name(), Attribute: "threshold", Reason: reason}
		}
		shifted, err := c.binary(target.Add, name+"/shift", mid, x, offset)
		if err != nil {
			return nil, err
		}
		activated, err = c.emit(target.Relu6, name+"/relu6", mid, shifted)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown strategy %v", c.profile.Strategy)
	}

	product, err := c.binary(target.Mul, name+"/mul", mid, x, activated)
	if err != nil {
		return nil, err
	}
	out, err := c.binary(target.Div, name, outSpec, product, scale)
	if err != nil {
		return nil, err
	}
	return []*target.Operand{out}, nil
}

// lowerHardSigmoid decomposes clip(slope*x + offset, 0, 1).
//
// clip:  Scale(x, slope, offset) -> ClipByValue(0, 1)
// relu6: Mul(x, 6*slope) -> Add(., 6*offset) -> Relu6 -> Div(., 6)
func lowerHardSigmoid(c *lowering) ([]*target.Operand, error) {
	outSpec, err := c.outputSpec(0)
	if err != nil {
		return nil, err
	}
	mid := intermediate(outSpec)
	name := c.outputs[0].Name()
	x := c.inputs[0]
	slope := c.attr("slope", defaultHardSigmoidSlope)
	offset := c.attr("offset", defaultHardSigmoidOffset)

	var out *target.Operand
	switch c.profile.Strategy {
	case StrategyClip:
		k, err := c.scalars(slope, offset, 0, 1)
		if err != nil {
			return nil, err
		}
		affine, err := c.emit(target.Scale, name+"/scale", mid, x, k[0], k[1])
		if err != nil {
			return nil, err
		}
		out, err = c.emit(target.ClipByValue, name, outSpec, affine, k[2], k[3])
		if err != nil {
			return nil, err
		}
	case StrategyRelu6:
		k, err := c.scalars(6*slope, 6*offset, 6)
		if err != nil {
			return nil, err
		}
		scaled, err := c.binary(target.Mul, name+"/mul", mid, x, k[0])
		if err != nil {
			return nil, err
		}
		shifted, err := c.binary(target.Add, name+"/shift", mid, scaled, k[1])
		if err != nil {
			return nil, err
		}
		activated, err := c.emit(target.Relu6, name+"/relu6", mid, shifted)
		if err != nil {
			return nil, err
		}
		out, err = c.binary(target.Div, name, outSpec, activated, k[2])
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown strategy %v", c.profile.Strategy)
	}
	return []*target.Operand{out}, nil
}
