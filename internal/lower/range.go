package lower

import "github.com/born-ml/nnlower/internal/target"

// lowerRange maps Range(start, end, step) onto the native Range primitive.
func lowerRange(c *lowering) ([]*target.Operand, error) {
	spec, err := c.outputSpec(0)
	if err != nil {
		return nil, err
	}
	out, err := c.emit(target.Range, c.outputs[0].Name(), spec, c.inputs[0], c.inputs[1], c.inputs[2])
	if err != nil {
		return nil, err
	}
	return []*target.Operand{out}, nil
}
