package operators

import (
	"fmt"
	"math"

	"github.com/born-ml/nnlower/internal/graph"
)

// registerActivations adds activation operators to the registry.
func (r *Registry) registerActivations() {
	r.Register("Relu", unary("relu"))
	r.Register("Sigmoid", unary("sigmoid"))
	r.Register("Tanh", unary("tanh"))
	r.Register("HardSwish", unary("hardSwish"))
	r.Register("HardSigmoid", handleHardSigmoid)
	r.Register("Clip", handleClip)
}

// unary validates a single-input, single-output activation.
func unary(name string) OpHandler {
	return func(_ *Context, node *Node) (gn graph.Node, err error) {
		if len(node.Inputs) != 1 {
			return gn, fmt.Errorf("%s requires 1 input, got %d", name, len(node.Inputs))
		}
		return passthrough(node), nil
	}
}

func handleHardSigmoid(_ *Context, node *Node) (graph.Node, error) {
	if len(node.Inputs) != 1 {
		return graph.Node{}, fmt.Errorf("hardSigmoid requires 1 input, got %d", len(node.Inputs))
	}
	gn := passthrough(node)
	gn.Attrs = map[string]float32{
		"slope":  GetAttrFloat(node, "alpha", 0.2),
		"offset": GetAttrFloat(node, "beta", 0.5),
	}
	return gn, nil
}

// handleClip turns Clip(x, 0, 6) into Relu6. Other bounds pass through.
func handleClip(ctx *Context, node *Node) (graph.Node, error) {
	if len(node.Inputs) < 1 {
		return graph.Node{}, fmt.Errorf("clip requires at least 1 input, got %d", len(node.Inputs))
	}

	// ONNX 11+: min and max are inputs, not attributes
	minVal := GetAttrFloat(node, "min", -math.MaxFloat32)
	maxVal := GetAttrFloat(node, "max", math.MaxFloat32)
	if len(node.Inputs) >= 2 && node.Inputs[1] != "" {
		v, ok := scalarInput(ctx, node.Inputs[1])
		if !ok {
			return passthrough(node), nil
		}
		minVal = v
	}
	if len(node.Inputs) >= 3 && node.Inputs[2] != "" {
		v, ok := scalarInput(ctx, node.Inputs[2])
		if !ok {
			return passthrough(node), nil
		}
		maxVal = v
	}

	if minVal != 0 || maxVal != 6 {
		return passthrough(node), nil
	}
	return graph.Node{
		Name:    node.Name,
		OpType:  "Relu6",
		Inputs:  []string{node.Inputs[0]},
		Outputs: append([]string(nil), node.Outputs...),
	}, nil
}

func scalarInput(ctx *Context, name string) (float32, bool) {
	vals, ok := ctx.constant(name)
	if !ok || len(vals) != 1 {
		return 0, false
	}
	return vals[0], true
}
