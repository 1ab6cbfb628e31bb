package operators

import (
	"fmt"

	"github.com/born-ml/nnlower/internal/graph"
)

// registerGenerators adds operators that produce values from scalar bounds.
func (r *Registry) registerGenerators() {
	r.Register("Range", handleRange)
}

func handleRange(_ *Context, node *Node) (graph.Node, error) {
	if len(node.Inputs) != 3 {
		return graph.Node{}, fmt.Errorf("range requires 3 inputs (start, limit, delta), got %d", len(node.Inputs))
	}
	return passthrough(node), nil
}
