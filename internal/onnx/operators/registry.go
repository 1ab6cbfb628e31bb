package operators

import (
	"sort"

	"github.com/born-ml/nnlower/internal/graph"
)

// OpHandler rewrites an ONNX node into a source-graph node.
type OpHandler func(ctx *Context, node *Node) (graph.Node, error)

// Context gives handlers read access to the graph converted so far.
type Context struct {
	// Constant returns the values of a persistable tensor.
	Constant func(name string) ([]float32, bool)
}

func (c *Context) constant(name string) ([]float32, bool) {
	if c == nil || c.Constant == nil {
		return nil, false
	}
	return c.Constant(name)
}

// Registry maps ONNX operator types to handler functions.
type Registry struct {
	handlers map[string]OpHandler
}

// NewRegistry creates a new operator registry with all supported operators.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]OpHandler),
	}

	r.registerActivations()
	r.registerGenerators()

	return r
}

// Register adds a custom operator handler.
func (r *Registry) Register(opType string, handler OpHandler) {
	r.handlers[opType] = handler
}

// Get returns the handler for an operator type.
func (r *Registry) Get(opType string) (OpHandler, bool) {
	h, ok := r.handlers[opType]
	return h, ok
}

// Convert rewrites node with its handler. Nodes without a handler pass
// through with their scalar attributes.
func (r *Registry) Convert(ctx *Context, node *Node) (graph.Node, error) {
	handler, ok := r.handlers[node.OpType]
	if !ok {
		return passthrough(node), nil
	}
	return handler(ctx, node)
}

// SupportedOps returns the registered operator types, sorted.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.handlers))
	for op := range r.handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// passthrough copies node, dropping omitted optional inputs.
func passthrough(node *Node) graph.Node {
	var inputs []string
	for _, in := range node.Inputs {
		if in != "" {
			inputs = append(inputs, in)
		}
	}
	return graph.Node{
		Name:    node.Name,
		OpType:  node.OpType,
		Inputs:  inputs,
		Outputs: append([]string(nil), node.Outputs...),
		Attrs:   scalarAttrs(node),
	}
}
