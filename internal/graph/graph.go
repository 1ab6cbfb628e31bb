package graph

import (
	"sort"

	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// OperatorRef is the read-only view of a framework operator consumed by
// lowering.
type OperatorRef interface {
	// Type returns the framework operator type string.
	Type() string
	// Name returns a stable, graph-unique identifier of the operator.
	Name() string
	Inputs() []TensorRef
	Outputs() []TensorRef
	// Attribute returns a scalar attribute by name.
	Attribute(name string) (float32, bool)
}

// Node is one operator of a source graph.
type Node struct {
	Name    string             // Node name (unique within the graph)
	OpType  string             // Operator type (e.g., "relu", "HardSwish")
	Inputs  []string           // Input tensor names
	Outputs []string           // Output tensor names
	Attrs   map[string]float32 // Scalar attributes
}

// Graph is a source operator graph.
type Graph struct {
	Name    string
	Inputs  []string // Runtime-fed tensors
	Outputs []string // Tensors read by the host after execution
	Nodes   []Node

	tensors map[string]*Tensor
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{Name: name, tensors: make(map[string]*Tensor)}
}

// AddTensor registers a tensor. Names must be unique.
func (g *Graph) AddTensor(t *Tensor) error {
	if g.tensors == nil {
		g.tensors = make(map[string]*Tensor)
	}
	if _, ok := g.tensors[t.name]; ok {
		return errors.Errorf("duplicate tensor %q", t.name)
	}
	g.tensors[t.name] = t
	return nil
}

// AddNode appends a node. Referenced tensors are checked by Validate.
func (g *Graph) AddNode(n Node) {
	g.Nodes = append(g.Nodes, n)
}

// Tensor returns a tensor by name.
func (g *Graph) Tensor(name string) (*Tensor, bool) {
	t, ok := g.tensors[name]
	return t, ok
}

// TensorNames returns all tensor names, sorted.
func (g *Graph) TensorNames() []string {
	names := make([]string, 0, len(g.tensors))
	for name := range g.tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every referenced tensor exists, node names are unique,
// and every tensor has at most one producer.
func (g *Graph) Validate() error {
	nodeNames := make(map[string]bool, len(g.Nodes))
	producer := make(map[string]string)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Name == "" {
			return errors.Errorf("node %d (%s) has no name", i, n.OpType)
		}
		if nodeNames[n.Name] {
			return errors.Errorf("duplicate node name %q", n.Name)
		}
		nodeNames[n.Name] = true

		for _, in := range n.Inputs {
			if _, ok := g.tensors[in]; !ok {
				return errors.Errorf("node %s: unknown input tensor %q", n.Name, in)
			}
		}
		for _, out := range n.Outputs {
			if _, ok := g.tensors[out]; !ok {
				return errors.Errorf("node %s: unknown output tensor %q", n.Name, out)
			}
			if prev, ok := producer[out]; ok {
				return errors.Errorf("tensor %q produced by both %s and %s", out, prev, n.Name)
			}
			producer[out] = n.Name
		}
	}
	for _, name := range append(append([]string(nil), g.Inputs...), g.Outputs...) {
		if _, ok := g.tensors[name]; !ok {
			return errors.Errorf("unknown graph input/output tensor %q", name)
		}
	}
	return nil
}

// Operator returns the OperatorRef view of the i-th node.
func (g *Graph) Operator(i int) *Operator {
	return &Operator{graph: g, node: &g.Nodes[i]}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New(g.Name)
	c.Inputs = append([]string(nil), g.Inputs...)
	c.Outputs = append([]string(nil), g.Outputs...)
	c.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		c.Nodes[i] = Node{
			Name:    n.Name,
			OpType:  n.OpType,
			Inputs:  append([]string(nil), n.Inputs...),
			Outputs: append([]string(nil), n.Outputs...),
		}
		if n.Attrs != nil {
			c.Nodes[i].Attrs = make(map[string]float32, len(n.Attrs))
			for k, v := range n.Attrs {
				c.Nodes[i].Attrs[k] = v
			}
		}
	}
	for name, t := range g.tensors {
		c.tensors[name] = t.clone()
	}
	return c
}

// Operator binds a Node to its graph so tensor names resolve to TensorRefs.
type Operator struct {
	graph *Graph
	node  *Node
}

// Type returns the node's operator type.
func (o *Operator) Type() string { return o.node.OpType }

// Name returns the node's name.
func (o *Operator) Name() string { return o.node.Name }

// Node returns the underlying node.
func (o *Operator) Node() *Node { return o.node }

// Inputs resolves the node's input tensors in order.
func (o *Operator) Inputs() []TensorRef { return o.resolve(o.node.Inputs) }

// Outputs resolves the node's output tensors in order.
func (o *Operator) Outputs() []TensorRef { return o.resolve(o.node.Outputs) }

// Attribute returns a scalar attribute.
func (o *Operator) Attribute(name string) (float32, bool) {
	v, ok := o.node.Attrs[name]
	return v, ok
}

func (o *Operator) resolve(names []string) []TensorRef {
	refs := make([]TensorRef, len(names))
	for i, name := range names {
		refs[i] = o.graph.tensors[name]
	}
	return refs
}

// WithShapes returns a copy of the graph with the named tensors reshaped.
// New shapes are propagated to the outputs of shape-preserving (elementwise)
// nodes in topological order; Range outputs keep their declared shape.
func (g *Graph) WithShapes(shapes map[string]tensor.Shape) (*Graph, error) {
	c := g.Clone()
	for name, s := range shapes {
		t, ok := c.tensors[name]
		if !ok {
			return nil, errors.Errorf("unknown tensor %q", name)
		}
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "tensor %s", name)
		}
		t.shape = s.Clone()
	}

	order, err := c.Sort()
	if err != nil {
		return nil, err
	}
	for _, op := range order {
		n := op.node
		if ParseKind(n.OpType) == Range || len(n.Inputs) == 0 {
			continue
		}
		in := c.tensors[n.Inputs[0]]
		for _, out := range n.Outputs {
			if _, pinned := shapes[out]; pinned {
				continue
			}
			c.tensors[out].shape = in.shape.Clone()
		}
	}
	return c, nil
}
