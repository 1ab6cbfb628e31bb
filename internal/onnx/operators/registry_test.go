package operators

import (
	"testing"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constants(values map[string]float32) *Context {
	return &Context{Constant: func(name string) ([]float32, bool) {
		v, ok := values[name]
		if !ok {
			return nil, false
		}
		return []float32{v}, true
	}}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	for _, op := range []string{"Relu", "Sigmoid", "Tanh", "HardSwish", "HardSigmoid", "Clip", "Range"} {
		_, ok := r.Get(op)
		assert.True(t, ok, "expected operator %s to be registered", op)
	}
	assert.Equal(t, []string{"Clip", "HardSigmoid", "HardSwish", "Range", "Relu", "Sigmoid", "Tanh"}, r.SupportedOps())
}

func TestRegistryPassthrough(t *testing.T) {
	r := NewRegistry()
	node := &Node{
		Name:    "sp",
		OpType:  "Softplus",
		Inputs:  []string{"x", ""},
		Outputs: []string{"y"},
		Attributes: []Attribute{
			{Name: "beta", Type: AttributeFloat, F: 2},
			{Name: "axis", Type: AttributeInt, I: -1},
		},
	}

	gn, err := r.Convert(nil, node)
	require.NoError(t, err)
	assert.Equal(t, graph.Node{
		Name:    "sp",
		OpType:  "Softplus",
		Inputs:  []string{"x"},
		Outputs: []string{"y"},
		Attrs:   map[string]float32{"beta": 2, "axis": -1},
	}, gn)
}

func TestUnaryArity(t *testing.T) {
	r := NewRegistry()
	_, err := r.Convert(nil, &Node{Name: "r", OpType: "Relu", Inputs: []string{"a", "b"}, Outputs: []string{"y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relu requires 1 input, got 2")
}

func TestHardSigmoidAttributes(t *testing.T) {
	r := NewRegistry()

	gn, err := r.Convert(nil, &Node{Name: "hs", OpType: "HardSigmoid", Inputs: []string{"x"}, Outputs: []string{"y"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]float32{"slope": 0.2, "offset": 0.5}, gn.Attrs)

	gn, err = r.Convert(nil, &Node{
		Name: "hs", OpType: "HardSigmoid", Inputs: []string{"x"}, Outputs: []string{"y"},
		Attributes: []Attribute{{Name: "alpha", Type: AttributeFloat, F: 0.125}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float32{"slope": 0.125, "offset": 0.5}, gn.Attrs)
}

func TestClip(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		ctx    *Context
		opType string
	}{
		{
			name:   "relu6 from inputs",
			node:   Node{Name: "c", OpType: "Clip", Inputs: []string{"x", "lo", "hi"}, Outputs: []string{"y"}},
			ctx:    constants(map[string]float32{"lo": 0, "hi": 6}),
			opType: "Relu6",
		},
		{
			name: "relu6 from attributes",
			node: Node{Name: "c", OpType: "Clip", Inputs: []string{"x"}, Outputs: []string{"y"},
				Attributes: []Attribute{
					{Name: "min", Type: AttributeFloat, F: 0},
					{Name: "max", Type: AttributeFloat, F: 6},
				}},
			opType: "Relu6",
		},
		{
			name:   "other bounds",
			node:   Node{Name: "c", OpType: "Clip", Inputs: []string{"x", "lo", "hi"}, Outputs: []string{"y"}},
			ctx:    constants(map[string]float32{"lo": 0, "hi": 1}),
			opType: "Clip",
		},
		{
			name:   "runtime bounds",
			node:   Node{Name: "c", OpType: "Clip", Inputs: []string{"x", "lo", "hi"}, Outputs: []string{"y"}},
			ctx:    constants(nil),
			opType: "Clip",
		},
		{
			name:   "omitted min",
			node:   Node{Name: "c", OpType: "Clip", Inputs: []string{"x", "", "hi"}, Outputs: []string{"y"}},
			ctx:    constants(map[string]float32{"hi": 6}),
			opType: "Clip",
		},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gn, err := r.Convert(tt.ctx, &tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.opType, gn.OpType)
			if tt.opType == "Relu6" {
				assert.Equal(t, []string{"x"}, gn.Inputs)
			}
		})
	}
}

func TestRegisterCustomOp(t *testing.T) {
	r := NewRegistry()
	r.Register("Swish", func(_ *Context, node *Node) (graph.Node, error) {
		return graph.Node{Name: node.Name, OpType: "HardSwish", Inputs: node.Inputs, Outputs: node.Outputs}, nil
	})

	gn, err := r.Convert(nil, &Node{Name: "s", OpType: "Swish", Inputs: []string{"x"}, Outputs: []string{"y"}})
	require.NoError(t, err)
	assert.Equal(t, "HardSwish", gn.OpType)
}

func TestRange(t *testing.T) {
	r := NewRegistry()
	_, err := r.Convert(nil, &Node{Name: "r", OpType: "Range", Inputs: []string{"a", "b"}, Outputs: []string{"y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range requires 3 inputs")
}
