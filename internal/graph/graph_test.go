package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func chainGraph(t *testing.T) *Graph {
	t.Helper()
	g := New("chain")
	for _, name := range []string{"x", "a", "b", "c"} {
		require.NoError(t, g.AddTensor(NewTensor(name, tensor.Shape{1, 3}, tensor.Float32)))
	}
	g.Inputs = []string{"x"}
	g.Outputs = []string{"c"}
	// Declared out of order on purpose.
	g.AddNode(Node{Name: "C", OpType: "tanh", Inputs: []string{"b"}, Outputs: []string{"c"}})
	g.AddNode(Node{Name: "A", OpType: "relu", Inputs: []string{"x"}, Outputs: []string{"a"}})
	g.AddNode(Node{Name: "B", OpType: "sigmoid", Inputs: []string{"a"}, Outputs: []string{"b"}})
	return g
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"relu":         Relu,
		"Relu6":        Relu6,
		"hard_swish":   HardSwish,
		"HardSwish":    HardSwish,
		"hard_sigmoid": HardSigmoid,
		"range":        Range,
		"conv2d":       Invalid,
		"":             Invalid,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseKind(in), in)
	}
	assert.Equal(t, "HardSwish", HardSwish.String())
	assert.Equal(t, "Invalid", Kind(99).String())
	assert.Len(t, Kinds(), 7)
}

func TestSortOrdersProducersFirst(t *testing.T) {
	g := chainGraph(t)
	require.NoError(t, g.Validate())

	ops, err := g.Sort()
	require.NoError(t, err)

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name()
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestSortDetectsCycle(t *testing.T) {
	g := New("cycle")
	require.NoError(t, g.AddTensor(NewTensor("a", tensor.Shape{1}, tensor.Float32)))
	require.NoError(t, g.AddTensor(NewTensor("b", tensor.Shape{1}, tensor.Float32)))
	g.AddNode(Node{Name: "A", OpType: "relu", Inputs: []string{"b"}, Outputs: []string{"a"}})
	g.AddNode(Node{Name: "B", OpType: "relu", Inputs: []string{"a"}, Outputs: []string{"b"}})

	_, err := g.Sort()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidate(t *testing.T) {
	g := chainGraph(t)
	g.AddNode(Node{Name: "D", OpType: "relu", Inputs: []string{"missing"}, Outputs: []string{"c"}})
	require.ErrorContains(t, g.Validate(), "unknown input tensor")

	g = chainGraph(t)
	g.AddNode(Node{Name: "D", OpType: "relu", Inputs: []string{"x"}, Outputs: []string{"c"}})
	require.ErrorContains(t, g.Validate(), "produced by both")

	g = chainGraph(t)
	g.AddNode(Node{Name: "A", OpType: "relu", Inputs: []string{"x"}, Outputs: []string{"x"}})
	require.ErrorContains(t, g.Validate(), "duplicate node name")

	require.Error(t, g.AddTensor(NewTensor("x", nil, tensor.Float32)))
}

func TestOperatorView(t *testing.T) {
	g := New("view")
	require.NoError(t, g.AddTensor(NewTensor("x", tensor.Shape{2}, tensor.Float32).WithScale(0.5)))
	require.NoError(t, g.AddTensor(NewTensor("y", tensor.Shape{2}, tensor.Float32)))
	g.AddNode(Node{Name: "hs", OpType: "hard_swish", Inputs: []string{"x"}, Outputs: []string{"y"},
		Attrs: map[string]float32{"threshold": 6}})

	op := g.Operator(0)
	assert.Equal(t, "hard_swish", op.Type())
	require.Len(t, op.Inputs(), 1)
	assert.Equal(t, "x", op.Inputs()[0].Name())
	scale, ok := op.Inputs()[0].QuantScale()
	assert.True(t, ok)
	assert.Equal(t, float32(0.5), scale)

	v, ok := op.Attribute("threshold")
	assert.True(t, ok)
	assert.Equal(t, float32(6), v)
	_, ok = op.Attribute("offset")
	assert.False(t, ok)
}

func TestWithShapesPropagates(t *testing.T) {
	g := chainGraph(t)

	reshaped, err := g.WithShapes(map[string]tensor.Shape{"x": {1, 4}})
	require.NoError(t, err)

	for _, name := range []string{"x", "a", "b", "c"} {
		tt, ok := reshaped.Tensor(name)
		require.True(t, ok)
		assert.Equal(t, tensor.Shape{1, 4}, tt.Shape(), name)
	}

	// The original graph is untouched.
	x, _ := g.Tensor("x")
	assert.Equal(t, tensor.Shape{1, 3}, x.Shape())

	_, err = g.WithShapes(map[string]tensor.Shape{"nope": {1}})
	require.Error(t, err)
	_, err = g.WithShapes(map[string]tensor.Shape{"x": {0}})
	require.Error(t, err)
}

const sampleYAML = `
name: sample
inputs: [x]
outputs: [y]
tensors:
  - name: x
    shape: [1, 3]
    scale: 0.25
  - name: y
    shape: [1, 3]
  - name: start
    shape: [1]
    values: [0]
nodes:
  - name: act
    type: hard_swish
    inputs: [x]
    outputs: [y]
    attrs: {offset: 3, threshold: 6, scale: 6}
`

func TestDecodeEncode(t *testing.T) {
	g, err := Decode(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "sample", g.Name)
	assert.Equal(t, []string{"start", "x", "y"}, g.TensorNames())

	x, _ := g.Tensor("x")
	assert.Equal(t, tensor.Float32, x.DataType())
	scale, ok := x.QuantScale()
	assert.True(t, ok)
	assert.Equal(t, float32(0.25), scale)

	start, _ := g.Tensor("start")
	assert.True(t, start.Persistable())
	assert.Equal(t, []float32{0}, start.Values())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))

	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes, again.Nodes)
	assert.Equal(t, g.TensorNames(), again.TensorNames())
}

func TestDecodeRejectsUnknownDType(t *testing.T) {
	_, err := Decode(strings.NewReader("name: g\ntensors:\n  - name: x\n    shape: [1]\n    dtype: float17\nnodes: []\n"))
	require.ErrorContains(t, err, "unknown dtype")
}

func TestDecodeKeepsCause(t *testing.T) {
	_, err := Decode(strings.NewReader("name: g\nnodes: 3\n"))
	require.ErrorContains(t, err, "decode graph")

	var typeErr *yaml.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Same(t, typeErr, errors.Cause(err))
}

func TestWithShapesKeepsCause(t *testing.T) {
	g := chainGraph(t)

	_, err := g.WithShapes(map[string]tensor.Shape{"x": {1, -2}})
	require.ErrorContains(t, err, "tensor x")
	assert.Equal(t, tensor.Shape{1, -2}.Validate().Error(), errors.Cause(err).Error())
}
