package onnx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/onnx/operators"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// dataTypes maps ONNX element types to tensor kinds. Kinds the lowering
// cannot represent are still imported and rejected when lowered.
var dataTypes = map[int32]tensor.DataType{
	TensorProtoFloat:  tensor.Float32,
	TensorProtoUint8:  tensor.Uint8,
	TensorProtoInt8:   tensor.Int8,
	TensorProtoInt32:  tensor.Int32,
	TensorProtoInt64:  tensor.Int64,
	TensorProtoBool:   tensor.Bool,
	TensorProtoDouble: tensor.Float64,
}

// ImportFile reads an ONNX file and converts its graph.
func ImportFile(path string) (*graph.Graph, error) {
	m, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ToGraph(m)
}

// Import converts an encoded ONNX model.
func Import(data []byte) (*graph.Graph, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return ToGraph(m)
}

// ToGraph converts the model's graph into a source graph.
//
// Initializers and Constant nodes become persistable tensors. Symbolic or
// missing dimensions become 1. Tensors without type information take the
// element type and shape of their producer's first input.
func ToGraph(m *ModelProto) (*graph.Graph, error) {
	if m.Graph == nil {
		return nil, errors.New("model has no graph")
	}
	c := &converter{
		g:     graph.New(m.Graph.Name),
		infos: make(map[string]ValueInfoProto),
		ops:   operators.NewRegistry(),
	}
	c.ctx = &operators.Context{Constant: c.constant}
	return c.convert(m.Graph)
}

type converter struct {
	g     *graph.Graph
	infos map[string]ValueInfoProto
	ops   *operators.Registry
	ctx   *operators.Context
}

func (c *converter) constant(name string) ([]float32, bool) {
	t, ok := c.g.Tensor(name)
	if !ok || !t.Persistable() {
		return nil, false
	}
	return t.Values(), true
}

func (c *converter) convert(gp *GraphProto) (*graph.Graph, error) {
	for _, list := range [][]ValueInfoProto{gp.Inputs, gp.Outputs, gp.ValueInfo} {
		for _, vi := range list {
			c.infos[vi.Name] = vi
		}
	}

	for i := range gp.Initializers {
		t := &gp.Initializers[i]
		if err := c.addConstant(t.Name, t); err != nil {
			return nil, errors.WithMessagef(err, "initializer %s", t.Name)
		}
	}

	for _, vi := range gp.Inputs {
		if _, ok := c.g.Tensor(vi.Name); ok {
			continue // initializer listed as input (IR < 4)
		}
		if err := c.addInfo(vi.Name); err != nil {
			return nil, err
		}
		c.g.Inputs = append(c.g.Inputs, vi.Name)
	}

	for i := range gp.Nodes {
		if err := c.addNode(i, &gp.Nodes[i]); err != nil {
			return nil, err
		}
	}

	for _, vi := range gp.Outputs {
		c.g.Outputs = append(c.g.Outputs, vi.Name)
	}

	if err := c.g.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid onnx graph")
	}
	return c.g, nil
}

func (c *converter) addNode(i int, n *NodeProto) error {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("%s_%d", n.OpType, i)
	}

	if n.OpType == "Constant" && n.Domain == "" {
		if len(n.Outputs) != 1 {
			return errors.Errorf("node %s: Constant needs 1 output, got %d", name, len(n.Outputs))
		}
		t, err := constantValue(n)
		if err != nil {
			return errors.WithMessagef(err, "node %s", name)
		}
		return errors.WithMessagef(c.addConstant(n.Outputs[0], t), "node %s", name)
	}

	for _, in := range n.Inputs {
		if in == "" {
			continue // omitted optional input
		}
		if _, ok := c.g.Tensor(in); !ok {
			return errors.Errorf("node %s: input %q is not produced before use", name, in)
		}
	}

	on := &operators.Node{
		Name:    name,
		OpType:  n.OpType,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
	}
	for _, a := range n.Attributes {
		on.Attributes = append(on.Attributes, operators.Attribute{Name: a.Name, Type: a.Type, F: a.F, I: a.I})
	}
	gn, err := c.ops.Convert(c.ctx, on)
	if err != nil {
		return errors.WithMessagef(err, "node %s", name)
	}

	for _, out := range gn.Outputs {
		if err := c.addOutput(gn.OpType, out, gn.Inputs); err != nil {
			return errors.WithMessagef(err, "node %s", name)
		}
	}
	c.g.AddNode(gn)
	return nil
}

// addOutput registers a node output, inferring its type when the model
// carries none.
func (c *converter) addOutput(opType, name string, inputs []string) error {
	if _, ok := c.infos[name]; ok {
		return c.addInfo(name)
	}

	shape, dtype := tensor.Shape{}, tensor.Float32
	if len(inputs) > 0 {
		first, _ := c.g.Tensor(inputs[0])
		shape, dtype = first.Shape(), first.DataType()
	}
	if graph.ParseKind(opType) == graph.Range {
		shape = c.rangeShape(inputs)
	}
	return c.g.AddTensor(graph.NewTensor(name, shape, dtype))
}

// rangeShape computes the length of a Range over constant bounds, or [1]
// when the bounds are only known at runtime.
func (c *converter) rangeShape(inputs []string) tensor.Shape {
	if len(inputs) != 3 {
		return tensor.Shape{1}
	}
	var bounds [3]float64
	for i, name := range inputs {
		t, _ := c.g.Tensor(name)
		vals := t.Values()
		if len(vals) != 1 {
			return tensor.Shape{1}
		}
		bounds[i] = float64(vals[0])
	}
	if bounds[2] == 0 {
		return tensor.Shape{1}
	}
	n := int(math.Ceil((bounds[1] - bounds[0]) / bounds[2]))
	return tensor.Shape{max(n, 1)}
}

func (c *converter) addInfo(name string) error {
	vi, ok := c.infos[name]
	if !ok {
		return errors.Errorf("tensor %q has no type information", name)
	}
	dtype, ok := dataTypes[vi.ElemType]
	if !ok {
		return errors.Errorf("tensor %q: unsupported onnx element type %d", name, vi.ElemType)
	}
	shape := make(tensor.Shape, len(vi.Dims))
	for i, d := range vi.Dims {
		shape[i] = 1
		if d.DimParam == "" && d.DimValue > 0 {
			shape[i] = int(d.DimValue)
		}
	}
	return c.g.AddTensor(graph.NewTensor(name, shape, dtype))
}

func (c *converter) addConstant(name string, t *TensorProto) error {
	dtype, ok := dataTypes[t.DataType]
	if !ok {
		return errors.Errorf("unsupported onnx element type %d", t.DataType)
	}
	shape := make(tensor.Shape, len(t.Dims))
	for i, d := range t.Dims {
		shape[i] = int(d)
	}
	values, err := tensorValues(t, dtype, shape.NumElements())
	if err != nil {
		return err
	}
	return c.g.AddTensor(graph.NewTensor(name, shape, dtype).WithValues(values))
}

// constantValue returns the tensor held by a Constant node.
func constantValue(n *NodeProto) (*TensorProto, error) {
	for _, a := range n.Attributes {
		switch a.Name {
		case "value":
			if a.T == nil {
				return nil, errors.New("Constant value attribute has no tensor")
			}
			return a.T, nil
		case "value_float":
			return &TensorProto{DataType: TensorProtoFloat, FloatData: []float32{a.F}}, nil
		case "value_floats":
			return &TensorProto{
				DataType:  TensorProtoFloat,
				Dims:      []int64{int64(len(a.Floats))},
				FloatData: a.Floats,
			}, nil
		case "value_int":
			return &TensorProto{DataType: TensorProtoInt64, Int64Data: []int64{a.I}}, nil
		case "value_ints":
			return &TensorProto{
				DataType:  TensorProtoInt64,
				Dims:      []int64{int64(len(a.Ints))},
				Int64Data: a.Ints,
			}, nil
		}
	}
	return nil, errors.New("Constant node has no supported value attribute")
}

// tensorValues decodes a tensor's data as float32 values.
func tensorValues(t *TensorProto, dtype tensor.DataType, n int) ([]float32, error) {
	out := make([]float32, 0, n)
	switch {
	case t.RawData != nil:
		size := dtype.Size()
		if len(t.RawData) != n*size {
			return nil, errors.Errorf("raw data has %d bytes, want %d", len(t.RawData), n*size)
		}
		for i := 0; i < len(t.RawData); i += size {
			out = append(out, rawValue(t.RawData[i:i+size], dtype))
		}
		return out, nil
	case t.FloatData != nil:
		out = append(out, t.FloatData...)
	case t.Int32Data != nil:
		for _, v := range t.Int32Data {
			out = append(out, float32(v))
		}
	case t.Int64Data != nil:
		for _, v := range t.Int64Data {
			out = append(out, float32(v))
		}
	}
	if len(out) != n {
		return nil, errors.Errorf("tensor has %d values, want %d", len(out), n)
	}
	return out, nil
}

func rawValue(b []byte, dtype tensor.DataType) float32 {
	switch dtype {
	case tensor.Float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case tensor.Float64:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	case tensor.Int32:
		return float32(int32(binary.LittleEndian.Uint32(b)))
	case tensor.Int64:
		return float32(int64(binary.LittleEndian.Uint64(b)))
	case tensor.Int8:
		return float32(int8(b[0]))
	default: // Uint8, Bool
		return float32(b[0])
	}
}
