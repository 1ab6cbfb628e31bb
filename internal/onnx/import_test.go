package onnx

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// Minimal protobuf encoders for building test models.

func msg(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func str(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func varint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func fixed32(b []byte, num protowire.Number, v float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// valueInfo encodes a tensor ValueInfoProto; a negative dim is symbolic.
func valueInfo(name string, elemType int32, dims ...int64) []byte {
	var shape []byte
	for _, d := range dims {
		var dim []byte
		if d < 0 {
			dim = str(dim, 2, "batch")
		} else {
			dim = varint(dim, 1, uint64(d))
		}
		shape = msg(shape, 1, dim)
	}
	var tt []byte
	tt = varint(tt, 1, uint64(elemType))
	tt = msg(tt, 2, shape)

	var vi []byte
	vi = str(vi, 1, name)
	return msg(vi, 2, msg(nil, 1, tt))
}

func floatTensor(name string, dims []int64, values ...float32) []byte {
	var t []byte
	packed := make([]byte, 0, len(dims)*2)
	for _, d := range dims {
		packed = protowire.AppendVarint(packed, uint64(d))
	}
	if len(dims) > 0 {
		t = msg(t, 1, packed)
	}
	t = varint(t, 2, TensorProtoFloat)
	if name != "" {
		t = str(t, 8, name)
	}
	raw := make([]byte, 0, 4*len(values))
	for _, v := range values {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	return msg(t, 9, raw)
}

func floatAttr(name string, v float32) []byte {
	var a []byte
	a = str(a, 1, name)
	a = fixed32(a, 2, v)
	return varint(a, 20, AttributeProtoFloat)
}

func node(name, opType string, inputs, outputs []string, attrs ...[]byte) []byte {
	var n []byte
	for _, in := range inputs {
		n = str(n, 1, in)
	}
	for _, out := range outputs {
		n = str(n, 2, out)
	}
	if name != "" {
		n = str(n, 3, name)
	}
	n = str(n, 4, opType)
	for _, a := range attrs {
		n = msg(n, 5, a)
	}
	return n
}

func model(graphFields ...[]byte) []byte {
	var g []byte
	for _, f := range graphFields {
		g = append(g, f...)
	}
	var m []byte
	m = varint(m, 1, 8)
	m = str(m, 2, "unit-test")
	m = msg(m, 7, g)
	return msg(m, 8, varint(nil, 2, 17))
}

func TestImportActivationGraph(t *testing.T) {
	data := model(
		str(nil, 2, "mobile"),
		msg(nil, 1, node("relu0", "Relu", []string{"x"}, []string{"a"})),
		msg(nil, 1, node("", "HardSigmoid", []string{"a"}, []string{"b"},
			floatAttr("alpha", 0.25), floatAttr("beta", 0.4))),
		msg(nil, 1, node("hs", "HardSwish", []string{"b"}, []string{"y"})),
		msg(nil, 11, valueInfo("x", TensorProtoFloat, -1, 3)),
		msg(nil, 12, valueInfo("y", TensorProtoFloat, -1, 3)),
	)

	m, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, int64(8), m.IRVersion)
	assert.Equal(t, "unit-test", m.ProducerName)
	require.Len(t, m.OpsetImport, 1)
	assert.Equal(t, int64(17), m.OpsetImport[0].Version)

	g, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, "mobile", g.Name)
	assert.Equal(t, []string{"x"}, g.Inputs)
	assert.Equal(t, []string{"y"}, g.Outputs)

	x, ok := g.Tensor("x")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{1, 3}, x.Shape(), "symbolic batch dim becomes 1")

	a, ok := g.Tensor("a")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{1, 3}, a.Shape(), "untyped outputs follow their first input")

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "HardSigmoid_1", g.Nodes[1].Name)
	assert.Equal(t, map[string]float32{"slope": 0.25, "offset": 0.4}, g.Nodes[1].Attrs)
	assert.Equal(t, graph.HardSwish, graph.ParseKind(g.Nodes[2].OpType))
}

func TestImportInitializersAndConstants(t *testing.T) {
	data := model(
		msg(nil, 1, node("start", "Constant", nil, []string{"start"})),
	)
	_, err := Import(data)
	require.Error(t, err, "a Constant node without a value is rejected")

	valueAttr := func(tp []byte) []byte {
		var a []byte
		a = str(a, 1, "value")
		a = msg(a, 5, tp)
		return varint(a, 20, AttributeProtoTensor)
	}
	data = model(
		msg(nil, 1, node("start", "Constant", nil, []string{"start"}, valueAttr(floatTensor("", nil, 1)))),
		msg(nil, 1, node("range", "Range", []string{"start", "limit", "delta"}, []string{"r"})),
		msg(nil, 5, floatTensor("limit", nil, 7)),
		msg(nil, 5, floatTensor("delta", nil, 2)),
		msg(nil, 11, valueInfo("limit", TensorProtoFloat)),
	)

	g, err := Import(data)
	require.NoError(t, err)
	assert.Empty(t, g.Inputs, "initializers listed as inputs are not runtime inputs")
	require.Len(t, g.Nodes, 1, "Constant nodes fold into tensors")

	for name, want := range map[string]float32{"start": 1, "limit": 7, "delta": 2} {
		tt, ok := g.Tensor(name)
		require.True(t, ok, name)
		assert.True(t, tt.Persistable(), name)
		assert.Equal(t, []float32{want}, tt.Values(), name)
	}

	r, ok := g.Tensor("r")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{3}, r.Shape(), "constant range bounds fix the output length")
}

func TestImportWeights(t *testing.T) {
	data := model(
		msg(nil, 1, node("mul", "Mul", []string{"x", "w"}, []string{"y"})),
		msg(nil, 5, floatTensor("w", []int64{2, 2}, 1, 2, 3, 4)),
		msg(nil, 11, valueInfo("x", TensorProtoFloat, 2, 2)),
		msg(nil, 12, valueInfo("y", TensorProtoFloat, 2, 2)),
	)

	g, err := Import(data)
	require.NoError(t, err)
	w, ok := g.Tensor("w")
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{2, 2}, w.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, w.Values())
}

func TestImportFile(t *testing.T) {
	data := model(
		msg(nil, 1, node("relu", "Relu", []string{"x"}, []string{"y"})),
		msg(nil, 11, valueInfo("x", TensorProtoInt8, 4)),
		msg(nil, 12, valueInfo("y", TensorProtoInt8, 4)),
	)
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	g, err := ImportFile(path)
	require.NoError(t, err)
	x, _ := g.Tensor("x")
	assert.Equal(t, tensor.Int8, x.DataType())
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", model(msg(nil, 11, valueInfo("x", TensorProtoFloat, 1)))[:10]},
		{"no graph", varint(nil, 1, 8)},
		{"use before definition", model(
			msg(nil, 1, node("relu", "Relu", []string{"x"}, []string{"y"})),
		)},
		{"short raw data", model(
			msg(nil, 5, floatTensor("w", []int64{3}, 1, 2)),
		)},
		{"unsupported element type", model(
			msg(nil, 11, valueInfo("s", 8, 1)),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.data)
			require.Error(t, err)
		})
	}
}

func TestImportClipAsRelu6(t *testing.T) {
	clip := func(lo, hi float32) []byte {
		return model(
			msg(nil, 1, node("clip", "Clip", []string{"x", "lo", "hi"}, []string{"y"})),
			msg(nil, 5, floatTensor("lo", nil, lo)),
			msg(nil, 5, floatTensor("hi", nil, hi)),
			msg(nil, 11, valueInfo("x", TensorProtoFloat, 1, 4)),
			msg(nil, 12, valueInfo("y", TensorProtoFloat, 1, 4)),
		)
	}

	g, err := Import(clip(0, 6))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, graph.Relu6, graph.ParseKind(g.Nodes[0].OpType))
	assert.Equal(t, []string{"x"}, g.Nodes[0].Inputs)

	g, err = Import(clip(-1, 1))
	require.NoError(t, err)
	assert.Equal(t, "Clip", g.Nodes[0].OpType)
	assert.Equal(t, []string{"x", "lo", "hi"}, g.Nodes[0].Inputs)
}

func TestInfo(t *testing.T) {
	data := model(
		str(nil, 2, "mobile"),
		msg(nil, 1, node("mul", "Mul", []string{"x", "w"}, []string{"a"})),
		msg(nil, 1, node("hs", "HardSwish", []string{"a"}, []string{"y"})),
		msg(nil, 1, node("hs2", "HardSwish", []string{"y"}, []string{"z"})),
		msg(nil, 5, floatTensor("w", nil, 2)),
		msg(nil, 11, valueInfo("x", TensorProtoFloat, 1, 3)),
		msg(nil, 11, valueInfo("w", TensorProtoFloat)),
		msg(nil, 12, valueInfo("z", TensorProtoFloat, 1, 3)),
	)
	m, err := Parse(data)
	require.NoError(t, err)

	info := Info(m)
	assert.Equal(t, &ModelInfo{
		ProducerName: "unit-test",
		IRVersion:    8,
		OpsetVersion: 17,
		GraphName:    "mobile",
		InputNames:   []string{"x"},
		OutputNames:  []string{"z"},
		Operators:    []string{"HardSwish", "Mul"},
		Unsupported:  []string{"Mul"},
	}, info)
}

func TestSupportedOps(t *testing.T) {
	ops := SupportedOps()
	assert.Contains(t, ops, "HardSwish")
	assert.Contains(t, ops, "Constant")
	assert.IsNonDecreasing(t, ops)
}
