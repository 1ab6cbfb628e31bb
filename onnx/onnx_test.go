package onnx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/nnlower/onnx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// reluModel encodes a one-node model: y = Relu(x), x: float32[1,3].
func reluModel() []byte {
	appendMsg := func(b []byte, num protowire.Number, sub []byte) []byte {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		return protowire.AppendBytes(b, sub)
	}
	appendStr := func(b []byte, num protowire.Number, s string) []byte {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		return protowire.AppendString(b, s)
	}
	appendVarint := func(b []byte, num protowire.Number, v uint64) []byte {
		b = protowire.AppendTag(b, num, protowire.VarintType)
		return protowire.AppendVarint(b, v)
	}
	valueInfo := func(name string) []byte {
		var shape []byte
		shape = appendMsg(shape, 1, appendVarint(nil, 1, 1))
		shape = appendMsg(shape, 1, appendVarint(nil, 1, 3))
		tt := appendVarint(nil, 1, 1) // FLOAT
		tt = appendMsg(tt, 2, shape)
		vi := appendStr(nil, 1, name)
		return appendMsg(vi, 2, appendMsg(nil, 1, tt))
	}

	var node []byte
	node = appendStr(node, 1, "x")
	node = appendStr(node, 2, "y")
	node = appendStr(node, 3, "relu")
	node = appendStr(node, 4, "Relu")

	var g []byte
	g = appendMsg(g, 1, node)
	g = appendStr(g, 2, "tiny")
	g = appendMsg(g, 11, valueInfo("x"))
	g = appendMsg(g, 12, valueInfo("y"))

	var m []byte
	m = appendVarint(m, 1, 8)
	m = appendStr(m, 2, "unit-test")
	m = appendMsg(m, 7, g)
	return appendMsg(m, 8, appendVarint(nil, 2, 13))
}

func TestLoadFromBytes(t *testing.T) {
	g, err := onnx.LoadFromBytes(reluModel())
	require.NoError(t, err)
	assert.Equal(t, "tiny", g.Name)
	assert.Equal(t, []string{"x"}, g.Inputs)
	assert.Equal(t, []string{"y"}, g.Outputs)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Relu", g.Nodes[0].OpType)
}

func TestLoadAndGetModelInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.onnx")
	require.NoError(t, os.WriteFile(path, reluModel(), 0o600))

	g, err := onnx.Load(path)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)

	info, err := onnx.GetModelInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "unit-test", info.ProducerName)
	assert.Equal(t, int64(13), info.OpsetVersion)
	assert.Equal(t, []string{"Relu"}, info.Operators)
	assert.Empty(t, info.Unsupported)

	_, err = onnx.Load(filepath.Join(t.TempDir(), "missing.onnx"))
	assert.Error(t, err)
}

func TestListSupportedOps(t *testing.T) {
	ops := onnx.ListSupportedOps()
	for _, want := range []string{"Relu", "Sigmoid", "Tanh", "HardSwish", "HardSigmoid", "Range", "Clip"} {
		assert.Contains(t, ops, want)
	}
}
