package onnx

import "github.com/born-ml/nnlower/internal/graph"

// Graph is an imported source graph: named tensors with static shapes and
// element kinds, and the nodes that connect them.
//
// The graph is plain data and may be edited before lowering, for example to
// fix a symbolic batch dimension:
//
//	g, _ := onnx.Load("model.onnx")
//	g, err := g.WithShapes(map[string]tensor.Shape{"x": {8, 3, 224, 224}})
//
// It is the same type as lowering.Graph.
type Graph = graph.Graph
