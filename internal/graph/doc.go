// Package graph models the framework-level source graph handed to the lowering
// engine: named tensors, operator nodes with scalar attributes, and the
// read-only TensorRef / OperatorRef views the engine consumes.
//
// Graphs are built programmatically, decoded from YAML (see Decode), or
// imported from ONNX by the onnx package. A Graph is never mutated by
// lowering; WithShapes returns an independent copy for shape changes.
package graph
