// Package operators maps ONNX operators onto source-graph nodes.
//
// The package provides a registry of operator handlers that rewrite ONNX
// nodes into the operator vocabulary the lowering engine understands. Each
// handler validates the node's inputs and attributes, renames attributes
// where ONNX and the source graph disagree (HardSigmoid alpha and beta become
// slope and offset), and recognises idioms such as Clip(0, 6), which becomes
// Relu6.
//
// Operators without a handler pass through unchanged and are rejected later
// by the lowering engine if it cannot lower them.
package operators
