// Package onnx imports ONNX models as source graphs.
//
// ONNX (Open Neural Network Exchange) is an open format for representing deep
// learning models. Parse decodes the protobuf wire format of a .onnx file
// into the reduced message structs of this package, reading only the fields
// the importer needs; ToGraph converts them into a graph.Graph ready for
// lowering.
//
// Key components:
//   - ModelProto: Top-level ONNX model structure with metadata and graph
//   - GraphProto: Computation graph with nodes, inputs, outputs, and initializers
//   - NodeProto: Single operation in the graph (e.g., Relu, HardSwish)
//   - TensorProto: Initializer or Constant tensor with data and shape
//   - ValueInfoProto: Tensor element type and shape
//
// Example usage:
//
//	g, err := onnx.ImportFile("mobilenetv3.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := lower.Lower(g)
package onnx
