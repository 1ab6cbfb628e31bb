// Package onnx provides ONNX model import functionality for nnlower.
//
// This package converts ONNX (Open Neural Network Exchange) models exported
// from PyTorch, PaddlePaddle and other frameworks into source graphs that the
// lowering engine can map onto accelerator primitives.
//
// # Supported Features
//
//   - ONNX format parsing (protobuf wire format, no generated code)
//   - Initializers and Constant nodes as persistable tensors
//   - Symbolic dimensions (resolved to 1; override them when lowering)
//   - Float32, int32, int64, int8 and uint8 initializers
//
// # Example Usage
//
//	import (
//	    "github.com/born-ml/nnlower/lowering"
//	    "github.com/born-ml/nnlower/onnx"
//	)
//
//	// Import ONNX model
//	g, err := onnx.Load("mobilenet_v3.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Lower it for the default target
//	res, err := lowering.Lower(g)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(res.Target)
//
// # Supported Operators
//
// The following ONNX operators are translated:
//
//   - Activation: Relu, Sigmoid, Tanh, HardSwish, HardSigmoid
//   - Clip with constant bounds 0 and 6 (imported as Relu6)
//   - Generator: Range
//   - Constant (folded into tensors)
//
// Other operators are imported unchanged and rejected by the lowering with
// an unsupported-operator error. Use [ListSupportedOps] to get the complete
// list and [GetModelInfo] to check a model before importing it.
package onnx

import (
	internalonnx "github.com/born-ml/nnlower/internal/onnx"
)

// Load imports an ONNX model from a file path.
//
// The returned graph is validated: every node input is produced by another
// node, is a graph input, or is a persistable tensor.
//
// Example:
//
//	g, err := onnx.Load("model.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Inputs:", g.Inputs)
//	fmt.Println("Outputs:", g.Outputs)
func Load(path string) (*Graph, error) {
	return internalonnx.ImportFile(path)
}

// LoadFromBytes imports an ONNX model from raw bytes.
//
// This is useful when the model is embedded in the binary or loaded
// from a network source.
//
// Example:
//
//	modelBytes, _ := os.ReadFile("model.onnx")
//	g, err := onnx.LoadFromBytes(modelBytes)
func LoadFromBytes(data []byte) (*Graph, error) {
	return internalonnx.Import(data)
}

// ModelInfo contains metadata about an ONNX model without converting it.
//
// Use [GetModelInfo] to quickly inspect a model file before importing.
type ModelInfo = internalonnx.ModelInfo

// GetModelInfo extracts metadata from an ONNX file without converting it.
//
// Example:
//
//	info, err := onnx.GetModelInfo("model.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Producer: %s\n", info.ProducerName)
//	fmt.Printf("Opset: %d\n", info.OpsetVersion)
//	fmt.Printf("Operators: %v\n", info.Operators)
//	fmt.Printf("Unsupported: %v\n", info.Unsupported)
func GetModelInfo(path string) (*ModelInfo, error) {
	return internalonnx.GetModelInfo(path)
}

// ListSupportedOps returns a list of all ONNX operators nnlower can lower.
//
// Example:
//
//	ops := onnx.ListSupportedOps()
//	for _, op := range ops {
//	    fmt.Println(op)
//	}
func ListSupportedOps() []string {
	return internalonnx.SupportedOps()
}
