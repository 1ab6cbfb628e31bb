package onnx

// ONNX protobuf messages, reduced to the fields the importer reads.

// ModelProto represents an ONNX model.
type ModelProto struct {
	IRVersion    int64           // IR version (e.g., 7, 8, 9)
	OpsetImport  []OperatorSetID // Opset version(s)
	ProducerName string          // Framework name (e.g., "pytorch", "paddle")
	Graph        *GraphProto     // Computation graph
}

// GraphProto represents the computation graph.
type GraphProto struct {
	Name         string           // Graph name
	Nodes        []NodeProto      // Operation nodes
	Inputs       []ValueInfoProto // Graph inputs
	Outputs      []ValueInfoProto // Graph outputs
	Initializers []TensorProto    // Weight tensors
	ValueInfo    []ValueInfoProto // Intermediate tensor info
}

// NodeProto represents a single operation.
type NodeProto struct {
	Name       string           // Node name (optional)
	OpType     string           // Operation type (e.g., "Relu", "HardSwish")
	Inputs     []string         // Input tensor names
	Outputs    []string         // Output tensor names
	Attributes []AttributeProto // Operation attributes
	Domain     string           // Custom domain (empty for default)
}

// TensorProto represents a tensor (weights/initializers/constants).
type TensorProto struct {
	Name      string    // Tensor name
	DataType  int32     // Element data type
	Dims      []int64   // Tensor shape
	RawData   []byte    // Raw little-endian data (most common)
	FloatData []float32 // Float32 data (legacy)
	Int32Data []int32   // Int32, int8 and uint8 data (legacy)
	Int64Data []int64   // Int64 data (legacy)
}

// ValueInfoProto describes a tensor's element type and shape.
type ValueInfoProto struct {
	Name     string           // Tensor name
	ElemType int32            // Element data type
	Dims     []DimensionProto // Nil when the shape is unknown
	HasShape bool             // Whether a shape was present at all
}

// DimensionProto describes a single dimension.
type DimensionProto struct {
	DimValue int64  // Static dimension value (e.g., 224 for image size)
	DimParam string // Dynamic dimension name (e.g., "batch_size")
}

// AttributeProto represents a node attribute.
type AttributeProto struct {
	Name   string       // Attribute name
	Type   int32        // Attribute type
	F      float32      // FLOAT value
	I      int64        // INT value
	S      []byte       // STRING value
	T      *TensorProto // TENSOR value
	Floats []float32    // FLOATS array
	Ints   []int64      // INTS array
}

// OperatorSetID identifies opset version.
type OperatorSetID struct {
	Domain  string // Operator domain (empty for default)
	Version int64  // Opset version number
}

// ONNX data types (TensorProto.DataType).
const (
	TensorProtoUndefined = 0
	TensorProtoFloat     = 1  // float32
	TensorProtoUint8     = 2  // uint8
	TensorProtoInt8      = 3  // int8
	TensorProtoInt32     = 6  // int32
	TensorProtoInt64     = 7  // int64
	TensorProtoBool      = 9  // bool
	TensorProtoDouble    = 11 // float64
)

// ONNX attribute types (AttributeProto.Type).
const (
	AttributeProtoUndefined = 0
	AttributeProtoFloat     = 1 // FLOAT
	AttributeProtoInt       = 2 // INT
	AttributeProtoString    = 3 // STRING
	AttributeProtoTensor    = 4 // TENSOR
	AttributeProtoFloats    = 6 // FLOATS
	AttributeProtoInts      = 7 // INTS
)
