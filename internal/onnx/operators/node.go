package operators

// ONNX attribute types (AttributeProto.Type).
const (
	AttributeFloat = 1 // FLOAT
	AttributeInt   = 2 // INT
)

// Node represents an ONNX operation node.
// This is a local copy of the relevant fields from onnx.NodeProto
// to avoid import cycles between onnx and operators packages.
type Node struct {
	Name       string      // Node name (never empty)
	OpType     string      // Operation type (e.g., "Relu", "HardSwish")
	Inputs     []string    // Input tensor names, "" for omitted optional inputs
	Outputs    []string    // Output tensor names
	Attributes []Attribute // Operation attributes
}

// Attribute represents a node attribute.
type Attribute struct {
	Name string  // Attribute name
	Type int32   // Attribute type
	F    float32 // FLOAT value
	I    int64   // INT value
}

// GetAttrFloat returns a float attribute or default value.
func GetAttrFloat(node *Node, name string, defaultVal float32) float32 {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return node.Attributes[i].F
		}
	}
	return defaultVal
}

// GetAttrInt returns an integer attribute or default value.
func GetAttrInt(node *Node, name string, defaultVal int64) int64 {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return node.Attributes[i].I
		}
	}
	return defaultVal
}

// HasAttr reports whether the node carries the named attribute.
func HasAttr(node *Node, name string) bool {
	for i := range node.Attributes {
		if node.Attributes[i].Name == name {
			return true
		}
	}
	return false
}

// scalarAttrs returns the node's FLOAT and INT attributes as float32 values.
func scalarAttrs(node *Node) map[string]float32 {
	var attrs map[string]float32
	for _, a := range node.Attributes {
		var v float32
		switch a.Type {
		case AttributeFloat:
			v = a.F
		case AttributeInt:
			v = float32(a.I)
		default:
			continue
		}
		if attrs == nil {
			attrs = make(map[string]float32)
		}
		attrs[a.Name] = v
	}
	return attrs
}
