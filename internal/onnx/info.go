package onnx

import (
	"sort"

	"github.com/born-ml/nnlower/internal/onnx/operators"
)

// ModelInfo summarizes an ONNX model without converting it.
type ModelInfo struct {
	ProducerName string
	IRVersion    int64
	OpsetVersion int64    // Version of the default domain, 0 if absent
	GraphName    string
	InputNames   []string // Graph inputs that are not initializers
	OutputNames  []string
	Operators    []string // Distinct operator types, sorted
	Unsupported  []string // Operator types with no source-graph kind, sorted
}

// GetModelInfo parses path and summarizes the model.
func GetModelInfo(path string) (*ModelInfo, error) {
	m, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Info(m), nil
}

// Info summarizes m.
func Info(m *ModelProto) *ModelInfo {
	info := &ModelInfo{
		ProducerName: m.ProducerName,
		IRVersion:    m.IRVersion,
	}
	for _, set := range m.OpsetImport {
		if set.Domain == "" || set.Domain == "ai.onnx" {
			info.OpsetVersion = set.Version
		}
	}
	if m.Graph == nil {
		return info
	}
	g := m.Graph
	info.GraphName = g.Name

	weights := make(map[string]bool, len(g.Initializers))
	for _, t := range g.Initializers {
		weights[t.Name] = true
	}
	for _, in := range g.Inputs {
		if !weights[in.Name] {
			info.InputNames = append(info.InputNames, in.Name)
		}
	}
	for _, out := range g.Outputs {
		info.OutputNames = append(info.OutputNames, out.Name)
	}

	supported := make(map[string]bool)
	for _, op := range SupportedOps() {
		supported[op] = true
	}
	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		if seen[n.OpType] {
			continue
		}
		seen[n.OpType] = true
		info.Operators = append(info.Operators, n.OpType)
		if !supported[n.OpType] {
			info.Unsupported = append(info.Unsupported, n.OpType)
		}
	}
	sort.Strings(info.Operators)
	sort.Strings(info.Unsupported)
	return info
}

// SupportedOps lists the ONNX operator types the importer translates into
// lowerable source operators. Constant nodes are folded into tensors.
func SupportedOps() []string {
	ops := append(operators.NewRegistry().SupportedOps(), "Constant", "Relu6")
	sort.Strings(ops)
	return ops
}
