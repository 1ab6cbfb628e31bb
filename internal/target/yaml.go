package target

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type graphDoc struct {
	Fingerprint string        `yaml:"fingerprint"`
	Operands    []operandDoc  `yaml:"operands"`
	Operators   []operatorDoc `yaml:"operators"`
}

type operandDoc struct {
	ID     int       `yaml:"id"`
	Name   string    `yaml:"name,omitempty"`
	DType  string    `yaml:"dtype"`
	Shape  []int     `yaml:"shape,flow"`
	Scale  float32   `yaml:"scale,omitempty"`
	Values []float32 `yaml:"values,omitempty,flow"`
}

type operatorDoc struct {
	ID      int    `yaml:"id"`
	Kind    string `yaml:"kind"`
	Name    string `yaml:"name"`
	Inputs  []int  `yaml:"inputs,flow"`
	Outputs []int  `yaml:"outputs,flow"`
}

// Encode writes g as a YAML document. Operands and operators are listed in
// creation order and wired by ID; unbound slots are written as -1.
func Encode(w io.Writer, g *Graph) error {
	doc := graphDoc{
		Fingerprint: fmt.Sprintf("%016x", g.Fingerprint()),
		Operands:    make([]operandDoc, 0, len(g.operands)),
		Operators:   make([]operatorDoc, 0, len(g.operators)),
	}
	for _, o := range g.operands {
		od := operandDoc{
			ID:    o.ID,
			Name:  o.Spec.Name,
			DType: o.Spec.DataType.String(),
			Shape: o.Spec.Shape,
			Scale: o.Spec.Quant.Scale,
		}
		if o.Literal != nil {
			od.Values = o.Literal.Reals(o.Spec.Quant)
		}
		doc.Operands = append(doc.Operands, od)
	}
	for _, op := range g.operators {
		doc.Operators = append(doc.Operators, operatorDoc{
			ID:      op.ID,
			Kind:    op.Kind.String(),
			Name:    op.Name,
			Inputs:  operandIDs(op.Inputs),
			Outputs: operandIDs(op.Outputs),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode target graph")
	}
	return enc.Close()
}

func operandIDs(ops []*Operand) []int {
	ids := make([]int, len(ops))
	for i, o := range ops {
		ids[i] = operandID(o)
	}
	return ids
}
