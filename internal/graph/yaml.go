package graph

import (
	"fmt"
	"io"

	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// graphFile is the YAML document layout of a source graph.
type graphFile struct {
	Name    string       `yaml:"name"`
	Inputs  []string     `yaml:"inputs,omitempty"`
	Outputs []string     `yaml:"outputs,omitempty"`
	Tensors []tensorFile `yaml:"tensors"`
	Nodes   []nodeFile   `yaml:"nodes"`
}

type tensorFile struct {
	Name   string    `yaml:"name"`
	Shape  []int     `yaml:"shape,flow"`
	DType  string    `yaml:"dtype,omitempty"`
	Scale  *float32  `yaml:"scale,omitempty"`
	Values []float32 `yaml:"values,omitempty,flow"`
}

type nodeFile struct {
	Name    string             `yaml:"name"`
	Type    string             `yaml:"type"`
	Inputs  []string           `yaml:"inputs,flow"`
	Outputs []string           `yaml:"outputs,flow"`
	Attrs   map[string]float32 `yaml:"attrs,omitempty"`
}

// Decode reads a YAML graph document and validates it.
func Decode(r io.Reader) (*Graph, error) {
	var f graphFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode graph")
	}

	g := New(f.Name)
	g.Inputs = f.Inputs
	g.Outputs = f.Outputs
	for _, tf := range f.Tensors {
		dtype := tensor.Float32
		if tf.DType != "" {
			var ok bool
			if dtype, ok = tensor.ParseDataType(tf.DType); !ok {
				return nil, errors.Errorf("tensor %s: unknown dtype %q", tf.Name, tf.DType)
			}
		}
		t := NewTensor(tf.Name, tensor.Shape(tf.Shape), dtype)
		if tf.Scale != nil {
			t.WithScale(*tf.Scale)
		}
		if tf.Values != nil {
			t.WithValues(tf.Values)
		}
		if err := g.AddTensor(t); err != nil {
			return nil, err
		}
	}
	for i, nf := range f.Nodes {
		name := nf.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", nf.Type, i)
		}
		g.AddNode(Node{
			Name:    name,
			OpType:  nf.Type,
			Inputs:  nf.Inputs,
			Outputs: nf.Outputs,
			Attrs:   nf.Attrs,
		})
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Encode writes g as a YAML graph document.
func Encode(w io.Writer, g *Graph) error {
	f := graphFile{
		Name:    g.Name,
		Inputs:  g.Inputs,
		Outputs: g.Outputs,
	}
	for _, name := range g.TensorNames() {
		t := g.tensors[name]
		tf := tensorFile{
			Name:   t.name,
			Shape:  t.shape,
			DType:  t.dtype.String(),
			Values: t.values,
		}
		if t.hasScale {
			s := t.scale
			tf.Scale = &s
		}
		f.Tensors = append(f.Tensors, tf)
	}
	for _, n := range g.Nodes {
		f.Nodes = append(f.Nodes, nodeFile{
			Name:    n.Name,
			Type:    n.OpType,
			Inputs:  n.Inputs,
			Outputs: n.Outputs,
			Attrs:   n.Attrs,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return errors.Wrap(err, "encode graph")
	}
	return enc.Close()
}
