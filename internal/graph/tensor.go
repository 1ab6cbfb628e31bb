package graph

import "github.com/born-ml/nnlower/internal/tensor"

// TensorRef is the read-only view of a framework tensor consumed by lowering.
type TensorRef interface {
	Name() string
	Shape() tensor.Shape
	DataType() tensor.DataType
	// QuantScale returns the per-tensor quantization scale, if any.
	QuantScale() (float32, bool)
	// Persistable reports whether the tensor holds fixed values (weights,
	// constants) rather than a runtime input or activation.
	Persistable() bool
	// Values returns the persistable values; nil for non-persistable tensors.
	Values() []float32
}

// Tensor is a named tensor of a source graph.
type Tensor struct {
	name     string
	shape    tensor.Shape
	dtype    tensor.DataType
	scale    float32
	hasScale bool
	values   []float32
}

// NewTensor creates a non-persistable, non-quantized tensor.
func NewTensor(name string, shape tensor.Shape, dtype tensor.DataType) *Tensor {
	return &Tensor{name: name, shape: shape.Clone(), dtype: dtype}
}

// WithScale attaches a quantization scale and returns t.
func (t *Tensor) WithScale(scale float32) *Tensor {
	t.scale = scale
	t.hasScale = true
	return t
}

// WithValues makes t persistable with a copy of values and returns t.
func (t *Tensor) WithValues(values []float32) *Tensor {
	t.values = append(make([]float32, 0, len(values)), values...)
	return t
}

// Name returns the tensor's unique name.
func (t *Tensor) Name() string { return t.name }

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() tensor.Shape { return t.shape.Clone() }

// DataType returns the tensor's element kind.
func (t *Tensor) DataType() tensor.DataType { return t.dtype }

// QuantScale returns the quantization scale when present.
func (t *Tensor) QuantScale() (float32, bool) { return t.scale, t.hasScale }

// Persistable reports whether the tensor carries fixed values.
func (t *Tensor) Persistable() bool { return t.values != nil }

// Values returns a copy of the persistable values.
func (t *Tensor) Values() []float32 {
	if t.values == nil {
		return nil
	}
	return append([]float32(nil), t.values...)
}

func (t *Tensor) clone() *Tensor {
	c := *t
	c.shape = t.shape.Clone()
	if t.values != nil {
		c.values = append([]float32(nil), t.values...)
	}
	return &c
}
