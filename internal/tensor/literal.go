package tensor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Literal is an owned, immutable value buffer backing a constant operand.
//
// Constructors deep-copy the caller's slice, so the caller may reuse or drop
// its buffer right after the call. Accessors return copies.
type Literal struct {
	dtype DataType
	shape Shape
	f32   []float32
	i32   []int32
	i8    []int8
}

// NewFloat32Literal creates a float32 literal of the given shape.
// values must hold shape.NumElements() entries, or exactly one entry which is
// repeated across the shape.
func NewFloat32Literal(values []float32, shape Shape) (*Literal, error) {
	n, err := literalLen(len(values), shape)
	if err != nil {
		return nil, err
	}
	data := make([]float32, n)
	fill(data, values)
	return &Literal{dtype: Float32, shape: shape.Clone(), f32: data}, nil
}

// NewInt32Literal creates an int32 literal of the given shape.
func NewInt32Literal(values []int32, shape Shape) (*Literal, error) {
	n, err := literalLen(len(values), shape)
	if err != nil {
		return nil, err
	}
	data := make([]int32, n)
	fill(data, values)
	return &Literal{dtype: Int32, shape: shape.Clone(), i32: data}, nil
}

// NewQInt8Literal quantizes real values with q into a QInt8 literal.
func NewQInt8Literal(values []float32, shape Shape, q QuantParams) (*Literal, error) {
	if q.Scale <= 0 {
		return nil, fmt.Errorf("invalid quantization scale %v", q.Scale)
	}
	n, err := literalLen(len(values), shape)
	if err != nil {
		return nil, err
	}
	vals := make([]float32, n)
	fill(vals, values)
	data := make([]int8, n)
	for i, v := range vals {
		data[i] = q.Quantize(v)
	}
	return &Literal{dtype: QInt8, shape: shape.Clone(), i8: data}, nil
}

func literalLen(got int, shape Shape) (int, error) {
	if err := shape.Validate(); err != nil {
		return 0, fmt.Errorf("invalid literal shape: %w", err)
	}
	n := shape.NumElements()
	if got != n && got != 1 {
		return 0, fmt.Errorf("literal has %d values, shape %v needs %d", got, shape, n)
	}
	return n, nil
}

func fill[T any](dst, src []T) {
	if len(src) == 1 {
		for i := range dst {
			dst[i] = src[0]
		}
		return
	}
	copy(dst, src)
}

// DataType returns the element kind of the literal.
func (l *Literal) DataType() DataType { return l.dtype }

// Shape returns a copy of the literal's shape.
func (l *Literal) Shape() Shape { return l.shape.Clone() }

// Len returns the number of elements.
func (l *Literal) Len() int { return l.shape.NumElements() }

// Float32s returns a copy of the float32 values, or nil for other kinds.
func (l *Literal) Float32s() []float32 {
	if l.f32 == nil {
		return nil
	}
	return append([]float32(nil), l.f32...)
}

// Int32s returns a copy of the int32 values, or nil for other kinds.
func (l *Literal) Int32s() []int32 {
	if l.i32 == nil {
		return nil
	}
	return append([]int32(nil), l.i32...)
}

// Int8s returns a copy of the quantized values, or nil for other kinds.
func (l *Literal) Int8s() []int8 {
	if l.i8 == nil {
		return nil
	}
	return append([]int8(nil), l.i8...)
}

// Reals returns the literal as real float32 values, dequantizing QInt8 with q.
func (l *Literal) Reals(q QuantParams) []float32 {
	out := make([]float32, l.Len())
	switch l.dtype {
	case Float32:
		copy(out, l.f32)
	case Int32:
		for i, v := range l.i32 {
			out[i] = float32(v)
		}
	case QInt8:
		for i, v := range l.i8 {
			out[i] = q.Dequantize(v)
		}
	}
	return out
}

// Bytes returns the little-endian encoding of the values.
func (l *Literal) Bytes() []byte {
	buf := make([]byte, 0, l.Len()*l.dtype.Size())
	switch l.dtype {
	case Float32:
		for _, v := range l.f32 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	case Int32:
		for _, v := range l.i32 {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	case QInt8:
		for _, v := range l.i8 {
			buf = append(buf, byte(v))
		}
	}
	return buf
}
