// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public shape and element-kind types of nnlower.
//
// The package defines the types shared by source graphs and target graphs:
//   - Shape: tensor dimensions
//   - DataType: element kinds, including the quantized QInt8
//   - QuantParams: per-tensor quantization metadata
//   - Literal: owned constant buffers
//
// Example:
//
//	lit, err := tensor.NewFloat32Literal([]float32{3}, tensor.Shape{1, 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(lit.Shape()) // [1,1]
package tensor

import (
	"github.com/born-ml/nnlower/internal/tensor"
)

// Type aliases for public API

// DataType represents the element kind of a tensor or operand.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Int8    DataType = tensor.Int8
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
	QInt8   DataType = tensor.QInt8
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// QuantParams carries per-tensor quantization metadata.
// Real values are recovered as (q - ZeroPoint) * Scale.
type QuantParams = tensor.QuantParams

// Literal is an owned, immutable value buffer backing a constant operand.
type Literal = tensor.Literal

// ParseDataType maps a type name such as "float32" or "qint8" to a DataType.
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}

// NewFloat32Literal creates a float32 literal, copying values.
// A single value is repeated across the shape.
func NewFloat32Literal(values []float32, shape Shape) (*Literal, error) {
	return tensor.NewFloat32Literal(values, shape)
}

// NewInt32Literal creates an int32 literal, copying values.
func NewInt32Literal(values []int32, shape Shape) (*Literal, error) {
	return tensor.NewInt32Literal(values, shape)
}

// NewQInt8Literal quantizes real values with q into a QInt8 literal.
//
// Example:
//
//	lit, _ := tensor.NewQInt8Literal([]float32{1, -2}, tensor.Shape{2}, tensor.QuantParams{Scale: 0.5})
//	fmt.Println(lit.Int8s()) // [2 -4]
func NewQInt8Literal(values []float32, shape Shape, q QuantParams) (*Literal, error) {
	return tensor.NewQInt8Literal(values, shape, q)
}

// Utility functions

// BroadcastShapes computes the broadcast shape for two shapes following NumPy broadcasting rules.
//
// Example:
//
//	resultShape, err := tensor.BroadcastShapes(
//	    tensor.Shape{3, 1},
//	    tensor.Shape{3, 4},
//	)
//	// resultShape = [3, 4]
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
