package eval

import (
	"math"

	"github.com/born-ml/nnlower/internal/parallel"
	"github.com/born-ml/nnlower/internal/tensor"
)

// loops splits elementwise kernels across CPUs for large operands.
var loops = parallel.DefaultConfig()

// value is an evaluated operand in real (dequantized) float32 values.
type value struct {
	shape tensor.Shape
	data  []float32
}

func unary(x value, f func(float32) float32) value {
	out := make([]float32, len(x.data))
	parallel.Chunks(len(out), func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = f(x.data[i])
		}
	}, loops)
	return value{shape: x.shape.Clone(), data: out}
}

// binary applies f elementwise with NumPy broadcasting.
func binary(a, b value, f func(x, y float32) float32) (value, error) {
	outShape, err := tensor.BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return value{}, err
	}
	n := outShape.NumElements()
	out := make([]float32, n)

	if a.shape.Equal(b.shape) {
		parallel.Chunks(n, func(s, e int) {
			for i := s; i < e; i++ {
				out[i] = f(a.data[i], b.data[i])
			}
		}, loops)
		return value{shape: outShape, data: out}, nil
	}

	outStrides := outShape.ComputeStrides()
	aStrides := tensor.BroadcastStrides(a.shape, outShape)
	bStrides := tensor.BroadcastStrides(b.shape, outShape)
	parallel.For(n, func(i int) {
		out[i] = f(a.data[flatIndex(i, outStrides, aStrides)], b.data[flatIndex(i, outStrides, bStrides)])
	}, loops)
	return value{shape: outShape, data: out}, nil
}

// flatIndex maps a flat output index to the flat index of a broadcast input.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * inStrides[i]
	}
	return idx
}

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func relu(x float32) float32 {
	return max(x, 0)
}

func relu1(x float32) float32 {
	return min(max(x, -1), 1)
}

func relu6(x float32) float32 {
	return min(max(x, 0), 6)
}

func tanh(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

func add(x, y float32) float32 { return x + y }
func mul(x, y float32) float32 { return x * y }
func div(x, y float32) float32 { return x / y }
