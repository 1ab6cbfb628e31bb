package tensor_test

import (
	"testing"

	"github.com/born-ml/nnlower/tensor"
)

// TestDataTypeConstants verifies data type constants are exported correctly.
func TestDataTypeConstants(t *testing.T) {
	tests := []struct {
		name  string
		dtype tensor.DataType
		size  int
	}{
		{"Float32", tensor.Float32, 4},
		{"Float64", tensor.Float64, 8},
		{"Int32", tensor.Int32, 4},
		{"Int64", tensor.Int64, 8},
		{"Int8", tensor.Int8, 1},
		{"Uint8", tensor.Uint8, 1},
		{"Bool", tensor.Bool, 1},
		{"QInt8", tensor.QInt8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.dtype.Size(); size != tt.size {
				t.Errorf("%s.Size() = %d, want %d", tt.name, size, tt.size)
			}
			got, ok := tensor.ParseDataType(tt.dtype.String())
			if !ok || got != tt.dtype {
				t.Errorf("ParseDataType(%q) = %v, %v", tt.dtype.String(), got, ok)
			}
		})
	}
}

// TestShapeAPI verifies Shape type alias exposes expected API.
func TestShapeAPI(t *testing.T) {
	shape := tensor.Shape{2, 3, 4}

	// Test NumElements.
	if n := shape.NumElements(); n != 24 {
		t.Errorf("NumElements() = %d, want 24", n)
	}

	// Test Equal.
	if !shape.Equal(tensor.Shape{2, 3, 4}) {
		t.Error("Equal() = false, want true for identical shapes")
	}

	// Test Clone.
	clone := shape.Clone()
	if !clone.Equal(shape) {
		t.Error("Clone() created non-equal shape")
	}

	// Verify modifying clone doesn't affect original.
	clone[0] = 999
	if shape[0] == 999 {
		t.Error("Clone() didn't create independent copy")
	}
}

// TestLiterals verifies literal constructors copy and quantize.
func TestLiterals(t *testing.T) {
	values := []float32{1, -2}
	lit, err := tensor.NewFloat32Literal(values, tensor.Shape{2})
	if err != nil {
		t.Fatalf("NewFloat32Literal() error = %v", err)
	}
	values[0] = 99
	if got := lit.Float32s(); got[0] != 1 {
		t.Errorf("literal aliases caller buffer: %v", got)
	}

	q, err := tensor.NewQInt8Literal([]float32{1, -2}, tensor.Shape{2}, tensor.QuantParams{Scale: 0.5})
	if err != nil {
		t.Fatalf("NewQInt8Literal() error = %v", err)
	}
	if got := q.Int8s(); got[0] != 2 || got[1] != -4 {
		t.Errorf("Int8s() = %v, want [2 -4]", got)
	}

	if _, err := tensor.NewInt32Literal([]int32{1, 2, 3}, tensor.Shape{2}); err == nil {
		t.Error("NewInt32Literal() accepted a length mismatch")
	}
}

// TestBroadcastShapes verifies BroadcastShapes utility function.
func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		shapeA    tensor.Shape
		shapeB    tensor.Shape
		wantShape tensor.Shape
		wantErr   bool
	}{
		{
			name:      "same shape",
			shapeA:    tensor.Shape{2, 3},
			shapeB:    tensor.Shape{2, 3},
			wantShape: tensor.Shape{2, 3},
		},
		{
			name:      "broadcast scalar",
			shapeA:    tensor.Shape{2, 3},
			shapeB:    tensor.Shape{1},
			wantShape: tensor.Shape{2, 3},
		},
		{
			name:      "broadcast dimension",
			shapeA:    tensor.Shape{3, 1},
			shapeB:    tensor.Shape{3, 4},
			wantShape: tensor.Shape{3, 4},
		},
		{
			name:    "incompatible",
			shapeA:  tensor.Shape{3, 4},
			shapeB:  tensor.Shape{3, 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotShape, err := tensor.BroadcastShapes(tt.shapeA, tt.shapeB)

			if (err != nil) != tt.wantErr {
				t.Errorf("BroadcastShapes() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err == nil && !gotShape.Equal(tt.wantShape) {
				t.Errorf("BroadcastShapes() shape = %v, want %v", gotShape, tt.wantShape)
			}
		})
	}
}
