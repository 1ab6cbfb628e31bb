package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32LiteralDeepCopies(t *testing.T) {
	src := []float32{1, 2, 3}
	lit, err := NewFloat32Literal(src, Shape{3})
	require.NoError(t, err)

	src[0] = 42
	assert.Equal(t, []float32{1, 2, 3}, lit.Float32s())

	out := lit.Float32s()
	out[1] = 42
	assert.Equal(t, []float32{1, 2, 3}, lit.Float32s())
}

func TestLiteralScalarFill(t *testing.T) {
	lit, err := NewFloat32Literal([]float32{3}, Shape{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 3, 3, 3}, lit.Float32s())
	assert.Equal(t, Float32, lit.DataType())
	assert.Equal(t, 16, len(lit.Bytes()))
}

func TestLiteralLengthMismatch(t *testing.T) {
	_, err := NewFloat32Literal([]float32{1, 2}, Shape{3})
	require.Error(t, err)

	_, err = NewInt32Literal([]int32{1}, Shape{0})
	require.Error(t, err)
}

func TestInt32Literal(t *testing.T) {
	lit, err := NewInt32Literal([]int32{0}, Shape{})
	require.NoError(t, err)
	assert.Equal(t, []int32{0}, lit.Int32s())
	assert.Nil(t, lit.Float32s())
	assert.Equal(t, []float32{0}, lit.Reals(QuantParams{}))
}

func TestQInt8LiteralRoundTrip(t *testing.T) {
	q := QuantParams{Scale: 0.5}
	lit, err := NewQInt8Literal([]float32{1, -1.5, 100}, Shape{3}, q)
	require.NoError(t, err)
	assert.Equal(t, []int8{2, -3, 127}, lit.Int8s())
	assert.Equal(t, []float32{1, -1.5, 63.5}, lit.Reals(q))

	_, err = NewQInt8Literal([]float32{1}, Shape{1}, QuantParams{})
	require.Error(t, err)
}

func TestParseDataType(t *testing.T) {
	dt, ok := ParseDataType("qint8")
	require.True(t, ok)
	assert.Equal(t, QInt8, dt)
	assert.True(t, dt.IsQuantized())

	_, ok = ParseDataType("complex64")
	assert.False(t, ok)
}
