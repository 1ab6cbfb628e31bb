// Package tensor provides the shape, element-kind and literal-buffer types shared
// by the source and target graph models.
package tensor

// DataType represents the runtime element kind of a tensor or operand.
type DataType int

// Supported element kinds.
//
// QInt8 is the symmetric per-tensor quantized int8 representation used by
// target operands; it always travels together with QuantParams.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Int8
	Uint8
	Bool
	QInt8
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Int8, Uint8, Bool, QInt8:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	case QInt8:
		return "qint8"
	default:
		return "unknown"
	}
}

// ParseDataType maps a type name (as produced by String) back to a DataType.
func ParseDataType(name string) (DataType, bool) {
	for dt := Float32; dt <= QInt8; dt++ {
		if dt.String() == name {
			return dt, true
		}
	}
	return 0, false
}

// IsQuantized reports whether values of this kind need QuantParams to be read.
func (dt DataType) IsQuantized() bool {
	return dt == QInt8
}

// QuantParams carries per-tensor quantization metadata.
// Real values are recovered as (q - ZeroPoint) * Scale.
type QuantParams struct {
	Scale     float32
	ZeroPoint int32
}

// Dequantize maps a quantized value back to its real value.
func (q QuantParams) Dequantize(v int8) float32 {
	return float32(int32(v)-q.ZeroPoint) * q.Scale
}

// Quantize maps a real value to the nearest representable int8, saturating.
func (q QuantParams) Quantize(v float32) int8 {
	r := v/q.Scale + float32(q.ZeroPoint)
	if r >= 0 {
		r += 0.5
	} else {
		r -= 0.5
	}
	switch {
	case r > 127:
		return 127
	case r < -128:
		return -128
	default:
		return int8(r)
	}
}
