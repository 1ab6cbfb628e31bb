package onnx

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ParseFile parses an ONNX model from file.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes.
func Parse(data []byte) (*ModelProto, error) {
	m := &ModelProto{}
	if err := readModelProto(data, m); err != nil {
		return nil, errors.Wrap(err, "failed to parse model")
	}
	if m.Graph == nil {
		return nil, errors.New("model has no graph")
	}
	return m, nil
}

// field is one decoded protobuf field. Only the member matching typ is set.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	varint  uint64
	fixed32 uint32
	bytes   []byte
}

func (f field) str() string { return string(f.bytes) }

// fields calls fn for every field of the message encoded in b.
func fields(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "invalid tag")
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			f.fixed32, n = protowire.ConsumeFixed32(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "field %d", num)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return errors.WithMessagef(err, "field %d", num)
		}
	}
	return nil
}

// int64s decodes a repeated int64 field in packed or unpacked form.
func int64s(dst []int64, f field) ([]int64, error) {
	switch f.typ {
	case protowire.VarintType:
		return append(dst, int64(f.varint)), nil
	case protowire.BytesType:
		b := f.bytes
		for len(b) > 0 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			dst = append(dst, int64(v))
			b = b[n:]
		}
		return dst, nil
	default:
		return nil, errors.Errorf("unexpected wire type %d for int64 list", f.typ)
	}
}

// float32s decodes a repeated float field in packed or unpacked form.
func float32s(dst []float32, f field) ([]float32, error) {
	switch f.typ {
	case protowire.Fixed32Type:
		return append(dst, math.Float32frombits(f.fixed32)), nil
	case protowire.BytesType:
		if len(f.bytes)%4 != 0 {
			return nil, errors.Errorf("packed float list of %d bytes", len(f.bytes))
		}
		for i := 0; i < len(f.bytes); i += 4 {
			dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(f.bytes[i:])))
		}
		return dst, nil
	default:
		return nil, errors.Errorf("unexpected wire type %d for float list", f.typ)
	}
}

func readModelProto(b []byte, m *ModelProto) error {
	return fields(b, func(f field) error {
		switch f.num {
		case 1: // ir_version
			m.IRVersion = int64(f.varint)
		case 2: // producer_name
			m.ProducerName = f.str()
		case 7: // graph
			m.Graph = &GraphProto{}
			return readGraphProto(f.bytes, m.Graph)
		case 8: // opset_import
			var opset OperatorSetID
			if err := readOperatorSetID(f.bytes, &opset); err != nil {
				return err
			}
			m.OpsetImport = append(m.OpsetImport, opset)
		}
		return nil
	})
}

func readGraphProto(b []byte, m *GraphProto) error {
	return fields(b, func(f field) error {
		switch f.num {
		case 1: // node
			var node NodeProto
			if err := readNodeProto(f.bytes, &node); err != nil {
				return err
			}
			m.Nodes = append(m.Nodes, node)
		case 2: // name
			m.Name = f.str()
		case 5: // initializer
			var t TensorProto
			if err := readTensorProto(f.bytes, &t); err != nil {
				return err
			}
			m.Initializers = append(m.Initializers, t)
		case 11, 12, 13: // input, output, value_info
			var vi ValueInfoProto
			if err := readValueInfoProto(f.bytes, &vi); err != nil {
				return err
			}
			switch f.num {
			case 11:
				m.Inputs = append(m.Inputs, vi)
			case 12:
				m.Outputs = append(m.Outputs, vi)
			default:
				m.ValueInfo = append(m.ValueInfo, vi)
			}
		}
		return nil
	})
}

func readNodeProto(b []byte, m *NodeProto) error {
	return fields(b, func(f field) error {
		switch f.num {
		case 1: // input
			m.Inputs = append(m.Inputs, f.str())
		case 2: // output
			m.Outputs = append(m.Outputs, f.str())
		case 3: // name
			m.Name = f.str()
		case 4: // op_type
			m.OpType = f.str()
		case 5: // attribute
			var attr AttributeProto
			if err := readAttributeProto(f.bytes, &attr); err != nil {
				return err
			}
			m.Attributes = append(m.Attributes, attr)
		case 7: // domain
			m.Domain = f.str()
		}
		return nil
	})
}

func readTensorProto(b []byte, m *TensorProto) error {
	return fields(b, func(f field) error {
		var err error
		switch f.num {
		case 1: // dims
			m.Dims, err = int64s(m.Dims, f)
		case 2: // data_type
			m.DataType = int32(f.varint)
		case 4: // float_data
			m.FloatData, err = float32s(m.FloatData, f)
		case 5: // int32_data
			var vals []int64
			if vals, err = int64s(nil, f); err == nil {
				for _, v := range vals {
					m.Int32Data = append(m.Int32Data, int32(v))
				}
			}
		case 7: // int64_data
			m.Int64Data, err = int64s(m.Int64Data, f)
		case 8: // name
			m.Name = f.str()
		case 9: // raw_data
			m.RawData = append([]byte(nil), f.bytes...)
		}
		return err
	})
}

func readValueInfoProto(b []byte, m *ValueInfoProto) error {
	return fields(b, func(f field) error {
		switch f.num {
		case 1: // name
			m.Name = f.str()
		case 2: // type
			return readTypeProto(f.bytes, m)
		}
		return nil
	})
}

// readTypeProto reads TypeProto.tensor_type into m. Other type kinds
// (sequences, maps) are ignored.
func readTypeProto(b []byte, m *ValueInfoProto) error {
	return fields(b, func(f field) error {
		if f.num != 1 { // tensor_type
			return nil
		}
		return fields(f.bytes, func(f field) error {
			switch f.num {
			case 1: // elem_type
				m.ElemType = int32(f.varint)
			case 2: // shape
				m.HasShape = true
				return readTensorShapeProto(f.bytes, m)
			}
			return nil
		})
	})
}

func readTensorShapeProto(b []byte, m *ValueInfoProto) error {
	return fields(b, func(f field) error {
		if f.num != 1 { // dim
			return nil
		}
		var dim DimensionProto
		err := fields(f.bytes, func(f field) error {
			switch f.num {
			case 1: // dim_value
				dim.DimValue = int64(f.varint)
			case 2: // dim_param
				dim.DimParam = f.str()
			}
			return nil
		})
		if err != nil {
			return err
		}
		m.Dims = append(m.Dims, dim)
		return nil
	})
}

func readAttributeProto(b []byte, m *AttributeProto) error {
	return fields(b, func(f field) error {
		var err error
		switch f.num {
		case 1: // name
			m.Name = f.str()
		case 2: // f
			m.F = math.Float32frombits(f.fixed32)
		case 3: // i
			m.I = int64(f.varint)
		case 4: // s
			m.S = append([]byte(nil), f.bytes...)
		case 5: // t
			m.T = &TensorProto{}
			err = readTensorProto(f.bytes, m.T)
		case 7: // floats
			m.Floats, err = float32s(m.Floats, f)
		case 8: // ints
			m.Ints, err = int64s(m.Ints, f)
		case 20: // type
			m.Type = int32(f.varint)
		}
		return err
	})
}

func readOperatorSetID(b []byte, m *OperatorSetID) error {
	return fields(b, func(f field) error {
		switch f.num {
		case 1: // domain
			m.Domain = f.str()
		case 2: // version
			m.Version = int64(f.varint)
		}
		return nil
	})
}
