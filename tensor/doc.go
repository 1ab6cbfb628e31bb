// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor describes tensor metadata for the nnlower lowering engine.
//
// # Overview
//
// Graphs in nnlower carry tensor metadata, not tensor data: every source
// tensor and target operand has a Shape and a DataType, and quantized int8
// values carry QuantParams. Constant values live in Literal buffers, which
// own a private copy of the values they were built from.
//
// # Basic Usage
//
//	import "github.com/born-ml/nnlower/tensor"
//
//	func main() {
//	    s := tensor.Shape{1, 3}
//	    fmt.Println(s.NumElements()) // 3
//
//	    dt, ok := tensor.ParseDataType("qint8")
//	    fmt.Println(dt, ok)          // qint8 true
//
//	    q := tensor.QuantParams{Scale: 0.5}
//	    fmt.Println(q.Quantize(1.0)) // 2
//	}
//
// # Quantization
//
// QInt8 is symmetric per-tensor int8 quantization. A QInt8 value always
// travels with its QuantParams; Quantize rounds to nearest and saturates to
// the int8 range.
package tensor
