// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package lowering maps framework operator graphs onto accelerator primitives.
//
// # Overview
//
// A source graph holds framework operators (Relu, HardSwish, Range, ...) over
// named tensors. Lowering rewrites it into a target graph whose operators are
// the accelerator's native primitives (Add, Mul, Relu6, ClipByValue, ...):
//   - Direct mappings emit one primitive per operator
//   - Composite activations expand into primitive chains
//   - Tensors become operands exactly once, with quantization metadata
//   - Persistable tensors become constant operands
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/nnlower/lowering"
//	    "github.com/born-ml/nnlower/tensor"
//	)
//
//	func main() {
//	    g := lowering.NewGraph("act")
//	    _ = g.AddTensor(lowering.NewTensor("x", tensor.Shape{1, 3}, tensor.Float32))
//	    _ = g.AddTensor(lowering.NewTensor("y", tensor.Shape{1, 3}, tensor.Float32))
//	    g.AddNode(lowering.Node{Name: "hs", OpType: "HardSwish",
//	        Inputs: []string{"x"}, Outputs: []string{"y"}})
//	    g.Inputs, g.Outputs = []string{"x"}, []string{"y"}
//
//	    res, err := lowering.Lower(g)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(res.Target)
//	}
//
// # Target Profiles
//
// A profile fixes how composite activations decompose and whether binary
// primitives take a fuse-code operand:
//   - ProfileNNAdapter: Add, Relu6, Mul, Div chains with fuse codes (default)
//   - ProfileAscend: Scale, ClipByValue, Mul, Div chains without fuse codes
//
// # Shape Changes
//
// Lowering specializes the target graph to the source graph's shapes. A
// Program remembers the last lowering and relowers only when input shapes
// change and the lowering depended on runtime inputs:
//
//	p := lowering.NewProgram(g)
//	res, _, _ := p.Prepare(nil)                                         // lowers for [1,3]
//	res, relowered, _ := p.Prepare(map[string]tensor.Shape{"x": {1, 4}}) // relowered == true
//
// # Errors
//
// Lowering fails on the first operator that cannot be lowered. Errors carry
// the node name and unwrap to typed errors, which also match sentinels:
//
//	if errors.Is(err, lowering.ErrUnsupportedOperator) {
//	    var uerr *lowering.UnsupportedOperatorError
//	    errors.As(err, &uerr)
//	    fmt.Println("missing lowering for", uerr.Type)
//	}
package lowering
