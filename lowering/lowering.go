// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package lowering

import (
	"context"
	"io"

	"github.com/born-ml/nnlower/internal/eval"
	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/lower"
	"github.com/born-ml/nnlower/internal/target"
	"github.com/born-ml/nnlower/tensor"
)

// Source graph types.

// Graph is a source graph of framework operators.
type Graph = graph.Graph

// Tensor is a named tensor of a source graph.
type Tensor = graph.Tensor

// Node is one framework operator of a source graph.
type Node = graph.Node

// Kind is a source operator kind.
type Kind = graph.Kind

// OperatorRef and TensorRef are the read-only views a Session consumes.
type (
	OperatorRef = graph.OperatorRef
	TensorRef   = graph.TensorRef
)

// Target graph types.

// TargetGraph is a lowered graph of accelerator primitives.
type TargetGraph = target.Graph

// Operand is a value of a target graph.
type Operand = target.Operand

// Builder is the target-graph construction interface a Session emits into.
type Builder = target.Builder

// Engine types.

// Result is the outcome of lowering a whole graph.
type Result = lower.Result

// Program lowers a graph and relowers it when its input shapes change.
type Program = lower.Program

// Session lowers operators one at a time into a Builder.
type Session = lower.Session

// Option configures Lower, NewSession and NewProgram.
type Option = lower.Option

// Profile describes one deployment target.
type Profile = lower.Profile

// Strategy selects the primitive chain used for composite activations.
type Strategy = lower.Strategy

// Decomposition strategies.
const (
	StrategyRelu6 Strategy = lower.StrategyRelu6
	StrategyClip  Strategy = lower.StrategyClip
)

// Built-in profiles.
var (
	ProfileNNAdapter = lower.ProfileNNAdapter
	ProfileAscend    = lower.ProfileAscend
)

// Error types. Each also matches its sentinel with errors.Is.
type (
	ArityMismatchError          = lower.ArityMismatchError
	UnsupportedOperatorError    = lower.UnsupportedOperatorError
	UnsupportedElementKindError = lower.UnsupportedElementKindError
	DuplicateOperandError       = lower.DuplicateOperandError
	InvalidAttributeError       = lower.InvalidAttributeError
)

// Error sentinels.
var (
	ErrArityMismatch          = lower.ErrArityMismatch
	ErrUnsupportedOperator    = lower.ErrUnsupportedOperator
	ErrUnsupportedElementKind = lower.ErrUnsupportedElementKind
	ErrDuplicateOperand       = lower.ErrDuplicateOperand
	ErrInvalidAttribute       = lower.ErrInvalidAttribute
)

// WithProfile selects the deployment target profile.
// The default is ProfileNNAdapter.
func WithProfile(p Profile) Option {
	return lower.WithProfile(p)
}

// LookupProfile returns a built-in profile by name ("nnadapter", "ascend").
func LookupProfile(name string) (Profile, error) {
	return lower.LookupProfile(name)
}

// Lower lowers every operator of g into a new target graph.
//
// Example:
//
//	res, err := lowering.Lower(g, lowering.WithProfile(lowering.ProfileAscend))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%016x\n", res.Target.Fingerprint())
func Lower(g *Graph, opts ...Option) (*Result, error) {
	return lower.Lower(g, opts...)
}

// LowerContext is Lower with cancellation between operators.
func LowerContext(ctx context.Context, g *Graph, opts ...Option) (*Result, error) {
	return lower.LowerContext(ctx, g, opts...)
}

// NewSession creates a Session emitting into b.
//
// Use a Session to lower operators incrementally into a Builder of your own,
// for example a driver for a real accelerator runtime.
func NewSession(b Builder, opts ...Option) *Session {
	return lower.NewSession(b, opts...)
}

// NewProgram creates a Program over g.
//
// Example:
//
//	p := lowering.NewProgram(g)
//	res, relowered, err := p.Prepare(map[string]tensor.Shape{"x": {1, 4}})
func NewProgram(g *Graph, opts ...Option) *Program {
	return lower.NewProgram(g, opts...)
}

// NewGraph creates an empty source graph.
func NewGraph(name string) *Graph {
	return graph.New(name)
}

// NewTensor creates a source tensor. Use WithValues to make it persistable
// and WithScale to attach a quantization scale.
func NewTensor(name string, shape tensor.Shape, dtype tensor.DataType) *Tensor {
	return graph.NewTensor(name, shape, dtype)
}

// DecodeGraph reads a YAML source graph.
//
// Example document:
//
//	name: act
//	inputs: [x]
//	outputs: [y]
//	tensors:
//	  - {name: x, shape: [1, 3]}
//	  - {name: y, shape: [1, 3]}
//	nodes:
//	  - {name: hs, type: HardSwish, inputs: [x], outputs: [y]}
func DecodeGraph(r io.Reader) (*Graph, error) {
	return graph.Decode(r)
}

// EncodeGraph writes g as a YAML source graph.
func EncodeGraph(w io.Writer, g *Graph) error {
	return graph.Encode(w, g)
}

// EncodeTarget writes a lowered graph as YAML.
func EncodeTarget(w io.Writer, g *TargetGraph) error {
	return target.Encode(w, g)
}

// Evaluate runs a lowered graph on the float32 reference interpreter.
// feeds holds a value for every graph input; the result holds the value of
// every named operand.
func Evaluate(g *TargetGraph, feeds map[string][]float32) (map[string][]float32, error) {
	return eval.Run(g, feeds)
}
