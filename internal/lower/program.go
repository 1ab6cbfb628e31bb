package lower

import (
	"encoding/binary"
	"sort"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/cespare/xxhash/v2"
)

// Program keeps the lowering of one source graph and relowers it when input
// shapes change.
//
// Each relowering starts from an empty cache, so operands of an earlier
// lowering are never reused for new shapes. A Program is not safe for
// concurrent use.
type Program struct {
	source *graph.Graph
	opts   []Option

	last *Result
	sig  uint64
}

// NewProgram creates a program for g. Nothing is lowered until Prepare.
func NewProgram(g *graph.Graph, opts ...Option) *Program {
	return &Program{source: g, opts: opts}
}

// Prepare returns the lowering for the given input shapes, which override the
// declared shapes of the named tensors. The second result reports whether a
// new lowering was produced.
//
// The previous result is reused when the shapes are unchanged, or when it did
// not depend on runtime shapes.
func (p *Program) Prepare(shapes map[string]tensor.Shape) (*Result, bool, error) {
	sig := p.signature(shapes)
	if p.last != nil && (sig == p.sig || !p.last.Rebuild) {
		return p.last, false, nil
	}

	g := p.source
	if len(shapes) > 0 {
		var err error
		if g, err = p.source.WithShapes(shapes); err != nil {
			return nil, false, err
		}
	}
	res, err := Lower(g, p.opts...)
	if err != nil {
		return nil, false, err
	}

	p.last, p.sig = res, sig
	return res, true, nil
}

// Last returns the most recent lowering, or nil before the first Prepare.
func (p *Program) Last() *Result { return p.last }

// signature hashes the effective shape of every graph input and overridden
// tensor.
func (p *Program) signature(shapes map[string]tensor.Shape) uint64 {
	seen := make(map[string]bool, len(p.source.Inputs)+len(shapes))
	var names []string
	for _, name := range p.source.Inputs {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range shapes {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	h := xxhash.New()
	var buf [8]byte
	for _, name := range names {
		s, ok := shapes[name]
		if !ok {
			if t, found := p.source.Tensor(name); found {
				s = t.Shape()
			}
		}
		_, _ = h.WriteString(name)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = h.Write(buf[:])
		for _, d := range s {
			binary.LittleEndian.PutUint64(buf[:], uint64(d))
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}
