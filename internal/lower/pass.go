package lower

import (
	"context"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/target"
	"github.com/pkg/errors"
)

// Result is a lowered graph.
type Result struct {
	Target *target.Graph
	// Rebuild reports whether any operator depends on runtime-shaped inputs.
	Rebuild bool
	// Inputs holds the operands of the source graph inputs that some
	// operator consumes, in graph input order.
	Inputs []*target.Operand
	// Outputs holds the operands of the source graph outputs, in order.
	Outputs []*target.Operand
}

// Lower lowers every node of g into a fresh target graph.
func Lower(g *graph.Graph, opts ...Option) (*Result, error) {
	return LowerContext(context.Background(), g, opts...)
}

// LowerContext is like Lower but stops between operators once ctx is done.
//
// Nodes are lowered in topological order with one session, so every tensor
// maps to exactly one operand. Any failure aborts the pass; no partial result
// is returned.
func LowerContext(ctx context.Context, g *graph.Graph, opts ...Option) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid source graph")
	}
	order, err := g.Sort()
	if err != nil {
		return nil, errors.Wrap(err, "sort source graph")
	}

	tg := target.NewGraph()
	s := NewSession(tg, opts...)
	res := &Result{Target: tg}

	for _, op := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rebuild, err := s.Lower(op)
		if err != nil {
			return nil, errors.WithMessagef(err, "lower node %s (%s)", op.Name(), op.Type())
		}
		res.Rebuild = res.Rebuild || rebuild
	}

	for _, name := range g.Inputs {
		if operand, ok := s.cache.Lookup(name); ok {
			res.Inputs = append(res.Inputs, operand)
		}
	}
	for _, name := range g.Outputs {
		operand, ok := s.cache.Lookup(name)
		if !ok {
			return nil, errors.Errorf("graph output %q is not produced by any node", name)
		}
		res.Outputs = append(res.Outputs, operand)
	}

	if err := tg.Validate(); err != nil {
		return nil, errors.Wrap(err, "lowered graph")
	}

	s.opts.log.V(1).Info("lowered graph", "graph", g.Name, "nodes", len(order),
		"operators", len(tg.Operators()), "operands", len(tg.Operands()), "rebuild", res.Rebuild)
	return res, nil
}
