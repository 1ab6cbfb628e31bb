package lower

import (
	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/target"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Session lowers source operators one at a time into a target builder.
//
// A session owns its operand cache: operators lowered later reuse the operands
// registered by earlier ones. Sessions are not safe for concurrent use; lower
// independent graphs with independent sessions.
type Session struct {
	b     target.Builder
	cache *Cache
	synth *Synthesizer
	table *Table
	opts  options

	// lowered records the rebuild flag of each operator already converted.
	lowered map[string]bool
}

// NewSession creates a session emitting into b.
func NewSession(b target.Builder, opts ...Option) *Session {
	return &Session{
		b:       b,
		cache:   NewCache(),
		synth:   NewSynthesizer(b),
		table:   NewTable(),
		opts:    buildOptions(opts),
		lowered: make(map[string]bool),
	}
}

// Cache returns the session's operand cache.
func (s *Session) Cache() *Cache { return s.cache }

// Profile returns the target profile the session lowers for.
func (s *Session) Profile() Profile { return s.opts.profile }

// Lower converts op and registers its outputs in the cache.
//
// The returned flag is true when any input is a runtime value whose shape may
// change between executions, in which case the lowered subgraph must be
// rebuilt rather than re-executed when shapes change. Lowering an operator
// name that was already converted emits nothing and returns the first flag.
//
// On error no output of op is registered.
func (s *Session) Lower(op graph.OperatorRef) (bool, error) {
	if rebuild, done := s.lowered[op.Name()]; done {
		return rebuild, nil
	}

	kind := graph.ParseKind(op.Type())
	e, ok := s.table.lookup(kind)
	if !ok {
		return false, &UnsupportedOperatorError{Op: op.Name(), Type: op.Type()}
	}

	inputs, outputs := op.Inputs(), op.Outputs()
	if !e.accepts(len(inputs), len(outputs)) {
		return false, &ArityMismatchError{
			Op:      op.Name(),
			Kind:    kind,
			Inputs:  len(inputs),
			Outputs: len(outputs),
			Want:    e.want(),
		}
	}

	log := s.opts.log.WithValues("op", op.Name(), "type", op.Type())
	log.V(3).Info("converting", "profile", s.opts.profile.Name)

	c := &lowering{
		op:      op,
		b:       s.b,
		synth:   s.synth,
		profile: s.opts.profile,
		inputs:  make([]*target.Operand, len(inputs)),
		sources: inputs,
		outputs: outputs,
	}

	rebuild := false
	for i, t := range inputs {
		if !t.Persistable() {
			rebuild = true
		}
		operand, err := s.resolve(log, t)
		if err != nil {
			return false, err
		}
		c.inputs[i] = operand
	}

	produced, err := e.lower(c)
	if err != nil {
		return false, err
	}
	if err := s.register(outputs, produced); err != nil {
		return false, err
	}

	s.lowered[op.Name()] = rebuild
	return rebuild, nil
}

// resolve returns the cached operand for t, materializing and caching it on
// a miss.
func (s *Session) resolve(log logr.Logger, t graph.TensorRef) (*target.Operand, error) {
	if operand, ok := s.cache.Lookup(t.Name()); ok {
		return operand, nil
	}
	operand, err := s.synth.Materialize(t)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Insert(t.Name(), operand); err != nil {
		return nil, err
	}
	log.V(5).Info("materialized operand", "tensor", t.Name(), "spec", operand.Spec.String(),
		"constant", operand.IsConstant())
	return operand, nil
}

// register caches produced under the output tensor names. Every name is
// checked before anything is inserted so a conflict leaves the cache
// untouched.
func (s *Session) register(outputs []graph.TensorRef, produced []*target.Operand) error {
	if len(produced) != len(outputs) {
		return errors.Errorf("lowering produced %d operands for %d outputs", len(produced), len(outputs))
	}
	for i, t := range outputs {
		if prev, ok := s.cache.Lookup(t.Name()); ok && prev != produced[i] {
			return &DuplicateOperandError{Name: t.Name()}
		}
	}
	for i, t := range outputs {
		if err := s.cache.Insert(t.Name(), produced[i]); err != nil {
			return err
		}
	}
	return nil
}
