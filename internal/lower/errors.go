package lower

import (
	"fmt"

	"github.com/born-ml/nnlower/internal/graph"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrArityMismatch          = errors.New("arity mismatch")
	ErrUnsupportedOperator    = errors.New("unsupported operator")
	ErrUnsupportedElementKind = errors.New("unsupported element kind")
	ErrDuplicateOperand       = errors.New("duplicate operand")
	ErrInvalidAttribute       = errors.New("invalid attribute")
)

// ArityMismatchError reports an operator with the wrong number of inputs or
// outputs for its kind.
type ArityMismatchError struct {
	Op      string
	Kind    graph.Kind
	Inputs  int
	Outputs int
	Want    string // e.g. "1 input and 1 output"
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s %q: got %d inputs and %d outputs, want %s",
		e.Kind, e.Op, e.Inputs, e.Outputs, e.Want)
}

// Is matches ErrArityMismatch.
func (e *ArityMismatchError) Is(target error) bool { return target == ErrArityMismatch }

// UnsupportedOperatorError reports an operator type with no lowering.
type UnsupportedOperatorError struct {
	Op   string
	Type string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator type %q (%s)", e.Type, e.Op)
}

// Is matches ErrUnsupportedOperator.
func (e *UnsupportedOperatorError) Is(target error) bool { return target == ErrUnsupportedOperator }

// UnsupportedElementKindError reports a tensor whose element kind has no
// target operand representation.
type UnsupportedElementKindError struct {
	Tensor   string
	DataType tensor.DataType
	Reason   string
}

func (e *UnsupportedElementKindError) Error() string {
	msg := fmt.Sprintf("tensor %q: unsupported element kind %s", e.Tensor, e.DataType)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is matches ErrUnsupportedElementKind.
func (e *UnsupportedElementKindError) Is(target error) bool {
	return target == ErrUnsupportedElementKind
}

// DuplicateOperandError reports a second, different operand for a tensor
// name that is already cached. It always indicates an orchestration defect.
type DuplicateOperandError struct {
	Name string
}

func (e *DuplicateOperandError) Error() string {
	return fmt.Sprintf("tensor %q already maps to a different operand", e.Name)
}

// Is matches ErrDuplicateOperand.
func (e *DuplicateOperandError) Is(target error) bool { return target == ErrDuplicateOperand }

// InvalidAttributeError reports an attribute value the selected lowering
// strategy cannot express.
type InvalidAttributeError struct {
	Op        string
	Attribute string
	Reason    string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("operator %q attribute %s: %s", e.Op, e.Attribute, e.Reason)
}

// Is matches ErrInvalidAttribute.
func (e *InvalidAttributeError) Is(target error) bool { return target == ErrInvalidAttribute }
