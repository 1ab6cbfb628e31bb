package target

import "github.com/born-ml/nnlower/internal/tensor"

// Builder is the construction API of a target graph.
//
// Callers create operands and operators in dependency order: an operand is
// created (or produced by BindOutput) before any operator consumes it, and a
// slot is bound at most once.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// CreateOperand creates a variable operand.
	CreateOperand(spec OperandSpec) (*Operand, error)
	// CreateConstantOperand creates a constant operand backed by literal.
	CreateConstantOperand(spec OperandSpec, literal *tensor.Literal) (*Operand, error)
	// CreateOperator creates an unwired operator.
	CreateOperator(kind Kind, name string) (*Operator, error)
	// BindInput wires operand into the operator's input slot.
	BindInput(op *Operator, slot int, operand *Operand) error
	// BindOutput creates the operand produced at the operator's output slot.
	BindOutput(op *Operator, slot int, spec OperandSpec) (*Operand, error)
}
