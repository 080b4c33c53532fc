package analyzer

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrMaxAnalysisIters is thrown when the analysis iterations are exceeded
	ErrMaxAnalysisIters = errors.NewKind("exceeded max analysis iterations (%d)")

	// ErrInvalidNodeType is thrown when the analyzer can't handle a particular kind of node type
	ErrInvalidNodeType = errors.NewKind("%s: invalid node of type: %T")

	// ErrUnresolvedOperand is returned when the row type of a join operand
	// is requested before the operand was resolved. It is a bug in the
	// caller and is never retried.
	ErrUnresolvedOperand = errors.NewKind("row type of join operand %s has not been resolved")

	// ErrUnsupportedJoinType is returned when a join kind has no row type
	// rule.
	ErrUnsupportedJoinType = errors.NewKind("unsupported join type: %s")

	// ErrEmptyArrayValue is returned when an ARRAY value constructor that
	// requires operands has none.
	ErrEmptyArrayValue = errors.NewKind("ARRAY value constructor requires at least one operand")
)
