package analyzer

import (
	opentracing "github.com/opentracing/opentracing-go"

	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/plan"
)

// JoinRowType returns the row type visible above a join of the given
// kind: the fields of left followed by the fields of right. Fields of the
// side that may be missing from the result become nullable: right for a
// left outer join, left for a right outer join and both for a full outer
// join. A field type becomes nullable as a whole, its components are
// untouched. Neither input is modified.
func JoinRowType(f *sql.TypeFactory, left, right *sql.Type, kind plan.JoinType) (*sql.Type, error) {
	if !left.IsStruct() {
		return nil, sql.ErrNotRowType.New(left)
	}
	if !right.IsStruct() {
		return nil, sql.ErrNotRowType.New(right)
	}

	var err error
	switch {
	case kind.IsInner():
	case kind.IsLeftOuter():
		right, err = f.CreateTypeWithFieldNullability(right, true)
	case kind.IsRightOuter():
		left, err = f.CreateTypeWithFieldNullability(left, true)
	case kind.IsFullOuter():
		left, err = f.CreateTypeWithFieldNullability(left, true)
		if err == nil {
			right, err = f.CreateTypeWithFieldNullability(right, true)
		}
	default:
		return nil, ErrUnsupportedJoinType.New(kind)
	}
	if err != nil {
		return nil, err
	}

	return f.CreateJoinType(left, right)
}

// DeriveJoinRowType returns the row type of the given join, computed
// from the row types of its operands found in the scope, and registers
// it for the join. A LATERAL right operand is looked up as the operand
// it wraps. If an operand has not been resolved ErrUnresolvedOperand is
// returned.
func (a *Analyzer) DeriveJoinRowType(ctx *sql.Context, j *plan.Join) (*sql.Type, error) {
	if row, ok := a.Scope.RowType(j); ok {
		return row, nil
	}

	span, _ := ctx.Span("analyze.join_row_type", opentracing.Tag{Key: "join", Value: j.Op.String()})
	defer span.Finish()

	left, ok := a.Scope.RowType(j.Left)
	if !ok {
		return nil, ErrUnresolvedOperand.New(j.Left)
	}

	rightOperand := plan.Unwrap(j.Right)
	right, ok := a.Scope.RowType(rightOperand)
	if !ok {
		return nil, ErrUnresolvedOperand.New(rightOperand)
	}

	row, err := JoinRowType(a.Types, left, right, j.Op)
	if err != nil {
		return nil, err
	}

	if err := a.Scope.Register(j, row); err != nil {
		return nil, err
	}

	a.Log("%s row type: %s", j.Op, row)
	return row, nil
}
