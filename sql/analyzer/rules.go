package analyzer

import (
	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/plan"
)

// DefaultRules to apply when analyzing nodes.
var DefaultRules = []Rule{
	{"resolve_join_row_types", resolveJoinRowTypes},
	{"seal_scope", sealScope},
}

func resolveJoinRowTypes(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("resolve_join_row_types")
	defer span.Finish()

	a.Log("resolving join row types")

	var joins []*plan.Join
	plan.Inspect(n, func(node sql.Node) bool {
		if j, ok := node.(*plan.Join); ok {
			joins = append(joins, j)
		}
		return true
	})

	// Inner joins are found after the joins containing them.
	for i := len(joins) - 1; i >= 0; i-- {
		if _, err := a.DeriveJoinRowType(ctx, joins[i]); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func sealScope(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	a.Log("sealing scope with %d operands", a.Scope.Len())
	a.Scope.Seal()
	return n, nil
}

// ResolveRowType returns the row type of the given node, resolving the
// row types of every join under it first.
func (a *Analyzer) ResolveRowType(ctx *sql.Context, n sql.Node) (*sql.Type, error) {
	if _, err := resolveJoinRowTypes(ctx, a, n); err != nil {
		return nil, err
	}

	if row, ok := a.Scope.RowType(plan.Unwrap(n)); ok {
		return row, nil
	}
	return nil, ErrUnresolvedOperand.New(n)
}
