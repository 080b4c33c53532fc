package analyzer

import (
	"reflect"

	"github.com/linkedin/linkedin-calcite/sql"
)

// RuleFunc is the function to be applied in a rule. Rules may return a
// rewritten node, register row types in the analyzer scope, or both.
type RuleFunc func(*sql.Context, *Analyzer, sql.Node) (sql.Node, error)

// Rule to transform nodes.
type Rule struct {
	// Name of the rule.
	Name string
	// Apply transforms a node.
	Apply RuleFunc
}

// Batch executes a set of rules until they reach a fixed point, at most
// Iterations times. A pass over the rules reaches the fixed point when it
// neither rewrites the node nor registers new row types in the scope.
type Batch struct {
	Desc       string
	Iterations int
	Rules      []Rule
}

// equaler is implemented by nodes that know how to compare themselves
// with the result of a rewrite.
type equaler interface {
	Equal(sql.Node) bool
}

// Eval executes the rules of the batch. If the fixed point is not reached
// after the maximum number of iterations, the last processed node is
// returned along with ErrMaxAnalysisIters. A batch of one iteration runs
// its rules once and never reports that error.
func (b *Batch) Eval(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	cur := n
	for i := 0; i < b.Iterations; i++ {
		registered := scopeLen(a)

		next, err := b.evalOnce(ctx, a, i, cur)
		if err != nil {
			return nil, err
		}

		if b.Iterations == 1 || (nodesEqual(cur, next) && scopeLen(a) == registered) {
			return next, nil
		}
		cur = next
	}

	if b.Iterations == 0 {
		return n, nil
	}
	return cur, ErrMaxAnalysisIters.New(b.Iterations)
}

func (b *Batch) evalOnce(ctx *sql.Context, a *Analyzer, iteration int, n sql.Node) (sql.Node, error) {
	result := n
	for _, rule := range b.Rules {
		a.Log("%s: iteration %d, rule %s", b.Desc, iteration, rule.Name)
		var err error
		result, err = rule.Apply(ctx, a, result)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func scopeLen(a *Analyzer) int {
	if a == nil || a.Scope == nil {
		return 0
	}
	return a.Scope.Len()
}

func nodesEqual(a, b sql.Node) bool {
	if e, ok := a.(equaler); ok {
		return e.Equal(b)
	}

	if e, ok := b.(equaler); ok {
		return e.Equal(a)
	}

	return reflect.DeepEqual(a, b)
}
