package analyzer

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/plan"
	"github.com/linkedin/linkedin-calcite/sql/sealable"
)

func TestAnalyzeResolvesJoins(t *testing.T) {
	require := require.New(t)
	f := sql.NewTypeFactory(nil)
	integer := f.MustCreateSQLType(sql.TypeNameInteger)
	ctx := sql.NewEmptyContext()

	a := NewDefault(f)
	t1, t2, t3 := plan.NewResolvedTable("t1"), plan.NewResolvedTable("t2"), plan.NewResolvedTable("t3")
	require.NoError(a.Scope.Register(t1, rowType(t, f, []string{"a"}, integer)))
	require.NoError(a.Scope.Register(t2, rowType(t, f, []string{"b"}, integer)))
	require.NoError(a.Scope.Register(t3, rowType(t, f, []string{"c"}, integer)))

	inner := plan.NewInnerJoin(t2, t3)
	outer := plan.NewLeftOuterJoin(t1, plan.NewLateral(inner))

	analyzed, err := a.Analyze(ctx, outer)
	require.NoError(err)
	require.Same(outer, analyzed)
	require.True(a.Scope.IsSealed())

	row, ok := a.Scope.RowType(inner)
	require.True(ok)
	require.Equal(map[string]bool{"b": false, "c": false}, fieldNullability(row))

	row, err = a.ResolveRowType(ctx, outer)
	require.NoError(err)
	require.Equal([]string{"a", "b", "c"}, row.FieldNames())
	require.Equal(map[string]bool{"a": false, "b": true, "c": true}, fieldNullability(row))

	err = a.Scope.Register(plan.NewResolvedTable("t4"), rowType(t, f, []string{"d"}, integer))
	require.True(sealable.ErrSealed.Is(err))
}

func TestAnalyzeUnresolvedOperand(t *testing.T) {
	a := NewDefault(nil)
	ctx := sql.NewEmptyContext()

	_, err := a.Analyze(ctx, plan.NewCrossJoin(plan.NewResolvedTable("a"), plan.NewResolvedTable("b")))
	require.True(t, ErrUnresolvedOperand.Is(err))
	require.False(t, a.Scope.IsSealed())
}

func TestResolveRowTypeLeaf(t *testing.T) {
	require := require.New(t)
	f := sql.NewTypeFactory(nil)
	ctx := sql.NewEmptyContext()
	a := NewDefault(f)

	table := plan.NewResolvedTable("t")
	row := rowType(t, f, []string{"a"}, f.MustCreateSQLType(sql.TypeNameDate))
	require.NoError(a.Scope.Register(table, row))

	got, err := a.ResolveRowType(ctx, plan.NewLateral(table))
	require.NoError(err)
	require.Same(row, got)

	_, err = a.ResolveRowType(ctx, plan.NewResolvedTable("other"))
	require.True(ErrUnresolvedOperand.Is(err))
}

func TestBuilderRules(t *testing.T) {
	require := require.New(t)

	var calls []string
	rule := func(name string) RuleFunc {
		return func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
			calls = append(calls, name)
			return n, nil
		}
	}

	scope := NewScope()
	a := NewBuilder(nil).
		WithDebug().
		WithScope(scope).
		AddPreAnalyzeRule("pre", rule("pre")).
		AddPostAnalyzeRule("post", rule("post")).
		Build()

	require.True(a.Debug)
	require.Same(scope, a.Scope)
	require.NotNil(a.Types)
	require.Equal(sql.DefaultTypeNames, a.TypeNames)

	_, err := a.Analyze(sql.NewEmptyContext(), plan.NewResolvedTable("t"))
	require.NoError(err)
	require.Equal([]string{"pre", "post"}, calls)
	require.True(scope.IsSealed())
}

func TestDebugFromEnv(t *testing.T) {
	require := require.New(t)

	require.NoError(os.Setenv(debugAnalyzerKey, "1"))
	defer os.Unsetenv(debugAnalyzerKey)
	require.True(NewDefault(nil).Debug)

	require.NoError(os.Unsetenv(debugAnalyzerKey))
	require.False(NewDefault(nil).Debug)
}

func TestDebugContext(t *testing.T) {
	require := require.New(t)
	a := NewDefault(nil)

	a.PushDebugContext("a")
	a.PushDebugContext("b")
	require.Equal([]string{"a", "b"}, a.debugCtx)
	a.PopDebugContext()
	a.PopDebugContext()
	a.PopDebugContext()
	require.Empty(a.debugCtx)

	var nilAnalyzer *Analyzer
	nilAnalyzer.Log("nothing")
	nilAnalyzer.PushDebugContext("x")
}

func TestBatchMaxIterations(t *testing.T) {
	require := require.New(t)
	a := NewDefault(nil)

	n := 0
	batch := &Batch{
		Desc:       "growing",
		Iterations: 3,
		Rules: []Rule{{"grow", func(ctx *sql.Context, a *Analyzer, node sql.Node) (sql.Node, error) {
			n++
			return plan.NewLateral(node), nil
		}}},
	}

	_, err := batch.Eval(sql.NewEmptyContext(), a, plan.NewResolvedTable("t"))
	require.True(ErrMaxAnalysisIters.Is(err))
	require.Equal(3, n)
}

func TestBatchRunsUntilScopeIsStable(t *testing.T) {
	require := require.New(t)
	f := sql.NewTypeFactory(nil)
	a := NewDefault(f)
	row := rowType(t, f, []string{"a"}, f.MustCreateSQLType(sql.TypeNameInteger))

	passes := 0
	batch := &Batch{
		Desc:       "registering",
		Iterations: 10,
		Rules: []Rule{{"register", func(ctx *sql.Context, a *Analyzer, node sql.Node) (sql.Node, error) {
			passes++
			if passes <= 2 {
				return node, a.Scope.Register(plan.NewResolvedTable(fmt.Sprint(passes)), row)
			}
			return node, nil
		}}},
	}

	node := plan.NewResolvedTable("t")
	result, err := batch.Eval(sql.NewEmptyContext(), a, node)
	require.NoError(err)
	require.Same(node, result)
	require.Equal(3, passes)
	require.Equal(2, a.Scope.Len())
}

type revisionNode struct{ revision int }

func (n *revisionNode) String() string       { return fmt.Sprintf("Revision(%d)", n.revision) }
func (n *revisionNode) Children() []sql.Node { return nil }

// Equal treats revisions of the same major version as equal.
func (n *revisionNode) Equal(other sql.Node) bool {
	o, ok := other.(*revisionNode)
	return ok && o.revision/10 == n.revision/10
}

func TestBatchUsesNodeEquality(t *testing.T) {
	require := require.New(t)

	passes := 0
	batch := &Batch{
		Desc:       "revising",
		Iterations: 5,
		Rules: []Rule{{"revise", func(ctx *sql.Context, a *Analyzer, node sql.Node) (sql.Node, error) {
			passes++
			return &revisionNode{node.(*revisionNode).revision + 1}, nil
		}}},
	}

	result, err := batch.Eval(sql.NewEmptyContext(), NewDefault(nil), &revisionNode{})
	require.NoError(err)
	require.Equal(&revisionNode{1}, result)
	require.Equal(1, passes)

	passes = 0
	_, err = batch.Eval(sql.NewEmptyContext(), NewDefault(nil), &revisionNode{9})
	require.NoError(err)
	require.Equal(2, passes)

	batch.Iterations = 0
	result, err = batch.Eval(sql.NewEmptyContext(), NewDefault(nil), &revisionNode{3})
	require.NoError(err)
	require.Equal(&revisionNode{3}, result)
}
