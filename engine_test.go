package sqle_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	sqle "github.com/linkedin/linkedin-calcite"
	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/parse"
	"github.com/linkedin/linkedin-calcite/sql/plan"
)

var derivations = []struct {
	spec      string
	signature string
}{
	{"INTEGER", "INTEGER"},
	{"int not null", "INTEGER NOT NULL"},
	{"DECIMAL(10, 2)", "DECIMAL(10, 2)"},
	{"ARRAY<INTEGER>", "INTEGER ARRAY NOT NULL"},
	{"ARRAY<INTEGER NOT NULL> NULL", "INTEGER NOT NULL ARRAY"},
	{"MAP<VARCHAR, DATE>", "(VARCHAR, DATE) MAP NOT NULL"},
	{"ROW(colA INTEGER, colB VARCHAR)", "RecordType(INTEGER colA, VARCHAR colB) NOT NULL"},
	{"ROW(\"col A\" ROW(x DATE) NULL)", "RecordType(RecordType(DATE x) \"col A\") NOT NULL"},
}

func TestDeriveType(t *testing.T) {
	e := sqle.New(sqle.DefaultConfig())
	ctx := sql.NewEmptyContext()

	for _, tt := range derivations {
		t.Run(tt.spec, func(t *testing.T) {
			typ, err := e.DeriveType(ctx, tt.spec)
			require.NoError(t, err)
			require.Equal(t, tt.signature, typ.Signature())
		})
	}
}

func TestDeriveTypeErrors(t *testing.T) {
	require := require.New(t)
	e := sqle.New(sqle.DefaultConfig())
	ctx := sql.NewEmptyContext()

	_, err := e.DeriveType(ctx, "ARRAY<BOGUS>")
	require.True(sql.ErrTypeDerivation.Is(err))
	require.Contains(err.Error(), "line 1, column 7")

	_, err = e.DeriveType(ctx, "ARRAY<")
	require.True(parse.ErrInvalidTypeSpec.Is(err))
}

func TestDeriveTypeInterning(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()

	e := sqle.New(sqle.DefaultConfig())
	a, err := e.DeriveType(ctx, "ROW(a INTEGER, b ARRAY<DATE>)")
	require.NoError(err)
	b, err := e.DeriveType(ctx, "row(a int, b array<date>)")
	require.NoError(err)
	require.Same(a, b)

	e = sqle.New(sqle.Config{TypeCacheSize: 0})
	a, err = e.DeriveType(ctx, "ROW(a INTEGER)")
	require.NoError(err)
	b, err = e.DeriveType(ctx, "ROW(a INTEGER)")
	require.NoError(err)
	require.NotSame(a, b)
	require.True(a.Equal(b))
	require.Equal(0, e.Types.Cache().Len())
}

func TestUnparse(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	e := sqle.New(sqle.DefaultConfig())

	spec, err := e.ParseTypeSpec(ctx, "ROW(colA INTEGER)")
	require.NoError(err)
	require.Equal("ROW(colA INTEGER)", e.Unparse(spec))

	e.Configure(sqle.Config{TypeCacheSize: 10, QuoteIdentifiers: true})
	require.Equal(`ROW("colA" INTEGER)`, e.Unparse(spec))
}

func TestResolveJoin(t *testing.T) {
	e := sqle.New(sqle.DefaultConfig())
	ctx := sql.NewEmptyContext()

	left, err := e.DeriveType(ctx, "ROW(a INTEGER NOT NULL)")
	require.NoError(t, err)
	right, err := e.DeriveType(ctx, "ROW(b INTEGER NOT NULL)")
	require.NoError(t, err)

	testCases := []struct {
		kind      plan.JoinType
		signature string
	}{
		{plan.JoinTypeInner, "RecordType(INTEGER NOT NULL a, INTEGER NOT NULL b) NOT NULL"},
		{plan.JoinTypeCross, "RecordType(INTEGER NOT NULL a, INTEGER NOT NULL b) NOT NULL"},
		{plan.JoinTypeLeftOuter, "RecordType(INTEGER NOT NULL a, INTEGER b) NOT NULL"},
		{plan.JoinTypeRightOuter, "RecordType(INTEGER a, INTEGER NOT NULL b) NOT NULL"},
		{plan.JoinTypeFullOuter, "RecordType(INTEGER a, INTEGER b) NOT NULL"},
	}

	for _, tt := range testCases {
		t.Run(tt.kind.String(), func(t *testing.T) {
			row, err := e.ResolveJoin(ctx, left, right, tt.kind)
			require.NoError(t, err)
			require.Equal(t, tt.signature, row.Signature())
		})
	}

	integer, err := e.DeriveType(ctx, "INTEGER")
	require.NoError(t, err)
	_, err = e.ResolveJoin(ctx, integer, right, plan.JoinTypeInner)
	require.True(t, sql.ErrNotRowType.Is(err))
}

func TestArrayValueType(t *testing.T) {
	require := require.New(t)
	e := sqle.New(sqle.DefaultConfig())
	ctx := sql.NewEmptyContext()

	typ, err := e.ArrayValueType(ctx, []string{"DECIMAL(10, 2) NOT NULL", "DECIMAL(5, 4)"}, false)
	require.NoError(err)
	require.Equal("DECIMAL(12, 4) ARRAY NOT NULL", typ.Signature())

	_, err = e.ArrayValueType(ctx, []string{"INTEGER", "DATE"}, false)
	require.True(sql.ErrIncompatibleTypes.Is(err))

	_, err = e.ArrayValueType(ctx, []string{"BOGUS"}, false)
	require.True(sql.ErrTypeDerivation.Is(err))
}

func TestConfigure(t *testing.T) {
	require := require.New(t)
	ctx := sql.NewEmptyContext()
	e := sqle.New(sqle.Config{TypeCacheSize: 100})

	for i := 0; i < 5; i++ {
		_, err := e.DeriveType(ctx, fmt.Sprintf("VARCHAR(%d)", i+1))
		require.NoError(err)
	}
	before := e.Types.Cache().Len()

	e.Configure(sqle.Config{TypeCacheSize: 2, Debug: true})
	require.Equal(2, e.Types.Cache().Capacity())
	require.Equal(before, e.Types.Cache().Len())
	require.True(e.Config().Debug)
	require.True(e.NewAnalyzer().Debug)

	_, err := e.DeriveType(ctx, "DATE")
	require.NoError(err)
	require.Equal(2, e.Types.Cache().Len())
}

func TestConcurrentDerivation(t *testing.T) {
	e := sqle.New(sqle.DefaultConfig())
	const spec = "ROW(a INTEGER, b MAP<VARCHAR, ARRAY<DATE>>)"

	var wg sync.WaitGroup
	results := make([]*sql.Type, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.DeriveType(sql.NewEmptyContext(), spec)
		}(i)
	}
	wg.Wait()

	for i, typ := range results {
		require.NoError(t, errs[i])
		require.True(t, typ.Equal(results[0]))
	}
	require.Equal(t, "RecordType(INTEGER a, (VARCHAR, DATE ARRAY NOT NULL) MAP NOT NULL b) NOT NULL", results[0].Signature())
}
