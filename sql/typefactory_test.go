package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateSQLTypeFacets(t *testing.T) {
	f := NewTypeFactory(nil)

	testCases := []struct {
		name      string
		typeName  TypeName
		precision int
		scale     int
		err       bool
	}{
		{"plain", TypeNameInteger, PrecisionNotSpecified, PrecisionNotSpecified, false},
		{"varchar length", TypeNameVarchar, 20, PrecisionNotSpecified, false},
		{"decimal", TypeNameDecimal, 10, 2, false},
		{"decimal too precise", TypeNameDecimal, 39, PrecisionNotSpecified, true},
		{"integer precision", TypeNameInteger, 10, PrecisionNotSpecified, true},
		{"zero precision", TypeNameVarchar, 0, PrecisionNotSpecified, true},
		{"scale without precision", TypeNameDecimal, PrecisionNotSpecified, 2, true},
		{"scale over precision", TypeNameDecimal, 2, 3, true},
		{"varchar scale", TypeNameVarchar, 10, 2, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			typ, err := f.CreateSQLTypeWithPrecisionScale(tt.typeName, tt.precision, tt.scale)
			if tt.err {
				require.Error(err)
				require.True(ErrInvalidTypeFacet.Is(err))
				return
			}
			require.NoError(err)
			require.Equal(tt.precision, typ.Precision())
			require.Equal(tt.scale, typ.Scale())
			require.False(typ.Nullable())
		})
	}

	_, err := f.CreateSQLType(TypeNameArray)
	require.True(t, ErrUnknownTypeName.Is(err))
}

func TestTypeFactoryInterning(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(NewTypeCache(16))

	a := f.CreateArrayType(f.MustCreateSQLType(TypeNameInteger))
	b := f.CreateArrayType(f.MustCreateSQLType(TypeNameInteger))
	require.Same(a, b)

	m1 := f.CreateMapType(f.MustCreateSQLType(TypeNameVarchar), f.MustCreateSQLType(TypeNameDate))
	m2 := f.CreateMapType(f.MustCreateSQLType(TypeNameVarchar), f.MustCreateSQLType(TypeNameDate))
	require.Same(m1, m2)

	nullable := f.CreateTypeWithNullability(a, true)
	require.NotSame(a, nullable)
	require.Same(nullable, f.CreateTypeWithNullability(b, true))
}

func TestTypeFactoryDisabledCache(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(NewTypeCache(0))

	a, err := f.CreateStructType(StructPeekFields, nil, nil)
	require.NoError(err)
	b, err := f.CreateStructType(StructPeekFields, nil, nil)
	require.NoError(err)

	require.NotSame(a, b)
	require.True(a.Equal(b))
	require.Equal(0, f.Cache().Len())
}

func TestCreateTypeWithNullability(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(nil)

	integer := f.MustCreateSQLType(TypeNameInteger)
	require.Same(integer, f.CreateTypeWithNullability(integer, false))

	arr := f.CreateArrayType(integer)
	nullableArr := f.CreateTypeWithNullability(arr, true)
	require.True(nullableArr.Nullable())
	require.False(nullableArr.Element().Nullable())
	require.False(arr.Nullable())
	require.Same(nullableArr, f.CreateTypeWithNullability(nullableArr, true))
}

func TestCreateTypeWithFieldNullability(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(nil)

	integer := f.MustCreateSQLType(TypeNameInteger)
	inner, err := f.CreateStructType(StructFullyQualified, []*Type{integer}, []string{"x"})
	require.NoError(err)
	row, err := f.CreateStructType(StructPeekFields,
		[]*Type{integer, f.CreateArrayType(integer), inner},
		[]string{"a", "b", "c"},
	)
	require.NoError(err)

	nullable, err := f.CreateTypeWithFieldNullability(row, true)
	require.NoError(err)
	require.Equal(row.FieldNames(), nullable.FieldNames())
	require.Equal(StructPeekFields, nullable.StructKind())
	require.False(nullable.Nullable())

	for i, field := range nullable.Fields() {
		require.True(field.Type.Nullable(), "field %d", i)
	}

	fields := nullable.Fields()
	require.False(fields[1].Type.Element().Nullable())
	inner2, _ := fields[2].Type.Field("x")
	require.False(inner2.Type.Nullable())

	for _, field := range row.Fields() {
		require.False(field.Type.Nullable())
	}

	same, err := f.CreateTypeWithFieldNullability(nullable, true)
	require.NoError(err)
	require.Same(nullable, same)

	_, err = f.CreateTypeWithFieldNullability(integer, true)
	require.True(ErrNotRowType.Is(err))
}

func TestCreateStructTypeErrors(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(nil)
	integer := f.MustCreateSQLType(TypeNameInteger)

	_, err := f.CreateStructType(StructFullyQualified, []*Type{integer}, []string{"a", "b"})
	require.True(ErrFieldCountMismatch.Is(err))

	_, err = f.CreateStructType(StructFullyQualified, []*Type{integer, integer}, []string{"a", "a"})
	require.True(ErrDuplicateFieldName.Is(err))

	// Name uniqueness is exact, case folding is left to the caller.
	_, err = f.CreateStructType(StructFullyQualified, []*Type{integer, integer}, []string{"a", "A"})
	require.NoError(err)
}

func TestCreateJoinType(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(nil)
	integer := f.MustCreateSQLType(TypeNameInteger)

	left, err := f.CreateStructType(StructFullyQualified, []*Type{integer}, []string{"id"})
	require.NoError(err)
	right, err := f.CreateStructType(StructFullyQualified, []*Type{integer, integer}, []string{"id", "b"})
	require.NoError(err)

	join, err := f.CreateJoinType(left, right)
	require.NoError(err)
	require.Equal([]string{"id", "id", "b"}, join.FieldNames())
	for i, field := range join.Fields() {
		require.Equal(i, field.Index)
	}

	_, err = f.CreateJoinType(left, integer)
	require.True(ErrNotRowType.Is(err))
}

func TestTypeNames(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(nil)

	typ, err := DefaultTypeNames.ResolveTypeName(f, "Int", PrecisionNotSpecified, PrecisionNotSpecified)
	require.NoError(err)
	require.Equal(TypeNameInteger, typ.Name())

	typ, err = DefaultTypeNames.ResolveTypeName(f, "varchar", 20, PrecisionNotSpecified)
	require.NoError(err)
	require.Equal("VARCHAR(20) NOT NULL", typ.String())

	_, err = DefaultTypeNames.ResolveTypeName(f, "foo", PrecisionNotSpecified, PrecisionNotSpecified)
	require.True(ErrUnknownTypeName.Is(err))

	_, err = DefaultTypeNames.ResolveTypeName(f, "row", PrecisionNotSpecified, PrecisionNotSpecified)
	require.True(ErrUnknownTypeName.Is(err))
}

func TestLeastRestrictive(t *testing.T) {
	f := NewTypeFactory(NewTypeCache(64))
	nullable := func(t *Type) *Type { return f.CreateTypeWithNullability(t, true) }
	scalar := func(name TypeName, precision, scale int) *Type {
		typ, err := f.CreateSQLTypeWithPrecisionScale(name, precision, scale)
		require.NoError(t, err)
		return typ
	}
	row := func(names []string, types ...*Type) *Type {
		typ, err := f.CreateStructType(StructFullyQualified, types, names)
		require.NoError(t, err)
		return typ
	}

	integer := f.MustCreateSQLType(TypeNameInteger)
	varchar := f.MustCreateSQLType(TypeNameVarchar)
	null := f.MustCreateSQLType(TypeNameNull)
	none := PrecisionNotSpecified

	testCases := []struct {
		name      string
		types     []*Type
		signature string
	}{
		{"single", []*Type{integer}, "INTEGER NOT NULL"},
		{"same", []*Type{integer, integer}, "INTEGER NOT NULL"},
		{"mixed nullability", []*Type{integer, nullable(integer), integer}, "INTEGER"},
		{"null operand", []*Type{integer, null}, "INTEGER"},
		{"only null", []*Type{null, null}, "NULL"},
		{"varchar lengths", []*Type{scalar(TypeNameVarchar, 10, none), scalar(TypeNameVarchar, 20, none)}, "VARCHAR(20) NOT NULL"},
		{"unbounded varchar", []*Type{scalar(TypeNameVarchar, 10, none), varchar}, "VARCHAR NOT NULL"},
		{"decimals", []*Type{scalar(TypeNameDecimal, 10, 2), scalar(TypeNameDecimal, 5, 4)}, "DECIMAL(12, 4) NOT NULL"},
		{"decimals capped", []*Type{scalar(TypeNameDecimal, 38, 0), scalar(TypeNameDecimal, 10, 5)}, "DECIMAL(38, 5) NOT NULL"},
		{"decimals without scale", []*Type{scalar(TypeNameDecimal, 10, none), scalar(TypeNameDecimal, 12, none)}, "DECIMAL(12) NOT NULL"},
		{
			"arrays",
			[]*Type{f.CreateArrayType(integer), nullable(f.CreateArrayType(nullable(integer)))},
			"INTEGER ARRAY",
		},
		{
			"maps",
			[]*Type{f.CreateMapType(varchar, integer), f.CreateMapType(varchar, nullable(integer))},
			"(VARCHAR NOT NULL, INTEGER) MAP NOT NULL",
		},
		{
			"rows",
			[]*Type{row([]string{"a", "b"}, integer, varchar), row([]string{"a", "b"}, nullable(integer), varchar)},
			"RecordType(INTEGER a, VARCHAR NOT NULL b) NOT NULL",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := f.LeastRestrictive(tt.types...)
			require.NoError(t, err)
			require.Equal(t, tt.signature, typ.Signature())
		})
	}

	errorCases := []struct {
		name  string
		types []*Type
	}{
		{"no types", nil},
		{"families", []*Type{integer, varchar}},
		{"kinds", []*Type{integer, f.CreateArrayType(integer)}},
		{"array elements", []*Type{f.CreateArrayType(integer), f.CreateArrayType(varchar)}},
		{"row names", []*Type{row([]string{"a"}, integer), row([]string{"b"}, integer)}},
		{"row arity", []*Type{row([]string{"a"}, integer), row([]string{"a", "b"}, integer, integer)}},
		{"row fields", []*Type{row([]string{"a"}, integer), row([]string{"a"}, varchar)}},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.LeastRestrictive(tt.types...)
			require.Error(t, err)
			require.True(t, ErrIncompatibleTypes.Is(err))
		})
	}
}

func TestLeastRestrictiveKeepsOperands(t *testing.T) {
	require := require.New(t)
	f := NewTypeFactory(NewTypeCache(16))

	integer := f.MustCreateSQLType(TypeNameInteger)
	nullableInteger := f.CreateTypeWithNullability(integer, true)

	result, err := f.LeastRestrictive(integer, nullableInteger)
	require.NoError(err)
	require.Same(nullableInteger, result)
	require.False(integer.Nullable())
}
