package analyzer

import (
	opentracing "github.com/opentracing/opentracing-go"

	"github.com/linkedin/linkedin-calcite/sql"
)

// ArrayValueType returns the type of an ARRAY[...] value constructor with
// operands of the given types. The element type is the least restrictive
// type of the operands and the array itself is never nullable. Without
// operands the array is an array of NULL if allowEmpty is set, and an
// ErrEmptyArrayValue error otherwise.
func ArrayValueType(f *sql.TypeFactory, operands []*sql.Type, allowEmpty bool) (*sql.Type, error) {
	if len(operands) == 0 {
		if !allowEmpty {
			return nil, ErrEmptyArrayValue.New()
		}
		null := f.CreateTypeWithNullability(f.MustCreateSQLType(sql.TypeNameNull), true)
		return f.CreateArrayType(null), nil
	}

	element, err := f.LeastRestrictive(operands...)
	if err != nil {
		return nil, err
	}
	return f.CreateArrayType(element), nil
}

// DeriveArrayValueType returns the type of an ARRAY[...] value constructor
// with operands of the given types, using the type factory of the
// analyzer.
func (a *Analyzer) DeriveArrayValueType(ctx *sql.Context, operands []*sql.Type, allowEmpty bool) (*sql.Type, error) {
	span, _ := ctx.Span("analyze.array_value_type", opentracing.Tag{Key: "operands", Value: len(operands)})
	defer span.Finish()

	t, err := ArrayValueType(a.Types, operands, allowEmpty)
	if err != nil {
		span.SetTag("error", true)
		return nil, err
	}

	a.Log("array value type %s", t)
	return t, nil
}
