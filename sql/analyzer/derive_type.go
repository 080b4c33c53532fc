package analyzer

import (
	"fmt"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/typespec"
)

// DeriveType returns the canonical type described by the given type
// specification. Scalars without an explicit nullability are nullable,
// arrays, maps and rows are not. Components are derived in declaration
// order and the first failure is returned, wrapped in
// sql.ErrTypeDerivation at the specification where it happened.
func (a *Analyzer) DeriveType(ctx *sql.Context, spec typespec.Spec) (*sql.Type, error) {
	span, _ := ctx.Span("analyze.derive_type", opentracing.Tag{Key: "spec", Value: spec.String()})
	defer span.Finish()

	t, err := a.deriveType(spec)
	if err != nil {
		span.SetTag("error", true)
		return nil, err
	}

	a.Log("derived type %s from %s", t, spec)
	return t, nil
}

func (a *Analyzer) deriveType(spec typespec.Spec) (*sql.Type, error) {
	f := a.Types
	switch spec := spec.(type) {
	case *typespec.Scalar:
		t, err := a.TypeNames.ResolveTypeName(f, spec.Name(), spec.Precision(), spec.Scale())
		if err != nil {
			return nil, derivationError(err, spec)
		}
		return f.CreateTypeWithNullability(t, spec.Nullability().Resolve(true)), nil
	case *typespec.Array:
		element, err := a.deriveType(spec.Element())
		if err != nil {
			return nil, err
		}
		return f.CreateTypeWithNullability(f.CreateArrayType(element), spec.Nullability().Resolve(false)), nil
	case *typespec.Map:
		key, err := a.deriveType(spec.Key())
		if err != nil {
			return nil, err
		}
		value, err := a.deriveType(spec.Value())
		if err != nil {
			return nil, err
		}
		return f.CreateTypeWithNullability(f.CreateMapType(key, value), spec.Nullability().Resolve(false)), nil
	case *typespec.Row:
		fields := spec.Fields()
		names := make([]string, len(fields))
		types := make([]*sql.Type, len(fields))
		seen := make(map[string]struct{}, len(fields))
		for i, field := range fields {
			if _, ok := seen[field.Name]; ok {
				return nil, derivationError(sql.ErrDuplicateFieldName.New(field.Name), spec)
			}
			seen[field.Name] = struct{}{}

			t, err := a.deriveType(field.Type)
			if err != nil {
				return nil, err
			}
			names[i] = field.Name
			types[i] = t
		}

		row, err := f.CreateStructType(sql.StructFullyQualified, types, names)
		if err != nil {
			return nil, derivationError(err, spec)
		}
		return f.CreateTypeWithNullability(row, spec.Nullability().Resolve(false)), nil
	default:
		panic(fmt.Sprintf("unknown type spec %T", spec))
	}
}

func derivationError(err error, spec typespec.Spec) error {
	return sql.ErrTypeDerivation.Wrap(err, spec.String(), spec.Position())
}
