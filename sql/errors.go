package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrTypeDerivation is returned when a type specification cannot be
	// turned into a canonical type. The cause holds the failure that
	// happened at the offending specification.
	ErrTypeDerivation = errors.NewKind("cannot derive type %s at %s")

	// ErrUnknownTypeName is returned when a scalar type name is not known
	// by the type name resolver.
	ErrUnknownTypeName = errors.NewKind("unknown type name: %s")

	// ErrDuplicateFieldName is returned when a row type declares the same
	// field name twice.
	ErrDuplicateFieldName = errors.NewKind("duplicate field name %q in row type")

	// ErrInvalidTypeFacet is returned when the precision or scale given to
	// a type is not allowed for it.
	ErrInvalidTypeFacet = errors.NewKind("invalid %s for type %s: %d")

	// ErrFieldCountMismatch is returned when a row type is built with a
	// different number of field names and field types.
	ErrFieldCountMismatch = errors.NewKind("row type has %d field names but %d field types")

	// ErrNotRowType is returned when a row type is expected but a
	// different kind of type was given.
	ErrNotRowType = errors.NewKind("expected a row type, got %s")

	// ErrIncompatibleTypes is returned when no type can hold values of all
	// the given types.
	ErrIncompatibleTypes = errors.NewKind("no least restrictive type for (%s)")
)
