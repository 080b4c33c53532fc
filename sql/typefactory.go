package sql

import "strings"

// TypeFactory creates canonical types. Every type it returns has been
// interned in its TypeCache, so structurally equal types asked for while
// the cache holds them are the same instance. It is safe for concurrent
// use.
type TypeFactory struct {
	cache *TypeCache
}

// NewTypeFactory creates a factory interning into the given cache. If nil
// is given, a cache with DefaultTypeCacheSize entries is created.
func NewTypeFactory(cache *TypeCache) *TypeFactory {
	if cache == nil {
		cache = NewTypeCache(DefaultTypeCacheSize)
	}
	return &TypeFactory{cache}
}

// Cache returns the cache used to intern the types of this factory.
func (f *TypeFactory) Cache() *TypeCache { return f.cache }

func (f *TypeFactory) canonize(t *Type) *Type {
	return f.cache.InternOrCreate(t.signature, func() *Type { return t })
}

// CreateSQLType returns the non-nullable scalar type of the given family,
// without precision or scale.
func (f *TypeFactory) CreateSQLType(name TypeName) (*Type, error) {
	return f.CreateSQLTypeWithPrecisionScale(name, PrecisionNotSpecified, PrecisionNotSpecified)
}

// MustCreateSQLType calls CreateSQLType and panics on error.
func (f *TypeFactory) MustCreateSQLType(name TypeName) *Type {
	t, err := f.CreateSQLType(name)
	if err != nil {
		panic(err)
	}
	return t
}

// CreateSQLTypeWithPrecision returns the non-nullable scalar type of the
// given family and precision.
func (f *TypeFactory) CreateSQLTypeWithPrecision(name TypeName, precision int) (*Type, error) {
	return f.CreateSQLTypeWithPrecisionScale(name, precision, PrecisionNotSpecified)
}

// CreateSQLTypeWithPrecisionScale returns the non-nullable scalar type of
// the given family, precision and scale. Use PrecisionNotSpecified to omit
// a facet.
func (f *TypeFactory) CreateSQLTypeWithPrecisionScale(name TypeName, precision, scale int) (*Type, error) {
	if name.IsComposite() {
		return nil, ErrUnknownTypeName.New(name)
	}

	if precision != PrecisionNotSpecified {
		if !name.AllowsPrecision() || precision <= 0 {
			return nil, ErrInvalidTypeFacet.New("precision", name, precision)
		}
		if name == TypeNameDecimal && precision > MaxDecimalPrecision {
			return nil, ErrInvalidTypeFacet.New("precision", name, precision)
		}
	}

	if scale != PrecisionNotSpecified {
		if !name.AllowsScale() || precision == PrecisionNotSpecified || scale < 0 || scale > precision {
			return nil, ErrInvalidTypeFacet.New("scale", name, scale)
		}
	}

	return f.canonize(newScalarType(name, precision, scale, false)), nil
}

// CreateArrayType returns the non-nullable array type of the given
// element type.
func (f *TypeFactory) CreateArrayType(element *Type) *Type {
	return f.canonize(newArrayType(element, false))
}

// CreateMapType returns the non-nullable map type of the given key and
// value types.
func (f *TypeFactory) CreateMapType(key, value *Type) *Type {
	return f.canonize(newMapType(key, value, false))
}

// CreateStructType returns the non-nullable row type with the given field
// types and names. Field names must be unique.
func (f *TypeFactory) CreateStructType(kind StructKind, types []*Type, names []string) (*Type, error) {
	if len(types) != len(names) {
		return nil, ErrFieldCountMismatch.New(len(names), len(types))
	}

	seen := make(map[string]struct{}, len(names))
	fields := make([]Field, len(types))
	for i := range types {
		if _, ok := seen[names[i]]; ok {
			return nil, ErrDuplicateFieldName.New(names[i])
		}
		seen[names[i]] = struct{}{}
		fields[i] = Field{Name: names[i], Index: i, Type: types[i]}
	}

	return f.canonize(newRowType(kind, fields, false)), nil
}

// CreateTypeWithNullability returns a type equal to the given one except
// for its nullability. If the type already has the requested nullability
// it is returned as is. Only the type itself changes: the components of
// a composite type keep their nullability.
func (f *TypeFactory) CreateTypeWithNullability(t *Type, nullable bool) *Type {
	if t.nullable == nullable {
		return t
	}
	return f.canonize(t.withNullable(nullable))
}

// CreateTypeWithFieldNullability returns a row type equal to the given one
// except that every field has the given nullability. Field names, order,
// the struct kind and the nullability of the row itself are kept. The
// field types change as a whole, their own components are untouched.
func (f *TypeFactory) CreateTypeWithFieldNullability(row *Type, nullable bool) (*Type, error) {
	if !row.IsStruct() {
		return nil, ErrNotRowType.New(row)
	}

	changed := false
	fields := make([]Field, len(row.fields))
	for i, field := range row.fields {
		typ := f.CreateTypeWithNullability(field.Type, nullable)
		if typ != field.Type {
			changed = true
		}
		fields[i] = Field{Name: field.Name, Index: i, Type: typ}
	}

	if !changed {
		return row, nil
	}

	return f.canonize(newRowType(row.structKind, fields, row.nullable)), nil
}

// CreateJoinType returns the non-nullable row type with the fields of all
// the given row types, in order. Field names are kept verbatim, so the
// result may contain the same name more than once.
func (f *TypeFactory) CreateJoinType(rows ...*Type) (*Type, error) {
	var fields []Field
	for _, row := range rows {
		if !row.IsStruct() {
			return nil, ErrNotRowType.New(row)
		}
		for _, field := range row.fields {
			fields = append(fields, Field{Name: field.Name, Index: len(fields), Type: field.Type})
		}
	}

	return f.canonize(newRowType(StructFullyQualified, fields, false)), nil
}

// LeastRestrictive returns the narrowest type that values of every given
// type can be assigned to. All types must have the same shape: scalars of
// the same family, arrays, maps, or rows with the same field names in the
// same order. Scalar facets are widened, components are combined
// recursively, and the result is nullable if any of the types is. NULL
// typed values fit in any type.
func (f *TypeFactory) LeastRestrictive(types ...*Type) (*Type, error) {
	if len(types) == 0 {
		return nil, ErrIncompatibleTypes.New("")
	}

	nullable := false
	var valued []*Type
	for _, t := range types {
		if t.nullable {
			nullable = true
		}
		if t.kind == KindScalar && t.name == TypeNameNull {
			nullable = true
			continue
		}
		valued = append(valued, t)
	}

	if len(valued) == 0 {
		return f.CreateTypeWithNullability(types[0], true), nil
	}

	t, err := f.leastRestrictive(valued)
	if err != nil {
		return nil, err
	}
	return f.CreateTypeWithNullability(t, nullable), nil
}

func (f *TypeFactory) leastRestrictive(types []*Type) (*Type, error) {
	first := types[0]
	for _, t := range types[1:] {
		if t.kind != first.kind || t.name != first.name {
			return nil, ErrIncompatibleTypes.New(typeList(types))
		}
	}

	components := func(get func(*Type) *Type) (*Type, error) {
		ts := make([]*Type, len(types))
		for i, t := range types {
			ts[i] = get(t)
		}
		c, err := f.LeastRestrictive(ts...)
		if err != nil {
			return nil, ErrIncompatibleTypes.Wrap(err, typeList(types))
		}
		return c, nil
	}

	switch first.kind {
	case KindScalar:
		precision, scale := widestFacets(types)
		return f.CreateSQLTypeWithPrecisionScale(first.name, precision, scale)
	case KindArray:
		element, err := components((*Type).Element)
		if err != nil {
			return nil, err
		}
		return f.CreateArrayType(element), nil
	case KindMap:
		key, err := components((*Type).Key)
		if err != nil {
			return nil, err
		}
		value, err := components((*Type).Value)
		if err != nil {
			return nil, err
		}
		return f.CreateMapType(key, value), nil
	case KindRow:
		for _, t := range types[1:] {
			if t.structKind != first.structKind || len(t.fields) != len(first.fields) {
				return nil, ErrIncompatibleTypes.New(typeList(types))
			}
			for i, field := range t.fields {
				if field.Name != first.fields[i].Name {
					return nil, ErrIncompatibleTypes.New(typeList(types))
				}
			}
		}

		fields := make([]Field, len(first.fields))
		for i, field := range first.fields {
			typ, err := components(func(t *Type) *Type { return t.fields[i].Type })
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: field.Name, Index: i, Type: typ}
		}
		return f.canonize(newRowType(first.structKind, fields, false)), nil
	default:
		panic("impossible, type switch bug")
	}
}

// widestFacets returns the precision and scale able to hold every given
// scalar of a single family. A type without precision is the widest of
// its family. Decimals keep the largest number of integer digits and the
// largest scale, within MaxDecimalPrecision.
func widestFacets(types []*Type) (precision, scale int) {
	for _, t := range types {
		if t.precision == PrecisionNotSpecified {
			return PrecisionNotSpecified, PrecisionNotSpecified
		}
	}

	if !types[0].name.AllowsScale() {
		precision = types[0].precision
		for _, t := range types[1:] {
			if t.precision > precision {
				precision = t.precision
			}
		}
		return precision, PrecisionNotSpecified
	}

	scale = PrecisionNotSpecified
	digits := 0
	for _, t := range types {
		s := t.scale
		if s == PrecisionNotSpecified {
			s = 0
		} else if s > scale {
			scale = s
		}
		if d := t.precision - s; d > digits {
			digits = d
		}
	}

	if scale == PrecisionNotSpecified {
		return min(digits, MaxDecimalPrecision), PrecisionNotSpecified
	}

	precision = min(digits+scale, MaxDecimalPrecision)
	return precision, min(scale, precision)
}

func typeList(types []*Type) string {
	signatures := make([]string, len(types))
	for i, t := range types {
		signatures[i] = t.signature
	}
	return strings.Join(signatures, ", ")
}
