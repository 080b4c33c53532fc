package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure"
)

// TypeKind discriminates the shape of a Type.
type TypeKind uint8

const (
	// KindScalar is a type with no component types.
	KindScalar TypeKind = iota
	// KindArray is a collection with a single element type.
	KindArray
	// KindMap is a collection with a key and a value type.
	KindMap
	// KindRow is an ordered list of named fields.
	KindRow
)

func (k TypeKind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindRow:
		return "Row"
	default:
		return fmt.Sprintf("TypeKind(%d)", uint8(k))
	}
}

// StructKind describes how the fields of a row type can be referenced.
type StructKind uint8

const (
	// StructFullyQualified fields must be referenced through the row itself.
	StructFullyQualified StructKind = iota
	// StructPeekFields fields can be referenced without naming the row.
	StructPeekFields
	// StructPeekFieldsDefault behaves like StructPeekFields and is the
	// default expansion target.
	StructPeekFieldsDefault
	// StructPeekFieldsNoExpand behaves like StructPeekFields but is not
	// expanded by star selection.
	StructPeekFieldsNoExpand
)

func (k StructKind) signature() string {
	switch k {
	case StructPeekFields:
		return ":peek"
	case StructPeekFieldsDefault:
		return ":peek_default"
	case StructPeekFieldsNoExpand:
		return ":peek_no_expand"
	default:
		return ""
	}
}

// PrecisionNotSpecified is the precision and scale of types declared
// without facets.
const PrecisionNotSpecified = -1

// Field is a named component of a row type.
type Field struct {
	// Name of the field, verbatim as declared.
	Name string
	// Index is the position of the field in its row.
	Index int
	// Type of the field.
	Type *Type
}

// Type is the canonical representation of a SQL type. Types are immutable
// and should be obtained from a TypeFactory, which interns them, rather
// than built by hand. Two types are equal if and only if their signatures
// are equal.
type Type struct {
	kind       TypeKind
	name       TypeName
	precision  int
	scale      int
	element    *Type
	key        *Type
	value      *Type
	fields     []Field
	structKind StructKind
	nullable   bool
	signature  string
}

func newScalarType(name TypeName, precision, scale int, nullable bool) *Type {
	t := &Type{
		kind:      KindScalar,
		name:      name,
		precision: precision,
		scale:     scale,
		nullable:  nullable,
	}
	t.signature = t.computeSignature()
	return t
}

func newArrayType(element *Type, nullable bool) *Type {
	t := &Type{
		kind:      KindArray,
		name:      TypeNameArray,
		precision: PrecisionNotSpecified,
		scale:     PrecisionNotSpecified,
		element:   element,
		nullable:  nullable,
	}
	t.signature = t.computeSignature()
	return t
}

func newMapType(key, value *Type, nullable bool) *Type {
	t := &Type{
		kind:      KindMap,
		name:      TypeNameMap,
		precision: PrecisionNotSpecified,
		scale:     PrecisionNotSpecified,
		key:       key,
		value:     value,
		nullable:  nullable,
	}
	t.signature = t.computeSignature()
	return t
}

func newRowType(kind StructKind, fields []Field, nullable bool) *Type {
	t := &Type{
		kind:       KindRow,
		name:       TypeNameRow,
		precision:  PrecisionNotSpecified,
		scale:      PrecisionNotSpecified,
		fields:     fields,
		structKind: kind,
		nullable:   nullable,
	}
	t.signature = t.computeSignature()
	return t
}

// withNullable returns a copy of the type with the given nullability. The
// receiver is never modified.
func (t *Type) withNullable(nullable bool) *Type {
	nt := *t
	nt.nullable = nullable
	nt.signature = nt.computeSignature()
	return &nt
}

func (t *Type) computeSignature() string {
	var sb strings.Builder
	t.writeSignature(&sb)
	if !t.nullable {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}

func (t *Type) writeSignature(sb *strings.Builder) {
	switch t.kind {
	case KindScalar:
		sb.WriteString(t.name.String())
		if t.precision != PrecisionNotSpecified {
			sb.WriteByte('(')
			sb.WriteString(strconv.Itoa(t.precision))
			if t.scale != PrecisionNotSpecified {
				sb.WriteString(", ")
				sb.WriteString(strconv.Itoa(t.scale))
			}
			sb.WriteByte(')')
		}
	case KindArray:
		sb.WriteString(t.element.signature)
		sb.WriteString(" ARRAY")
	case KindMap:
		sb.WriteByte('(')
		sb.WriteString(t.key.signature)
		sb.WriteString(", ")
		sb.WriteString(t.value.signature)
		sb.WriteString(") MAP")
	case KindRow:
		sb.WriteString("RecordType")
		sb.WriteString(t.structKind.signature())
		sb.WriteByte('(')
		for i, f := range t.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Type.signature)
			sb.WriteByte(' ')
			sb.WriteString(signatureName(f.Name))
		}
		sb.WriteByte(')')
	default:
		panic("impossible, type switch bug")
	}
}

// signatureName quotes field names that would make a signature ambiguous.
func signatureName(name string) string {
	if name == "" {
		return `""`
	}
	for _, r := range name {
		if !(r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return strconv.Quote(name)
		}
	}
	return name
}

// Kind returns the shape of the type.
func (t *Type) Kind() TypeKind { return t.kind }

// Name returns the type family. Composite types return TypeNameArray,
// TypeNameMap or TypeNameRow.
func (t *Type) Name() TypeName { return t.name }

// Precision returns the declared precision or PrecisionNotSpecified.
func (t *Type) Precision() int { return t.precision }

// Scale returns the declared scale or PrecisionNotSpecified.
func (t *Type) Scale() int { return t.scale }

// Nullable reports whether values of this type may be NULL.
func (t *Type) Nullable() bool { return t.nullable }

// Element returns the element type of an array, nil otherwise.
func (t *Type) Element() *Type { return t.element }

// Key returns the key type of a map, nil otherwise.
func (t *Type) Key() *Type { return t.key }

// Value returns the value type of a map, nil otherwise.
func (t *Type) Value() *Type { return t.value }

// IsStruct reports whether the type is a row type.
func (t *Type) IsStruct() bool { return t.kind == KindRow }

// StructKind returns how the fields of a row type are referenced.
func (t *Type) StructKind() StructKind { return t.structKind }

// FieldCount returns the number of fields of a row type.
func (t *Type) FieldCount() int { return len(t.fields) }

// Fields returns a copy of the fields of a row type, in order.
func (t *Type) Fields() []Field {
	if t.fields == nil {
		return nil
	}
	fields := make([]Field, len(t.fields))
	copy(fields, t.fields)
	return fields
}

// FieldNames returns the names of the fields of a row type, in order.
func (t *Type) FieldNames() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the first field with exactly the given name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Signature returns the structural signature of the type, which is the
// key used to intern it.
func (t *Type) Signature() string { return t.signature }

// Equal reports whether both types are structurally equal.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.signature == other.signature
}

// Hash returns a hash of the signature of the type, so structurally equal
// types have equal hashes.
func (t *Type) Hash() (uint64, error) {
	if t == nil {
		return 0, nil
	}
	return hashstructure.Hash(t.signature, nil)
}

func (t *Type) String() string { return t.signature }
