// Package typespec holds the syntax-level descriptions of SQL types, as
// written in a query, before they are derived into canonical types.
package typespec

import (
	"fmt"

	"github.com/linkedin/linkedin-calcite/sql"
)

// Pos is a position in the source text.
type Pos struct {
	Line   int
	Column int
}

// ZeroPos is the position of specs that do not come from source text.
var ZeroPos Pos

func (p Pos) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Nullability is the nullability written in a type specification.
type Nullability uint8

const (
	// NullabilityUnspecified means the spec inherits the default
	// nullability of its context.
	NullabilityUnspecified Nullability = iota
	// NullabilityNullable is an explicit NULL.
	NullabilityNullable
	// NullabilityNotNull is an explicit NOT NULL.
	NullabilityNotNull
)

// NullabilityOf returns the explicit nullability for the given flag.
func NullabilityOf(nullable bool) Nullability {
	if nullable {
		return NullabilityNullable
	}
	return NullabilityNotNull
}

// Resolve returns whether the spec is nullable, using def when it was not
// specified.
func (n Nullability) Resolve(def bool) bool {
	switch n {
	case NullabilityNullable:
		return true
	case NullabilityNotNull:
		return false
	default:
		return def
	}
}

func (n Nullability) String() string {
	switch n {
	case NullabilityNullable:
		return "NULL"
	case NullabilityNotNull:
		return "NOT NULL"
	default:
		return "UNSPECIFIED"
	}
}

// Spec is a type specification. It is one of *Scalar, *Array, *Map or
// *Row. Specs are immutable.
type Spec interface {
	fmt.Stringer
	// Nullability returns the nullability written for this spec.
	Nullability() Nullability
	// Position returns where the spec starts in the source text.
	Position() Pos
	isSpec()
}

type base struct {
	nullability Nullability
	pos         Pos
}

func (b base) Nullability() Nullability { return b.nullability }
func (b base) Position() Pos { return b.pos }
func (base) isSpec() {}

// Scalar is a named type with no components, such as INTEGER or
// VARCHAR(20).
type Scalar struct {
	base
	name      string
	precision int
	scale     int
}

// NewScalar creates a scalar spec with no facets.
func NewScalar(name string, n Nullability, pos Pos) *Scalar {
	return NewScalarWithFacets(name, sql.PrecisionNotSpecified, sql.PrecisionNotSpecified, n, pos)
}

// NewScalarWithFacets creates a scalar spec with the given precision and
// scale. Use sql.PrecisionNotSpecified to omit them.
func NewScalarWithFacets(name string, precision, scale int, n Nullability, pos Pos) *Scalar {
	return &Scalar{base{n, pos}, name, precision, scale}
}

// Name returns the type name, verbatim as written.
func (s *Scalar) Name() string { return s.name }

// Precision returns the precision or sql.PrecisionNotSpecified.
func (s *Scalar) Precision() int { return s.precision }

// Scale returns the scale or sql.PrecisionNotSpecified.
func (s *Scalar) Scale() int { return s.scale }

func (s *Scalar) String() string { return ToSQL(s) }

// Array is an ARRAY<T> spec.
type Array struct {
	base
	element Spec
}

// NewArray creates an array spec of the given element spec.
func NewArray(element Spec, n Nullability, pos Pos) *Array {
	return &Array{base{n, pos}, element}
}

// Element returns the spec of the array elements.
func (a *Array) Element() Spec { return a.element }

func (a *Array) String() string { return ToSQL(a) }

// Map is a MAP<K, V> spec.
type Map struct {
	base
	key   Spec
	value Spec
}

// NewMap creates a map spec of the given key and value specs.
func NewMap(key, value Spec, n Nullability, pos Pos) *Map {
	return &Map{base{n, pos}, key, value}
}

// Key returns the spec of the map keys.
func (m *Map) Key() Spec { return m.key }

// Value returns the spec of the map values.
func (m *Map) Value() Spec { return m.value }

func (m *Map) String() string { return ToSQL(m) }

// Field is a named field of a ROW spec.
type Field struct {
	Name string
	Type Spec
}

// Row is a ROW(name T, ...) spec.
type Row struct {
	base
	fields []Field
}

// NewRow creates a row spec with the given fields, in order.
func NewRow(fields []Field, n Nullability, pos Pos) *Row {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return &Row{base{n, pos}, fs}
}

// Fields returns a copy of the fields of the row.
func (r *Row) Fields() []Field {
	fs := make([]Field, len(r.fields))
	copy(fs, r.fields)
	return fs
}

// FieldNames returns the names of the fields, in order.
func (r *Row) FieldNames() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

func (r *Row) String() string { return ToSQL(r) }

// WithNullability returns a spec equal to s but with the given
// nullability. When s already has it, s itself is returned, so callers can
// rely on identity to detect that nothing changed. Otherwise the new spec
// shares the component specs of s.
func WithNullability(s Spec, n Nullability) Spec {
	if s.Nullability() == n {
		return s
	}

	switch s := s.(type) {
	case *Scalar:
		return &Scalar{base{n, s.pos}, s.name, s.precision, s.scale}
	case *Array:
		return &Array{base{n, s.pos}, s.element}
	case *Map:
		return &Map{base{n, s.pos}, s.key, s.value}
	case *Row:
		return &Row{base{n, s.pos}, s.fields}
	default:
		panic(fmt.Sprintf("unknown type spec %T", s))
	}
}

// Clone returns a copy of s located at the given position. Component
// specs are shared.
func Clone(s Spec, pos Pos) Spec {
	switch s := s.(type) {
	case *Scalar:
		return &Scalar{base{s.nullability, pos}, s.name, s.precision, s.scale}
	case *Array:
		return &Array{base{s.nullability, pos}, s.element}
	case *Map:
		return &Map{base{s.nullability, pos}, s.key, s.value}
	case *Row:
		return &Row{base{s.nullability, pos}, s.fields}
	default:
		panic(fmt.Sprintf("unknown type spec %T", s))
	}
}

// Equal reports whether both specs describe the same type with the same
// nullability, ignoring positions.
func Equal(a, b Spec) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Nullability() != b.Nullability() {
		return false
	}

	switch a := a.(type) {
	case *Scalar:
		b, ok := b.(*Scalar)
		return ok && a.name == b.name && a.precision == b.precision && a.scale == b.scale
	case *Array:
		b, ok := b.(*Array)
		return ok && Equal(a.element, b.element)
	case *Map:
		b, ok := b.(*Map)
		return ok && Equal(a.key, b.key) && Equal(a.value, b.value)
	case *Row:
		b, ok := b.(*Row)
		if !ok || len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Type, b.fields[i].Type) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("unknown type spec %T", a))
	}
}

// FromType returns a spec describing the given canonical type. The
// nullability of every spec is explicit.
func FromType(t *sql.Type) Spec {
	n := NullabilityOf(t.Nullable())
	switch t.Kind() {
	case sql.KindScalar:
		return NewScalarWithFacets(t.Name().String(), t.Precision(), t.Scale(), n, ZeroPos)
	case sql.KindArray:
		return NewArray(FromType(t.Element()), n, ZeroPos)
	case sql.KindMap:
		return NewMap(FromType(t.Key()), FromType(t.Value()), n, ZeroPos)
	case sql.KindRow:
		fields := make([]Field, t.FieldCount())
		for i, f := range t.Fields() {
			fields[i] = Field{Name: f.Name, Type: FromType(f.Type)}
		}
		return &Row{base{n, ZeroPos}, fields}
	default:
		panic("impossible, type switch bug")
	}
}
