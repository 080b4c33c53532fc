package typespec

import (
	"fmt"
	"strconv"

	"github.com/linkedin/linkedin-calcite/sql"
)

// Unparse writes the SQL text of the spec: the type name for scalars,
// followed by its facets, and ARRAY<T>, MAP<K, V> or ROW(name T, ...) for
// composites. Nullability is not written.
func Unparse(w Writer, s Spec) {
	switch s := s.(type) {
	case *Scalar:
		w.Keyword(s.name)
		if s.precision != sql.PrecisionNotSpecified {
			frame := w.StartList("(", ")")
			w.Literal(strconv.Itoa(s.precision))
			if s.scale != sql.PrecisionNotSpecified {
				w.Sep(",")
				w.Literal(strconv.Itoa(s.scale))
			}
			w.EndList(frame)
		}
	case *Array:
		w.Keyword(sql.TypeNameArray.String())
		frame := w.StartList("<", ">")
		w.SetNeedWhitespace(false)
		Unparse(w, s.element)
		w.SetNeedWhitespace(false)
		w.EndList(frame)
	case *Map:
		w.Keyword(sql.TypeNameMap.String())
		frame := w.StartList("<", ">")
		w.SetNeedWhitespace(false)
		Unparse(w, s.key)
		w.Sep(",")
		Unparse(w, s.value)
		w.SetNeedWhitespace(false)
		w.EndList(frame)
	case *Row:
		w.Keyword(sql.TypeNameRow.String())
		frame := w.StartList("(", ")")
		for i, f := range s.fields {
			if i > 0 {
				w.Sep(",")
			}
			w.Identifier(f.Name)
			Unparse(w, f.Type)
		}
		w.EndList(frame)
	default:
		panic(fmt.Sprintf("unknown type spec %T", s))
	}
}

// ToSQL returns the SQL text of the spec, with unquoted identifiers.
func ToSQL(s Spec) string {
	w := NewWriter(WriterOptions{})
	Unparse(w, s)
	return w.String()
}
