package parse // import "github.com/linkedin/linkedin-calcite/sql/parse"

import (
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/typespec"
)

var (
	// ErrInvalidTypeSpec is returned when a type specification is not
	// valid syntax.
	ErrInvalidTypeSpec = errors.NewKind("invalid type specification %q")

	// ErrEmptyTypeSpec is returned when there is nothing to parse.
	ErrEmptyTypeSpec = errors.NewKind("empty type specification")
)

// ParseTypeSpec parses type specifications such as INTEGER NOT NULL,
// DECIMAL(10, 2), ARRAY<T>, MAP<K, V> and ROW(name T, ...). Keywords are
// case insensitive. Field names may be quoted with double quotes or
// backquotes.
func ParseTypeSpec(ctx *sql.Context, text string) (typespec.Spec, error) {
	span, _ := ctx.Span("parse.type_spec", opentracing.Tag{Key: "spec", Value: text})
	defer span.Finish()

	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return nil, ErrEmptyTypeSpec.New()
	}

	expr, err := typeParser.ParseString("", s)
	if err != nil {
		return nil, ErrInvalidTypeSpec.Wrap(err, text)
	}

	return expr.spec(), nil
}
