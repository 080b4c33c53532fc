package parse

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/typespec"
)

// typeLexer tokenizes type specifications. Keywords must come before
// identifiers.
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:` + strings.Join(typespec.ReservedWords, "|") + `)\b`},
	{Name: "QuotedIdent", Pattern: "`(?:[^`]|``)*`|\"(?:[^\"]|\"\")*\""},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[<>(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var typeParser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
)

type typeExpr struct {
	Pos lexer.Position

	Base        *baseExpr `@@`
	Nullability *nullExpr `@@?`
}

type baseExpr struct {
	Array  *arrayExpr  `  @@`
	Map    *mapExpr    `| @@`
	Row    *rowExpr    `| @@`
	Scalar *scalarExpr `| @@`
}

type nullExpr struct {
	NotNull bool `  @"NOT" "NULL"`
	Null    bool `| @"NULL"`
}

type arrayExpr struct {
	Element *typeExpr `"ARRAY" "<" @@ ">"`
}

type mapExpr struct {
	Key   *typeExpr `"MAP" "<" @@ ","`
	Value *typeExpr `@@ ">"`
}

type rowExpr struct {
	Fields []*fieldExpr `"ROW" "(" ( @@ ( "," @@ )* )? ")"`
}

type fieldExpr struct {
	Name string    `@(Ident | QuotedIdent)`
	Type *typeExpr `@@`
}

type scalarExpr struct {
	Name   string      `@Ident`
	Facets *facetsExpr `@@?`
}

type facetsExpr struct {
	Precision int  `"(" @Int`
	Scale     *int `( "," @Int )? ")"`
}

func (e *typeExpr) spec() typespec.Spec {
	pos := typespec.Pos{Line: e.Pos.Line, Column: e.Pos.Column}
	n := e.Nullability.nullability()

	switch b := e.Base; {
	case b.Array != nil:
		return typespec.NewArray(b.Array.Element.spec(), n, pos)
	case b.Map != nil:
		return typespec.NewMap(b.Map.Key.spec(), b.Map.Value.spec(), n, pos)
	case b.Row != nil:
		fields := make([]typespec.Field, len(b.Row.Fields))
		for i, f := range b.Row.Fields {
			fields[i] = typespec.Field{Name: f.name(), Type: f.Type.spec()}
		}
		return typespec.NewRow(fields, n, pos)
	default:
		precision, scale := sql.PrecisionNotSpecified, sql.PrecisionNotSpecified
		if f := b.Scalar.Facets; f != nil {
			precision = f.Precision
			if f.Scale != nil {
				scale = *f.Scale
			}
		}
		return typespec.NewScalarWithFacets(b.Scalar.Name, precision, scale, n, pos)
	}
}

func (e *nullExpr) nullability() typespec.Nullability {
	switch {
	case e == nil:
		return typespec.NullabilityUnspecified
	case e.NotNull:
		return typespec.NullabilityNotNull
	default:
		return typespec.NullabilityNullable
	}
}

func (f *fieldExpr) name() string {
	if !strings.HasPrefix(f.Name, `"`) && !strings.HasPrefix(f.Name, "`") {
		return f.Name
	}
	q := f.Name[:1]
	return strings.Replace(f.Name[1:len(f.Name)-1], q+q, q, -1)
}
