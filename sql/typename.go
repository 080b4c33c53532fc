package sql

import (
	"fmt"
	"strings"
)

// TypeName identifies a type family.
type TypeName uint8

const (
	TypeNameBoolean TypeName = iota
	TypeNameTinyint
	TypeNameSmallint
	TypeNameInteger
	TypeNameBigint
	TypeNameDecimal
	TypeNameFloat
	TypeNameReal
	TypeNameDouble
	TypeNameDate
	TypeNameTime
	TypeNameTimestamp
	TypeNameChar
	TypeNameVarchar
	TypeNameBinary
	TypeNameVarbinary
	TypeNameNull
	TypeNameAny
	TypeNameArray
	TypeNameMap
	TypeNameRow
)

var typeNameStrings = [...]string{
	TypeNameBoolean:   "BOOLEAN",
	TypeNameTinyint:   "TINYINT",
	TypeNameSmallint:  "SMALLINT",
	TypeNameInteger:   "INTEGER",
	TypeNameBigint:    "BIGINT",
	TypeNameDecimal:   "DECIMAL",
	TypeNameFloat:     "FLOAT",
	TypeNameReal:      "REAL",
	TypeNameDouble:    "DOUBLE",
	TypeNameDate:      "DATE",
	TypeNameTime:      "TIME",
	TypeNameTimestamp: "TIMESTAMP",
	TypeNameChar:      "CHAR",
	TypeNameVarchar:   "VARCHAR",
	TypeNameBinary:    "BINARY",
	TypeNameVarbinary: "VARBINARY",
	TypeNameNull:      "NULL",
	TypeNameAny:       "ANY",
	TypeNameArray:     "ARRAY",
	TypeNameMap:       "MAP",
	TypeNameRow:       "ROW",
}

func (n TypeName) String() string {
	if int(n) < len(typeNameStrings) {
		return typeNameStrings[n]
	}
	return fmt.Sprintf("TypeName(%d)", uint8(n))
}

// IsComposite reports whether the name denotes a type with components.
func (n TypeName) IsComposite() bool {
	return n == TypeNameArray || n == TypeNameMap || n == TypeNameRow
}

// AllowsPrecision reports whether a precision facet can be declared.
func (n TypeName) AllowsPrecision() bool {
	switch n {
	case TypeNameDecimal, TypeNameChar, TypeNameVarchar, TypeNameBinary,
		TypeNameVarbinary, TypeNameTime, TypeNameTimestamp, TypeNameFloat:
		return true
	default:
		return false
	}
}

// AllowsScale reports whether a scale facet can be declared.
func (n TypeName) AllowsScale() bool {
	return n == TypeNameDecimal
}

// MaxDecimalPrecision is the largest precision a DECIMAL can declare.
const MaxDecimalPrecision = 38

// TypeNameResolver resolves the name of a scalar type, as written in a
// type specification, to its canonical type. Implementations must fail
// with ErrUnknownTypeName for names they do not know.
type TypeNameResolver interface {
	ResolveTypeName(f *TypeFactory, name string, precision, scale int) (*Type, error)
}

// TypeNameResolverFunc adapts a function to a TypeNameResolver.
type TypeNameResolverFunc func(f *TypeFactory, name string, precision, scale int) (*Type, error)

// ResolveTypeName implements the TypeNameResolver interface.
func (fn TypeNameResolverFunc) ResolveTypeName(f *TypeFactory, name string, precision, scale int) (*Type, error) {
	return fn(f, name, precision, scale)
}

// TypeNames is a TypeNameResolver backed by a case-insensitive table of
// names and aliases.
type TypeNames map[string]TypeName

// DefaultTypeNames knows every scalar type family plus the common aliases.
var DefaultTypeNames = TypeNames{
	"boolean":   TypeNameBoolean,
	"bool":      TypeNameBoolean,
	"tinyint":   TypeNameTinyint,
	"smallint":  TypeNameSmallint,
	"integer":   TypeNameInteger,
	"int":       TypeNameInteger,
	"bigint":    TypeNameBigint,
	"decimal":   TypeNameDecimal,
	"dec":       TypeNameDecimal,
	"numeric":   TypeNameDecimal,
	"float":     TypeNameFloat,
	"real":      TypeNameReal,
	"double":    TypeNameDouble,
	"date":      TypeNameDate,
	"time":      TypeNameTime,
	"timestamp": TypeNameTimestamp,
	"datetime":  TypeNameTimestamp,
	"char":      TypeNameChar,
	"character": TypeNameChar,
	"varchar":   TypeNameVarchar,
	"string":    TypeNameVarchar,
	"text":      TypeNameVarchar,
	"binary":    TypeNameBinary,
	"varbinary": TypeNameVarbinary,
	"null":      TypeNameNull,
	"any":       TypeNameAny,
}

// Lookup returns the type family registered under the given name.
func (n TypeNames) Lookup(name string) (TypeName, bool) {
	tn, ok := n[strings.ToLower(name)]
	return tn, ok
}

// ResolveTypeName implements the TypeNameResolver interface.
func (n TypeNames) ResolveTypeName(f *TypeFactory, name string, precision, scale int) (*Type, error) {
	tn, ok := n.Lookup(name)
	if !ok || tn.IsComposite() {
		return nil, ErrUnknownTypeName.New(name)
	}
	return f.CreateSQLTypeWithPrecisionScale(tn, precision, scale)
}
