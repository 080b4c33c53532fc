package analyzer

import (
	"github.com/linkedin/linkedin-calcite/sql"
	"github.com/linkedin/linkedin-calcite/sql/plan"
	"github.com/linkedin/linkedin-calcite/sql/sealable"
)

// Scope maps the relational operands of a query to their derived row
// types. It is sealed once every operand has been resolved, after which
// registering fails with sealable.ErrSealed.
type Scope struct {
	rows *sealable.Map[sql.Node, *sql.Type]
}

// NewScope creates an empty, unsealed scope.
func NewScope() *Scope {
	return &Scope{sealable.New[sql.Node, *sql.Type](nil)}
}

// Register records the row type of the given operand. Lateral wrappers
// have no entry of their own, the operand under them must be registered
// instead.
func (s *Scope) Register(n sql.Node, row *sql.Type) error {
	if _, ok := n.(*plan.Lateral); ok {
		return ErrInvalidNodeType.New("scope", n)
	}
	if !row.IsStruct() {
		return sql.ErrNotRowType.New(row)
	}
	_, _, err := s.rows.Put(n, row)
	return err
}

// RowType returns the row type registered for the given operand.
func (s *Scope) RowType(n sql.Node) (*sql.Type, bool) {
	return s.rows.Get(n)
}

// Len returns the number of registered operands.
func (s *Scope) Len() int { return s.rows.Len() }

// Seal freezes the scope.
func (s *Scope) Seal() { s.rows.Seal() }

// Unseal makes the scope writable again.
func (s *Scope) Unseal() { s.rows.Unseal() }

// IsSealed reports whether the scope is sealed.
func (s *Scope) IsSealed() bool { return s.rows.IsSealed() }
