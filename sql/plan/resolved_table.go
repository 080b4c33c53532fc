package plan

import (
	"fmt"

	"github.com/linkedin/linkedin-calcite/sql"
)

// ResolvedTable is a table operand whose row type has been resolved in
// the catalog.
type ResolvedTable struct {
	name string
}

var _ sql.Node = (*ResolvedTable)(nil)

// NewResolvedTable creates a new ResolvedTable.
func NewResolvedTable(name string) *ResolvedTable {
	return &ResolvedTable{name}
}

// Name implements the Nameable interface.
func (t *ResolvedTable) Name() string { return t.name }

func (t *ResolvedTable) String() string {
	return fmt.Sprintf("Table(%s)", t.name)
}

// Children implements the Node interface.
func (*ResolvedTable) Children() []sql.Node { return nil }
