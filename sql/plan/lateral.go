package plan

import "github.com/linkedin/linkedin-calcite/sql"

// Lateral marks its child as a LATERAL operand of a join. It has no row
// type of its own: it is the row type of its child.
type Lateral struct {
	UnaryNode
}

var _ sql.Node = (*Lateral)(nil)

// NewLateral creates a new Lateral node.
func NewLateral(child sql.Node) *Lateral {
	return &Lateral{UnaryNode{child}}
}

func (l *Lateral) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Lateral")
	_ = pr.WriteChildren(l.Child.String())
	return pr.String()
}

// Unwrap returns the operand under any number of Lateral wrappers.
func Unwrap(node sql.Node) sql.Node {
	for {
		l, ok := node.(*Lateral)
		if !ok {
			return node
		}
		node = l.Child
	}
}
