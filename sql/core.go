package sql

import "fmt"

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Node is a relational operand of a query plan. Its row type is derived
// by the analyzer and kept in a scope, so implementations must be
// comparable, which pointer types are.
type Node interface {
	fmt.Stringer
	// Children nodes.
	Children() []Node
}
