package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/linkedin-calcite/sql"
)

func TestWalk(t *testing.T) {
	t1 := NewResolvedTable("foo")
	t2 := NewResolvedTable("bar")
	t3 := NewResolvedTable("baz")
	join := NewCrossJoin(t1, t2)
	outer := NewLeftOuterJoin(join, t3)

	var f visitor
	var visited []sql.Node
	f = func(node sql.Node) Visitor {
		visited = append(visited, node)
		return f
	}

	Walk(f, outer)

	require.Equal(t,
		[]sql.Node{outer, join, t1, nil, t2, nil, nil, t3, nil, nil},
		visited,
	)

	visited = nil
	f = func(node sql.Node) Visitor {
		visited = append(visited, node)
		if j, ok := node.(*Join); ok && j.Op == JoinTypeCross {
			return nil
		}
		return f
	}

	Walk(f, outer)

	require.Equal(t,
		[]sql.Node{outer, join, t3, nil, nil},
		visited,
	)
}

type visitor func(sql.Node) Visitor

func (f visitor) Visit(n sql.Node) Visitor {
	return f(n)
}

func TestInspect(t *testing.T) {
	t1 := NewResolvedTable("foo")
	t2 := NewResolvedTable("bar")
	lateral := NewLateral(t2)
	join := NewInnerJoin(t1, lateral)

	var visited []sql.Node
	Inspect(join, func(node sql.Node) bool {
		visited = append(visited, node)
		return true
	})

	require.Equal(t,
		[]sql.Node{join, t1, nil, lateral, t2, nil, nil, nil},
		visited,
	)

	visited = nil
	Inspect(join, func(node sql.Node) bool {
		visited = append(visited, node)
		_, ok := node.(*Lateral)
		return !ok
	})

	require.Equal(t,
		[]sql.Node{join, t1, nil, lateral, nil},
		visited,
	)
}
