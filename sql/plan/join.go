package plan

import (
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/linkedin/linkedin-calcite/sql"
)

// ErrUnknownJoinType is returned when a join kind name is not known.
var ErrUnknownJoinType = errors.NewKind("unknown join type: %s")

// JoinType is the kind of a join.
type JoinType uint16

const (
	JoinTypeUnknown JoinType = iota
	JoinTypeCross
	JoinTypeInner
	JoinTypeLeftOuter
	JoinTypeFullOuter
	JoinTypeRightOuter
)

var joinTypeNames = [...]string{
	JoinTypeUnknown:    "UnknownJoin",
	JoinTypeCross:      "CrossJoin",
	JoinTypeInner:      "InnerJoin",
	JoinTypeLeftOuter:  "LeftOuterJoin",
	JoinTypeFullOuter:  "FullOuterJoin",
	JoinTypeRightOuter: "RightOuterJoin",
}

func (i JoinType) String() string {
	if int(i) < len(joinTypeNames) {
		return joinTypeNames[i]
	}
	return joinTypeNames[JoinTypeUnknown]
}

// IsLeftOuter reports whether the fields of the right operand become
// nullable.
func (i JoinType) IsLeftOuter() bool {
	return i == JoinTypeLeftOuter
}

// IsRightOuter reports whether the fields of the left operand become
// nullable.
func (i JoinType) IsRightOuter() bool {
	return i == JoinTypeRightOuter
}

// IsFullOuter reports whether the fields of both operands become
// nullable.
func (i JoinType) IsFullOuter() bool {
	return i == JoinTypeFullOuter
}

// IsInner reports whether the fields of both operands keep their
// nullability.
func (i JoinType) IsInner() bool {
	switch i {
	case JoinTypeInner, JoinTypeCross:
		return true
	default:
		return false
	}
}

// IsDegenerate reports whether the join has no condition.
func (i JoinType) IsDegenerate() bool {
	return i == JoinTypeCross
}

// ParseJoinType returns the join kind with the given SQL name. COMMA is
// the implicit cross join of a FROM list.
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inner":
		return JoinTypeInner, nil
	case "cross", "comma", ",":
		return JoinTypeCross, nil
	case "left", "left outer":
		return JoinTypeLeftOuter, nil
	case "right", "right outer":
		return JoinTypeRightOuter, nil
	case "full", "full outer":
		return JoinTypeFullOuter, nil
	default:
		return JoinTypeUnknown, ErrUnknownJoinType.New(s)
	}
}

// Join is a join of two operands.
type Join struct {
	BinaryNode
	Op JoinType
}

var _ sql.Node = (*Join)(nil)

// NewJoin creates a new join of the given kind.
func NewJoin(left, right sql.Node, op JoinType) *Join {
	return &Join{BinaryNode{Left: left, Right: right}, op}
}

// NewInnerJoin creates a new inner join.
func NewInnerJoin(left, right sql.Node) *Join {
	return NewJoin(left, right, JoinTypeInner)
}

// NewCrossJoin creates a new cross join.
func NewCrossJoin(left, right sql.Node) *Join {
	return NewJoin(left, right, JoinTypeCross)
}

// NewLeftOuterJoin creates a new left outer join.
func NewLeftOuterJoin(left, right sql.Node) *Join {
	return NewJoin(left, right, JoinTypeLeftOuter)
}

// NewRightOuterJoin creates a new right outer join.
func NewRightOuterJoin(left, right sql.Node) *Join {
	return NewJoin(left, right, JoinTypeRightOuter)
}

// NewFullOuterJoin creates a new full outer join.
func NewFullOuterJoin(left, right sql.Node) *Join {
	return NewJoin(left, right, JoinTypeFullOuter)
}

// JoinType returns the kind of the join.
func (j *Join) JoinType() JoinType {
	return j.Op
}

func (j *Join) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("%s", j.Op)
	_ = pr.WriteChildren(j.Left.String(), j.Right.String())
	return pr.String()
}
