package exprgraph

// node is the payload of an expression. Nodes are never modified after they
// are built.
type node struct {
	kind nodeKind

	value float64 // nodeConst
	index uint32  // nodeParam
	name  string  // nodeParam; diagnostic only

	lhs Expr // nodeAdd, nodeMul
	rhs Expr // nodeAdd, nodeMul

	// depth is the number of nodes on the longest path from here to a leaf,
	// counting both ends.
	depth int
	// ids is the generator the node was built with. Method sugar on an Expr
	// uses it to build further nodes.
	ids *IDGen
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeConst // value
	nodeParam // lookup(index)
	nodeAdd   // walk lhs, walk rhs, add
	nodeMul   // walk lhs, walk rhs, mul
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node

func leaf(kind nodeKind, ids *IDGen) *node {
	return &node{kind: kind, depth: 1, ids: ids}
}

func binary(kind nodeKind, lhs, rhs Expr, ids *IDGen) *node {
	if lhs.n == nil || rhs.n == nil {
		panic("exprgraph: zero Expr operand to " + kind.String())
	}
	d := lhs.n.depth
	if rhs.n.depth > d {
		d = rhs.n.depth
	}
	return &node{kind: kind, lhs: lhs, rhs: rhs, depth: d + 1, ids: ids}
}
