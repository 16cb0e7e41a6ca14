package exprgraph

import (
	"cmp"
	"slices"
	"strconv"
)

// String formats the expression with every binary operation in parentheses,
// e.g. "((x + 2) * y)". Parameters appear by name, or as $index if unnamed.
func (e Expr) String() string {
	if e.n == nil {
		return "<nil>"
	}
	s, _ := WalkShared[string](e, printer{})
	return s
}

type printer struct{}

func (printer) Constant(value float64) (string, error) {
	return strconv.FormatFloat(value, 'g', -1, 64), nil
}

func (printer) Parameter(index uint32, name string) (string, error) {
	if name == "" {
		return "$" + strconv.FormatUint(uint64(index), 10), nil
	}
	return name, nil
}

func (printer) Add(lhs, rhs string) (string, error) {
	return "(" + lhs + " + " + rhs + ")", nil
}

func (printer) Mul(lhs, rhs string) (string, error) {
	return "(" + lhs + " * " + rhs + ")", nil
}

// Param describes a parameter used in an expression.
type Param struct {
	Index uint32
	Name  string
}

// Params returns the distinct parameters used in the expression, sorted by
// index. If several parameters share an index, the name of the leftmost one
// is used.
func (e Expr) Params() []Param {
	if e.n == nil {
		return nil
	}
	c := paramCollector{seen: make(map[uint32]bool)}
	WalkShared[struct{}](e, &c)
	slices.SortFunc(c.params, func(a, b Param) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return c.params
}

type paramCollector struct {
	seen   map[uint32]bool
	params []Param
}

func (c *paramCollector) Constant(float64) (struct{}, error) {
	return struct{}{}, nil
}

func (c *paramCollector) Parameter(index uint32, name string) (struct{}, error) {
	if !c.seen[index] {
		c.seen[index] = true
		c.params = append(c.params, Param{Index: index, Name: name})
	}
	return struct{}{}, nil
}

func (c *paramCollector) Add(struct{}, struct{}) (struct{}, error) {
	return struct{}{}, nil
}

func (c *paramCollector) Mul(struct{}, struct{}) (struct{}, error) {
	return struct{}{}, nil
}
