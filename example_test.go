package exprgraph_test

import (
	"fmt"
	"strconv"

	"github.com/zephyrtronium/exprgraph"
)

func ExampleEvaluator() {
	x := exprgraph.Parameter(0, "x")
	y := exprgraph.Parameter(1, "y")
	e := x.AddConst(2).Add(y.AddConst(1))

	ev := exprgraph.NewEvaluator(exprgraph.Bind(0, 2), exprgraph.Bind(1, 1))
	r, err := ev.Eval(e)
	fmt.Println(e, r, err)

	_, err = exprgraph.NewEvaluator(exprgraph.Bind(0, 2)).Eval(e)
	fmt.Println(err)

	// Output:
	// ((x + 2) + (y + 1)) 6 <nil>
	// unbound parameter 1 ("y")
}

// rpn renders expressions in reverse Polish notation.
type rpn struct{}

func (rpn) Constant(v float64) (string, error) {
	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

func (rpn) Parameter(index uint32, name string) (string, error) {
	return name, nil
}

func (rpn) Add(lhs, rhs string) (string, error) {
	return lhs + " " + rhs + " +", nil
}

func (rpn) Mul(lhs, rhs string) (string, error) {
	return lhs + " " + rhs + " *", nil
}

func ExampleWalk() {
	x := exprgraph.Parameter(0, "x")
	e := x.Mul(x).AddConst(1)
	s, _ := exprgraph.Walk[string](e, rpn{})
	fmt.Println(s)

	// Output:
	// x x * 1 +
}

func ExampleParseString() {
	e, _ := exprgraph.ParseString("x*x - y")
	fmt.Println(e)
	fmt.Println(e.Params())
	r, _ := exprgraph.EvalString("x*x - y", map[string]float64{"x": 3, "y": 1})
	fmt.Println(r)

	// Output:
	// ((x * x) + (-1 * y))
	// [{0 x} {1 y}]
	// 8
}
