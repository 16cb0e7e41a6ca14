package exprgraph_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exprgraph"
)

// recorder logs each callback in the order the walk makes them. Results are
// the number of the call that produced them.
type recorder struct {
	log []string
	// fail makes the Parameter callback with this name fail.
	fail string
}

func (r *recorder) note(s string) (int, error) {
	r.log = append(r.log, s)
	return len(r.log), nil
}

func (r *recorder) Constant(value float64) (int, error) {
	return r.note("const " + strconv.FormatFloat(value, 'g', -1, 64))
}

func (r *recorder) Parameter(index uint32, name string) (int, error) {
	if name == r.fail {
		return 0, errors.New("fail " + name)
	}
	return r.note("param " + name)
}

func (r *recorder) Add(lhs, rhs int) (int, error) {
	return r.note("add " + strconv.Itoa(lhs) + " " + strconv.Itoa(rhs))
}

func (r *recorder) Mul(lhs, rhs int) (int, error) {
	return r.note("mul " + strconv.Itoa(lhs) + " " + strconv.Itoa(rhs))
}

var _ exprgraph.Visitor[int] = (*recorder)(nil)

func TestWalkOrder(t *testing.T) {
	x := exprgraph.Parameter(0, "x")
	y := exprgraph.Parameter(1, "y")
	// (x + 2) * (y + 1)
	e := x.AddConst(2).Mul(y.AddConst(1))
	var r recorder
	n, err := exprgraph.Walk[int](e, &r)
	require.NoError(t, err)
	want := []string{
		"param x",
		"const 2",
		"add 1 2",
		"param y",
		"const 1",
		"add 4 5",
		"mul 3 6",
	}
	if diff := cmp.Diff(want, r.log); diff != "" {
		t.Errorf("wrong callback order (-want +got):\n%s", diff)
	}
	assert.Equal(t, 7, n)
}

// counter counts constants.
type counter struct {
	consts int
}

func (c *counter) Constant(float64) (struct{}, error) {
	c.consts++
	return struct{}{}, nil
}

func (c *counter) Parameter(uint32, string) (struct{}, error) { return struct{}{}, nil }
func (c *counter) Add(_, _ struct{}) (struct{}, error)        { return struct{}{}, nil }
func (c *counter) Mul(_, _ struct{}) (struct{}, error)        { return struct{}{}, nil }

func TestWalkSharedSubexpressions(t *testing.T) {
	shared := exprgraph.Constant(1)
	cases := []struct {
		name   string
		e      exprgraph.Expr
		walk   int
		shared int
	}{
		{"leaf", shared, 1, 1},
		{"both-operands", exprgraph.Add(shared, shared), 2, 1},
		{"distinct", exprgraph.Add(exprgraph.Constant(1), exprgraph.Constant(1)), 2, 2},
		{"nested", func() exprgraph.Expr {
			// Each level doubles the paths to shared.
			e := shared
			for i := 0; i < 10; i++ {
				e = exprgraph.Mul(e, e)
			}
			return e
		}(), 1024, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var w counter
			_, err := exprgraph.Walk[struct{}](c.e, &w)
			require.NoError(t, err)
			assert.Equal(t, c.walk, w.consts, "Walk")
			var s counter
			_, err = exprgraph.WalkShared[struct{}](c.e, &s)
			require.NoError(t, err)
			assert.Equal(t, c.shared, s.consts, "WalkShared")
		})
	}
}

func TestWalkSharedOrder(t *testing.T) {
	x := exprgraph.Parameter(0, "x")
	s := x.AddConst(1)
	e := s.Mul(s)
	var r recorder
	_, err := exprgraph.WalkShared[int](e, &r)
	require.NoError(t, err)
	want := []string{
		"param x",
		"const 1",
		"add 1 2",
		"mul 3 3",
	}
	if diff := cmp.Diff(want, r.log); diff != "" {
		t.Errorf("wrong callback order (-want +got):\n%s", diff)
	}
}

func TestWalkError(t *testing.T) {
	x := exprgraph.Parameter(0, "x")
	y := exprgraph.Parameter(1, "y")
	z := exprgraph.Parameter(2, "z")
	e := x.Add(y).Add(z)
	for _, walk := range []struct {
		name string
		f    func(exprgraph.Expr, exprgraph.Visitor[int]) (int, error)
	}{
		{"Walk", exprgraph.Walk[int]},
		{"WalkShared", exprgraph.WalkShared[int]},
	} {
		t.Run(walk.name, func(t *testing.T) {
			r := recorder{fail: "y"}
			n, err := walk.f(e, &r)
			require.EqualError(t, err, "fail y")
			assert.Zero(t, n)
			// Nothing after the failure runs.
			assert.Equal(t, []string{"param x"}, r.log)
		})
	}
}

func TestWalkZeroPanics(t *testing.T) {
	assert.Panics(t, func() { exprgraph.Walk[int](exprgraph.Expr{}, new(recorder)) })
	assert.Panics(t, func() { exprgraph.WalkShared[int](exprgraph.Expr{}, new(recorder)) })
}

func TestWalkSharedMixedGenerators(t *testing.T) {
	b1 := exprgraph.NewBuilder(nil)
	b2 := exprgraph.NewBuilder(nil)
	x := b1.Parameter(0, "x")
	c := b2.Constant(5)
	require.Equal(t, x.ID(), c.ID(), "fresh generators should both start at the same ID")
	e := exprgraph.Add(x, c)

	var r recorder
	_, err := exprgraph.WalkShared[int](e, &r)
	require.NoError(t, err)
	assert.Equal(t, []string{"param x", "const 5", "add 1 2"}, r.log)

	assert.Equal(t, "(x + 5)", e.String())
	assert.Equal(t, []exprgraph.Param{{Index: 0, Name: "x"}}, exprgraph.Add(c, x).Params())

	want, err := exprgraph.NewEvaluator(exprgraph.Bind(0, 1)).Eval(e)
	require.NoError(t, err)
	assert.Equal(t, 6.0, want)
	got, err := exprgraph.NewEvaluator(exprgraph.Bind(0, 1), exprgraph.ShareResults()).Eval(e)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	big, err := exprgraph.NewBigEvaluator(64, exprgraph.Bind(0, 1), exprgraph.ShareResults()).Eval(e)
	require.NoError(t, err)
	f, _ := big.Float64()
	assert.Equal(t, 6.0, f)
}
