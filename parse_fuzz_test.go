package exprgraph_test

import (
	"math"
	"strings"
	"testing"

	"github.com/zephyrtronium/exprgraph"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("(x + 2) + (y + 1)")
	f.Add("-x - -1e-3 [y]")
	f.Add("inf*0")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := exprgraph.Parse(strings.NewReader(s))
		if err != nil {
			if _, ok := err.(exprgraph.InputError); !ok {
				t.Fatalf("%q: error %#v is not an InputError", s, err)
			}
			return
		}
		vals := make(map[string]float64)
		for _, p := range e.Params() {
			vals[p.Name] = float64(p.Index) + 0.5
		}
		printed := e.String()
		want, err := exprgraph.EvalString(s, vals)
		if err != nil {
			t.Fatalf("%q: couldn't evaluate with all parameters bound: %v", s, err)
		}
		got, err := exprgraph.EvalString(printed, vals)
		if err != nil {
			t.Fatalf("%q printed as %q, which doesn't evaluate: %v", s, printed, err)
		}
		if math.Float64bits(got) != math.Float64bits(want) && !(math.IsNaN(got) && math.IsNaN(want)) {
			t.Errorf("%q = %g but its printed form %q = %g", s, want, printed, got)
		}
	})
}
