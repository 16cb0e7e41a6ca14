package exprgraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluator computes float64 values of expressions using IEEE 754 arithmetic.
// Parameters take their values from the evaluator's bindings, which the caller
// sets before evaluating. It is safe to evaluate concurrently with one
// Evaluator, but not while calling Set.
type Evaluator struct {
	vals     map[uint32]float64
	maxDepth int
	shared   bool
}

// EvalOption is an option used when creating an evaluator.
type EvalOption interface {
	evalOption()
}

type (
	bindopt struct {
		index uint32
		val   float64
	}
	bindsopt  map[uint32]float64
	depthopt  int
	sharedopt struct{}
)

func (bindopt) evalOption()   {}
func (bindsopt) evalOption()  {}
func (depthopt) evalOption()  {}
func (sharedopt) evalOption() {}

// Bind sets the value of the parameter with the given index.
func Bind(index uint32, val float64) EvalOption {
	return bindopt{index, val}
}

// BindAll sets the values of any number of parameters.
func BindAll(vals map[uint32]float64) EvalOption {
	return bindsopt(vals)
}

// MaxDepth makes evaluation fail with a DepthError instead of walking
// expressions deeper than n. Zero or less removes the limit, which is the
// default; then the depth of an expression is limited only by the stack size
// the Go runtime allows a goroutine, and exceeding that crashes the program.
func MaxDepth(n int) EvalOption {
	return depthopt(n)
}

// ShareResults makes evaluation compute each distinct expression once, using
// WalkShared instead of Walk.
func ShareResults() EvalOption {
	return sharedopt{}
}

// NewEvaluator creates an evaluator with no bindings, then applies options.
func NewEvaluator(opts ...EvalOption) *Evaluator {
	var ev Evaluator
	return ev.Clone(opts...)
}

// Clone creates a copy of ev and applies options to it. Bindings set on the
// copy do not affect ev.
func (ev *Evaluator) Clone(opts ...EvalOption) *Evaluator {
	n := Evaluator{
		vals:     make(map[uint32]float64, len(ev.vals)),
		maxDepth: ev.maxDepth,
		shared:   ev.shared,
	}
	for k, v := range ev.vals {
		n.vals[k] = v
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
			continue
		case bindopt:
			n.vals[opt.index] = opt.val
		case bindsopt:
			for k, v := range opt {
				n.vals[k] = v
			}
		case depthopt:
			n.maxDepth = int(opt)
		case sharedopt:
			n.shared = true
		default:
			panic("exprgraph: unknown option type")
		}
	}
	return &n
}

// Set sets the value of a parameter. Returns ev for chaining.
func (ev *Evaluator) Set(index uint32, val float64) *Evaluator {
	if ev.vals == nil {
		ev.vals = make(map[uint32]float64)
	}
	ev.vals[index] = val
	return ev
}

// Lookup returns the value bound to a parameter and whether there is one.
func (ev *Evaluator) Lookup(index uint32) (float64, bool) {
	v, ok := ev.vals[index]
	return v, ok
}

// Eval computes the value of e. If a parameter in e has no binding, the error
// is an *UnboundError and the result is 0.
func (ev *Evaluator) Eval(e Expr) (float64, error) {
	if err := checkDepth(e, ev.maxDepth); err != nil {
		return 0, err
	}
	if ev.shared {
		return WalkShared[float64](e, ev)
	}
	return Walk[float64](e, ev)
}

// Constant implements Visitor.
func (ev *Evaluator) Constant(value float64) (float64, error) {
	return value, nil
}

// Parameter implements Visitor.
func (ev *Evaluator) Parameter(index uint32, name string) (float64, error) {
	v, ok := ev.vals[index]
	if !ok {
		return 0, &UnboundError{Index: index, Name: name}
	}
	return v, nil
}

// Add implements Visitor.
func (ev *Evaluator) Add(lhs, rhs float64) (float64, error) {
	return lhs + rhs, nil
}

// Mul implements Visitor.
func (ev *Evaluator) Mul(lhs, rhs float64) (float64, error) {
	return lhs * rhs, nil
}

var _ Visitor[float64] = (*Evaluator)(nil)

// Eval is a shortcut to evaluate an expression with a set of bindings.
func Eval(e Expr, vals map[uint32]float64) (float64, error) {
	return NewEvaluator(BindAll(vals)).Eval(e)
}

// EvalString is a shortcut to parse and evaluate a string expression.
// Variables in the expression take their values from vals by name.
func EvalString(src string, vals map[string]float64) (float64, error) {
	e, err := Parse(strings.NewReader(src))
	if err != nil {
		return 0, err
	}
	ev := NewEvaluator()
	for _, p := range e.Params() {
		if v, ok := vals[p.Name]; ok {
			ev.Set(p.Index, v)
		}
	}
	return ev.Eval(e)
}

func checkDepth(e Expr, max int) error {
	if max > 0 && e.Depth() > max {
		return &DepthError{Depth: e.Depth(), Max: max}
	}
	return nil
}

// UnboundError is an error from evaluating a parameter which has no value in
// the evaluator.
type UnboundError struct {
	// Index is the index of the parameter.
	Index uint32
	// Name is the parameter's name, which may be empty.
	Name string
}

func (err *UnboundError) Error() string {
	s := "unbound parameter " + strconv.FormatUint(uint64(err.Index), 10)
	if err.Name != "" {
		s += " (" + strconv.Quote(err.Name) + ")"
	}
	return s
}

// DepthError is an error from evaluating an expression deeper than the
// evaluator allows.
type DepthError struct {
	// Depth is the depth of the expression.
	Depth int
	// Max is the evaluator's limit.
	Max int
}

func (err *DepthError) Error() string {
	return fmt.Sprintf("expression depth %d exceeds limit %d", err.Depth, err.Max)
}
