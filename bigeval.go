package exprgraph

import (
	"math"
	"math/big"
)

// BigEvaluator computes expressions with arbitrary-precision floats. Every
// result is a new big.Float with the evaluator's precision. Since big.Float
// has no NaN, operations that would produce one fail with a *NaNError.
type BigEvaluator struct {
	vals     map[uint32]*big.Float
	prec     uint
	maxDepth int
	shared   bool
}

// NewBigEvaluator creates an evaluator which computes to prec bits. If prec
// is 0, the precision is 64. Binding NaN through options panics.
func NewBigEvaluator(prec uint, opts ...EvalOption) *BigEvaluator {
	if prec == 0 {
		prec = 64
	}
	ev := BigEvaluator{prec: prec}
	return ev.Clone(opts...)
}

// Clone creates a copy of ev and applies options to it.
func (ev *BigEvaluator) Clone(opts ...EvalOption) *BigEvaluator {
	n := BigEvaluator{
		vals:     make(map[uint32]*big.Float, len(ev.vals)),
		prec:     ev.prec,
		maxDepth: ev.maxDepth,
		shared:   ev.shared,
	}
	// Bound values are never modified, so copies can share them.
	for k, v := range ev.vals {
		n.vals[k] = v
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
			continue
		case bindopt:
			n.vals[opt.index] = n.fromFloat(opt.val)
		case bindsopt:
			for k, v := range opt {
				n.vals[k] = n.fromFloat(v)
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

func (ev *BigEvaluator) fromFloat(v float64) *big.Float {
	if math.IsNaN(v) {
		panic("exprgraph: cannot bind NaN to an arbitrary-precision parameter")
	}
	return new(big.Float).SetPrec(ev.prec).SetFloat64(v)
}

// Prec returns the precision of results.
func (ev *BigEvaluator) Prec() uint {
	return ev.prec
}

// Set sets the value of a parameter to a copy of val rounded to the
// evaluator's precision. Returns ev for chaining. Panics if val is nil.
func (ev *BigEvaluator) Set(index uint32, val *big.Float) *BigEvaluator {
	if val == nil {
		panic("exprgraph: cannot bind nil to an arbitrary-precision parameter")
	}
	if ev.vals == nil {
		ev.vals = make(map[uint32]*big.Float)
	}
	ev.vals[index] = new(big.Float).SetPrec(ev.prec).Set(val)
	return ev
}

// Lookup returns a copy of the value bound to a parameter, or nil if there is
// none.
func (ev *BigEvaluator) Lookup(index uint32) *big.Float {
	v := ev.vals[index]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Eval computes the value of e. On error, the result is nil.
func (ev *BigEvaluator) Eval(e Expr) (*big.Float, error) {
	if err := checkDepth(e, ev.maxDepth); err != nil {
		return nil, err
	}
	if ev.shared {
		return WalkShared[*big.Float](e, ev)
	}
	return Walk[*big.Float](e, ev)
}

func (ev *BigEvaluator) result() *big.Float {
	return new(big.Float).SetPrec(ev.prec)
}

// Constant implements Visitor.
func (ev *BigEvaluator) Constant(value float64) (*big.Float, error) {
	if math.IsNaN(value) {
		return nil, &NaNError{Op: "constant"}
	}
	return ev.result().SetFloat64(value), nil
}

// Parameter implements Visitor.
func (ev *BigEvaluator) Parameter(index uint32, name string) (*big.Float, error) {
	v := ev.vals[index]
	if v == nil {
		return nil, &UnboundError{Index: index, Name: name}
	}
	return ev.result().Set(v), nil
}

// Add implements Visitor.
func (ev *BigEvaluator) Add(lhs, rhs *big.Float) (*big.Float, error) {
	// Guard against inf-inf.
	if lhs.IsInf() && rhs.IsInf() && lhs.Signbit() != rhs.Signbit() {
		return nil, &NaNError{Op: "+"}
	}
	return ev.result().Add(lhs, rhs), nil
}

// Mul implements Visitor.
func (ev *BigEvaluator) Mul(lhs, rhs *big.Float) (*big.Float, error) {
	// Guard against 0*inf.
	if lhs.IsInf() && rhs.Sign() == 0 || lhs.Sign() == 0 && rhs.IsInf() {
		return nil, &NaNError{Op: "*"}
	}
	return ev.result().Mul(lhs, rhs), nil
}

var _ Visitor[*big.Float] = (*BigEvaluator)(nil)

// NaNError is an error from an arbitrary-precision operation whose result
// would be NaN.
type NaNError struct {
	// Op is "+", "*", or "constant" for a NaN constant.
	Op string
}

func (err *NaNError) Error() string {
	if err.Op == "constant" {
		return "NaN constant"
	}
	return "operation " + err.Op + " produces NaN"
}
