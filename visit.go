package exprgraph

// Visitor interprets expressions. Each method handles one kind of node and
// receives its operands already interpreted. Any error stops the walk.
//
// The set of node kinds is closed. Adding a kind adds a method here, so every
// interpreter has to be revisited before the package compiles again.
type Visitor[T any] interface {
	Constant(value float64) (T, error)
	Parameter(index uint32, name string) (T, error)
	Add(lhs, rhs T) (T, error)
	Mul(lhs, rhs T) (T, error)
}

// Walk interprets e with v. Operands are walked before the node that uses
// them, and left operands before right ones. The first error from v stops the
// walk and is returned unchanged.
//
// Walk keeps no record of what it has visited. An expression reachable along
// several paths, e.g. x in x*x, is walked once per path, so each of its
// callbacks fires that many times. The work for deeply nested sharing grows
// exponentially; use WalkShared for such graphs. Walk recurses to the depth of
// e and panics if e is the zero Expr.
func Walk[T any](e Expr, v Visitor[T]) (T, error) {
	n := e.n
	if n == nil {
		panic("exprgraph: Walk on zero Expr")
	}
	switch n.kind {
	case nodeConst:
		return v.Constant(n.value)
	case nodeParam:
		return v.Parameter(n.index, n.name)
	case nodeAdd, nodeMul:
		var zero T
		l, err := Walk(n.lhs, v)
		if err != nil {
			return zero, err
		}
		r, err := Walk(n.rhs, v)
		if err != nil {
			return zero, err
		}
		if n.kind == nodeAdd {
			return v.Add(l, r)
		}
		return v.Mul(l, r)
	default:
		panic("exprgraph: invalid node kind " + n.kind.String())
	}
}

// WalkShared is like Walk, but interprets each distinct expression only once
// per call, reusing its result wherever it appears again. Copies of an Expr
// are the same expression; separately built expressions are distinct even if
// they have equal IDs from different generators. Results are shared between parents, so v must not
// modify the values it receives as operands.
func WalkShared[T any](e Expr, v Visitor[T]) (T, error) {
	w := sharedWalker[T]{v: v, memo: make(map[*node]T)}
	return w.walk(e)
}

type sharedWalker[T any] struct {
	v    Visitor[T]
	memo map[*node]T
}

func (w *sharedWalker[T]) walk(e Expr) (T, error) {
	n := e.n
	if n == nil {
		panic("exprgraph: WalkShared on zero Expr")
	}
	if r, ok := w.memo[n]; ok {
		return r, nil
	}
	r, err := w.eval(n)
	if err != nil {
		var zero T
		return zero, err
	}
	w.memo[n] = r
	return r, nil
}

func (w *sharedWalker[T]) eval(n *node) (T, error) {
	switch n.kind {
	case nodeConst:
		return w.v.Constant(n.value)
	case nodeParam:
		return w.v.Parameter(n.index, n.name)
	case nodeAdd, nodeMul:
		var zero T
		l, err := w.walk(n.lhs)
		if err != nil {
			return zero, err
		}
		r, err := w.walk(n.rhs)
		if err != nil {
			return zero, err
		}
		if n.kind == nodeAdd {
			return w.v.Add(l, r)
		}
		return w.v.Mul(l, r)
	default:
		panic("exprgraph: invalid node kind " + n.kind.String())
	}
}
