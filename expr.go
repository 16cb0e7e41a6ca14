package exprgraph

// Expr is a handle to an immutable expression node. Copies of an Expr share
// the same node and the same ID. The zero Expr refers to no node; it is only
// useful as a placeholder, and passing it to a builder panics.
type Expr struct {
	id ID
	n  *node
}

// ID returns the expression's identifier.
func (e Expr) ID() ID {
	return e.id
}

// IsZero reports whether e is the zero Expr.
func (e Expr) IsZero() bool {
	return e.n == nil
}

// Depth returns the number of nodes on the longest path from e to a leaf,
// counting both. Walk recurses this deep. The zero Expr has depth 0.
func (e Expr) Depth() int {
	if e.n == nil {
		return 0
	}
	return e.n.depth
}

// Add builds lhs + rhs using the generator that built e.
func (e Expr) Add(rhs Expr) Expr {
	return e.builder().Add(e, rhs)
}

// Mul builds lhs * rhs using the generator that built e.
func (e Expr) Mul(rhs Expr) Expr {
	return e.builder().Mul(e, rhs)
}

// AddConst builds e + v, where v becomes a new constant.
func (e Expr) AddConst(v float64) Expr {
	b := e.builder()
	return b.Add(e, b.Constant(v))
}

// MulConst builds e * v, where v becomes a new constant.
func (e Expr) MulConst(v float64) Expr {
	b := e.builder()
	return b.Mul(e, b.Constant(v))
}

func (e Expr) builder() *Builder {
	if e.n == nil {
		panic("exprgraph: method call on zero Expr")
	}
	return &Builder{ids: e.n.ids}
}

// Builder creates expressions with IDs drawn from one generator. A Builder is
// safe for concurrent use.
type Builder struct {
	ids *IDGen
}

// NewBuilder creates a builder that draws IDs from ids. If ids is nil, the
// builder gets a new generator of its own.
func NewBuilder(ids *IDGen) *Builder {
	if ids == nil {
		ids = NewIDGen()
	}
	return &Builder{ids: ids}
}

// IDs returns the builder's generator.
func (b *Builder) IDs() *IDGen {
	return b.ids
}

func (b *Builder) wrap(n *node) Expr {
	return Expr{id: b.ids.Next(), n: n}
}

// Constant builds a constant. Any float64 is allowed, including NaN and
// infinities; deciding what to do with them is up to interpreters.
func (b *Builder) Constant(v float64) Expr {
	n := leaf(nodeConst, b.ids)
	n.value = v
	return b.wrap(n)
}

// Parameter builds a parameter. index identifies the parameter to
// interpreters; name is only used to describe it.
func (b *Builder) Parameter(index uint32, name string) Expr {
	n := leaf(nodeParam, b.ids)
	n.index = index
	n.name = name
	return b.wrap(n)
}

// Add builds lhs + rhs.
func (b *Builder) Add(lhs, rhs Expr) Expr {
	return b.wrap(binary(nodeAdd, lhs, rhs, b.ids))
}

// Mul builds lhs * rhs.
func (b *Builder) Mul(lhs, rhs Expr) Expr {
	return b.wrap(binary(nodeMul, lhs, rhs, b.ids))
}

// DefaultBuilder is the builder used by the package-level construction
// functions. Its IDs are unique for the life of the process.
var DefaultBuilder = NewBuilder(nil)

// Constant builds a constant with DefaultBuilder.
func Constant(v float64) Expr {
	return DefaultBuilder.Constant(v)
}

// Parameter builds a parameter with DefaultBuilder.
func Parameter(index uint32, name string) Expr {
	return DefaultBuilder.Parameter(index, name)
}

// Add builds lhs + rhs with DefaultBuilder.
func Add(lhs, rhs Expr) Expr {
	return DefaultBuilder.Add(lhs, rhs)
}

// Mul builds lhs * rhs with DefaultBuilder.
func Mul(lhs, rhs Expr) Expr {
	return DefaultBuilder.Mul(lhs, rhs)
}

// Sum builds ((xs[0] + xs[1]) + xs[2]) + ... using the generator of xs[0].
// Sum of a single expression is that expression. Panics if xs is empty.
func Sum(xs ...Expr) Expr {
	return fold(xs, Expr.Add)
}

// Product builds ((xs[0] * xs[1]) * xs[2]) * ... using the generator of
// xs[0]. Product of a single expression is that expression. Panics if xs is
// empty.
func Product(xs ...Expr) Expr {
	return fold(xs, Expr.Mul)
}

func fold(xs []Expr, op func(Expr, Expr) Expr) Expr {
	if len(xs) == 0 {
		panic("exprgraph: fold of no expressions")
	}
	r := xs[0]
	for _, x := range xs[1:] {
		r = op(r, x)
	}
	return r
}
