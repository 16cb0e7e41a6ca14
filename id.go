package exprgraph

import (
	"errors"
	"math"
	"strconv"
	"sync/atomic"
)

// ID identifies an expression. IDs are only meaningful within one process and
// one IDGen; they are not stable across runs.
type ID uint64

func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// ErrIDExhausted is the panic value of IDGen.Next when the generator has
// issued its largest possible ID.
var ErrIDExhausted = errors.New("exprgraph: identifier space exhausted")

// IDGen issues unique IDs. The zero value is ready to use, and an IDGen is
// safe for concurrent use.
type IDGen struct {
	last atomic.Uint64
}

// NewIDGen creates a new ID generator independent of all others.
func NewIDGen() *IDGen {
	return new(IDGen)
}

// Next returns an ID greater than every ID previously returned by g. The first
// ID is 1. Next panics with ErrIDExhausted rather than wrap around.
func (g *IDGen) Next() ID {
	for {
		cur := g.last.Load()
		if cur == math.MaxUint64 {
			panic(ErrIDExhausted)
		}
		if g.last.CompareAndSwap(cur, cur+1) {
			return ID(cur + 1)
		}
	}
}

// Last returns the most recent ID issued by g, or 0 if there is none.
func (g *IDGen) Last() ID {
	return ID(g.last.Load())
}
