package exprgraph

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenMonotonic(t *testing.T) {
	g := NewIDGen()
	assert.Equal(t, ID(0), g.Last())
	prev := g.Next()
	assert.Equal(t, ID(1), prev)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		require.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, prev, g.Last())
}

func TestIDGenIndependent(t *testing.T) {
	a, b := NewIDGen(), NewIDGen()
	a.Next()
	a.Next()
	assert.Equal(t, ID(1), b.Next())
	assert.Equal(t, ID(3), a.Next())
}

func TestIDGenConcurrent(t *testing.T) {
	const (
		workers = 8
		each    = 2000
	)
	g := NewIDGen()
	ids := make([][]ID, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				ids[w] = append(ids[w], g.Next())
			}
		}(w)
	}
	wg.Wait()
	seen := make(map[ID]bool, workers*each)
	for _, v := range ids {
		for _, id := range v {
			require.False(t, seen[id], "duplicate id %v", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, workers*each)
	assert.Equal(t, ID(workers*each), g.Last())
}

func TestIDGenExhausted(t *testing.T) {
	g := NewIDGen()
	g.last.Store(math.MaxUint64 - 1)
	assert.Equal(t, ID(math.MaxUint64), g.Next())
	assert.PanicsWithValue(t, ErrIDExhausted, func() { g.Next() })
	// Still exhausted; never wraps to reuse an ID.
	assert.PanicsWithValue(t, ErrIDExhausted, func() { g.Next() })
	assert.Equal(t, ID(math.MaxUint64), g.Last())
}

func TestNodeDepth(t *testing.T) {
	b := NewBuilder(nil)
	x := b.Parameter(0, "x")
	c := b.Constant(1)
	assert.Equal(t, 1, x.n.depth)
	s := b.Add(x, c)
	assert.Equal(t, 2, s.n.depth)
	m := b.Mul(s, x)
	assert.Equal(t, 3, m.n.depth)
	assert.Equal(t, 4, b.Add(c, m).n.depth)
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "Const", nodeConst.String())
	assert.Equal(t, "Mul", nodeMul.String())
	assert.Equal(t, "nodeKind(9)", nodeKind(9).String())
}
