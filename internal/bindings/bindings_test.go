package bindings

import (
	"errors"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	t.Parallel()
	l := NewLoader(nil, 0)
	cases := []struct {
		src  string
		want float64
	}{
		{"2.5", 2.5},
		{"-1", -1},
		{"1 + 2 * 3", 7},
		{"pi", math.Pi},
		{"pi / 2", math.Pi / 2},
		{"e", math.E},
		{"2 * e", 2 * math.E},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			v, err := l.Value(c.src)
			require.NoError(t, err)
			got, _ := v.Float64()
			assert.InDelta(t, c.want, got, 1e-15)
			assert.Equal(t, uint(64), v.Prec())
		})
	}
}

func TestValuePrecision(t *testing.T) {
	t.Parallel()
	l := NewLoader(nil, 256)
	assert.Equal(t, uint(256), l.Prec())
	v, err := l.Value("pi")
	require.NoError(t, err)
	assert.Equal(t, uint(256), v.Prec())
	want, _, err := big.ParseFloat("3.14159265358979323846264338327950288419716939937510582097494459", 10, 256, big.ToNearestEven)
	require.NoError(t, err)
	diff := new(big.Float).Sub(v, want)
	diff.Abs(diff)
	limit := new(big.Float).SetMantExp(big.NewFloat(1), -200)
	assert.Equal(t, -1, diff.Cmp(limit), "pi is %s", v.Text('g', 70))
}

func TestValueErrors(t *testing.T) {
	t.Parallel()
	l := NewLoader(nil, 0)

	_, err := l.Value("1 +")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	_, err = l.Value("tau")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to evaluate")

	_, err = l.Value(`"x"`)
	var te *TypeError
	require.True(t, errors.As(err, &te), "error %v is not a TypeError", err)
	assert.Equal(t, "string", te.Type)

	_, err = l.Value("true")
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "bool", te.Type)
}

func TestDecode(t *testing.T) {
	t.Parallel()
	l := NewLoader(nil, 0)
	src := []byte(`
x   = 2
y   = 1.5
tau = 2 * pi
`)
	vals, err := l.Decode(src, "test.hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{"tau", "x", "y"}, vals.Names())
	x, _ := vals["x"].Float64()
	assert.Equal(t, 2.0, x)
	y, _ := vals["y"].Float64()
	assert.Equal(t, 1.5, y)
	tau, _ := vals["tau"].Float64()
	assert.InDelta(t, 2*math.Pi, tau, 1e-15)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	l := NewLoader(nil, 0)
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"syntax", "x = ", "failed to parse bindings file"},
		{"block", "x {\n}\n", "failed to decode bindings file"},
		{"unknown", "x = y\n", "failed to evaluate x"},
		{"type", "x = [1, 2]\n", "binding x is"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := l.Decode([]byte(c.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "vals.hcl")
	require.NoError(t, os.WriteFile(path, []byte("x = 3\ny = e\n"), 0600))

	vals, err := NewLoader(nil, 0).Load(path)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	x, _ := vals["x"].Float64()
	assert.Equal(t, 3.0, x)

	_, err = NewLoader(nil, 0).Load(filepath.Join(dir, "missing.hcl"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
