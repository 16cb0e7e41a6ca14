// Package bindings reads parameter values for the exprgraph command from HCL.
//
// A bindings file is a flat list of attributes:
//
//	x    = 2.5
//	tau  = 2 * pi
//	half = e / 2
//
// Each attribute must evaluate to a number. The variables pi and e are
// available in every expression, computed at the loader's precision.
package bindings

import (
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zephyrtronium/bigfloat"
)

// Values maps parameter names to their bound values.
type Values map[string]*big.Float

// Names returns the bound names in sorted order.
func (v Values) Names() []string {
	r := make([]string, 0, len(v))
	for k := range v {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// Loader evaluates HCL number expressions.
type Loader struct {
	logger *slog.Logger
	prec   uint
	ctx    *hcl.EvalContext
}

// NewLoader creates a loader producing values with prec bits of mantissa.
// A prec of 0 uses 64. A nil logger uses slog.Default.
func NewLoader(logger *slog.Logger, prec uint) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if prec == 0 {
		prec = 64
	}
	one := new(big.Float).SetPrec(prec).SetInt64(1)
	pi := bigfloat.Pi(new(big.Float).SetPrec(prec))
	e := bigfloat.Exp(new(big.Float).SetPrec(prec), one)
	return &Loader{
		logger: logger,
		prec:   prec,
		ctx: &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"pi": cty.NumberVal(pi),
				"e":  cty.NumberVal(e),
			},
		},
	}
}

// Prec returns the precision of values the loader produces.
func (l *Loader) Prec() uint {
	return l.prec
}

// Value evaluates a single expression such as "pi / 2".
func (l *Loader) Value(src string) (*big.Float, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "given", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %q: %w", src, diags)
	}
	return l.eval(src, expr)
}

// Load reads a bindings file.
func (l *Loader) Load(path string) (Values, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings: %w", err)
	}
	return l.Decode(src, path)
}

// Decode evaluates every attribute of an HCL document. filename is used only
// in diagnostics.
func (l *Loader) Decode(src []byte, filename string) (Values, error) {
	l.logger.Debug("Decoding bindings.", "file", filename, "bytes", len(src))
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse bindings file %s: %w", filename, diags)
	}
	attrs, diags := f.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode bindings file %s: %w", filename, diags)
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	r := make(Values, len(attrs))
	for _, name := range names {
		v, err := l.eval(name, attrs[name].Expr)
		if err != nil {
			return nil, err
		}
		r[name] = v
	}
	l.logger.Debug("Decoded bindings.", "file", filename, "count", len(r))
	return r, nil
}

func (l *Loader) eval(name string, expr hcl.Expression) (*big.Float, error) {
	val, diags := expr.Value(l.ctx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate %s: %w", name, diags)
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.Number) {
		return nil, &TypeError{Name: name, Type: val.Type().FriendlyName()}
	}
	r := new(big.Float).SetPrec(l.prec).Set(val.AsBigFloat())
	l.logger.Debug("Evaluated binding.", "name", name, "value", r.Text('g', 10))
	return r, nil
}

// TypeError is an error resulting from a binding that is not a number.
type TypeError struct {
	// Name is the attribute name, or the source text for a single value.
	Name string
	// Type is the HCL type name of the value.
	Type string
}

func (err *TypeError) Error() string {
	return fmt.Sprintf("binding %s is %s, not number", err.Name, err.Type)
}
