// Command exprgraph parses and evaluates arithmetic expressions.
//
// Expressions come from command-line arguments, or from a file or standard
// input when there are none. Parameter values are given with -given or read
// from an HCL bindings file:
//
//	exprgraph -given x=2 -given 'y=pi/2' '(x + 2) * y'
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/zephyrtronium/exprgraph"
	"github.com/zephyrtronium/exprgraph/internal/bindings"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type config struct {
	in       string
	verb     string
	given    [][2]string
	bindings string
	prec     int
	nl       bool
	echo     bool
	maxDepth int
	shared   bool
	verbose  bool
	exprs    []string
}

func parseFlags(out io.Writer, args []string) (*config, error) {
	var cfg config
	fs := flag.NewFlagSet("exprgraph", flag.ContinueOnError)
	fs.SetOutput(out)
	addgiven := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		cfg.given = append(cfg.given, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	fs.StringVar(&cfg.in, "in", "", "input file (default stdin if no args given)")
	fs.StringVar(&cfg.verb, "fmt", "%g", "result formatting string")
	fs.Func("given", "name=value variable definition (any number of times)", addgiven)
	fs.StringVar(&cfg.bindings, "bindings", "", "HCL file of name = value variable definitions")
	fs.IntVar(&cfg.prec, "p", 0, "precision of calculations in bits (0 for float64)")
	fs.BoolVar(&cfg.nl, "n", false, "parse separate input lines as separate expressions")
	fs.BoolVar(&cfg.echo, "echo", false, "print parse trees")
	fs.IntVar(&cfg.maxDepth, "max-depth", 0, "reject expressions nested deeper than this (0 for no limit)")
	fs.BoolVar(&cfg.shared, "shared", false, "evaluate shared subexpressions once")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.prec < 0 {
		return nil, fmt.Errorf("precision (%d) must not be negative", cfg.prec)
	}
	if cfg.maxDepth < 0 {
		return nil, fmt.Errorf("max depth (%d) must not be negative", cfg.maxDepth)
	}
	cfg.exprs = fs.Args()
	return &cfg, nil
}

func run(stdin io.Reader, out, errw io.Writer, args []string) error {
	cfg, err := parseFlags(out, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	// The logger goes to errw so that it follows the command's own output.
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errw, &slog.HandlerOptions{Level: level}))

	vals, err := loadValues(logger, cfg)
	if err != nil {
		return err
	}
	names := vals.Names()
	indexes := make(map[string]uint32, len(names))
	for i, name := range names {
		indexes[name] = uint32(i)
	}

	opts := []exprgraph.ParseOption{exprgraph.ParamIndexes(indexes)}
	if cfg.nl {
		opts = append(opts, exprgraph.StopOn('\n'))
	}
	ins, err := inputs(stdin, cfg)
	if err != nil {
		return err
	}
	var p []exprgraph.Expr
	for _, in := range ins {
		for {
			if err := skipSpace(in); err != nil {
				if err == io.EOF {
					break
				}
				return err
			}
			e, err := exprgraph.Parse(in, opts...)
			if err != nil {
				return err
			}
			logger.Debug("Parsed expression.", "id", e.ID(), "depth", e.Depth())
			p = append(p, e)
		}
	}

	var evalopts []exprgraph.EvalOption
	if cfg.maxDepth > 0 {
		evalopts = append(evalopts, exprgraph.MaxDepth(cfg.maxDepth))
	}
	if cfg.shared {
		evalopts = append(evalopts, exprgraph.ShareResults())
	}
	eval := newEval(uint(cfg.prec), vals, indexes, evalopts)

	verb := cfg.verb + "\n"
	for _, e := range p {
		if cfg.echo {
			fmt.Fprintf(out, "%v : ", e)
		}
		r, err := eval(e)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, verb, r)
	}
	return nil
}

// newEval creates the evaluation function for the requested precision.
func newEval(prec uint, vals bindings.Values, indexes map[string]uint32, opts []exprgraph.EvalOption) func(exprgraph.Expr) (any, error) {
	if prec == 0 {
		ev := exprgraph.NewEvaluator(opts...)
		for name, v := range vals {
			f, _ := v.Float64()
			ev.Set(indexes[name], f)
		}
		return func(e exprgraph.Expr) (any, error) { return ev.Eval(e) }
	}
	ev := exprgraph.NewBigEvaluator(prec, opts...)
	for name, v := range vals {
		ev.Set(indexes[name], v)
	}
	return func(e exprgraph.Expr) (any, error) {
		r, err := ev.Eval(e)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// loadValues reads the bindings file, if any, then applies -given
// definitions over it.
func loadValues(logger *slog.Logger, cfg *config) (bindings.Values, error) {
	prec := uint(cfg.prec)
	if prec == 0 {
		prec = 64
	}
	l := bindings.NewLoader(logger, prec)
	vals := make(bindings.Values)
	if cfg.bindings != "" {
		v, err := l.Load(cfg.bindings)
		if err != nil {
			return nil, err
		}
		vals = v
	}
	for _, d := range cfg.given {
		v, err := l.Value(d[1])
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", d[0], err)
		}
		logger.Debug("Set variable.", "name", d[0])
		vals[d[0]] = v
	}
	return vals, nil
}

func inputs(stdin io.Reader, cfg *config) ([]io.RuneScanner, error) {
	var ins []io.RuneScanner
	switch {
	case cfg.in != "" && cfg.in != "-":
		f, err := os.ReadFile(cfg.in)
		if err != nil {
			return nil, err
		}
		ins = append(ins, strings.NewReader(string(f)))
	case cfg.in == "-", len(cfg.exprs) == 0:
		ins = append(ins, bufio.NewReader(stdin))
	}
	for _, arg := range cfg.exprs {
		ins = append(ins, strings.NewReader(arg))
	}
	return ins, nil
}

// skipSpace consumes leading whitespace. It returns io.EOF if nothing else
// remains.
func skipSpace(in io.RuneScanner) error {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return in.UnreadRune()
		}
	}
}
