package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/zephyrtronium/decexpr"
	"github.com/zephyrtronium/decexpr/log"
)

// EngineConfig holds the flags that set up the evaluation engine.
type EngineConfig struct {
	Precision int      `help:"Significant digits for division, remainder, powers, and literals." placeholder:"DIGITS"    short:"p"`
	Rounding  string   `enum:",${roundingEnum}" default:"" help:"Rounding mode for lossy operations."  placeholder:"MODE"       short:"r"`
	Define    []string `help:"Define a variable as the value of an expression. Repeatable."          placeholder:"NAME=EXPR" short:"D" sep:"none"`
	Defs      string   `help:"YAML file of precision, rounding, and variable definitions."           placeholder:"FILE"      type:"existingfile"`
}

// Engine creates an engine configured by the definitions file, then the
// precision and rounding flags, then each --define in order.
func (c *EngineConfig) Engine(ctx context.Context) (*decexpr.Engine, error) {
	eng := decexpr.New(decexpr.WithLogger(log.Default()))

	if c.Defs != "" {
		if err := c.loadDefs(ctx, eng); err != nil {
			return nil, err
		}
	}

	if err := configure(eng, c.Precision, c.Rounding); err != nil {
		return nil, err
	}

	for _, def := range c.Define {
		name, src, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !ok || !isName(name) {
			return nil, ErrDefine.With(slog.String("define", def)).
				Wrap(errNotAssignment)
		}

		v, err := eng.Evaluate(src)
		if err != nil {
			return nil, ErrDefine.With(slog.String("name", name)).Wrap(err)
		}

		eng.Define(name, v)
	}

	return eng, nil
}

func (c *EngineConfig) loadDefs(ctx context.Context, eng *decexpr.Engine) error {
	f, err := os.Open(c.Defs)
	if err != nil {
		return ErrDefs.Wrap(err)
	}
	defer f.Close()

	d, err := ReadDefs(ctx, f)
	if err != nil {
		return ErrDefs.With(slog.String("file", c.Defs)).Wrap(err)
	}

	if err := configure(eng, d.Precision, d.Rounding); err != nil {
		return err
	}

	// Sorted for deterministic logs and errors.
	names := make([]string, 0, len(d.Vars))
	for name := range d.Vars {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		text, err := literal(d.Vars[name])
		if err == nil {
			err = eng.DefineString(name, text)
		}

		if err != nil {
			return ErrDefs.With(
				slog.String("file", c.Defs),
				slog.String("name", name),
			).Wrap(err)
		}
	}

	log.DebugContext(ctx, "loaded definitions",
		slog.String("file", c.Defs),
		slog.Int("vars", len(names)),
	)

	return nil
}

// configure sets precision and rounding where given. Zero digits and an
// empty mode leave the current setting.
func configure(eng *decexpr.Engine, digits int, rounding string) error {
	if digits != 0 {
		if err := eng.SetPrecision(digits); err != nil {
			return ErrPrecision.Wrap(err)
		}
	}

	if rounding != "" {
		r, err := decexpr.ParseRounding(rounding)
		if err != nil {
			return ErrRounding.Wrap(err)
		}

		eng.SetRounding(r)
	}

	return nil
}

// isName reports whether s is a variable name.
func isName(s string) bool {
	x, err := decexpr.Parse(s)

	return err == nil && len(x.Vars()) == 1 && x.String() == "("+s+")"
}

var errNotAssignment = NewError(`want "name=expression"`)
