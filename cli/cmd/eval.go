package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/zephyrtronium/decexpr"
	"github.com/zephyrtronium/decexpr/log"
)

// Eval evaluates expressions from arguments, a file, or standard input.
type Eval struct {
	EngineConfig `embed:""`

	Exprs     []string `arg:""        help:"Expressions to evaluate. With none, read standard input."        optional:""`
	File      string   `help:"Read one expression per line from a file, or '-' for stdin."                 short:"f" type:"path"`
	Echo      bool     `help:"Print each parse tree before its result."`
	Raw       bool     `help:"Print exact results instead of rounding them for display."`
	KeepGoing bool     `help:"Print failures in place of results and continue."                            short:"k"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, ktx *kong.Context, stdin io.Reader) error {
	eng, err := e.Engine(ctx)
	if err != nil {
		return err
	}

	failed := 0
	do := func(src string, line int) error {
		if err := e.eval(eng, ktx.Stdout, src); err != nil {
			werr := ErrEval.With(
				slog.String("expr", src),
				slog.Int("line", line),
			).Wrap(err)
			if !e.KeepGoing {
				if e.Echo {
					fmt.Fprintln(ktx.Stdout)
				}

				return werr
			}

			failed++
			fmt.Fprintln(ktx.Stdout, err.Error())
			log.DebugContext(ctx, "expression failed", slog.Any("error", werr))
		}

		return ctx.Err()
	}

	for i, src := range e.Exprs {
		if err := do(src, i+1); err != nil {
			return err
		}
	}

	if err := e.lines(ctx, stdin, do); err != nil {
		return err
	}

	if failed > 0 {
		return ErrFailed.With(slog.Int("count", failed))
	}

	return nil
}

// lines calls do for each expression line of the input file. Blank lines
// and lines starting with # are skipped.
func (e *Eval) lines(
	ctx context.Context,
	stdin io.Reader,
	do func(src string, line int) error,
) error {
	var r io.Reader

	switch {
	case e.File != "" && e.File != "-":
		f, err := os.Open(e.File)
		if err != nil {
			return ErrRead.Wrap(err)
		}
		defer f.Close()

		r = f

	case e.File == "-", len(e.Exprs) == 0:
		r = stdin

	default:
		return nil
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	sc := bufio.NewScanner(ra)
	for n := 1; sc.Scan(); n++ {
		src := strings.TrimSpace(sc.Text())
		if src == "" || strings.HasPrefix(src, "#") {
			continue
		}

		if err := do(src, n); err != nil {
			return err
		}
	}

	if err := sc.Err(); err != nil {
		return ErrRead.With(slog.String("file", e.File)).Wrap(err)
	}

	log.TraceContext(ctx, "read expressions", slog.String("file", e.File))

	return nil
}

func (e *Eval) eval(eng *decexpr.Engine, w io.Writer, src string) error {
	x, err := eng.Parse(src)
	if err != nil {
		return err
	}

	if e.Echo {
		fmt.Fprintf(w, "%v : ", x)
	}

	v, err := eng.Context().Eval(x)
	if err != nil {
		return err
	}

	if e.Raw {
		fmt.Fprintln(w, v.String())
	} else {
		fmt.Fprintln(w, decexpr.Display(eng.Precision(), v))
	}

	return nil
}
