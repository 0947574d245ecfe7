package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/decexpr"
	"github.com/zephyrtronium/decexpr/log"
)

const prompt = "> "

// Repl evaluates expressions interactively.
type Repl struct {
	EngineConfig `embed:""`

	History string `default:"${historyFile}" help:"History file. Empty disables history." type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, ktx *kong.Context) error {
	eng, err := r.Engine(ctx)
	if err != nil {
		return err
	}

	s := newSession(eng, ktx.Stdout)

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetTabCompletionStyle(liner.TabPrints)
	ln.SetWordCompleter(s.complete)

	r.readHistory(ctx, ln)
	defer r.writeHistory(ctx, ln)

	fmt.Fprintln(ktx.Stdout, s.style.hint.Render("Type :help for commands, :quit to leave."))

	for ctx.Err() == nil {
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(ktx.Stdout)
			return nil
		case err != nil:
			return ErrRead.Wrap(err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)

		if s.handle(line) {
			return nil
		}
	}

	return ctx.Err()
}

func (r *Repl) readHistory(ctx context.Context, ln *liner.State) {
	if r.History == "" {
		return
	}

	f, err := os.Open(r.History)
	if err != nil {
		return
	}
	defer f.Close()

	n, err := ln.ReadHistory(f)
	log.TraceContext(ctx, "read history",
		slog.String("file", r.History),
		slog.Int("lines", n),
		slog.Any("error", err),
	)
}

func (r *Repl) writeHistory(ctx context.Context, ln *liner.State) {
	if r.History == "" {
		return
	}

	err := os.MkdirAll(filepath.Dir(r.History), 0o700)
	if err == nil {
		var f *os.File
		if f, err = os.Create(r.History); err == nil {
			_, err = ln.WriteHistory(f)
			f.Close()
		}
	}

	if err != nil {
		log.WarnContext(ctx, "history not saved",
			slog.String("file", r.History),
			slog.Any("error", err),
		)
	}
}

type styles struct {
	result lipgloss.Style
	err    lipgloss.Style
	caret  lipgloss.Style
	hint   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		result: r.NewStyle().Foreground(lipgloss.Color("2")),
		err:    r.NewStyle().Foreground(lipgloss.Color("1")),
		caret:  r.NewStyle().Foreground(lipgloss.Color("3")),
		hint:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// session is the state of an interactive session apart from the terminal.
type session struct {
	eng   *decexpr.Engine
	out   io.Writer
	style styles
}

func newSession(eng *decexpr.Engine, out io.Writer) *session {
	return &session{eng: eng, out: out, style: newStyles(out)}
}

// handle runs one line of input and reports whether the session is over.
func (s *session) handle(line string) (quit bool) {
	if cmd, ok := strings.CutPrefix(strings.TrimSpace(line), ":"); ok {
		return s.command(strings.Fields(cmd))
	}

	v, err := s.eng.Evaluate(line)
	if err != nil {
		s.fail(err)
		return false
	}

	fmt.Fprintln(s.out, s.style.result.Render(decexpr.Display(s.eng.Precision(), v)))

	return false
}

// fail reports an evaluation error, pointing at its position in the input
// line or suggesting names close to an undefined one.
func (s *session) fail(err error) {
	var (
		ie decexpr.InputError
		ne *decexpr.NameError
		fe *decexpr.FuncError
	)

	var hint []string

	switch {
	case errors.As(err, &ie):
		pad := strings.Repeat(" ", len(prompt)+ie.Pos()-1)
		fmt.Fprintln(s.out, pad+s.style.caret.Render("^"))
	case errors.As(err, &ne):
		hint = suggest(ne.Name, s.eng.Context().Names())
	case errors.As(err, &fe):
		hint = suggest(fe.Name, s.eng.Context().Funcs())
	}

	fmt.Fprintln(s.out, s.style.err.Render(err.Error()))

	if len(hint) > 0 {
		fmt.Fprintln(s.out, s.style.hint.Render("did you mean "+strings.Join(hint, ", ")+"?"))
	}
}

type command struct {
	name, args, help string
}

var commands = []command{
	{"prec", "[digits]", "show or set the number of significant digits"},
	{"round", "[mode]", "show or set the rounding mode"},
	{"vars", "", "list variables"},
	{"funcs", "", "list functions"},
	{"help", "", "list commands"},
	{"quit", "", "leave the session"},
}

// command runs a colon command and reports whether the session is over.
func (s *session) command(args []string) (quit bool) {
	if len(args) == 0 {
		args = []string{"help"}
	}

	switch name := strings.ToLower(args[0]); name {
	case "prec":
		if len(args) > 1 {
			var digits int
			if _, err := fmt.Sscan(args[1], &digits); err != nil {
				s.fail(ErrPrecision.Wrap(err))
				return false
			}

			if err := s.eng.SetPrecision(digits); err != nil {
				s.fail(err)
				return false
			}
		}

		fmt.Fprintln(s.out, s.eng.Precision().Digits)

	case "round":
		if len(args) > 1 {
			r, err := decexpr.ParseRounding(args[1])
			if err != nil {
				s.fail(err)
				fmt.Fprintln(s.out, s.style.hint.Render("modes: "+strings.Join(decexpr.Roundings(), ", ")))
				return false
			}

			s.eng.SetRounding(r)
		}

		fmt.Fprintln(s.out, s.eng.Precision().Rounding)

	case "vars":
		ctx := s.eng.Context()
		for _, name := range ctx.Names() {
			fmt.Fprintf(s.out, "%s = %s\n", name, decexpr.Display(s.eng.Precision(), ctx.Lookup(name)))
		}

	case "funcs":
		fmt.Fprintln(s.out, strings.Join(s.eng.Context().Funcs(), " "))

	case "help":
		for _, c := range commands {
			fmt.Fprintf(s.out, "  :%-16s %s\n", strings.TrimSpace(c.name+" "+c.args), s.style.hint.Render(c.help))
		}

	case "quit", "q", "exit":
		return true

	default:
		names := make([]string, len(commands))
		for i, c := range commands {
			names[i] = c.name
		}

		fmt.Fprintln(s.out, s.style.err.Render("unknown command :"+name))

		if hint := suggest(name, names); len(hint) > 0 {
			fmt.Fprintln(s.out, s.style.hint.Render("did you mean :"+strings.Join(hint, ", :")+"?"))
		}
	}

	return false
}
