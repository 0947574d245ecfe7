package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/zephyrtronium/decexpr"
	"github.com/zephyrtronium/decexpr/cli/cmd"
)

const (
	// Name is the name of the executable.
	Name = "decexpr"
	// Description is the summary shown in help output.
	Description = "Evaluate arithmetic expressions in exact decimal."
	// EnvPrefix prefixes the environment variable for each flag.
	EnvPrefix = "DECEXPR"
)

// CLI is the top-level command-line interface for decexpr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
}

// Run executes the decexpr CLI with the standard streams.
// The exit function is called with the appropriate exit code when kong
// terminates early, e.g. after printing help.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	return run(ctx, exit, os.Stdin, os.Stdout, os.Stderr, args)
}

func run(
	ctx context.Context,
	exit func(code int),
	stdin io.Reader,
	stdout, stderr io.Writer,
	args []string,
) error {
	var cli CLI

	vars := kong.Vars{
		"roundingEnum": strings.Join(decexpr.Roundings(), ","),
		"historyFile":  historyPath(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Log flags are applied before parsing so that parse errors are logged
	// the way the user asked.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(Name),
		kong.Description(Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(EnvPrefix),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.BindTo(stdin, (*io.Reader)(nil)),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
