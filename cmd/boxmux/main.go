// Command boxmux renders a config-driven tree of rectangular boxes in
// the terminal, refreshing each on its own cadence by running shell
// commands and dispatching keyboard input to the focused box.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/jowharshamshiri/boxmux/internal/applog"
	"github.com/jowharshamshiri/boxmux/internal/config"
	"github.com/jowharshamshiri/boxmux/internal/config/yamlsource"
	"github.com/jowharshamshiri/boxmux/internal/dispatch"
	"github.com/jowharshamshiri/boxmux/internal/render"
	"github.com/jowharshamshiri/boxmux/internal/runner"
	"github.com/jowharshamshiri/boxmux/internal/scheduler"
	"github.com/jowharshamshiri/boxmux/internal/store"
	"github.com/jowharshamshiri/boxmux/internal/supervisor"
	"github.com/jowharshamshiri/boxmux/internal/terminal"
)

// CLI is the top-level command structure.
type CLI struct {
	LogLevel    string         `help:"Log level (debug, info, warn, error)." default:"info" name:"log-level"`
	StartLayout StartLayoutCmd `cmd:"" help:"Enter the event loop for a named layout." name:"start-layout"`
}

// StartLayoutCmd enters the event loop for a named layout (§6,
// "start_layout <layout_id>").
type StartLayoutCmd struct {
	LayoutID string `arg:"" help:"The layout id to start (its root box id)."`
	Config   string `help:"Path to the layout configuration file." default:"./boxmux.yml"`
}

// logLevelArg carries CLI.LogLevel into StartLayoutCmd.Run via
// kong's context-bound argument injection.
type logLevelArg string

func (cmd *StartLayoutCmd) Run(logLevel logLevelArg) error {
	log := applog.New(string(logLevel))

	s := store.New()
	loader := config.New(yamlsource.Source{}, s)
	term := terminal.New()
	engine := render.New(term)
	sch := scheduler.New(s)
	run := runner.ShellRunner{Timeout: runner.DefaultTimeout}
	disp := dispatch.New(s, run, log)

	sp := supervisor.New(term, s, loader, engine, sch, disp, log)
	return sp.Run(cmd.Config, cmd.LayoutID)
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("boxmux"),
		kong.Description("A declarative terminal UI engine."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boxmux: %v\n", err)
		os.Exit(2)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx.Bind(logLevelArg(cli.LogLevel))

	err = ctx.Run()
	if err == nil {
		os.Exit(0)
	}

	var loadErr *config.LoadError
	var exitErr *supervisor.ExitError
	switch {
	case errors.As(err, &loadErr):
		fmt.Fprintln(os.Stderr, loadErr)
		os.Exit(1)
	case errors.As(err, &exitErr):
		fmt.Fprintln(os.Stderr, exitErr)
		os.Exit(exitErr.Code)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
