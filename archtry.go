// archtry
//
// It is a drill for installing Arch Linux, built on the line editor in the
// "archtry/term" package.  Each step describes a command and waits until it
// is typed exactly.  Try typing a command and then hitting the up key at the
// next prompt.  Try editing a previous line and hitting enter.
//
// Press ^D at a prompt to stop.  Commands accepted in earlier runs are kept
// in the history log (see --history) and can be recalled with the arrow keys.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	isatty "github.com/mattn/go-isatty"

	"github.com/archtry/archtry/drill"
	"github.com/archtry/archtry/history"
	"github.com/archtry/archtry/term"
	"github.com/archtry/archtry/termios"
)

var version = "0.1.0"

// maxBanner caps the width of the drill banner.
const maxBanner = 72

var cli struct {
	Config    string `help:"Config file to read instead of ~/.config/archtry/conf.toml." type:"path"`
	Debug     bool   `help:"Enable debug logging."`
	History   string `help:"History log to recall from and append to." type:"path"`
	NoHistory bool   `help:"Neither read nor write the history log."`

	Drill   drillCmd   `cmd:"" default:"withargs" help:"Walk through an installation drill (default)."`
	Echo    echoCmd    `cmd:"" help:"Read lines and print them back until 'quit'."`
	Version versionCmd `cmd:"" help:"Print version information."`
}

// app holds what every command shares.
type app struct {
	cfg         *Config
	in          *os.File
	out         io.Writer
	interactive bool
	reader      *term.Reader
}

func newApp(cfg *Config) *app {
	a := &app{
		cfg:         cfg,
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()),
	}

	// Piped input is edited the same way, just without touching the tty.
	modes := term.NopModes()
	if a.interactive {
		modes = term.DeviceModes(int(a.in.Fd()))
	}

	var store history.Store = history.NewMemory()
	if cfg.History.Enabled {
		f := history.NewFile(cfg.History.Path)
		slog.Debug("history log", "path", f.Path())
		store = f
	} else {
		slog.Debug("history log disabled")
	}

	a.reader = term.NewReader(a.in, a.out,
		term.WithModes(modes),
		term.WithHistory(store),
		term.WithLogger(slog.Default()))
	return a
}

// bannerWidth fits the banner to the terminal, if there is one.
func (a *app) bannerWidth() int {
	if !a.interactive {
		return 0
	}
	tio, err := termios.NewTermSettings(int(a.in.Fd()))
	if err != nil {
		slog.Debug("terminal settings unavailable", "error", err)
		return 0
	}
	width, height, err := tio.GetSize()
	if err != nil {
		slog.Debug("terminal size unavailable", "error", err)
		return 0
	}
	slog.Debug("terminal size", "width", width, "height", height)
	return min(width, maxBanner)
}

type drillCmd struct {
	Script string `arg:"" optional:"" help:"TOML script to run instead of the built-in one." type:"existingfile"`
}

func (c *drillCmd) Run(a *app) error {
	path := c.Script
	if path == "" {
		path = a.cfg.Drill.Script
	}

	var (
		script *drill.Script
		err    error
	)
	if path != "" {
		script, err = drill.Load(path)
	} else {
		script, err = drill.Default()
	}
	if err != nil {
		return err
	}
	slog.Info("drill started", "script", path, "steps", len(script.Steps))

	if a.interactive {
		if err := term.Clear(a.out); err != nil {
			return err
		}
	}

	runner := drill.NewRunner(a.reader, a.out,
		drill.WithPause(a.cfg.Drill.Pause),
		drill.WithWidth(a.bannerWidth()),
		drill.WithLogger(slog.Default()))
	switch err := runner.Run(script); {
	case errors.Is(err, drill.ErrAborted):
		slog.Info("drill abandoned")
		io.WriteString(a.out, "\nGoodbye!\n")
		return nil
	case err != nil:
		return err
	}
	slog.Info("drill finished")
	return nil
}

type echoCmd struct{}

func (echoCmd) Run(a *app) error {
	for {
		line, err := a.reader.ReadLine("> ")
		if errors.Is(err, io.EOF) || (err == nil && line == "quit") {
			io.WriteString(a.out, "Goodbye!\n")
			return nil
		} else if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "read: %q\n", line)
	}
}

type versionCmd struct{}

func (versionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "archtry v%s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("archtry"),
		kong.Description("Practice the commands of an Arch Linux installation."),
		kong.UsageOnError())

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "archtry: %s\n", err)
		os.Exit(1)
	}
	if cli.History != "" {
		cfg.History.Path = cli.History
	}
	if cli.NoHistory {
		cfg.History.Enabled = false
	}

	closeLog, err := initLogger(cfg.Logging, cli.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "archtry: %s\n", err)
		os.Exit(1)
	}

	err = ctx.Run(newApp(cfg))
	if err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
	}
	closeLog()
	ctx.FatalIfErrorf(err)
}
