// Package drill walks a user through a script of commands to type.
//
// Each step shows a description and the command, then prompts until the
// user enters exactly that command, and finally prints the step's simulated
// output.
package drill

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/archtry/archtry/term"
)

// ErrAborted is returned by Run when the input ends before the script does.
var ErrAborted = errors.New("drill: input ended")

// A LineReader reads one line of user input after showing a prompt.
// *term.Reader is one.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type styles struct {
	header  lipgloss.Style
	hint    lipgloss.Style
	command lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	user    lipgloss.Style
	home    lipgloss.Style
	root    lipgloss.Style
}

func newStyles(out io.Writer) styles {
	re := lipgloss.NewRenderer(out)
	return styles{
		header:  re.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		hint:    re.NewStyle().Foreground(lipgloss.Color("12")),
		command: re.NewStyle().Foreground(lipgloss.Color("14")),
		success: re.NewStyle().Foreground(lipgloss.Color("10")),
		failure: re.NewStyle().Foreground(lipgloss.Color("9")),
		user:    re.NewStyle().Foreground(lipgloss.Color("9")),
		home:    re.NewStyle().Foreground(lipgloss.Color("10")),
		root:    re.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// Runner runs scripts.
type Runner struct {
	in    LineReader
	out   io.Writer
	style styles
	pause time.Duration
	width int
	log   *slog.Logger
}

// An Option configures a Runner.
type Option func(*Runner)

// WithPause sets the delay after each line of simulated output.
func WithPause(d time.Duration) Option {
	return func(r *Runner) { r.pause = d }
}

// WithWidth sets the minimum width of the title banner.
func WithWidth(n int) Option {
	return func(r *Runner) { r.width = n }
}

// WithLogger sets the logger for progress events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner returns a Runner prompting through in and narrating to out.
func NewRunner(in LineReader, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		in:    in,
		out:   out,
		style: newStyles(out),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run takes the user through every step of s in order.  It returns
// ErrAborted if the input ends first, and any other error from the
// LineReader as is.
func (r *Runner) Run(s *Script) error {
	if s.Title != "" {
		if err := term.Box(r.out, term.FancyBorder, r.width, r.style.header.Render(s.Title)); err != nil {
			return err
		}
	}

	section := ""
	for i, st := range s.Steps {
		if st.Section != "" && st.Section != section {
			section = st.Section
			fmt.Fprintf(r.out, "\n%s\n", r.style.header.Render(section+"..."))
		}
		r.log.Debug("step started", "step", i+1, "command", st.Command)
		if err := r.step(st); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.out, "\n%s\n", r.style.success.Render("Installation completed successfully."))
	return nil
}

// step prompts until st.Command is entered.
func (r *Runner) step(st Step) error {
	fmt.Fprintf(r.out, "\n# %s\n", r.style.hint.Render(st.Description))
	fmt.Fprintf(r.out, "[hint] type: %s\n", r.style.command.Render(st.Command))

	prompt := r.prompt(st.Chroot)
	for attempt := 1; ; attempt++ {
		line, err := r.in.ReadLine(prompt)
		if errors.Is(err, io.EOF) {
			return ErrAborted
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == st.Command {
			r.log.Debug("step done", "command", st.Command, "attempts", attempt)
			break
		}
		r.log.Debug("wrong command", "want", st.Command, "got", line)
		fmt.Fprintln(r.out, r.style.failure.Render("Error: Invalid command. Try again."))
	}

	for _, line := range st.Output {
		fmt.Fprintln(r.out, line)
		time.Sleep(r.pause)
	}
	return nil
}

// prompt returns the shell prompt for the live system or for a chroot.
func (r *Runner) prompt(chroot bool) string {
	if chroot {
		return r.style.user.Render("root") + ":" + r.style.root.Render("/") + " # "
	}
	return r.style.user.Render("root") + "@archiso " + r.style.home.Render("~") + " # "
}
