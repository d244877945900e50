package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/archtry/archtry/history"
)

// IOError reports a failure of the terminal or the history log.  Op names
// the step that failed.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return "term: " + e.Op + ": " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// A Reader reads edited lines from a terminal.
//
// Only one ReadLine call may be in progress on a terminal at a time.
type Reader struct {
	in      io.Reader
	out     Flusher
	modes   Modes
	history history.Store
	log     *slog.Logger
}

// An Option configures a Reader.
type Option func(*Reader)

// WithModes sets how the terminal is put into and out of raw mode.  The
// default leaves the terminal alone.
func WithModes(m Modes) Option {
	return func(r *Reader) { r.modes = m }
}

// WithHistory sets where history is loaded from and accepted lines go.  The
// default is an empty in-memory store.
func WithHistory(s history.Store) Option {
	return func(r *Reader) { r.history = s }
}

// WithLogger sets the logger for session events.  The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) { r.log = l }
}

// NewReader returns a Reader editing bytes from in and painting to out.  If
// out does not buffer (see Flusher) it is wrapped in a bufio.Writer.
func NewReader(in io.Reader, out io.Writer, opts ...Option) *Reader {
	r := &Reader{
		in:      in,
		modes:   NopModes(),
		history: history.NewMemory(),
		log:     slog.Default(),
	}
	if f, ok := out.(Flusher); ok {
		r.out = f
	} else {
		r.out = bufio.NewWriter(out)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadLine shows prompt and returns the line the user enters, without the
// line terminator.  The line is appended to the history unless it is empty.
//
// If the input ends before a line terminator, ReadLine returns what was
// typed so far together with io.EOF.  Terminal and history failures are
// returned as *IOError.  The terminal is restored before ReadLine returns in
// every case; a failure to do so is joined to the returned error, and the
// line is still returned.
func (r *Reader) ReadLine(prompt string) (line string, err error) {
	h, err := r.modes.Acquire()
	if err != nil {
		return "", &IOError{Op: "acquire terminal", Err: err}
	}
	r.log.Debug("terminal acquired", "settings", h)
	defer func() {
		if rerr := h.Restore(); rerr != nil {
			r.log.Warn("terminal restore failed", "error", rerr)
			err = errors.Join(err, &IOError{Op: "restore terminal", Err: rerr})
		}
	}()

	past, err := r.history.Load()
	if err != nil {
		return "", &IOError{Op: "load history", Err: err}
	}

	s := newSession(past)
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", &IOError{Op: "write", Err: err}
	}
	if err := r.out.Flush(); err != nil {
		return "", &IOError{Op: "flush", Err: err}
	}

	for {
		ch, err := r.readByte()
		if err == io.EOF {
			r.log.Debug("input ended", "line", s.String())
			return s.String(), io.EOF
		} else if err != nil {
			return s.String(), &IOError{Op: "read", Err: err}
		}

		var changed bool
		switch ch {
		case CR, LF:
			return r.accept(s)
		case ESC:
			seq, ok, err := r.readEscape()
			if err == io.EOF {
				return s.String(), io.EOF
			} else if err != nil {
				return s.String(), &IOError{Op: "read", Err: err}
			}
			if !ok {
				continue
			}
			changed = s.lineesc(seq)
		default:
			changed = s.linechar(ch)
		}

		if changed {
			if err := Redraw(r.out, prompt, s.buf, s.cursor); err != nil {
				return s.String(), &IOError{Op: "redraw", Err: err}
			}
		}
	}
}

// accept finishes the session on a line terminator.
func (r *Reader) accept(s *session) (string, error) {
	line := s.String()
	if line != "" {
		if err := r.history.Append(line); err != nil {
			return line, &IOError{Op: "append history", Err: err}
		}
	}
	r.log.Debug("line accepted", "line", line)

	if _, err := io.WriteString(r.out, "\n"); err != nil {
		return line, &IOError{Op: "write", Err: err}
	}
	if err := r.out.Flush(); err != nil {
		return line, &IOError{Op: "flush", Err: err}
	}
	return line, nil
}

// readByte blocks until one byte of input is available.
func (r *Reader) readByte() (byte, error) {
	var b [1]byte
	for {
		n, err := r.in.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// readEscape makes a single read for the two bytes following an ESC.  If
// fewer arrive the sequence is abandoned (ok is false) and whatever was read
// is dropped.
func (r *Reader) readEscape() (seq [2]byte, ok bool, err error) {
	n, err := r.in.Read(seq[:])
	switch {
	case n == len(seq):
		return seq, true, nil
	case err == io.EOF && n == 0:
		return seq, false, io.EOF
	case err != nil && err != io.EOF:
		return seq, false, err
	}
	r.log.Debug("partial escape sequence dropped", "bytes", fmt.Sprintf("%q", seq[:n]))
	return seq, false, nil
}
