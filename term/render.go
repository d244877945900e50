package term

import (
	"fmt"
	"io"
)

// A Flusher is an output stream which holds writes until flushed, like a
// bufio.Writer.
type Flusher interface {
	io.Writer
	Flush() error
}

// VisibleLength returns the number of terminal cells s occupies.  An ESC
// starts a styling span which ends with the next 'm' and takes no room;
// every other rune counts as one cell.
func VisibleLength(s string) int {
	n := 0
	styling := false
	for _, r := range s {
		switch {
		case r == ESC:
			styling = true
		case styling:
			if r == 'm' {
				styling = false
			}
		default:
			n++
		}
	}
	return n
}

// Redraw repaints prompt and line over the current terminal line and leaves
// the cursor after the first cursor runes of line.  The whole line is
// written every time.
func Redraw(w Flusher, prompt string, line []rune, cursor int) error {
	if _, err := fmt.Fprintf(w, "\r%s%s%s\r", EraseLine, prompt, string(line)); err != nil {
		return err
	}
	// A zero count means one column to most terminals.
	if pos := VisibleLength(prompt) + cursor; pos > 0 {
		if _, err := io.WriteString(w, CursorForward(pos)); err != nil {
			return err
		}
	}
	return w.Flush()
}
