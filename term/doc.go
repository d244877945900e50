// Package term reads lines of user input from a terminal in raw mode.
//
// A Reader owns the terminal for the duration of one ReadLine call.  It
// switches the device out of canonical mode, feeds every byte typed through
// a small line editor, and repaints the prompt and line after each change.
// The device settings are put back however the call ends.
//
// Line editing capabilities
//
// Printable ASCII is inserted at the cursor and DEL (the backspace key)
// removes the character before it.  The left and right arrows move the
// cursor within the line.  Return or newline accepts the line.  Any other
// control character is ignored, as is an escape sequence which is cut short.
//
// Line history
//
// Lines accepted in earlier sessions are loaded from a history.Store when
// the call begins.  The up arrow steps back through them and the down arrow
// steps forward again; stepping past the newest entry brings back whatever
// was being typed before browsing started.  Every non-empty accepted line is
// appended to the store.
//
// Prompts
//
// The prompt may contain SGR styling (ESC ... m).  Those spans take up no
// room on screen and are left out when positioning the cursor; no other
// escape sequences are understood in a prompt.
//
// Example
//
// The following example reads commands until the input ends.
//
//   r := term.NewReader(os.Stdin, os.Stdout,
//       term.WithModes(term.DeviceModes(int(os.Stdin.Fd()))),
//       term.WithHistory(history.NewFile(history.DefaultPath)))
//
//   for {
//       line, err := r.ReadLine("> ")
//       if errors.Is(err, io.EOF) {
//           return
//       } else if err != nil {
//           log.Fatalf("read: %s", err)
//       }
//       runCommand(line)
//   }
package term
