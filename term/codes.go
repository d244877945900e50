package term

import "strconv"

// Terminal Control Codes
const (
	NUL = iota
	SOH // Start of Header
	STX // Start of Text
	ETX // End of Text
	EOT // End of Transmission
	ENQ // Enquire
	ACK // Acknowledge
	BEL // Bell
	BS  // Backspace
	TAB // Horizontal tab
	LF  // Line feed
	VT  // Vertical tab
	FF  // Form feed
	CR  // Carriage return
	SO  // Shift out
	SI  // Shift in
	DLE // Data link escape
	DC1 // Device Control 1
	DC2 // Device Control 2
	DC3 // Device Control 3
	DC4 // Device Control 4
	NAK // Negative Acknowledge
	SYN // Synchronize
	ETB // End Transmission Block
	CAN // CANCEL
	EM  // End of Medium
	SUB // Substitute
	ESC // Escape
	FS  // File separator
	GS  // Group separator
	RS  // Record separator
	US  // Unit separator

	DEL = 0x7f // Delete, sent by the backspace key
)

// Final bytes of the CSI sequences sent by the arrow keys (ESC [ x).
const (
	KeyUp    = 'A'
	KeyDown  = 'B'
	KeyRight = 'C'
	KeyLeft  = 'D'
)

// Output sequences.
const (
	EraseLine   = "\x1b[K"  // erase from the cursor to the end of the line
	ClearScreen = "\x1b[2J" // erase the whole screen
)

// CursorForward returns the sequence moving the cursor n columns right.
func CursorForward(n int) string {
	return "\x1b[" + strconv.Itoa(n) + "C"
}

// CursorPosition returns the sequence placing the cursor at the given
// zero-based column x and row y.
func CursorPosition(x, y int) string {
	return "\x1b[" + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}
