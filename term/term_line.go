// Copyright 2013 Google, Inc.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package term

// session is the editing state of one ReadLine call.
//
// Invariants:
// - 0 <= cursor <= len(buf)
// - 0 <= index <= len(history); index == len(history) is the live line
type session struct {
	buf    []rune
	cursor int

	history []string
	index   int
	saved   []rune
}

func newSession(history []string) *session {
	return &session{
		history: history,
		index:   len(history),
	}
}

func (s *session) String() string { return string(s.buf) }

// linechar processes a single byte which is neither a line terminator nor the
// start of an escape sequence.  It reports whether the line changed and needs
// to be redrawn.
//
// DEL removes the character before the cursor; printable ASCII is inserted at
// the cursor.  Anything else is ignored.
func (s *session) linechar(ch byte) bool {
	switch {
	case ch == DEL:
		if s.cursor == 0 {
			return false
		}
		s.buf = append(s.buf[:s.cursor-1], s.buf[s.cursor:]...)
		s.cursor--
		return true
	case ch >= ' ' && ch <= '~':
		s.buf = append(s.buf, 0)
		copy(s.buf[s.cursor+1:], s.buf[s.cursor:])
		s.buf[s.cursor] = rune(ch)
		s.cursor++
		return true
	}
	return false
}

// lineesc processes the two bytes following an ESC.  Only the CSI arrow keys
// are known:
//   A - Up    (older history entry)
//   B - Down  (newer history entry, then the live line)
//   C - Right
//   D - Left
// Everything else is dropped.  It reports whether the line needs to be
// redrawn.
func (s *session) lineesc(seq [2]byte) bool {
	if seq[0] != '[' {
		return false
	}
	switch seq[1] {
	case KeyUp:
		return s.hprev()
	case KeyDown:
		return s.hnext()
	case KeyRight:
		if s.cursor >= len(s.buf) {
			return false
		}
		s.cursor++
		return true
	case KeyLeft:
		if s.cursor == 0 {
			return false
		}
		s.cursor--
		return true
	}
	return false
}

// hprev (history previous) replaces the line with the next older history
// entry.  Leaving the live line stashes it in saved first.  At the oldest
// entry the line is reloaded unchanged.
func (s *session) hprev() bool {
	if len(s.history) == 0 {
		return false
	}
	if s.index == len(s.history) {
		s.saved = s.buf
		s.index = len(s.history) - 1
	} else if s.index > 0 {
		s.index--
	}
	s.load([]rune(s.history[s.index]))
	return true
}

// hnext (history next) replaces the line with the next newer history entry,
// or with the stashed live line when stepping past the newest one.  On the
// live line it does nothing.
func (s *session) hnext() bool {
	if len(s.history) == 0 {
		return false
	}
	switch last := len(s.history) - 1; {
	case s.index < last:
		s.index++
		s.load([]rune(s.history[s.index]))
	case s.index == last:
		s.index = len(s.history)
		s.load(s.saved)
		s.saved = nil
	default:
		return false
	}
	return true
}

// load replaces the line with text and puts the cursor at its end.
func (s *session) load(text []rune) {
	s.buf = append([]rune(nil), text...)
	s.cursor = len(s.buf)
}
