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

import (
	"io"
	"strings"
)

// Clear erases the screen and homes the cursor.
func Clear(w io.Writer) error {
	_, err := io.WriteString(w, ClearScreen+CursorPosition(0, 0))
	return err
}

// Box draws lines inside a border, one space of padding on either side.  The
// box is at least width cells wide.  Styled lines are padded by their
// visible length.
func Box(w io.Writer, border BorderStyle, width int, lines ...string) error {
	if len(border) < borderCount {
		border = SimpleBorder
	}

	inner := max(width-2, 0)
	for _, line := range lines {
		if n := VisibleLength(line) + 2; n > inner {
			inner = n
		}
	}

	var b strings.Builder
	edge := func(left, right rune) {
		b.WriteRune(left)
		b.WriteString(strings.Repeat(string(border[borderHorizontal]), inner))
		b.WriteRune(right)
		b.WriteString("\n")
	}

	edge(border[borderTopLeft], border[borderTopRight])
	for _, line := range lines {
		b.WriteRune(border[borderVertical])
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", inner-1-VisibleLength(line)))
		b.WriteRune(border[borderVertical])
		b.WriteString("\n")
	}
	edge(border[borderBottomLeft], border[borderBottomRight])

	_, err := io.WriteString(w, b.String())
	return err
}

// BorderStyle lists the runes a box is drawn with.
type BorderStyle []rune

var SimpleBorder = BorderStyle{
	'-', '|', // Horizontal, Vertical
	',', '.', // Top: Left, Right
	'`', '\'', // Bottom: Left, Right
}

var FancyBorder = BorderStyle{
	'─', '│', // Horizontal, Vertical
	'┌', '┐', // Top: Left, Right
	'└', '┘', // Bottom: Left, Right
}

const (
	borderHorizontal = iota
	borderVertical
	borderTopLeft
	borderTopRight
	borderBottomLeft
	borderBottomRight
	borderCount
)
