//go:build linux || darwin

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

// Package termios implements low-level terminal settings.
package termios

import (
	"errors"
	"fmt"
	"sync"

	ptermios "github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var (
	// ErrNotTerminal is returned by Acquire for descriptors that are not
	// connected to a terminal.
	ErrNotTerminal = errors.New("termios: not a terminal")

	// ErrBusy is returned by Acquire when the descriptor is already held by
	// another TermSettings which has not been restored.
	ErrBusy = errors.New("termios: terminal already acquired")

	// ErrNotAcquired is returned by Restore on settings that were not
	// obtained from Acquire, or that have already been restored.
	ErrNotAcquired = errors.New("termios: terminal not acquired")
)

// ops holds the system calls TermSettings is built on.
type ops struct {
	isTerminal func(int) bool
	tcgetattr  func(uintptr) (*unix.Termios, error)
	tcsetattr  func(uintptr, uintptr, *unix.Termios) error
	winsize    func(int, uint) (*unix.Winsize, error)
}

func defaultOps() ops {
	return ops{
		isTerminal: term.IsTerminal,
		tcgetattr:  ptermios.Tcgetattr,
		tcsetattr:  ptermios.Tcsetattr,
		winsize:    unix.IoctlGetWinsize,
	}
}

// holds tracks which descriptors are currently acquired.
var holds = struct {
	sync.Mutex
	fds map[int]bool
}{fds: make(map[int]bool)}

// TermSettings contain both the original settings from when it was created
// and the current settings being manipulated.  At any time, Reset will
// restore the terminal to its original state.
type TermSettings struct {
	fd       int
	ops      ops
	original unix.Termios
	current  unix.Termios
	held     bool
}

// NewTermSettings examines the state of the current terminal and
// stores it in a fresh TermSettings.
func NewTermSettings(fd int) (*TermSettings, error) {
	return newTermSettings(fd, defaultOps())
}

func newTermSettings(fd int, o ops) (*TermSettings, error) {
	tio := &TermSettings{fd: fd, ops: o}

	current, err := o.tcgetattr(uintptr(fd))
	if err != nil {
		return nil, fmt.Errorf("tcgetattr(%d): %w", fd, err)
	}
	tio.current = *current
	tio.original = tio.current
	return tio, nil
}

// Acquire takes exclusive hold of the terminal on fd and switches it to raw
// mode (see Raw).  The returned settings must be handed to Restore exactly
// once; until then further calls to Acquire for the same fd fail with ErrBusy.
func Acquire(fd int) (*TermSettings, error) {
	return acquire(fd, defaultOps())
}

func acquire(fd int, o ops) (*TermSettings, error) {
	if !o.isTerminal(fd) {
		return nil, fmt.Errorf("fd %d: %w", fd, ErrNotTerminal)
	}

	holds.Lock()
	defer holds.Unlock()

	if holds.fds[fd] {
		return nil, fmt.Errorf("fd %d: %w", fd, ErrBusy)
	}

	tio, err := newTermSettings(fd, o)
	if err != nil {
		return nil, err
	}
	if err := tio.Raw(); err != nil {
		return nil, err
	}

	holds.fds[fd] = true
	tio.held = true
	return tio, nil
}

// Restore returns the terminal to the settings captured by Acquire and
// releases the hold on it.  The hold is released even if the terminal could
// not be reconfigured.
func (tio *TermSettings) Restore() error {
	holds.Lock()
	defer holds.Unlock()

	if !tio.held {
		return ErrNotAcquired
	}
	tio.held = false
	delete(holds.fds, tio.fd)
	return tio.Reset()
}

// String returns a debugging string which contains low-level
// information about the terminal.
func (tio *TermSettings) String() string {
	return fmt.Sprintf(`Terminal[%d]:
  Input   = 0x%X
  Output  = 0x%X
  Control = 0x%X
  Local   = 0x%X
  Chars   = %v
`,
		tio.fd,
		tio.current.Iflag,
		tio.current.Oflag,
		tio.current.Cflag,
		tio.current.Lflag,
		tio.current.Cc)
}

// GetSize attempts to determine the size of the terminal with which
// this TermSettings is associated and return the number of rows (the height)
// and the number of columns (width).
func (tio *TermSettings) GetSize() (width, height int, err error) {
	ws, err := tio.ops.winsize(tio.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// Raw sets the terminal to the minimal raw mode needed for line editing:
// bytes are delivered as they are typed (no canonical line buffering), typed
// characters are not echoed, and a read returns as soon as one byte is
// available.  Output processing and signal keys are left alone.
//
// The changes are applied immediately.
func (tio *TermSettings) Raw() error {
	tio.current.Lflag &^= unix.ICANON | unix.ECHO
	tio.current.Cc[unix.VMIN] = 1
	tio.current.Cc[unix.VTIME] = 0
	return tio.Apply()
}

// Reset sets the terminal settings to match those that were in effect when the
// call to NewTermSettings was made.
func (tio *TermSettings) Reset() error {
	tio.current = tio.original
	return tio.Apply()
}

// Apply applies the settings currently stored in tio.  This is mostly useful
// for maintaining multiple TerminalSettings for different modes, and you can
// simply Apply whichever you need.
func (tio *TermSettings) Apply() error {
	if err := tio.ops.tcsetattr(uintptr(tio.fd), ptermios.TCSANOW, &tio.current); err != nil {
		return fmt.Errorf("tcsetattr(%d): %w", tio.fd, err)
	}
	return nil
}
