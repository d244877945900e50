package term

import "github.com/archtry/archtry/termios"

// Modes switches a terminal into raw mode for one ReadLine call.
type Modes interface {
	// Acquire puts the terminal into raw mode.  The returned Restorer puts
	// it back and must be called exactly once.
	Acquire() (Restorer, error)
}

// A Restorer undoes one Acquire.
type Restorer interface {
	Restore() error
}

type deviceModes struct {
	fd int
}

// DeviceModes returns Modes for the terminal device open on fd.
func DeviceModes(fd int) Modes {
	return deviceModes{fd: fd}
}

func (d deviceModes) Acquire() (Restorer, error) {
	tio, err := termios.Acquire(d.fd)
	if err != nil {
		return nil, err
	}
	return tio, nil
}

type nopModes struct{}

// NopModes returns Modes which leave the terminal as it is, for input which
// does not come from a terminal.
func NopModes() Modes { return nopModes{} }

func (nopModes) Acquire() (Restorer, error) { return nopModes{}, nil }
func (nopModes) Restore() error             { return nil }
