//go:build linux || darwin

package termios

import (
	"errors"
	"os"
	"testing"

	"github.com/creack/pty"
	ptermios "github.com/pkg/term/termios"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func openPTY(t *testing.T) (ptm, pts *os.File) {
	t.Helper()
	ptm, pts, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %s", err)
	}
	t.Cleanup(func() {
		_ = pts.Close()
		_ = ptm.Close()
	})
	return ptm, pts
}

func attrs(t *testing.T, f *os.File) *unix.Termios {
	t.Helper()
	tio, err := ptermios.Tcgetattr(f.Fd())
	require.NoError(t, err)
	return tio
}

func TestAcquireRestore(t *testing.T) {
	_, pts := openPTY(t)
	fd := int(pts.Fd())

	before := attrs(t, pts)
	require.NotZero(t, before.Lflag&unix.ICANON, "pty should start in canonical mode")

	tio, err := Acquire(fd)
	require.NoError(t, err)
	t.Log(tio)

	raw := attrs(t, pts)
	assert.Zero(t, raw.Lflag&unix.ICANON, "ICANON")
	assert.Zero(t, raw.Lflag&unix.ECHO, "ECHO")
	assert.EqualValues(t, 1, raw.Cc[unix.VMIN])
	assert.EqualValues(t, 0, raw.Cc[unix.VTIME])

	_, err = Acquire(fd)
	require.ErrorIs(t, err, ErrBusy)

	require.NoError(t, tio.Restore())
	after := attrs(t, pts)
	assert.Equal(t, before.Lflag, after.Lflag)
	assert.Equal(t, before.Cc, after.Cc)

	require.ErrorIs(t, tio.Restore(), ErrNotAcquired)

	// The hold is gone, so the terminal can be taken again.
	again, err := Acquire(fd)
	require.NoError(t, err)
	require.NoError(t, again.Restore())
}

func TestAcquireNotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = Acquire(int(r.Fd()))
	require.ErrorIs(t, err, ErrNotTerminal)
}

func TestRestoreUnacquired(t *testing.T) {
	_, pts := openPTY(t)

	tio, err := NewTermSettings(int(pts.Fd()))
	require.NoError(t, err)
	require.ErrorIs(t, tio.Restore(), ErrNotAcquired)
	require.NoError(t, tio.Reset())
}

func TestTermSize(t *testing.T) {
	ptm, pts := openPTY(t)
	require.NoError(t, pty.Setsize(ptm, &pty.Winsize{Rows: 24, Cols: 80}))

	tio, err := NewTermSettings(int(pts.Fd()))
	require.NoError(t, err)
	w, h, err := tio.GetSize()
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)
}

func TestAcquireErrors(t *testing.T) {
	const fd = 1 << 20 // never a real descriptor here

	fake := func() ops {
		return ops{
			isTerminal: func(int) bool { return true },
			tcgetattr:  func(uintptr) (*unix.Termios, error) { return &unix.Termios{Lflag: unix.ICANON | unix.ECHO}, nil },
			tcsetattr:  func(uintptr, uintptr, *unix.Termios) error { return nil },
		}
	}

	t.Run("tcgetattr error", func(t *testing.T) {
		sentinel := errors.New("tcgetattr")
		o := fake()
		o.tcgetattr = func(uintptr) (*unix.Termios, error) { return nil, sentinel }
		_, err := acquire(fd, o)
		require.ErrorIs(t, err, sentinel)
		assert.False(t, holds.fds[fd], "failed acquire must not hold the fd")
	})

	t.Run("tcsetattr error", func(t *testing.T) {
		sentinel := errors.New("tcsetattr")
		o := fake()
		o.tcsetattr = func(uintptr, uintptr, *unix.Termios) error { return sentinel }
		_, err := acquire(fd, o)
		require.ErrorIs(t, err, sentinel)
		assert.False(t, holds.fds[fd], "failed acquire must not hold the fd")
	})

	t.Run("restore error releases hold", func(t *testing.T) {
		sentinel := errors.New("restore")
		o := fake()
		var applied []unix.Termios
		o.tcsetattr = func(_ uintptr, _ uintptr, tio *unix.Termios) error {
			applied = append(applied, *tio)
			if len(applied) > 1 {
				return sentinel
			}
			return nil
		}
		tio, err := acquire(fd, o)
		require.NoError(t, err)
		require.ErrorIs(t, tio.Restore(), sentinel)
		assert.False(t, holds.fds[fd])

		require.Len(t, applied, 2)
		assert.Zero(t, applied[0].Lflag&unix.ICANON)
		assert.NotZero(t, applied[1].Lflag&unix.ICANON)
	})
}
