package drill

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archtry/archtry/history"
	"github.com/archtry/archtry/term"
)

// scripted answers ReadLine from a fixed list of lines.
type scripted struct {
	lines   []string
	prompts []string
	err     error
}

func (s *scripted) ReadLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

const twoSteps = `
title = "Test"

[[step]]
section = "Disks"
description = "Show disk layout"
command = "lsblk"
output = ["sdz 50.0G"]

[[step]]
section = "Disks"
description = "Leave"
command = "exit"
chroot = true
`

func TestRun(t *testing.T) {
	s, err := Parse([]byte(twoSteps))
	require.NoError(t, err)

	in := &scripted{lines: []string{"lsblk -a", "  lsblk ", "exit"}}
	var out bytes.Buffer
	require.NoError(t, NewRunner(in, &out).Run(s))

	got := out.String()
	assert.Contains(t, got, "Test")
	assert.Equal(t, 1, strings.Count(got, "Disks..."), "section header printed once")
	assert.Contains(t, got, "Show disk layout")
	assert.Contains(t, got, "[hint] type: ")
	assert.Equal(t, 1, strings.Count(got, "Error: Invalid command. Try again."))
	assert.Contains(t, got, "sdz 50.0G\n")
	assert.Contains(t, got, "Installation completed successfully.")

	require.Len(t, in.prompts, 3)
	assert.Contains(t, in.prompts[0], "@archiso ")
	assert.Equal(t, in.prompts[0], in.prompts[1])
	assert.NotContains(t, in.prompts[2], "archiso")
	for _, p := range in.prompts {
		assert.True(t, strings.HasSuffix(p, " # "), "prompt %q", p)
	}
}

func TestRunAborted(t *testing.T) {
	s, err := Parse([]byte(twoSteps))
	require.NoError(t, err)

	in := &scripted{lines: []string{"lsblk", "wrong"}}
	err = NewRunner(in, io.Discard).Run(s)
	require.ErrorIs(t, err, ErrAborted)
}

func TestRunReaderError(t *testing.T) {
	s, err := Parse([]byte(twoSteps))
	require.NoError(t, err)

	sentinel := errors.New("tty gone")
	in := &scripted{err: sentinel}
	err = NewRunner(in, io.Discard).Run(s)
	require.ErrorIs(t, err, sentinel)
}

// The drill driven through a real line editor: the second step is answered
// by recalling and editing the first command from history.
func TestRunWithEditor(t *testing.T) {
	s, err := Parse([]byte(`
[[step]]
description = "Mount root"
command = "mount /dev/sdz2 /mnt"

[[step]]
description = "Mount EFI"
command = "mount --mkdir /dev/sdz1 /mnt/boot/efi"
`))
	require.NoError(t, err)

	store := history.NewMemory()
	input := "mount /dev/sdz2 /mnt\r" +
		"\x1b[A" + strings.Repeat("\x7f", len("sdz2 /mnt")) + "sdz1 /mnt/boot/efi\r" +
		"mount --mkdir /dev/sdz1 /mnt/boot/efi\r"
	editor := term.NewReader(strings.NewReader(input), io.Discard, term.WithHistory(store))

	var out bytes.Buffer
	require.NoError(t, NewRunner(editor, &out).Run(s))
	assert.Equal(t, 1, strings.Count(out.String(), "Error: Invalid command."))

	lines, _ := store.Load()
	assert.Equal(t, []string{
		"mount /dev/sdz2 /mnt",
		"mount /dev/sdz1 /mnt/boot/efi",
		"mount --mkdir /dev/sdz1 /mnt/boot/efi",
	}, lines)
}

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, s.Title)
	require.NotEmpty(t, s.Steps)
	assert.Equal(t, "reboot", s.Steps[len(s.Steps)-1].Command)

	var lines []string
	for _, st := range s.Steps {
		lines = append(lines, st.Command)
	}

	// The system is configured inside the chroot before leaving it.
	indexOf := func(cmd string) int {
		t.Helper()
		for i, line := range lines {
			if line == cmd {
				return i
			}
		}
		t.Fatalf("default script has no step %q", cmd)
		return -1
	}
	order := []string{
		"arch-chroot /mnt",
		"echo '127.0.1.1 archtry' >> /etc/hosts",
		"ln -sf /usr/share/zoneinfo/Europe/Berlin /etc/localtime",
		"sed -i 's/^#en_US.UTF-8 UTF-8//' /etc/locale.gen",
		"locale-gen",
		`echo "LANG=en_US.UTF-8" > /etc/locale.conf`,
		"useradd -mG wheel archie",
		"grub-install --target=x86_64-efi --efi-directory=/boot/efi --bootloader-id=GRUB",
		"grub-mkconfig -o /boot/grub/grub.cfg",
		"pacman -S gnome",
		"exit",
		"umount -R /mnt",
	}
	prev := -1
	for _, cmd := range order {
		i := indexOf(cmd)
		assert.Greater(t, i, prev, "%q is out of order", cmd)
		prev = i
	}
	for _, st := range s.Steps[indexOf("arch-chroot /mnt")+1 : indexOf("exit")+1] {
		assert.True(t, st.Chroot, "%q runs in the chroot", st.Command)
	}

	in := &scripted{lines: lines}
	require.NoError(t, NewRunner(in, io.Discard).Run(s))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		desc, script, want string
	}{
		{"syntax", "[[step]\n", "parse script"},
		{"empty", "title = 'x'\n", "no steps"},
		{"no command", "[[step]]\ndescription = 'x'\n", "step 1 has no command"},
		{"unknown key", "[[step]]\ncommand = 'ls'\ncmd = 'ls'\n", "unknown keys step.cmd"},
	}
	for _, test := range tests {
		_, err := Parse([]byte(test.script))
		require.Error(t, err, test.desc)
		assert.Contains(t, err.Error(), test.want, test.desc)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.toml")
	require.NoError(t, os.WriteFile(path, []byte(twoSteps), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
