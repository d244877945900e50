package drill

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultScript []byte

// A Step asks the user to type one command.
type Step struct {
	// Section groups consecutive steps under a header.
	Section string `toml:"section"`
	// Description says what the command is for.
	Description string `toml:"description"`
	// Command is the exact text the user has to enter.
	Command string `toml:"command"`
	// Chroot selects the prompt of a shell inside arch-chroot.
	Chroot bool `toml:"chroot"`
	// Output is printed once the command has been entered.
	Output []string `toml:"output"`
}

// A Script is an ordered list of steps.
type Script struct {
	Title string `toml:"title"`
	Steps []Step `toml:"step"`
}

// Default returns the built-in installation walkthrough.
func Default() (*Script, error) {
	return Parse(defaultScript)
}

// Load reads a script from a TOML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a TOML script.  Unknown keys and steps without a command
// are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse script: unknown keys %s", strings.Join(keys, ", "))
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range s.Steps {
		if strings.TrimSpace(st.Command) == "" {
			return nil, fmt.Errorf("parse script: step %d has no command", i+1)
		}
	}
	return &s, nil
}
