// Package history stores previously accepted input lines.
//
// A File store keeps one line per record in a plain text log which is only
// ever appended to.  Nothing is escaped, so a line containing a newline
// would turn into two records.  Concurrent writers are not coordinated.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPath is where the log lives unless configured otherwise.
const DefaultPath = "/tmp/archtry-log.txt"

// maxLine bounds a single record when loading.
const maxLine = 1 << 20

// A Store loads the lines accepted in earlier sessions and records new ones.
type Store interface {
	// Load returns every recorded line, oldest first.
	Load() ([]string, error)
	// Append records line as the newest entry.
	Append(line string) error
}

// File is a Store backed by an append-only text file.
type File struct {
	path string
}

// NewFile returns a store for the log at path.  The file is created on the
// first Append.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the log.
func (f *File) Path() string { return f.path }

// Load reads the log.  A missing log is an empty history.
func (f *File) Load() ([]string, error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer fh.Close()

	var lines []string
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return lines, nil
}

// Append opens the log, writes line followed by a newline, and closes it
// again.  Missing parent directories are created.  If the log does not end
// in a newline one is added first, so line starts a record of its own.
func (f *File) Append(line string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	fh, err := os.OpenFile(f.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	record := line + "\n"
	if unterminated(fh) {
		record = "\n" + record
	}
	if _, err := fh.WriteString(record); err != nil {
		fh.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}

// unterminated reports whether fh is non-empty and does not end in a newline.
func unterminated(fh *os.File) bool {
	info, err := fh.Stat()
	if err != nil || info.Size() == 0 {
		return false
	}
	var last [1]byte
	if _, err := fh.ReadAt(last[:], info.Size()-1); err != nil {
		return false
	}
	return last[0] != '\n'
}

// Memory is a Store that keeps its lines in process.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

// NewMemory returns a store preloaded with lines.
func NewMemory(lines ...string) *Memory {
	return &Memory{lines: append([]string(nil), lines...)}
}

func (m *Memory) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...), nil
}

func (m *Memory) Append(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

var (
	_ Store = (*File)(nil)
	_ Store = (*Memory)(nil)
)
