package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// historyLimit bounds the entries kept, oldest dropped first.
	historyLimit = 1000
)

// Entry is one line of input recalled from history.
type Entry struct {
	Line string
	Mode inputMode
}

// Each line of the history file is an entry tagged with the mode it was
// entered in.
const (
	tagEval = "E:"
	tagCtrl = "C:"
)

func (e Entry) encode() string {
	if e.Mode == modeCtrl {
		return tagCtrl + e.Line
	}

	return tagEval + e.Line
}

// decodeEntry parses one line of the history file. Untagged lines are
// expressions.
func decodeEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	if s, ok := strings.CutPrefix(line, tagCtrl); ok {
		return Entry{Line: s, Mode: modeCtrl}, true
	}

	s, _ := strings.CutPrefix(line, tagEval)

	return Entry{Line: s, Mode: modeEval}, true
}

// History is the input history shared by both front-ends. A History with an
// empty path keeps its entries in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// NewHistory returns an empty History persisted to path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those in the history file. A missing file
// is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	var entries []Entry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := decodeEntry(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	h.entries = trimHistory(entries)

	return nil
}

// Add records line as the newest entry in mode. A repeat of an earlier
// entry moves it to the end rather than adding a duplicate.
func (h *History) Add(line string, mode inputMode) error {
	e := Entry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	rewrite := false

	if i := slices.Index(h.entries, e); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
		rewrite = true
	}

	h.entries = append(h.entries, e)

	if len(h.entries) > historyLimit {
		h.entries = trimHistory(h.entries)
		rewrite = true
	}

	switch {
	case h.path == "":
		return nil
	case rewrite:
		return h.save()
	default:
		return h.appendEntry(e)
	}
}

// At returns entry i, where 0 is the oldest.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Lines returns the lines of the entries made in mode, oldest first.
func (h *History) Lines(mode inputMode) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var lines []string

	for _, e := range h.entries {
		if e.Mode == mode {
			lines = append(lines, e.Line)
		}
	}

	return lines
}

func (h *History) appendEntry(e Entry) error {
	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, err = file.WriteString(e.encode() + "\n")

	return errors.Join(err, file.Close())
}

// save rewrites the history file from the entries. h.mu must be held.
func (h *History) save() error {
	var sb strings.Builder

	for _, e := range h.entries {
		sb.WriteString(e.encode())
		sb.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}

func trimHistory(entries []Entry) []Entry {
	if over := len(entries) - historyLimit; over > 0 {
		return slices.Clone(entries[over:])
	}

	return entries
}
