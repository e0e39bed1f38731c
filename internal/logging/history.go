package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/duke-go/internal/utils"
)

// Entry is one line of session history.
type Entry struct {
	Time  time.Time `json:"time"`
	Input string    `json:"input"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
	Lines []string  `json:"lines"`
}

// History appends command entries to a per-session JSONL file.
type History struct {
	Dir     string
	RunID   string
	LogPath string
	file    *os.File
	enc     *json.Encoder
	now     func() time.Time
}

// NewHistory creates the history directory for dataFile under baseDir and
// opens a fresh JSONL file for this session.
func NewHistory(baseDir, dataFile string) (*History, error) {
	logDir, err := FindLogDir(baseDir, dataFile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := runID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s.jsonl", id))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &History{
		Dir:     logDir,
		RunID:   id,
		LogPath: logPath,
		file:    file,
		enc:     json.NewEncoder(file),
		now:     time.Now,
	}, nil
}

// Record appends one entry. A zero Time is filled with the current time.
func (h *History) Record(e Entry) error {
	if h == nil || h.file == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = h.now().UTC()
	}
	if err := h.enc.Encode(e); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Close closes the history file.
func (h *History) Close() error {
	if h == nil || h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

// FindLogDir returns the history directory used for dataFile.
func FindLogDir(baseDir, dataFile string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if abs, err := filepath.Abs(dataFile); err == nil {
		dataFile = abs
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	return filepath.Join(baseDir, dataSlug(dataFile)), nil
}

// FindLatestLog finds the most recently modified JSONL file in logDir.
// It returns "" when there is none.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Names sort by start time, so they break modification-time ties.
		if latest == "" || info.ModTime().After(latestTime) ||
			(info.ModTime().Equal(latestTime) && entry.Name() > filepath.Base(latest)) {
			latestTime = info.ModTime()
			latest = filepath.Join(logDir, entry.Name())
		}
	}
	return latest, nil
}

// ReadEntries decodes every entry of a history file.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var entries []Entry
	dec := json.NewDecoder(f)
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decode history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries prints the last n entries (all when n <= 0) as a transcript.
func WriteEntries(w io.Writer, entries []Entry, n int) error {
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "[%s] > %s\n", e.Time.Local().Format("2006-01-02 15:04:05"), e.Input); err != nil {
			return err
		}
		for _, line := range e.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func dataSlug(dataFile string) string {
	name := strings.TrimSuffix(filepath.Base(dataFile), filepath.Ext(dataFile))
	return fmt.Sprintf("%s-%s", utils.Slugify(name, "tasks"), hashPath(dataFile))
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405.000000"), os.Getpid())
}
