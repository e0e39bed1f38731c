// Package session runs the line-based interaction loop around a command
// processor: it reads input, prints results, records history and saves the
// task list.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/logging"
	"github.com/nibzard/duke-go/internal/storage"
)

// Greeting is printed when an interactive session starts.
var Greeting = []string{
	"Hello! I'm Duke",
	"What can I do for you?",
	command.Separator,
}

// Option configures a Session.
type Option func(*Session)

// WithDataFile sets the file the task list is saved to. Without it nothing is saved.
func WithDataFile(path string) Option {
	return func(s *Session) {
		s.dataFile = path
	}
}

// WithAutosave saves after every mutating command instead of only on Close.
func WithAutosave(enabled bool) Option {
	return func(s *Session) {
		s.autosave = enabled
	}
}

// WithHistory records every command in h.
func WithHistory(h *logging.History) Option {
	return func(s *Session) {
		s.history = h
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session owns one processor and the side effects around it.
type Session struct {
	proc     *command.Processor
	dataFile string
	autosave bool
	history  *logging.History
	logger   *log.Logger
	dirty    bool
	done     bool
}

// New creates a session around proc.
func New(proc *command.Processor, opts ...Option) *Session {
	s := &Session{
		proc:   proc,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Processor returns the processor driven by the session.
func (s *Session) Processor() *command.Processor {
	return s.proc
}

// Done reports whether a command asked the session to end.
func (s *Session) Done() bool {
	return s.done
}

// Handle executes one line, records it and saves if needed.
func (s *Session) Handle(line string) command.Result {
	res := s.proc.Execute(line)

	entry := logging.Entry{Input: line, OK: res.Err == nil, Lines: res.Lines}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := s.history.Record(entry); err != nil {
		s.logger.Warn("history write failed", "err", err)
	}

	if res.Mutated {
		s.dirty = true
		if s.autosave {
			s.save()
		}
	}
	if res.Exit {
		s.done = true
	}
	return res
}

// Run prints the greeting and processes lines from in until EOF, a command
// ends the session, or ctx is cancelled.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := writeLines(out, Greeting); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSuffix(scanner.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				return nil
			}
			res := s.Handle(line)
			if err := writeLines(out, res.Lines); err != nil {
				return err
			}
			if s.done {
				return nil
			}
		}
	}
}

// Close saves unsaved changes and closes the history file.
func (s *Session) Close() error {
	var saveErr error
	if s.dirty {
		saveErr = s.save()
	}
	if err := s.history.Close(); err != nil && saveErr == nil {
		return fmt.Errorf("close history: %w", err)
	}
	return saveErr
}

func (s *Session) save() error {
	if s.dataFile == "" {
		return nil
	}
	if err := storage.Save(s.dataFile, s.proc.Tasks()); err != nil {
		s.logger.Warn("save failed", "path", s.dataFile, "err", err)
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.dirty = false
	s.logger.Debug("saved", "path", s.dataFile, "tasks", s.proc.Tasks().Size())
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
