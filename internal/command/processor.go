// Package command parses and executes single lines of task tracker input.
//
// Recognised commands (whitespace sensitive, one space after each keyword):
//
//	list
//	done <position>
//	delete <position>
//	find <keyword>
//	todo <description>
//	deadline <description> /by <date>
//	event <description> /at <date>
//	bye
//
// Anything else is rejected with ErrUnrecognizedKeyword. Errors never stop a
// session; they are rendered into the Result like any other output.
package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/task"
)

// Output text.
const (
	Separator       = "-------------------------------------------------------"
	ListHeader      = "Here are the tasks in your list:"
	FindHeader      = "Here are the matching tasks in your list:"
	DoneMessage     = "Nice! I've marked this task as done: "
	DeleteMessage   = "Okay! I've removed this task: "
	AddMessage      = "Got it, I've added this task to the list: "
	FarewellMessage = "Bye. Hope to see you again soon!"
)

const (
	todoToken     = "todo "
	deadlineToken = "deadline "
	eventToken    = "event "
	byToken       = "/by "
	atToken       = " /at "
)

// Result is the outcome of one command.
type Result struct {
	// Lines is the text to display, ending with Separator.
	Lines []string
	// Err is nil on success, otherwise one of the package's error kinds.
	Err error
	// Mutated reports whether the task list changed.
	Mutated bool
	// Exit reports that the session should end.
	Exit bool
}

// Text joins the output lines with newlines.
func (r Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Processor executes commands against a single task list it does not share.
type Processor struct {
	tasks  *task.List
	logger *log.Logger

	newDeadline func(description, by string) (*task.Task, error)
}

// New returns a processor operating on tasks.
func New(tasks *task.List, opts ...Option) *Processor {
	p := &Processor{
		tasks:       tasks,
		logger:      log.New(io.Discard),
		newDeadline: task.NewDeadline,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tasks returns the list the processor operates on.
func (p *Processor) Tasks() *task.List {
	return p.tasks
}

// Execute classifies and runs one line of input.
func (p *Processor) Execute(line string) Result {
	var res Result
	switch {
	case line == "list":
		p.logger.Debug("dispatch", "command", "list")
		res = p.list()
	case line == "bye":
		p.logger.Debug("dispatch", "command", "bye")
		res = Result{Lines: []string{FarewellMessage}, Exit: true}
	case strings.HasPrefix(line, "done "):
		p.logger.Debug("dispatch", "command", "done")
		res = p.markDone(strings.TrimPrefix(line, "done "))
	case strings.HasPrefix(line, "delete "):
		p.logger.Debug("dispatch", "command", "delete")
		res = p.remove(strings.TrimPrefix(line, "delete "))
	case strings.HasPrefix(line, "find "):
		p.logger.Debug("dispatch", "command", "find")
		res = p.find(strings.TrimPrefix(line, "find "))
	default:
		res = p.add(line)
	}
	if res.Err != nil {
		res.Lines = append(res.Lines, res.Err.Error())
	}
	res.Lines = append(res.Lines, Separator)
	return res
}

func (p *Processor) list() Result {
	return Result{Lines: []string{ListHeader, p.tasks.String()}}
}

func (p *Processor) markDone(arg string) Result {
	t, _, err := p.lookup(arg)
	if err != nil {
		return Result{Err: err}
	}
	t.MarkAsDone()
	return Result{
		Lines:   []string{DoneMessage, "  " + t.String()},
		Mutated: true,
	}
}

func (p *Processor) remove(arg string) Result {
	t, pos, err := p.lookup(arg)
	if err != nil {
		return Result{Err: err}
	}
	if err := p.tasks.Remove(pos); err != nil {
		return Result{Err: argumentError(CodeBadIndex, err)}
	}
	return Result{
		Lines:   []string{DeleteMessage, "  " + t.String(), p.countLine()},
		Mutated: true,
	}
}

// lookup parses a 1-based position and fetches the task there.
func (p *Processor) lookup(arg string) (*task.Task, int, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return nil, 0, argumentError(CodeBadIndex, err)
	}
	t, err := p.tasks.Get(pos)
	if err != nil {
		return nil, 0, argumentError(CodeBadIndex, err)
	}
	return t, pos, nil
}

func (p *Processor) find(keyword string) Result {
	matches := task.NewList()
	for _, t := range p.tasks.Tasks() {
		if strings.Contains(t.Description(), keyword) {
			matches.Add(t)
		}
	}
	return Result{Lines: []string{FindHeader, matches.String()}}
}

func (p *Processor) add(line string) Result {
	var (
		t   *task.Task
		err error
	)
	switch {
	case strings.HasPrefix(line, todoToken):
		p.logger.Debug("dispatch", "command", "todo")
		description, ok := parseTodo(line)
		if !ok {
			return Result{Err: argumentError(CodeTodoFormat, nil)}
		}
		t, err = task.NewTodo(description)
	case strings.HasPrefix(line, deadlineToken):
		p.logger.Debug("dispatch", "command", "deadline")
		description, by, ok := parseDated(line, deadlineToken, byToken)
		if !ok {
			return Result{Err: argumentError(CodeDeadlineFormat, nil)}
		}
		t, err = p.newDeadline(description, by)
		if err != nil {
			// Nothing is added, but the count is still reported.
			return Result{Lines: []string{
				fmt.Sprintf("OOPS!!! Could not create the deadline: %v", err),
				p.countLine(),
			}}
		}
	case strings.HasPrefix(line, eventToken):
		p.logger.Debug("dispatch", "command", "event")
		description, at, ok := parseDated(line, eventToken, atToken)
		if !ok {
			return Result{Err: argumentError(CodeEventFormat, nil)}
		}
		t, err = task.NewEvent(description, at)
	default:
		p.logger.Debug("dispatch", "command", "unrecognized")
		return Result{Err: ErrUnrecognizedKeyword}
	}
	if err != nil {
		return Result{Err: err}
	}

	p.tasks.Add(t)
	return Result{
		Lines:   []string{AddMessage, "  " + t.String(), p.countLine()},
		Mutated: true,
	}
}

func (p *Processor) countLine() string {
	return fmt.Sprintf("Now you have %d tasks in the list.", p.tasks.Size())
}

// parseTodo returns the description after the todo keyword. The keyword may
// not appear a second time.
func parseTodo(line string) (string, bool) {
	rest := strings.TrimPrefix(line, todoToken)
	if rest == "" || strings.Contains(rest, todoToken) {
		return "", false
	}
	return rest, true
}

// parseDated splits "<keyword><description><delim><date>". The delimiter must
// occur exactly once, the keyword must not reappear, and both parts must be
// non-empty. A single space left between description and a delimiter that
// does not start with one is dropped.
func parseDated(line, keyword, delim string) (string, string, bool) {
	rest := strings.TrimPrefix(line, keyword)
	if strings.Contains(rest, keyword) || strings.Count(rest, delim) != 1 {
		return "", "", false
	}
	i := strings.Index(rest, delim)
	description := rest[:i]
	if !strings.HasPrefix(delim, " ") {
		description = strings.TrimSuffix(description, " ")
	}
	date := rest[i+len(delim):]
	if description == "" || date == "" {
		return "", "", false
	}
	return description, date, true
}
