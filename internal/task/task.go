// Package task defines the task variants and the ordered list that holds them.
package task

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies a task variant.
type Kind string

const (
	KindTodo     Kind = "todo"
	KindDeadline Kind = "deadline"
	KindEvent    Kind = "event"
)

var (
	// ErrEmptyDescription is returned when a task is built without a description.
	ErrEmptyDescription = errors.New("the description of a task cannot be empty")
	// ErrEmptyDate is returned when a deadline or event is built without its date.
	ErrEmptyDate = errors.New("the date of a task cannot be empty")
	// ErrUnknownKind is returned by New for a kind outside todo, deadline and event.
	ErrUnknownKind = errors.New("unknown task kind")
)

// Task is one tracked item. The kind selects the variant; deadlines and
// events also carry a free-form date text.
type Task struct {
	id          string
	kind        Kind
	description string
	when        string
	done        bool
}

// NewTodo creates a pending todo.
func NewTodo(description string) (*Task, error) {
	return New(KindTodo, description, "")
}

// NewDeadline creates a pending deadline due by the given free-form date.
func NewDeadline(description, by string) (*Task, error) {
	return New(KindDeadline, description, by)
}

// NewEvent creates a pending event happening at the given free-form date.
func NewEvent(description, at string) (*Task, error) {
	return New(KindEvent, description, at)
}

// New creates a pending task of the given kind with a fresh ID.
func New(kind Kind, description, when string) (*Task, error) {
	return Restore(uuid.NewString(), kind, description, when, false)
}

// Restore rebuilds a task with a known ID and done state, applying the same
// checks as the constructors.
func Restore(id string, kind Kind, description, when string, done bool) (*Task, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	switch kind {
	case KindTodo:
		when = ""
	case KindDeadline, KindEvent:
		if when == "" {
			return nil, ErrEmptyDate
		}
	default:
		return nil, ErrUnknownKind
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &Task{
		id:          id,
		kind:        kind,
		description: description,
		when:        when,
		done:        done,
	}, nil
}

// ID returns the stable identifier used by storage.
func (t *Task) ID() string { return t.id }

// Kind returns the task variant.
func (t *Task) Kind() Kind { return t.kind }

// Description returns the raw description text without tag or markers.
func (t *Task) Description() string { return t.description }

// When returns the deadline's "by" or event's "at" text; empty for todos.
func (t *Task) When() string { return t.when }

// IsDone reports whether the task has been marked done.
func (t *Task) IsDone() bool { return t.done }

// MarkAsDone marks the task done. Calling it again has no further effect.
func (t *Task) MarkAsDone() {
	t.done = true
}

// String renders the task as tag, done marker and description, e.g.
// "[D][ ] return book (by: Sunday)".
func (t *Task) String() string {
	var b strings.Builder
	switch t.kind {
	case KindDeadline:
		b.WriteString("[D]")
	case KindEvent:
		b.WriteString("[E]")
	default:
		b.WriteString("[T]")
	}
	if t.done {
		b.WriteString("[X] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(t.description)
	switch t.kind {
	case KindDeadline:
		b.WriteString(" (by: " + t.when + ")")
	case KindEvent:
		b.WriteString(" (at: " + t.when + ")")
	}
	return b.String()
}
