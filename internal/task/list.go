package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned when a position is outside 1..Size().
var ErrOutOfRange = errors.New("task position out of range")

// List is an ordered collection of tasks addressed by 1-based position.
type List struct {
	tasks []*Task
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Add appends a task to the end of the list.
func (l *List) Add(t *Task) {
	l.tasks = append(l.tasks, t)
}

// Get returns the task at 1-based position i.
func (l *List) Get(i int) (*Task, error) {
	if i < 1 || i > len(l.tasks) {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, i, len(l.tasks))
	}
	return l.tasks[i-1], nil
}

// Remove deletes the task at 1-based position i. Later tasks move up by one.
func (l *List) Remove(i int) error {
	if i < 1 || i > len(l.tasks) {
		return fmt.Errorf("%w: %d (size %d)", ErrOutOfRange, i, len(l.tasks))
	}
	copy(l.tasks[i-1:], l.tasks[i:])
	l.tasks[len(l.tasks)-1] = nil
	l.tasks = l.tasks[:len(l.tasks)-1]
	return nil
}

// Size returns the number of tasks.
func (l *List) Size() int {
	return len(l.tasks)
}

// Tasks returns the tasks in order. The slice is a copy; the tasks are not.
func (l *List) Tasks() []*Task {
	out := make([]*Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// String renders every task as "<position>.<task>", one per line.
func (l *List) String() string {
	lines := make([]string, 0, len(l.tasks))
	for i, t := range l.tasks {
		lines = append(lines, strconv.Itoa(i+1)+"."+t.String())
	}
	return strings.Join(lines, "\n")
}
