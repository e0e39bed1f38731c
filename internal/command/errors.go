package command

import (
	"errors"
	"fmt"
)

// Argument error codes. Each malformed command family has its own code.
const (
	CodeTodoFormat     = 1
	CodeDeadlineFormat = 2
	CodeEventFormat    = 3
	CodeBadIndex       = 4
)

// ArgumentError reports a recognised command whose arguments are malformed.
// Err holds the underlying parse or range failure, if any.
type ArgumentError struct {
	Code int
	Err  error
}

func (e *ArgumentError) Error() string {
	switch e.Code {
	case CodeTodoFormat:
		return "OOPS!!! The description of a todo cannot be empty."
	case CodeDeadlineFormat:
		return "OOPS!!! A deadline needs a description and a date: deadline <description> /by <date>"
	case CodeEventFormat:
		return "OOPS!!! An event needs a description and a date: event <description> /at <date>"
	case CodeBadIndex:
		return "OOPS!!! Please give the position of a task in the list."
	default:
		return fmt.Sprintf("OOPS!!! Invalid argument (code %d).", e.Code)
	}
}

// Unwrap returns the underlying error.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is matches any ArgumentError carrying the same code, so the sentinels
// below work with errors.Is regardless of the wrapped cause.
func (e *ArgumentError) Is(target error) bool {
	t, ok := target.(*ArgumentError)
	return ok && t.Code == e.Code
}

var (
	ErrTodoFormat     error = &ArgumentError{Code: CodeTodoFormat}
	ErrDeadlineFormat error = &ArgumentError{Code: CodeDeadlineFormat}
	ErrEventFormat    error = &ArgumentError{Code: CodeEventFormat}
	ErrBadIndex       error = &ArgumentError{Code: CodeBadIndex}

	// ErrUnrecognizedKeyword is returned for input that matches no command.
	ErrUnrecognizedKeyword = errors.New("OOPS!!! I'm sorry, but I don't know what that means :-(")
)

func argumentError(code int, cause error) error {
	return &ArgumentError{Code: code, Err: cause}
}
