package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/nibzard/duke-go/internal/task"
)

func run(t *testing.T, p *Processor, lines ...string) Result {
	t.Helper()
	var res Result
	for _, line := range lines {
		res = p.Execute(line)
		if res.Err != nil {
			t.Fatalf("Execute(%q) error = %v", line, res.Err)
		}
	}
	return res
}

func lastLine(res Result) string {
	if len(res.Lines) == 0 {
		return ""
	}
	return res.Lines[len(res.Lines)-1]
}

func TestExecuteListScenario(t *testing.T) {
	p := New(task.NewList())
	res := run(t, p, "todo read book", "deadline return book /by Sunday", "list")

	want := []string{
		ListHeader,
		"1.[T][ ] read book\n2.[D][ ] return book (by: Sunday)",
		Separator,
	}
	if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
		t.Errorf("list output = %q, want %q", res.Lines, want)
	}
	if res.Mutated {
		t.Error("list should not mutate")
	}
}

func TestExecuteEmptyList(t *testing.T) {
	p := New(task.NewList())
	res := p.Execute("list")
	if res.Err != nil {
		t.Fatalf("list error = %v", res.Err)
	}
	if len(res.Lines) != 3 || res.Lines[0] != ListHeader || res.Lines[1] != "" {
		t.Errorf("empty list output = %q", res.Lines)
	}
}

func TestExecuteAdd(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rendered string
	}{
		{"todo", "todo read book", "[T][ ] read book"},
		{"deadline", "deadline return book /by Sunday", "[D][ ] return book (by: Sunday)"},
		{"deadline without space before delimiter", "deadline return book/by Sunday", "[D][ ] return book (by: Sunday)"},
		{"event", "event project meeting /at Mon 2-4pm", "[E][ ] project meeting (at: Mon 2-4pm)"},
		{"todo keeps inner spacing", "todo  spaced", "[T][ ]  spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := task.NewList()
			p := New(l)
			res := p.Execute(tt.input)
			if res.Err != nil {
				t.Fatalf("Execute error = %v", res.Err)
			}
			want := []string{AddMessage, "  " + tt.rendered, "Now you have 1 tasks in the list.", Separator}
			if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
				t.Errorf("output = %q, want %q", res.Lines, want)
			}
			if !res.Mutated {
				t.Error("add should report mutation")
			}
			if l.Size() != 1 {
				t.Errorf("Size() = %d, want 1", l.Size())
			}
		})
	}
}

func TestExecuteSizeMatchesAdds(t *testing.T) {
	l := task.NewList()
	p := New(l)
	inputs := []string{
		"todo a",
		"deadline b /by today",
		"event c /at noon",
		"todo d",
		"event e /at night",
	}
	for i, in := range inputs {
		res := p.Execute(in)
		if res.Err != nil {
			t.Fatalf("Execute(%q) error = %v", in, res.Err)
		}
		if l.Size() != i+1 {
			t.Errorf("after %q Size() = %d, want %d", in, l.Size(), i+1)
		}
	}
}

func TestExecuteAddErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"todo without description", "todo ", ErrTodoFormat},
		{"todo keyword repeated", "todo a todo b", ErrTodoFormat},
		{"deadline missing by", "deadline buy milk", ErrDeadlineFormat},
		{"deadline empty description", "deadline /by Sunday", ErrDeadlineFormat},
		{"deadline empty date", "deadline buy milk /by ", ErrDeadlineFormat},
		{"deadline two dates", "deadline a /by b /by c", ErrDeadlineFormat},
		{"deadline keyword repeated", "deadline deadline a /by b", ErrDeadlineFormat},
		{"event missing at", "event party", ErrEventFormat},
		{"event without leading space", "event party/at 5pm", ErrEventFormat},
		{"event empty description", "event  /at 5pm", ErrEventFormat},
		{"event empty date", "event party /at ", ErrEventFormat},
		{"unknown keyword", "blah", ErrUnrecognizedKeyword},
		{"keyword without space", "todo", ErrUnrecognizedKeyword},
		{"list with trailing space", "list ", ErrUnrecognizedKeyword},
		{"done without space", "done", ErrUnrecognizedKeyword},
		{"empty line", "", ErrUnrecognizedKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := task.NewList()
			p := New(l)
			res := p.Execute(tt.input)
			if !errors.Is(res.Err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", res.Err, tt.wantErr)
			}
			if l.Size() != 0 {
				t.Errorf("Size() = %d, want 0", l.Size())
			}
			if res.Mutated {
				t.Error("failed command should not mutate")
			}
			want := []string{tt.wantErr.Error(), Separator}
			if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
				t.Errorf("output = %q, want %q", res.Lines, want)
			}
			for _, line := range res.Lines {
				if strings.HasPrefix(line, "Now you have") {
					t.Errorf("failed add printed count line %q", line)
				}
			}
		})
	}
}

func TestExecuteDone(t *testing.T) {
	l := task.NewList()
	p := New(l)
	run(t, p, "todo read book", "deadline return book /by Sunday")

	res := p.Execute("done 1")
	if res.Err != nil {
		t.Fatalf("done error = %v", res.Err)
	}
	want := []string{DoneMessage, "  [T][X] read book", Separator}
	if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
		t.Errorf("output = %q, want %q", res.Lines, want)
	}

	res = run(t, p, "list")
	if !strings.HasPrefix(res.Lines[1], "1.[T][X] read book") {
		t.Errorf("list after done = %q", res.Lines[1])
	}

	// Marking again is harmless.
	res = p.Execute("done 1")
	if res.Err != nil {
		t.Fatalf("second done error = %v", res.Err)
	}
	if res.Lines[1] != "  [T][X] read book" {
		t.Errorf("second done = %q", res.Lines[1])
	}
}

func TestExecuteBadIndex(t *testing.T) {
	for _, input := range []string{"done 99", "done 0", "done -1", "done x", "done ", "delete 3", "delete abc", "delete  1"} {
		t.Run(input, func(t *testing.T) {
			l := task.NewList()
			p := New(l)
			run(t, p, "todo read book", "todo write book")
			before := l.String()

			res := p.Execute(input)
			if !errors.Is(res.Err, ErrBadIndex) {
				t.Fatalf("error = %v, want ErrBadIndex", res.Err)
			}
			var argErr *ArgumentError
			if !errors.As(res.Err, &argErr) || argErr.Code != CodeBadIndex {
				t.Errorf("expected ArgumentError code %d, got %v", CodeBadIndex, res.Err)
			}
			if l.String() != before {
				t.Errorf("list changed: %q -> %q", before, l.String())
			}
			if lastLine(res) != Separator {
				t.Errorf("last line = %q, want separator", lastLine(res))
			}
		})
	}
}

func TestBadIndexWrapsCause(t *testing.T) {
	p := New(task.NewList())
	res := p.Execute("done 1")
	if !errors.Is(res.Err, task.ErrOutOfRange) {
		t.Errorf("error = %v, want wrapped ErrOutOfRange", res.Err)
	}
}

func TestExecuteDelete(t *testing.T) {
	l := task.NewList()
	p := New(l)
	run(t, p, "todo read book", "deadline return book /by Sunday")
	second, _ := l.Get(2)

	res := p.Execute("delete 1")
	if res.Err != nil {
		t.Fatalf("delete error = %v", res.Err)
	}
	want := []string{DeleteMessage, "  [T][ ] read book", "Now you have 1 tasks in the list.", Separator}
	if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
		t.Errorf("output = %q, want %q", res.Lines, want)
	}
	got, err := l.Get(1)
	if err != nil || got != second {
		t.Errorf("Get(1) after delete = %v, %v; want former position 2", got, err)
	}
}

func TestExecuteDeleteRendersDoneState(t *testing.T) {
	p := New(task.NewList())
	run(t, p, "todo a", "done 1")
	res := run(t, p, "delete 1")
	if res.Lines[1] != "  [T][X] a" {
		t.Errorf("deleted task rendered as %q", res.Lines[1])
	}
	if res.Lines[2] != "Now you have 0 tasks in the list." {
		t.Errorf("count line = %q", res.Lines[2])
	}
}

func TestExecuteFind(t *testing.T) {
	l := task.NewList()
	p := New(l)
	run(t, p, "todo read book", "event book club /at Friday", "todo buy milk", "deadline Book report /by Monday")

	tests := []struct {
		name    string
		keyword string
		body    string
	}{
		{"substring in order", "book", "1.[T][ ] read book\n2.[E][ ] book club (at: Friday)"},
		{"case sensitive", "Book", "1.[D][ ] Book report (by: Monday)"},
		{"empty keyword matches all", "", l.String()},
		{"no match", "zzz", ""},
		{"date text is not searched", "Friday", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Execute("find " + tt.keyword)
			if res.Err != nil {
				t.Fatalf("find error = %v", res.Err)
			}
			want := []string{FindHeader, tt.body, Separator}
			if strings.Join(res.Lines, "|") != strings.Join(want, "|") {
				t.Errorf("output = %q, want %q", res.Lines, want)
			}
			if res.Mutated {
				t.Error("find should not mutate")
			}
			if l.Size() != 4 {
				t.Errorf("Size() = %d after find, want 4", l.Size())
			}
		})
	}
}

func TestExecuteBye(t *testing.T) {
	p := New(task.NewList())
	res := p.Execute("bye")
	if res.Err != nil || !res.Exit {
		t.Fatalf("bye result = %+v", res)
	}
	if res.Lines[0] != FarewellMessage {
		t.Errorf("bye output = %q", res.Lines)
	}
}

func TestDeadlineConstructionFailureStillPrintsCount(t *testing.T) {
	l := task.NewList()
	p := New(l)
	run(t, p, "todo a")
	p.newDeadline = func(string, string) (*task.Task, error) {
		return nil, task.ErrEmptyDate
	}

	res := p.Execute("deadline b /by tomorrow")
	if l.Size() != 1 {
		t.Errorf("Size() = %d, want 1", l.Size())
	}
	if res.Mutated {
		t.Error("failed construction should not mutate")
	}
	if len(res.Lines) != 3 {
		t.Fatalf("output = %q, want error, count and separator", res.Lines)
	}
	if !strings.Contains(res.Lines[0], task.ErrEmptyDate.Error()) {
		t.Errorf("first line = %q, want inner error", res.Lines[0])
	}
	if res.Lines[1] != "Now you have 1 tasks in the list." {
		t.Errorf("count line = %q", res.Lines[1])
	}
}

func TestSeparatorWidth(t *testing.T) {
	if len(Separator) != 55 || strings.Trim(Separator, "-") != "" {
		t.Errorf("Separator = %q", Separator)
	}
}
