// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/duke-go/internal/session"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	altScreen bool
	dataFile  string
}

// WithAltScreen runs the TUI in the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithDataFile shows the data file path in the footer.
func WithDataFile(path string) TUIOption {
	return func(c *tuiConfig) {
		c.dataFile = path
	}
}

// RunTUI drives sess from an interactive terminal UI until the user quits
// or a command ends the session.
func RunTUI(ctx context.Context, sess *session.Session, opts ...TUIOption) error {
	c := &tuiConfig{altScreen: true}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newTUIModel(sess, c.dataFile), programOpts...)
	_, err := program.Run()
	return err
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// chromeHeight is the number of rows used by the title, prompt, status and help lines.
const chromeHeight = 5

type keyMap struct {
	Submit   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.PageUp, k.PageDown, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type tuiModel struct {
	sess       *session.Session
	dataFile   string
	keys       keyMap
	help       help.Model
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	ready      bool
}

func newTUIModel(sess *session.Session, dataFile string) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "todo read book"
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Focus()

	m := &tuiModel{
		sess:     sess,
		dataFile: dataFile,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    ti,
		viewport: viewport.New(0, 0),
	}
	m.transcript = append(m.transcript, session.Greeting...)
	m.viewport.SetContent(m.content())
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		m.help.Width = msg.Width
		m.ready = true
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) submit() tea.Cmd {
	line := m.input.Value()
	m.input.Reset()

	res := m.sess.Handle(line)
	m.transcript = append(m.transcript, inputStyle.Render("> "+line))
	for _, out := range res.Lines {
		if res.Err != nil && out == res.Err.Error() {
			out = errorStyle.Render(out)
		}
		m.transcript = append(m.transcript, out)
	}
	m.refresh()

	if m.sess.Done() {
		return tea.Quit
	}
	return nil
}

func (m *tuiModel) refresh() {
	m.viewport.SetContent(m.content())
	m.viewport.GotoBottom()
}

func (m *tuiModel) content() string {
	return strings.Join(m.transcript, "\n")
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Duke"))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.content())
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *tuiModel) status() string {
	status := fmt.Sprintf("%d tasks", m.sess.Processor().Tasks().Size())
	if m.dataFile != "" {
		status += " | " + m.dataFile
	}
	return status
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
