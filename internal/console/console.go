// Package console provides a Bubble Tea front end that feeds typed
// transcripts to the dispatcher, for use without a microphone.
package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/state"
)

// historySize is how many exchanges stay on screen.
const historySize = 8

// DispatchFunc executes one transcript.
type DispatchFunc func(ctx context.Context, transcript string) (dispatch.Result, error)

// StateFunc returns the current application state.
type StateFunc func() state.State

// resultMsg is sent when a dispatch finishes.
type resultMsg struct {
	transcript string
	result     dispatch.Result
	err        error
}

type exchange struct {
	transcript string
	response   string
	failed     bool
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff")).Bold(true)
	stateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	youStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#c9d1d9"))
	responseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	busyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d29922")).Italic(true)
	helpStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#30363d")).
			Padding(0, 1)
)

// Model is the root Bubble Tea model of the console.
type Model struct {
	ctx      context.Context
	input    textinput.Model
	dispatch DispatchFunc
	state    StateFunc

	busy    bool
	history []exchange
	help    []message.HelpEntry
}

// New creates a console model. view may be nil.
func New(ctx context.Context, fn DispatchFunc, view StateFunc) Model {
	ti := textinput.New()
	ti.Placeholder = `Say something, e.g. "show me science news"`
	ti.Prompt = "> "
	ti.PromptStyle = headerStyle
	ti.CharLimit = 200
	ti.Focus()

	return Model{
		ctx:      ctx,
		input:    ti,
		dispatch: fn,
		state:    view,
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and dispatch results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}

	case resultMsg:
		m.busy = false
		m.record(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	transcript := strings.TrimSpace(m.input.Value())
	if transcript == "" {
		return m, nil
	}
	m.input.SetValue("")
	if m.busy {
		m.push(exchange{transcript: transcript, response: dispatch.BusyResponse, failed: true})
		return m, nil
	}
	m.busy = true
	m.help = nil
	return m, m.run(transcript)
}

func (m Model) run(transcript string) tea.Cmd {
	ctx, fn := m.ctx, m.dispatch
	return func() tea.Msg {
		res, err := fn(ctx, transcript)
		return resultMsg{transcript: transcript, result: res, err: err}
	}
}

func (m *Model) record(msg resultMsg) {
	res := msg.result
	failed := msg.err != nil || res.Err != nil ||
		(res.Outcome != dispatch.OK && res.Outcome != dispatch.OutOfRange)
	m.push(exchange{transcript: msg.transcript, response: res.Response, failed: failed})
	if len(res.Help) > 0 {
		m.help = res.Help
	}
}

func (m *Model) push(e exchange) {
	m.history = append(m.history, e)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

// View renders the state line, the recent exchanges and the input.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("newsvox"))
	if m.state != nil {
		b.WriteString("  ")
		b.WriteString(stateStyle.Render(describe(m.state())))
	}
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(youStyle.Render("you: " + e.transcript))
		b.WriteString("\n")
		style := responseStyle
		if e.failed {
			style = errorStyle
		}
		b.WriteString(style.Render("  " + e.response))
		b.WriteString("\n")
	}

	if len(m.help) > 0 {
		b.WriteString(helpStyle.Render(renderHelp(m.help)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.busy {
		b.WriteString("  ")
		b.WriteString(busyStyle.Render("working..."))
	}
	b.WriteString("\n")
	b.WriteString(stateStyle.Render("enter: send • esc: quit"))
	return b.String()
}

func describe(st state.State) string {
	position := "no articles"
	if n := st.Count(); n > 0 {
		position = fmt.Sprintf("article %d/%d", st.Index+1, n)
	}
	return fmt.Sprintf("%s • %s • reading %s • speaking %s • %s",
		st.Category, position, st.ReadingLanguage, st.SpeakingLanguage, st.Playback)
}

func renderHelp(entries []message.HelpEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%-32s %s", e.Example, e.Description)
	}
	return strings.Join(lines, "\n")
}

// Run starts the console and blocks until the user quits or ctx is done.
func Run(ctx context.Context, fn DispatchFunc, view StateFunc) error {
	p := tea.NewProgram(New(ctx, fn, view), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
