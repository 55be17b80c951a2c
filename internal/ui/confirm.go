package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/reconcile"
	"github.com/mattn/go-isatty"
)

const question = "Apply these changes? [y/N]"

var (
	_ reconcile.Confirmer = (*PromptConfirmer)(nil)
	_ reconcile.Confirmer = (*LineConfirmer)(nil)
	_ reconcile.Confirmer = (*Bridge)(nil)
)

var errBridgeClosed = errors.New("confirmation cancelled")

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewConfirmer returns an interactive prompt when in is a terminal and a line reader otherwise.
func NewConfirmer(in *os.File, out io.Writer) reconcile.Confirmer {
	if IsTerminal(in) {
		return NewPromptConfirmer(in, out)
	}
	return NewLineConfirmer(in, out)
}

// confirmModel asks a yes/no question about a plan summary.
type confirmModel struct {
	summary  string
	input    textinput.Model
	help     help.Model
	keys     keyMap
	answer   string
	answered bool
}

func newConfirmModel(summary string) confirmModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "y/N"
	ti.CharLimit = 8
	ti.Width = 10
	ti.Focus()

	return confirmModel{summary: summary, input: ti, help: help.New(), keys: newKeyMap()}
}

// approved reports whether the answer approves the plan.
func (m confirmModel) approved() bool {
	return m.answered && reconcile.IsAffirmative(m.answer)
}

func (m confirmModel) update(msg tea.Msg) (confirmModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.submit):
			m.answer, m.answered = m.input.Value(), true
			return m, nil
		case key.Matches(k, m.keys.cancel):
			m.answer, m.answered = "", true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) view() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.cancel})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", strings.TrimRight(m.summary, "\n"), styles.Title(question), m.input.View(), helpView)
}

// promptModel runs a single [confirmModel] as its own program.
type promptModel struct {
	confirm confirmModel
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.update(msg)
	if m.confirm.answered {
		return m, tea.Quit
	}
	return m, cmd
}

func (m promptModel) View() string {
	if m.confirm.answered {
		return ""
	}
	return m.confirm.view()
}

// PromptConfirmer asks for confirmation with an interactive terminal prompt.
type PromptConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewPromptConfirmer creates a prompt that reads keys from in and draws to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: in, out: out}
}

// Confirm shows summary and blocks until the user answers. Esc and ctrl+c decline.
func (c *PromptConfirmer) Confirm(summary string) (bool, error) {
	p := tea.NewProgram(promptModel{confirm: newConfirmModel(summary)}, tea.WithInput(c.in), tea.WithOutput(c.out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok {
		return false, nil
	}
	return m.confirm.approved(), nil
}

// LineConfirmer asks for confirmation by reading one line from a non-interactive input.
//
// End of input counts as a refusal.
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer creates a confirmer that reads answers from in.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm writes summary and the question to out, then reads one answer line.
func (c *LineConfirmer) Confirm(summary string) (bool, error) {
	if _, err := fmt.Fprintf(c.out, "%s%s ", summary, question); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return reconcile.IsAffirmative(line), nil
}

// confirmRequest carries one question from the engine to the TUI.
type confirmRequest struct {
	summary string
	reply   chan bool
}

// Bridge lets a sync running in the background ask the TUI for confirmation.
type Bridge struct {
	requests chan *confirmRequest
	closed   chan struct{}
}

// NewBridge creates an open bridge.
func NewBridge() *Bridge {
	return &Bridge{requests: make(chan *confirmRequest), closed: make(chan struct{})}
}

// Confirm blocks until the TUI answers or the bridge is closed.
func (b *Bridge) Confirm(summary string) (bool, error) {
	req := &confirmRequest{summary: summary, reply: make(chan bool, 1)}
	select {
	case b.requests <- req:
	case <-b.closed:
		return false, errBridgeClosed
	}

	select {
	case ok := <-req.reply:
		return ok, nil
	case <-b.closed:
		return false, errBridgeClosed
	}
}

// Close refuses pending and future questions.
func (b *Bridge) Close() {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
}
