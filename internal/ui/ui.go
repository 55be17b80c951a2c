package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProgressView ViewState = iota
	ConfirmView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	view       ViewState
	engine     tasks.SyncEngine
	bridge     *Bridge
	paths      []string
	progress   chan tasks.ProgressUpdate
	done       chan *tasks.SyncAllResult
	current    tasks.ProgressUpdate
	finished   []tasks.ProgressUpdate
	confirm    confirmModel
	pending    *confirmRequest
	result     *tasks.SyncAllResult
	cancelling bool
	help       help.Model
	keys       keyMap
}

// NewModel creates a TUI model that syncs paths with engine.
//
// The engine must ask for confirmation through bridge.
func NewModel(ctx context.Context, engine tasks.SyncEngine, bridge *Bridge, paths []string) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		view:     ProgressView,
		engine:   engine,
		bridge:   bridge,
		paths:    paths,
		progress: make(chan tasks.ProgressUpdate, 50),
		done:     make(chan *tasks.SyncAllResult, 1),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Result returns the result of the run, nil until it has finished.
func (m *Model) Result() *tasks.SyncAllResult {
	return m.result
}

// Init starts the sync in the background.
func (m *Model) Init() tea.Cmd {
	go func() {
		m.done <- m.engine.SyncAll(m.ctx, m.progress, m.paths)
	}()
	return m.wait()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		default:
			return m.handleProgressKeys(msg)
		}
	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.observe(msg.data.(tasks.ProgressUpdate))
			return m, m.wait()
		case MsgConfirmRequest:
			m.pending = msg.data.(*confirmRequest)
			m.confirm = newConfirmModel(m.pending.summary)
			m.view = ConfirmView
			return m, textinput.Blink
		case MsgSyncComplete:
			m.result = msg.data.(*tasks.SyncAllResult)
			m.drain()
			m.view = ResultView
			m.bridge.Close()
			m.cancel()
			if m.cancelling {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.view == ConfirmView {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.confirm.view()
	case ResultView:
		return m.renderResult()
	default:
		return m.renderProgress()
	}
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && !m.cancelling {
		m.cancelling = true
		m.cancel()
		m.bridge.Close()
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.update(msg)
	if !m.confirm.answered {
		return m, cmd
	}

	m.pending.reply <- m.confirm.approved()
	m.pending = nil
	m.view = ProgressView
	return m, m.wait()
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) || key.Matches(msg, m.keys.submit) || key.Matches(msg, m.keys.cancel) {
		return m, tea.Quit
	}
	return m, nil
}

// wait blocks until the engine reports progress, asks a question, or finishes.
func (m *Model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case update := <-m.progress:
			return progressUpdateMsg(update)
		case req := <-m.bridge.requests:
			return confirmRequestMsg(req)
		case result := <-m.done:
			return syncCompleteMsg(result)
		}
	}
}

func (m *Model) observe(update tasks.ProgressUpdate) {
	m.current = update
	if update.Phase == tasks.Done {
		m.finished = append(m.finished, update)
	}
}

// drain consumes updates still buffered when the run completes.
func (m *Model) drain() {
	for {
		select {
		case update := <-m.progress:
			m.observe(update)
		default:
			return
		}
	}
}

func (m *Model) renderProgress() string {
	title := styles.Title("Syncing Playlists")
	if m.cancelling {
		return fmt.Sprintf("%s\n%s", title, styles.Warn("Cancelling..."))
	}

	body := ""
	for _, u := range m.finished {
		body += u.Message + "\n"
	}
	if m.current.Phase != tasks.Done {
		body += m.current.Message + "\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, body, helpView)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return styles.Err("No result available") + "\n"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s", RenderResults(m.result), helpView)
}

// RunSync runs a sync inside the TUI and returns its result once the user quits.
func RunSync(ctx context.Context, engine tasks.SyncEngine, bridge *Bridge, paths []string, opts ...tea.ProgramOption) (*tasks.SyncAllResult, error) {
	model := NewModel(ctx, engine, bridge, paths)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}
	if model.result == nil {
		return nil, errors.New("sync did not finish")
	}
	return model.result, nil
}
