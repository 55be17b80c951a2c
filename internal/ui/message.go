package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgConfirmRequest
	MsgSyncComplete
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// confirmRequestMsg is the constructor for [MsgConfirmRequest]
func confirmRequestMsg(req *confirmRequest) Msg {
	return Msg{kind: MsgConfirmRequest, data: req}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg(result *tasks.SyncAllResult) Msg {
	return Msg{kind: MsgSyncComplete, data: result}
}
