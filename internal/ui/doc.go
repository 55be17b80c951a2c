// Package ui renders sync output and asks for plan confirmation in the terminal.
//
// Confirmation comes in three forms, all satisfying reconcile.Confirmer:
//  1. [PromptConfirmer] : bubbletea prompt with a text input, used when stdin is a terminal
//  2. [LineConfirmer] : reads one line, used for piped input
//  3. [Bridge] : forwards questions from a background sync into the TUI [Model]
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting during syncs.
// Its views move from [ProgressView] to [ConfirmView] for each plan needing approval, and end at [ResultView].
package ui
