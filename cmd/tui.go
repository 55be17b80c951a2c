package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/desertthunder/plsync/internal/ui"
)

const tuiLogPath = "./tmp/plsync-tui.log"

// syncTUI runs the sync inside the interactive terminal UI.
//
// Confirmation questions are answered in the TUI rather than on stdin.
func (r *Runner) syncTUI(ctx context.Context, config *shared.Config, authFile string, opts tasks.EngineOpts, paths []string) (*tasks.SyncAllResult, error) {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	opts.Logger = fileLogger

	bridge := ui.NewBridge()
	opts.Confirmer = bridge
	engine := tasks.NewPlaylistEngine(r.libraryService(config, authFile), r.loader, opts)

	return ui.RunSync(ctx, engine, bridge, paths)
}
