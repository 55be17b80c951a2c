package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/plsync/internal/playlist"
	"github.com/desertthunder/plsync/internal/reconcile"
	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/desertthunder/plsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// Sync reconciles each local playlist with its remote counterpart and applies approved plans.
//
// Returns [shared.ErrSyncFailed] only when every playlist ended in an error outcome.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	rootDir := config.Sync.RootDir
	if cmd.IsSet("root-dir") {
		rootDir = cmd.String("root-dir")
	}
	paths, err := r.playlistPaths(cmd.Args().Slice(), rootDir)
	if err != nil {
		return err
	}

	policy := reconcile.Policy{
		NoRemove:    boolOverride(cmd, "no-remove", config.Sync.NoRemove),
		DryRun:      boolOverride(cmd, "dry-run", config.Sync.DryRun),
		AutoConfirm: boolOverride(cmd, "yes", config.Sync.AutoConfirm),
	}

	matcher, err := r.matcher(config)
	if err != nil {
		return err
	}

	recorder, closeHistory := r.historyRecorder(config)
	defer closeHistory()

	opts := tasks.EngineOpts{
		Policy:        policy,
		Matcher:       matcher,
		Recorder:      recorder,
		CreatePrivate: config.Remote.CreatePrivate,
		Logger:        r.logger,
	}

	r.logger.Info("starting sync", "playlists", len(paths), "dry_run", policy.DryRun, "no_remove", policy.NoRemove)

	var result *tasks.SyncAllResult
	if cmd.Bool("tui") {
		result, err = r.syncTUI(ctx, config, cmd.String("auth-file"), opts, paths)
		if err != nil {
			return err
		}
	} else {
		opts.Confirmer = r.confirm()
		engine := tasks.NewPlaylistEngine(r.libraryService(config, cmd.String("auth-file")), r.loader, opts)
		result = r.syncAll(ctx, engine, paths)
	}

	if err := r.writePlain("%s", ui.RenderResults(result)); err != nil {
		return err
	}

	if result.AllFailed() {
		return fmt.Errorf("%w: %d of %d playlists", shared.ErrSyncFailed, result.FailedCount(), len(result.Results))
	}
	return nil
}

// syncAll runs the engine while logging its progress updates.
func (r *Runner) syncAll(ctx context.Context, engine tasks.SyncEngine, paths []string) *tasks.SyncAllResult {
	progressCh := make(chan tasks.ProgressUpdate, 50)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			switch update.Phase {
			case tasks.Done, tasks.CreatePlaylist, tasks.Apply:
				r.logger.Info(update.Message, "phase", update.Phase)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()

	result := engine.SyncAll(ctx, progressCh, paths)
	close(progressCh)
	wg.Wait()
	return result
}

// playlistPaths returns the files named on the command line, or every playlist under rootDir.
func (r *Runner) playlistPaths(args []string, rootDir string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if rootDir == "" {
		return nil, fmt.Errorf("%w: pass playlist files or --root-dir", shared.ErrMissingArgument)
	}

	paths, err := playlist.Discover(rootDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no playlists found under %s", shared.ErrMissingArgument, rootDir)
	}
	r.logger.Debug("discovered playlists", "root", rootDir, "count", len(paths))
	return paths, nil
}

// historyRecorder returns the injected recorder, or the sync history database when enabled.
//
// A database that cannot be opened disables history with a warning.
func (r *Runner) historyRecorder(config *shared.Config) (tasks.Recorder, func()) {
	if r.recorder != nil {
		return r.recorder, func() {}
	}
	if !config.Database.RecordHistory {
		return nil, func() {}
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		r.logger.Warn("sync history disabled", "path", config.Database.Path, "error", err)
		return nil, func() {}
	}
	return repositories.NewSyncRunRepository(db), func() { db.Close() }
}

// boolOverride returns the flag value when it was given and fallback otherwise.
func boolOverride(cmd *cli.Command, name string, fallback bool) bool {
	if cmd.IsSet(name) {
		return cmd.Bool(name)
	}
	return fallback
}
