package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/desertthunder/plsync/internal/reconcile"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Plan reconciles a single playlist and prints the plan without applying or creating anything.
func (r *Runner) Plan(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: playlist file is required", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	matcher, err := r.matcher(config)
	if err != nil {
		return err
	}

	engine := tasks.NewPlaylistEngine(r.libraryService(config, cmd.String("auth-file")), r.loader, tasks.EngineOpts{
		Policy:  reconcile.Policy{NoRemove: boolOverride(cmd, "no-remove", config.Sync.NoRemove), DryRun: true},
		Matcher: matcher,
		Logger:  r.logger,
	})

	r.logger.Info("planning sync", "file", path)
	res, err := engine.Plan(ctx, path)
	if err != nil {
		return err
	}
	if res.Remote == nil {
		r.logger.Warn("remote playlist does not exist yet, it would be created", "playlist", res.Playlist.Name)
	}

	if output := cmd.String("output"); output != "" {
		written, err := formatter.WritePlanFile(output, format, res.Playlist.Name, res.Plan)
		if err != nil {
			return err
		}
		r.logger.Info("plan written", "path", written)
		return nil
	}
	return formatter.WritePlan(r.output, format, res.Playlist.Name, res.Plan)
}
