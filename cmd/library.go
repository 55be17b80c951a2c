package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/plsync/internal/repositories"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/ui"
	"github.com/urfave/cli/v3"
)

type playlistJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
}

// Playlists lists the playlists in the remote library.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("fetching remote playlists")
	playlists, err := r.libraryService(config, cmd.String("auth-file")).GetPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]playlistJSON, len(playlists))
		for i, pl := range playlists {
			out[i] = playlistJSON{ID: pl.ID, Name: pl.Name, Description: pl.Description, TrackCount: pl.TrackCount}
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", ui.RenderPlaylists(playlists))
}

// History lists recorded sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runs, err := repositories.NewSyncRunRepository(db).List(map[string]any{
		"playlist_name": cmd.String("playlist"),
		"outcome":       cmd.String("outcome"),
		"limit":         int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}
	return r.writePlain("%s", ui.RenderHistory(runs))
}
