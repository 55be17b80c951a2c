// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/plsync/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func authFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "auth-file",
		Usage: "Auth file forwarded to the library proxy (overrides remote.auth_file)",
	}
}

func noRemoveFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-remove",
		Usage: "Never remove tracks from remote playlists",
	}
}

// syncCommand syncs local playlist files into the remote library
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Sync local playlists into the remote library",
		ArgsUsage: "[playlist files...]",
		Flags: []cli.Flag{
			configFlag(),
			authFileFlag(),
			noRemoveFlag(),
			&cli.StringFlag{
				Name:  "root-dir",
				Usage: "Sync every .xspf, .m3u and .m3u8 file under this directory when no files are given",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Compute and print plans without changing anything",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Apply plans without asking for confirmation",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show progress and confirmations in an interactive terminal UI",
			},
		},
		Action: r.Sync,
	}
}

// planCommand prints the plan for a single playlist
func planCommand(r *Runner) *cli.Command {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}

	return &cli.Command{
		Name:  "plan",
		Usage: "Show what sync would change for a playlist, without applying it",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			authFileFlag(),
			noRemoveFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (" + strings.Join(names, ", ") + ")",
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the plan to a file instead of stdout",
			},
		},
		Action: r.Plan,
	}
}

// playlistsCommand lists remote playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List playlists in the remote library",
		Flags: []cli.Flag{
			configFlag(),
			authFileFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Playlists,
	}
}

// historyCommand lists recorded sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded sync runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Only show runs for this playlist",
			},
			&cli.StringFlag{
				Name:  "outcome",
				Usage: "Only show runs with this outcome",
			},
		},
		Action: r.History,
	}
}

// setupCommand writes the config file and prepares the history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file or initialize the database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}
