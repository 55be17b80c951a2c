package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/tasks"
)

const timeLayout = "2006-01-02 15:04"

// RenderResults summarizes a sync run, one line per playlist followed by its planned changes and warnings.
func RenderResults(result *tasks.SyncAllResult) string {
	var b strings.Builder
	b.WriteString(styles.Title("Sync Complete"))
	b.WriteString("\n")

	for _, res := range result.Results {
		fmt.Fprintf(&b, "%s %s", styles.Status(res.Status), res.Playlist)
		if res.Plan != nil && (res.Status == tasks.StatusApplied || res.Status == tasks.StatusDryRun || res.Status == tasks.StatusDeclined) {
			fmt.Fprintf(&b, " (+%d -%d)", len(res.Plan.ToAdd), len(res.Plan.ToRemove))
		}
		if res.Created {
			b.WriteString(" [created]")
		}
		b.WriteString("\n")

		for _, line := range strings.Split(strings.TrimRight(res.Summary, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
		if res.Err != nil {
			fmt.Fprintf(&b, "  %s\n", styles.Err(res.Err.Error()))
		}
		if len(res.Candidates) > 0 {
			fmt.Fprintf(&b, "  candidates: %s\n", strings.Join(res.Candidates, ", "))
		}
		if res.Plan != nil {
			for _, w := range res.Plan.Warnings {
				fmt.Fprintf(&b, "  %s\n", styles.Warn(fmt.Sprintf("%s: %s (%s)", w.Kind, warningName(w), w.Reason)))
			}
		}
	}

	failed := result.FailedCount()
	line := fmt.Sprintf("%d playlists, %d failed", len(result.Results), failed)
	if failed > 0 {
		line = styles.Err(line)
	} else {
		line = styles.OK(line)
	}
	b.WriteString(line)
	b.WriteString("\n")
	return b.String()
}

// RenderHistory renders recorded sync runs as a table.
func RenderHistory(runs []*models.SyncRun) string {
	if len(runs) == 0 {
		return styles.Help("No sync history.") + "\n"
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		outcome := run.Outcome()
		if run.DryRun() {
			outcome += " (dry run)"
		}
		rows = append(rows, []string{
			strconv.Itoa(run.Sequence()),
			run.CreatedAt().Local().Format(timeLayout),
			run.PlaylistName(),
			outcome,
			strconv.Itoa(run.Added()),
			strconv.Itoa(run.Removed()),
			strconv.Itoa(run.Unsyncable()),
		})
	}
	return newTable("#", "When", "Playlist", "Outcome", "Added", "Removed", "Unsyncable").Rows(rows...).String() + "\n"
}

// RenderPlaylists renders remote playlists as a table.
func RenderPlaylists(playlists []models.RemotePlaylist) string {
	if len(playlists) == 0 {
		return styles.Help("No playlists found.") + "\n"
	}

	rows := make([][]string, 0, len(playlists))
	for _, pl := range playlists {
		rows = append(rows, []string{pl.ID, pl.Name, strconv.Itoa(pl.TrackCount)})
	}
	return newTable("ID", "Name", "Tracks").Rows(rows...).String() + "\n"
}

func newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

func warningName(w models.Warning) string {
	if w.Track.Title == "" && w.Track.Artist == "" && w.Track.SourcePath != "" {
		return w.Track.SourcePath
	}
	return w.Track.DisplayName()
}
