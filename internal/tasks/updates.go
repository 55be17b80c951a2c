package tasks

import (
	"fmt"

	"github.com/desertthunder/plsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase    Phase  // Operation phase
	Step     int    // Current playlist number
	Total    int    // Total playlists in this run
	Playlist string // Playlist being processed
	Message  string // Human-readable message for display
	Data     any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadPlaylist Phase = iota
	ResolvePlaylist
	CreatePlaylist
	FetchSnapshot
	FetchLibrary
	Reconcile
	Confirm
	Apply
	Record
	Done
)

func (p Phase) String() string {
	switch p {
	case LoadPlaylist:
		return "load_playlist"
	case ResolvePlaylist:
		return "resolve_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case FetchSnapshot:
		return "fetch_snapshot"
	case FetchLibrary:
		return "fetch_library"
	case Reconcile:
		return "reconcile"
	case Confirm:
		return "confirm"
	case Apply:
		return "apply"
	case Record:
		return "record"
	case Done:
		return "done"
	default:
		return ""
	}
}

func loadPlaylistUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Loading %s...", step, total, path),
	}
}

func resolvePlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    ResolvePlaylist,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message:  fmt.Sprintf("Looking up remote playlist %q...", name),
	}
}

func createPlaylistUpdate(step, total int, pl *models.RemotePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:    CreatePlaylist,
		Step:     step,
		Total:    total,
		Playlist: pl.Name,
		Message:  fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:     pl,
	}
}

func fetchSnapshotUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchSnapshot,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message:  "Fetching remote playlist tracks...",
	}
}

func fetchLibraryUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    FetchLibrary,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message:  "Fetching remote library...",
	}
}

func reconcileUpdate(step, total int, name string, plan *models.Plan) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Reconcile,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message: fmt.Sprintf("%d to add, %d to remove, %d warnings",
			len(plan.ToAdd), len(plan.ToRemove), len(plan.Warnings)),
		Data: plan,
	}
}

func applyUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Apply,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message:  "Applying changes...",
	}
}

func doneUpdate(step, total int, res *SyncResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s: %s", step, total, res.Playlist, res.Status)
	if res.Err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %s: %v", step, total, res.Playlist, res.Status, res.Err)
	}
	return ProgressUpdate{
		Phase:    Done,
		Step:     step,
		Total:    total,
		Playlist: res.Playlist,
		Message:  msg,
		Data:     res,
	}
}

func confirmUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Confirm,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message:  "Waiting for confirmation...",
	}
}

func recordUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:    Record,
		Step:     step,
		Total:    total,
		Playlist: name,
		Message:  "Recording sync history...",
	}
}
