// package services defines interface LibraryService for the remote music library
// that playlists are synced into.
package services

import (
	"context"

	"github.com/desertthunder/plsync/internal/models"
)

// LibraryService is the remote side of a sync: a track library plus the user's playlists.
type LibraryService interface {
	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string

	// GetPlaylists retrieves every playlist owned by the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.RemotePlaylist, error)

	// CreatePlaylist creates an empty playlist and returns its identity.
	CreatePlaylist(ctx context.Context, name, description string, private bool) (*models.RemotePlaylist, error)

	// GetPlaylistSnapshot fetches a playlist with its current membership.
	// Every track carries both its RemoteID and its PlaylistEntryID.
	GetPlaylistSnapshot(ctx context.Context, playlistID string) (*models.RemotePlaylistSnapshot, error)

	// GetLibrary fetches every track in the user's library.
	GetLibrary(ctx context.Context) (*models.RemoteLibrary, error)

	// AddTracks appends library tracks (by RemoteID) to a playlist.
	AddTracks(ctx context.Context, playlistID string, remoteIDs []string) error

	// RemoveEntries removes playlist entries. Each track must carry RemoteID and PlaylistEntryID.
	RemoveEntries(ctx context.Context, playlistID string, entries []models.TrackRef) error
}
