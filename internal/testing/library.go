package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// MockLibraryService is an in-memory test double for [services.LibraryService].
//
// Playlists hold real membership: AddTracks copies library tracks in with fresh entry ids and
// RemoveEntries drops them by entry id, so repeated syncs observe earlier edits.
type MockLibraryService struct {
	mu        sync.Mutex
	playlists []models.RemotePlaylist
	entries   map[string][]models.TrackRef
	library   []models.TrackRef
	errs      map[string]error
	calls     map[string]int
	nextID    int
}

// NewMockLibraryService creates a service whose library holds the given tracks.
func NewMockLibraryService(library ...models.TrackRef) *MockLibraryService {
	return &MockLibraryService{
		entries: make(map[string][]models.TrackRef),
		library: library,
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// AddPlaylist seeds a playlist and returns its id. Tracks get entry ids when they have none.
func (m *MockLibraryService) AddPlaylist(name string, tracks ...models.TrackRef) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.newID("PL")
	m.playlists = append(m.playlists, models.RemotePlaylist{ID: id, Name: name})
	for _, t := range tracks {
		if t.PlaylistEntryID == "" {
			t.PlaylistEntryID = m.newID("set")
		}
		m.entries[id] = append(m.entries[id], t)
	}
	return id
}

// Fail makes every later call to method return err. A nil err clears it.
func (m *MockLibraryService) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

// Calls returns how many times method was invoked.
func (m *MockLibraryService) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Tracks returns a copy of a playlist's current membership.
func (m *MockLibraryService) Tracks(playlistID string) []models.TrackRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TrackRef(nil), m.entries[playlistID]...)
}

// PlaylistIDs returns the ids of every playlist with the given name.
func (m *MockLibraryService) PlaylistIDs(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, p := range m.playlists {
		if p.Name == name {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (m *MockLibraryService) Name() string { return "mock" }

func (m *MockLibraryService) GetPlaylists(ctx context.Context) ([]models.RemotePlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetPlaylists"); err != nil {
		return nil, err
	}

	out := make([]models.RemotePlaylist, len(m.playlists))
	for i, p := range m.playlists {
		p.TrackCount = len(m.entries[p.ID])
		out[i] = p
	}
	return out, nil
}

func (m *MockLibraryService) CreatePlaylist(ctx context.Context, name, description string, private bool) (*models.RemotePlaylist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreatePlaylist"); err != nil {
		return nil, err
	}

	p := models.RemotePlaylist{ID: m.newID("PL"), Name: name, Description: description}
	m.playlists = append(m.playlists, p)
	return &p, nil
}

func (m *MockLibraryService) GetPlaylistSnapshot(ctx context.Context, playlistID string) (*models.RemotePlaylistSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetPlaylistSnapshot"); err != nil {
		return nil, err
	}

	for _, p := range m.playlists {
		if p.ID == playlistID {
			tracks := append([]models.TrackRef(nil), m.entries[p.ID]...)
			p.TrackCount = len(tracks)
			return &models.RemotePlaylistSnapshot{Playlist: p, Tracks: tracks}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (m *MockLibraryService) GetLibrary(ctx context.Context) (*models.RemoteLibrary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetLibrary"); err != nil {
		return nil, err
	}
	return &models.RemoteLibrary{Tracks: append([]models.TrackRef(nil), m.library...)}, nil
}

func (m *MockLibraryService) AddTracks(ctx context.Context, playlistID string, remoteIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("AddTracks"); err != nil {
		return err
	}

	for _, id := range remoteIDs {
		track, ok := m.libraryTrack(id)
		if !ok {
			return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
		}
		track.PlaylistEntryID = m.newID("set")
		m.entries[playlistID] = append(m.entries[playlistID], track)
	}
	return nil
}

func (m *MockLibraryService) RemoveEntries(ctx context.Context, playlistID string, entries []models.TrackRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RemoveEntries"); err != nil {
		return err
	}

	drop := make(map[string]bool, len(entries))
	for _, e := range entries {
		drop[e.PlaylistEntryID] = true
	}

	kept := m.entries[playlistID][:0]
	for _, t := range m.entries[playlistID] {
		if !drop[t.PlaylistEntryID] {
			kept = append(kept, t)
		}
	}
	m.entries[playlistID] = kept
	return nil
}

func (m *MockLibraryService) enter(method string) error {
	m.calls[method]++
	return m.errs[method]
}

func (m *MockLibraryService) libraryTrack(remoteID string) (models.TrackRef, bool) {
	for _, t := range m.library {
		if t.RemoteID == remoteID {
			return t, true
		}
	}
	return models.TrackRef{}, false
}

func (m *MockLibraryService) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}
