// YouTube Music API [LibraryService] implementation
//
// Communicates with the FastAPI proxy server (music/) running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultYTBaseURL   string  = "http://localhost:8080"
	defaultYTRateLimit float64 = 5.0
)

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a track/video in YouTube Music responses.
type YouTubeTrack struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbum   `json:"album"`
	Duration    string          `json:"duration"`
	DurationSec int             `json:"duration_seconds"`
	SetVideoID  string          `json:"setVideoId,omitempty"` // For playlist operations
}

// TrackRef converts the proxy representation into a [models.TrackRef].
func (t YouTubeTrack) TrackRef() models.TrackRef {
	ref := models.TrackRef{
		Title:           t.Title,
		RemoteID:        t.VideoID,
		PlaylistEntryID: t.SetVideoID,
	}
	if len(t.Artists) > 0 {
		ref.Artist = t.Artists[0].Name
	}
	if t.Album != nil {
		ref.Album = t.Album.Name
	}
	return ref
}

// YouTubePlaylist represents a playlist from YouTube Music.
type YouTubePlaylist struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Privacy     string         `json:"privacy"`
	TrackCount  int            `json:"trackCount"`
	Tracks      []YouTubeTrack `json:"tracks,omitempty"`
}

// YouTubeOpts configures a [YouTubeService].
type YouTubeOpts struct {
	BaseURL    string       // Proxy base URL (default: http://localhost:8080)
	AuthFile   string       // Sent as X-Auth-File
	Token      string       // Bearer token, optional
	RateLimit  float64      // Requests per second (default: 5)
	HTTPClient *http.Client // Base client (default: http.DefaultClient)
}

// YouTubeService implements the LibraryService interface for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	token      string
	base       *http.Client
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ LibraryService = (*YouTubeService)(nil)

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(opts YouTubeOpts) *YouTubeService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYTBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultYTRateLimit
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	y := &YouTubeService{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		authFile: opts.AuthFile,
		base:     opts.HTTPClient,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
	y.setToken(opts.Token)
	return y
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores credentials for subsequent requests.
//
// Accepts credentials["auth_file"] (path to browser.json or oauth.json) and/or credentials["token"].
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile := credentials["auth_file"]
	token := credentials["token"]
	if authFile == "" && token == "" {
		return fmt.Errorf("%w: auth_file or token required", shared.ErrMissingCredentials)
	}

	y.authFile = authFile
	y.setToken(token)
	return nil
}

func (y *YouTubeService) setToken(token string) {
	y.token = token
	if token == "" {
		y.httpClient = y.base
		return
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, y.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	y.httpClient = oauth2.NewClient(ctx, src)
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := shared.ErrAPIRequest
		if resp.StatusCode == http.StatusNotFound {
			kind = shared.ErrPlaylistNotFound
		}

		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music API error (status %d): %s", kind, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music API error: status %d", kind, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetPlaylists retrieves all playlists for the authenticated user.
//
// Calls GET /api/library/playlists on the proxy.
func (y *YouTubeService) GetPlaylists(ctx context.Context) ([]models.RemotePlaylist, error) {
	var ytPlaylists []struct {
		PlaylistID  string `json:"playlistId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Count       int    `json:"count"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/library/playlists", nil, &ytPlaylists); err != nil {
		return nil, err
	}

	playlists := make([]models.RemotePlaylist, len(ytPlaylists))
	for i, ytp := range ytPlaylists {
		playlists[i] = models.RemotePlaylist{
			ID:          ytp.PlaylistID,
			Name:        ytp.Title,
			Description: ytp.Description,
			TrackCount:  ytp.Count,
		}
	}

	return playlists, nil
}

// CreatePlaylist creates an empty playlist.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, name, description string, private bool) (*models.RemotePlaylist, error) {
	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         name,
		Description:   description,
		PrivacyStatus: "PUBLIC",
	}
	if private {
		createReq.PrivacyStatus = "PRIVATE"
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	if createResp.PlaylistID == "" {
		return nil, fmt.Errorf("%w: create playlist returned no id", shared.ErrAPIRequest)
	}

	return &models.RemotePlaylist{
		ID:          createResp.PlaylistID,
		Name:        name,
		Description: description,
	}, nil
}

// GetPlaylistSnapshot fetches a playlist with all its tracks.
//
// Calls GET /api/playlists/{id} on the proxy.
func (y *YouTubeService) GetPlaylistSnapshot(ctx context.Context, playlistID string) (*models.RemotePlaylistSnapshot, error) {
	var ytPlaylist YouTubePlaylist

	endpoint := fmt.Sprintf("/api/playlists/%s", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &ytPlaylist); err != nil {
		return nil, err
	}

	if ytPlaylist.ID == "" {
		ytPlaylist.ID = playlistID
	}

	tracks := make([]models.TrackRef, len(ytPlaylist.Tracks))
	for i, ytt := range ytPlaylist.Tracks {
		tracks[i] = ytt.TrackRef()
	}

	return &models.RemotePlaylistSnapshot{
		Playlist: models.RemotePlaylist{
			ID:          ytPlaylist.ID,
			Name:        ytPlaylist.Title,
			Description: ytPlaylist.Description,
			TrackCount:  ytPlaylist.TrackCount,
		},
		Tracks: tracks,
	}, nil
}

// GetLibrary fetches the user's library songs.
//
// Calls GET /api/library/songs on the proxy.
func (y *YouTubeService) GetLibrary(ctx context.Context) (*models.RemoteLibrary, error) {
	var songs []YouTubeTrack
	if err := y.doRequest(ctx, http.MethodGet, "/api/library/songs", nil, &songs); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackRef, len(songs))
	for i, s := range songs {
		tracks[i] = s.TrackRef()
	}
	return &models.RemoteLibrary{Tracks: tracks}, nil
}

// AddTracks adds library tracks to a playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YouTubeService) AddTracks(ctx context.Context, playlistID string, remoteIDs []string) error {
	if len(remoteIDs) == 0 {
		return nil
	}

	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: remoteIDs,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, addReq, nil); err != nil {
		return fmt.Errorf("failed to add tracks to playlist: %w", err)
	}
	return nil
}

// RemoveEntries removes entries from a playlist.
//
// Calls POST /api/playlists/{id}/items/remove on the proxy.
func (y *YouTubeService) RemoveEntries(ctx context.Context, playlistID string, entries []models.TrackRef) error {
	if len(entries) == 0 {
		return nil
	}

	type video struct {
		VideoID    string `json:"videoId"`
		SetVideoID string `json:"setVideoId"`
	}
	removeReq := struct {
		Videos []video `json:"videos"`
	}{
		Videos: make([]video, len(entries)),
	}
	for i, e := range entries {
		if e.PlaylistEntryID == "" {
			return fmt.Errorf("%w: %s has no playlist entry id", shared.ErrInvalidInput, e.DisplayName())
		}
		removeReq.Videos[i] = video{VideoID: e.RemoteID, SetVideoID: e.PlaylistEntryID}
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items/remove", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodPost, endpoint, removeReq, nil); err != nil {
		return fmt.Errorf("failed to remove tracks from playlist: %w", err)
	}
	return nil
}
