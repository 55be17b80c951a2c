package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Sync errors
	ErrAmbiguousPlaylist = fmt.Errorf("multiple remote playlists share this name")
	ErrDryRunCreate      = fmt.Errorf("dry run cannot create a missing playlist")
	ErrSyncFailed        = fmt.Errorf("every playlist failed to sync")

	// Local playlist errors
	ErrUnsupportedFormat = fmt.Errorf("unsupported playlist format")
	ErrMalformedPlaylist = fmt.Errorf("malformed playlist")
	ErrEmptyPlaylist     = fmt.Errorf("playlist is empty")
	ErrMalformedTrack    = fmt.Errorf("malformed track record")
	ErrUnsupportedAudio  = fmt.Errorf("unsupported audio file")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
