package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errMissingTitle  = errors.New("missing title")
	errMissingArtist = errors.New("missing artist")
)

// TrackRef is a track as known to one side of the sync.
//
// Title and Artist are required for matching. SourcePath is only set on the local side;
// RemoteID and PlaylistEntryID are only set on the remote side.
type TrackRef struct {
	Title           string
	Artist          string
	Album           string
	SourcePath      string // Playlist file location or audio file path
	RemoteID        string // Identity of the track in the remote library
	PlaylistEntryID string // Identity of the track's membership in one remote playlist
}

// Validate reports whether the track carries the fields required for matching.
func (t TrackRef) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errMissingTitle
	}
	if strings.TrimSpace(t.Artist) == "" {
		return errMissingArtist
	}
	return nil
}

// DisplayName formats the track as "<artist> - <title>".
func (t TrackRef) DisplayName() string {
	return fmt.Sprintf("%s - %s", t.Artist, t.Title)
}

// LocalPlaylist is the ordered track list read from a local playlist file.
//
// Order is display-only and plays no part in matching.
type LocalPlaylist struct {
	Name   string
	Path   string
	Tracks []TrackRef
}

// RemotePlaylist identifies a playlist in the remote collection.
type RemotePlaylist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
}

// RemotePlaylistSnapshot is a remote playlist with the entries it currently holds.
//
// Every track carries both RemoteID and PlaylistEntryID.
type RemotePlaylistSnapshot struct {
	Playlist RemotePlaylist
	Tracks   []TrackRef
}

// RemoteLibrary is the full set of tracks available in the remote account.
type RemoteLibrary struct {
	Tracks []TrackRef
}
