package playlist

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tags"
)

// Format identifies a playlist file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatXSPF
	FormatM3U
)

func (f Format) String() string {
	switch f {
	case FormatXSPF:
		return "xspf"
	case FormatM3U:
		return "m3u"
	default:
		return "unknown"
	}
}

// DetectFormat maps a path's extension to a [Format].
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xspf":
		return FormatXSPF
	case ".m3u", ".m3u8":
		return FormatM3U
	default:
		return FormatUnknown
	}
}

// Name returns the playlist name for a file: its base name without the extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Result is a loaded playlist plus the tracks rejected while loading it.
type Result struct {
	Playlist *models.LocalPlaylist
	Rejected []models.Warning
}

// Loader reads playlist files.
type Loader struct {
	tags   tags.Reader
	logger *log.Logger
}

// NewLoader creates a loader. A nil reader falls back to [tags.FileReader].
func NewLoader(reader tags.Reader, logger *log.Logger) *Loader {
	if reader == nil {
		reader = tags.FileReader{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Loader{tags: reader, logger: logger}
}

// Load parses a playlist file.
//
// Returns [shared.ErrUnsupportedFormat] for unknown extensions, [shared.ErrMalformedPlaylist]
// when the file cannot be parsed and [shared.ErrEmptyPlaylist] when no track survives validation.
func (l *Loader) Load(path string) (*Result, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}
	defer f.Close()

	var entries []entry
	switch format {
	case FormatXSPF:
		entries, err = parseXSPF(f)
	case FormatM3U:
		entries, err = parseM3U(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedPlaylist, path, err)
	}

	result := &Result{
		Playlist: &models.LocalPlaylist{
			Name:   Name(path),
			Path:   path,
			Tracks: make([]models.TrackRef, 0, len(entries)),
		},
	}

	dir := filepath.Dir(path)
	for _, e := range entries {
		track := l.resolve(dir, e)
		if err := track.Validate(); err != nil {
			l.logger.Warn("rejected track", "playlist", result.Playlist.Name, "location", e.location, "reason", err)
			result.Rejected = append(result.Rejected, models.Warning{
				Kind:   models.WarnMalformed,
				Track:  track,
				Reason: err.Error(),
			})
			continue
		}
		result.Playlist.Tracks = append(result.Playlist.Tracks, track)
	}

	if len(result.Playlist.Tracks) == 0 {
		return result, fmt.Errorf("%w: %s", shared.ErrEmptyPlaylist, path)
	}

	l.logger.Debug("loaded playlist", "playlist", result.Playlist.Name, "tracks", len(result.Playlist.Tracks), "rejected", len(result.Rejected))
	return result, nil
}

// resolve fills an entry's missing fields from the audio file's tags.
func (l *Loader) resolve(dir string, e entry) models.TrackRef {
	track := models.TrackRef{
		Title:      strings.TrimSpace(e.title),
		Artist:     strings.TrimSpace(e.artist),
		Album:      strings.TrimSpace(e.album),
		SourcePath: localPath(dir, e.location),
	}

	if e.fromTags && track.SourcePath != "" && tags.Supported(track.SourcePath) {
		if ref, err := l.tags.Read(track.SourcePath); err != nil {
			l.logger.Debug("tag read failed", "path", track.SourcePath, "error", err)
		} else {
			track.Title = preferTag(ref.Title, track.Title, e.hint)
			track.Artist = preferTag(ref.Artist, track.Artist, e.hint)
			if ref.Album != "" {
				track.Album = ref.Album
			}
		}
	}
	return track
}

// preferTag picks the tag value when the entry's own value is only a hint.
func preferTag(tag, own string, hint bool) string {
	if tag == "" {
		return own
	}
	if own == "" || hint {
		return tag
	}
	return own
}

// localPath converts a playlist location into a filesystem path.
func localPath(dir, location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}

	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		if u.Scheme != "file" {
			return location
		}
		location = u.Path
	}

	if !filepath.IsAbs(location) {
		location = filepath.Join(dir, location)
	}
	return filepath.Clean(location)
}

// Discover returns every supported playlist file under root, sorted by path.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if DetectFormat(path) != FormatUnknown {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
