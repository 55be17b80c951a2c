// Package tags resolves audio files into [models.TrackRef] metadata.
//
// MP3 files are read through ID3v2 frames and FLAC files through their Vorbis comment block.
// Missing fields are returned empty; callers validate the result.
package tags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// Reader resolves an audio file path into track metadata.
type Reader interface {
	Read(path string) (models.TrackRef, error)
}

// ReaderFunc adapts a function to [Reader].
type ReaderFunc func(path string) (models.TrackRef, error)

// Read calls f.
func (f ReaderFunc) Read(path string) (models.TrackRef, error) { return f(path) }

// FileReader reads tags from audio files on disk.
type FileReader struct{}

// Read dispatches on the file extension.
func (FileReader) Read(path string) (models.TrackRef, error) {
	return Read(path)
}

// Supported reports whether the file extension has a tag reader.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".flac":
		return true
	default:
		return false
	}
}

// Read resolves the tags of a single audio file.
func Read(path string) (models.TrackRef, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return readID3(path)
	case ".flac":
		return readFLAC(path)
	default:
		return models.TrackRef{}, fmt.Errorf("%w: %s", shared.ErrUnsupportedAudio, filepath.Ext(path))
	}
}

func readID3(path string) (models.TrackRef, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return models.TrackRef{}, fmt.Errorf("failed to read id3 tags from %s: %w", path, err)
	}
	defer tag.Close()

	return models.TrackRef{
		Title:      strings.TrimSpace(tag.Title()),
		Artist:     strings.TrimSpace(tag.Artist()),
		Album:      strings.TrimSpace(tag.Album()),
		SourcePath: path,
	}, nil
}

func readFLAC(path string) (models.TrackRef, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return models.TrackRef{}, fmt.Errorf("failed to parse flac file %s: %w", path, err)
	}

	ref := models.TrackRef{SourcePath: path}
	for _, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}

		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return models.TrackRef{}, fmt.Errorf("failed to parse vorbis comment in %s: %w", path, err)
		}

		ref.Title = first(cmt, flacvorbis.FIELD_TITLE)
		ref.Artist = first(cmt, flacvorbis.FIELD_ARTIST)
		ref.Album = first(cmt, flacvorbis.FIELD_ALBUM)
		break
	}
	return ref, nil
}

func first(cmt *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := cmt.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
