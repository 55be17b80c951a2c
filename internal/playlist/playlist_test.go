package playlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tags"
)

const sampleXSPF = `<?xml version="1.0" encoding="UTF-8"?>
<playlist version="1" xmlns="http://xspf.org/ns/0/">
  <title>Road Trip</title>
  <trackList>
    <track>
      <title> Heroes </title>
      <creator>David Bowie</creator>
      <album>Heroes</album>
      <location>file:///music/heroes.mp3</location>
    </track>
    <track>
      <location>music/hyperballad.flac</location>
    </track>
    <track>
      <title>Orphan</title>
    </track>
  </trackList>
</playlist>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeTags serves tags from a map keyed by path.
func fakeTags(known map[string]models.TrackRef) tags.Reader {
	return tags.ReaderFunc(func(path string) (models.TrackRef, error) {
		ref, ok := known[path]
		if !ok {
			return models.TrackRef{}, errors.New("no tags")
		}
		ref.SourcePath = path
		return ref, nil
	})
}

func TestName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/music/Road Trip.xspf", "Road Trip"},
		{"mix.m3u8", "mix"},
		{"dir/v1.0.m3u", "v1.0"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Name(tt.path); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.xspf", FormatXSPF},
		{"a.XSPF", FormatXSPF},
		{"a.m3u", FormatM3U},
		{"a.m3u8", FormatM3U},
		{"a.pls", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectFormat(tt.path); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoader_XSPF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Road Trip.xspf", sampleXSPF)
	flacPath := filepath.Join(dir, "music", "hyperballad.flac")

	loader := NewLoader(fakeTags(map[string]models.TrackRef{
		flacPath: {Title: "Hyperballad", Artist: "Björk", Album: "Post"},
	}), nil)

	result, err := loader.Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	pl := result.Playlist
	if pl.Name != "Road Trip" {
		t.Errorf("expected name 'Road Trip', got %q", pl.Name)
	}
	if len(pl.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(pl.Tracks))
	}

	t.Run("reads fields and trims", func(t *testing.T) {
		got := pl.Tracks[0]
		if got.Title != "Heroes" || got.Artist != "David Bowie" || got.Album != "Heroes" {
			t.Errorf("unexpected track: %+v", got)
		}
		if got.SourcePath != "/music/heroes.mp3" {
			t.Errorf("expected file URI to become a path, got %q", got.SourcePath)
		}
	})

	t.Run("falls back to tags for missing fields", func(t *testing.T) {
		got := pl.Tracks[1]
		if got.Title != "Hyperballad" || got.Artist != "Björk" {
			t.Errorf("unexpected track: %+v", got)
		}
		if got.SourcePath != flacPath {
			t.Errorf("expected relative location resolved to %q, got %q", flacPath, got.SourcePath)
		}
	})

	t.Run("rejects tracks without artist", func(t *testing.T) {
		if len(result.Rejected) != 1 {
			t.Fatalf("expected 1 rejected track, got %d", len(result.Rejected))
		}
		w := result.Rejected[0]
		if w.Kind != models.WarnMalformed {
			t.Errorf("expected malformed warning, got %v", w.Kind)
		}
		if w.Track.Title != "Orphan" || !strings.Contains(w.Reason, "artist") {
			t.Errorf("unexpected rejection: %+v", w)
		}
	})
}

func TestLoader_M3U(t *testing.T) {
	dir := t.TempDir()
	content := "\ufeff#EXTM3U\n" +
		"#EXTINF:354,Radiohead - Paranoid Android\n" +
		"ok computer/02.mp3\n" +
		"\n" +
		"#EXTINF:200,Wrong Artist - Wrong Title\n" +
		"/abs/tagged.flac\n" +
		"untagged.ogg\n" +
		"#EXTINF:-1,Only A Title\n" +
		"stream.mp3\n"
	path := writeFile(t, dir, "mix.m3u8", content)

	loader := NewLoader(fakeTags(map[string]models.TrackRef{
		"/abs/tagged.flac": {Title: "Get Lucky", Artist: "Daft Punk", Album: "Random Access Memories"},
	}), nil)

	result, err := loader.Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tracks := result.Playlist.Tracks
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d: %+v", len(tracks), tracks)
	}

	if tracks[0].Artist != "Radiohead" || tracks[0].Title != "Paranoid Android" {
		t.Errorf("expected EXTINF fallback, got %+v", tracks[0])
	}
	if tracks[0].SourcePath != filepath.Join(dir, "ok computer", "02.mp3") {
		t.Errorf("unexpected source path %q", tracks[0].SourcePath)
	}

	if tracks[1].Artist != "Daft Punk" || tracks[1].Title != "Get Lucky" {
		t.Errorf("expected tags to override EXTINF, got %+v", tracks[1])
	}

	if len(result.Rejected) != 2 {
		t.Errorf("expected 2 rejected tracks, got %d", len(result.Rejected))
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(fakeTags(nil), nil)

	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{name: "unsupported extension", file: "a.pls", content: "[playlist]", want: shared.ErrUnsupportedFormat},
		{name: "missing trackList", file: "b.xspf", content: `<playlist version="1"><title>x</title></playlist>`, want: shared.ErrMalformedPlaylist},
		{name: "invalid xml", file: "c.xspf", content: `<playlist><trackList>`, want: shared.ErrMalformedPlaylist},
		{name: "empty trackList", file: "d.xspf", content: `<playlist><trackList></trackList></playlist>`, want: shared.ErrEmptyPlaylist},
		{name: "empty m3u", file: "e.m3u", content: "#EXTM3U\n", want: shared.ErrEmptyPlaylist},
		{name: "only malformed tracks", file: "f.xspf", content: `<playlist><trackList><track><title>x</title></track></trackList></playlist>`, want: shared.ErrEmptyPlaylist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			if _, err := loader.Load(path); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := loader.Load(filepath.Join(dir, "missing.xspf")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.xspf", sampleXSPF)
	writeFile(t, dir, "a.m3u", "x.mp3\n")
	writeFile(t, dir, "sub/c.m3u8", "x.mp3\n")
	writeFile(t, dir, "sub/notes.txt", "ignored")
	writeFile(t, dir, ".hidden/d.xspf", sampleXSPF)

	paths, err := Discover(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.m3u"),
		filepath.Join(dir, "b.xspf"),
		filepath.Join(dir, "sub", "c.m3u8"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	t.Run("missing root", func(t *testing.T) {
		if _, err := Discover(filepath.Join(dir, "nope")); err == nil {
			t.Error("expected error for missing root")
		}
	})
}
