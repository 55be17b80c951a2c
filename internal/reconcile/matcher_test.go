package reconcile

import (
	"testing"

	"github.com/desertthunder/plsync/internal/models"
)

// Pairs sharing 17 of 20 and 21 of 25 runes: quick ratios of exactly 0.85 and 0.84.
const (
	boundaryA = "abcdefghijklmnopqrst"
	boundaryB = "abcdefghijklmnopqxyz"
	belowA    = "abcdefghijklmnopqrstuvwxy"
	belowB    = "abcdefghijklmnopqrstu1234"
)

func TestFindBestMatch(t *testing.T) {
	query := models.TrackRef{Title: "Song A", Artist: "Artist X"}

	t.Run("reflexive", func(t *testing.T) {
		candidates := []models.TrackRef{
			{Title: "Other Song", Artist: "Other Artist", RemoteID: "L0"},
			{Title: "Song A", Artist: "Artist X", RemoteID: "L1"},
		}

		got, ok := FindBestMatch(query, candidates)
		if !ok {
			t.Fatal("expected identical candidate to match")
		}
		if got.RemoteID != "L1" {
			t.Errorf("expected L1, got %s", got.RemoteID)
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		if _, ok := FindBestMatch(query, nil); ok {
			t.Error("expected no match for nil candidates")
		}
		if _, ok := FindBestMatch(query, []models.TrackRef{}); ok {
			t.Error("expected no match for empty candidates")
		}
	})

	t.Run("tolerates metadata drift", func(t *testing.T) {
		candidates := []models.TrackRef{
			{Title: "  song a ", Artist: "ARTIST X (feat. Someone)", RemoteID: "L1"},
		}

		if _, ok := FindBestMatch(query, candidates); !ok {
			t.Error("expected casing, whitespace and featuring drift to match")
		}
	})

	t.Run("rejects unrelated tracks", func(t *testing.T) {
		candidates := []models.TrackRef{
			{Title: "Completely Different", Artist: "Nobody", RemoteID: "L1"},
		}

		if _, ok := FindBestMatch(query, candidates); ok {
			t.Error("expected unrelated track not to match")
		}
	})

	t.Run("threshold boundary matches", func(t *testing.T) {
		q := models.TrackRef{Title: boundaryA, Artist: boundaryA}
		c := models.TrackRef{Title: boundaryB, Artist: boundaryB, RemoteID: "L1"}

		if score := DefaultMatcher().Score(q, c); score != 0.85 {
			t.Fatalf("expected contrived pair to score 0.85, got %v", score)
		}
		if _, ok := FindBestMatch(q, []models.TrackRef{c}); !ok {
			t.Error("expected score of exactly 0.85 to match")
		}
	})

	t.Run("below threshold does not match", func(t *testing.T) {
		q := models.TrackRef{Title: belowA, Artist: belowA}
		c := models.TrackRef{Title: belowB, Artist: belowB, RemoteID: "L1"}

		if score := DefaultMatcher().Score(q, c); score != 0.84 {
			t.Fatalf("expected contrived pair to score 0.84, got %v", score)
		}
		if _, ok := FindBestMatch(q, []models.TrackRef{c}); ok {
			t.Error("expected score of 0.84 not to match")
		}
	})

	t.Run("ties keep first seen", func(t *testing.T) {
		q := models.TrackRef{Title: boundaryA, Artist: boundaryA}
		candidates := []models.TrackRef{
			{Title: boundaryB, Artist: boundaryB, RemoteID: "first"},
			{Title: boundaryB, Artist: boundaryB, RemoteID: "second"},
		}

		got, ok := FindBestMatch(q, candidates)
		if !ok {
			t.Fatal("expected a match")
		}
		if got.RemoteID != "first" {
			t.Errorf("expected first-seen candidate on tie, got %s", got.RemoteID)
		}
	})

	t.Run("higher score wins over earlier candidate", func(t *testing.T) {
		q := models.TrackRef{Title: boundaryA, Artist: boundaryA}
		candidates := []models.TrackRef{
			{Title: boundaryB, Artist: boundaryB, RemoteID: "close"},
			{Title: boundaryA, Artist: boundaryB, RemoteID: "closer"},
		}

		got, _ := FindBestMatch(q, candidates)
		if got.RemoteID != "closer" {
			t.Errorf("expected higher scoring candidate, got %s", got.RemoteID)
		}
	})

	t.Run("exact match short-circuits", func(t *testing.T) {
		candidates := []models.TrackRef{
			{Title: "Song A", Artist: "Artist X", RemoteID: "exact"},
			{Title: "song a", Artist: "artist x", RemoteID: "also exact"},
		}

		m := DefaultMatcher()
		calls := 0
		m.Similarity = func(a, b string) float64 {
			calls++
			return QuickRatio(a, b)
		}

		got, ok := m.FindBestMatch(query, candidates)
		if !ok || got.RemoteID != "exact" {
			t.Fatalf("expected first exact candidate, got %+v (ok=%v)", got, ok)
		}
		if calls != 2 {
			t.Errorf("expected scan to stop after first candidate (2 similarity calls), got %d", calls)
		}
	})

	t.Run("empty query fields still scored", func(t *testing.T) {
		q := models.TrackRef{}
		candidates := []models.TrackRef{{Title: "Song A", Artist: "Artist X"}}

		if _, ok := FindBestMatch(q, candidates); ok {
			t.Error("expected empty query not to match a non-empty candidate")
		}
		if _, ok := FindBestMatch(q, []models.TrackRef{{}}); !ok {
			t.Error("expected empty query to match an identical empty candidate")
		}
	})
}

func TestMatcher_CustomThreshold(t *testing.T) {
	q := models.TrackRef{Title: belowA, Artist: belowA}
	c := models.TrackRef{Title: belowB, Artist: belowB}

	m := NewMatcher(0.8, nil)
	if _, ok := m.FindBestMatch(q, []models.TrackRef{c}); !ok {
		t.Error("expected 0.84 to match with threshold 0.8")
	}
}

func TestMatcher_BestMatch(t *testing.T) {
	idx := NewIndex([]models.TrackRef{
		{Title: "Nope", Artist: "None"},
		{Title: "Song A", Artist: "Artist X"},
	})

	if idx.Len() != 2 {
		t.Fatalf("expected 2 indexed candidates, got %d", idx.Len())
	}

	match, ok := DefaultMatcher().BestMatch(models.TrackRef{Title: "Song A", Artist: "Artist X"}, idx)
	if !ok {
		t.Fatal("expected match")
	}
	if match.Index != 1 || match.Score != 1.0 {
		t.Errorf("expected index 1 with score 1.0, got index %d score %v", match.Index, match.Score)
	}

	if _, ok := DefaultMatcher().BestMatch(models.TrackRef{Title: "Song A", Artist: "Artist X"}, nil); ok {
		t.Error("expected nil index not to match")
	}
}
