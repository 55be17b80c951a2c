package reconcile

import (
	"github.com/desertthunder/plsync/internal/models"
)

// DefaultThreshold is the minimum combined score for two tracks to be the same recording.
const DefaultThreshold = 0.85

// Matcher finds the best fuzzy match for a track among candidates.
type Matcher struct {
	Threshold  float64
	Similarity Similarity
}

// Match is a candidate chosen by [Matcher.BestMatch].
type Match struct {
	Track models.TrackRef
	Index int // Position in the candidate list
	Score float64
}

// NewMatcher creates a [Matcher]. A nil similarity selects [QuickRatio].
func NewMatcher(threshold float64, sim Similarity) *Matcher {
	if sim == nil {
		sim = QuickRatio
	}
	return &Matcher{Threshold: threshold, Similarity: sim}
}

// DefaultMatcher returns a quick-ratio [Matcher] with [DefaultThreshold].
func DefaultMatcher() *Matcher {
	return NewMatcher(DefaultThreshold, QuickRatio)
}

// FindBestMatch returns the candidate that best matches query using [DefaultMatcher].
func FindBestMatch(query models.TrackRef, candidates []models.TrackRef) (models.TrackRef, bool) {
	return DefaultMatcher().FindBestMatch(query, candidates)
}

// FindBestMatch returns the best candidate scoring at least the threshold.
func (m *Matcher) FindBestMatch(query models.TrackRef, candidates []models.TrackRef) (models.TrackRef, bool) {
	match, ok := m.BestMatch(query, newIndex(candidates))
	if !ok {
		return models.TrackRef{}, false
	}
	return match.Track, true
}

// Score is the mean of the artist and title similarity of two tracks after normalization.
func (m *Matcher) Score(a, b models.TrackRef) float64 {
	return m.score(normalizeTrack(a), normalizeTrack(b))
}

// BestMatch scans idx in order and returns the best entry at or above the threshold.
//
// A score of exactly 1.0 ends the scan early. Equal scores keep the earlier entry.
func (m *Matcher) BestMatch(query models.TrackRef, idx *Index) (Match, bool) {
	if idx == nil || len(idx.entries) == 0 {
		return Match{}, false
	}

	q := normalizeTrack(query)
	best := Match{Index: -1, Score: -1}

	for _, e := range idx.entries {
		score := m.score(q, e.key)
		if score > best.Score {
			best = Match{Track: e.track, Index: e.pos, Score: score}
		}
		if score == 1.0 {
			break
		}
	}

	if best.Index < 0 || best.Score < m.Threshold {
		return Match{}, false
	}
	return best, true
}

func (m *Matcher) score(a, b trackKey) float64 {
	sim := m.Similarity
	if sim == nil {
		sim = QuickRatio
	}
	return (sim(a.artist, b.artist) + sim(a.title, b.title)) / 2
}

// trackKey holds the normalized identity fields of a track.
type trackKey struct {
	artist string
	title  string
}

func normalizeTrack(t models.TrackRef) trackKey {
	return trackKey{artist: Normalize(t.Artist), title: Normalize(t.Title)}
}

type indexEntry struct {
	key   trackKey
	track models.TrackRef
	pos   int
}

// Index is a candidate collection with identity fields normalized once up front.
type Index struct {
	entries []indexEntry
}

// NewIndex normalizes the identity fields of candidates, keeping their order.
func NewIndex(candidates []models.TrackRef) *Index {
	return newIndex(candidates)
}

func newIndex(candidates []models.TrackRef) *Index {
	idx := &Index{entries: make([]indexEntry, 0, len(candidates))}
	for i, c := range candidates {
		idx.entries = append(idx.entries, indexEntry{key: normalizeTrack(c), track: c, pos: i})
	}
	return idx
}

// Len returns the number of indexed candidates.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
