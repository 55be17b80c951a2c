package reconcile

import (
	"fmt"

	"github.com/desertthunder/plsync/internal/models"
)

// Reconcile computes the plan for local against remote using [DefaultMatcher].
func Reconcile(local models.LocalPlaylist, remote models.RemotePlaylistSnapshot, library models.RemoteLibrary, policy Policy) *models.Plan {
	return DefaultMatcher().Reconcile(local, remote, library, policy)
}

// Reconcile computes the tracks to add to and remove from the remote playlist.
//
// Each local track missing from the remote playlist is looked up in the library: a match
// becomes an addition keyed by its RemoteID, no match becomes an unsyncable warning.
// Unless policy.NoRemove is set, each remote entry without a local match becomes a removal
// keyed by its PlaylistEntryID. Records missing a title or artist never match; they are
// reported as malformed and produce no operation.
func (m *Matcher) Reconcile(local models.LocalPlaylist, remote models.RemotePlaylistSnapshot, library models.RemoteLibrary, policy Policy) *models.Plan {
	plan := &models.Plan{
		ToAdd:    []models.PlanEntry{},
		ToRemove: []models.PlanEntry{},
	}

	remoteIdx := matchableIndex(remote.Tracks)
	var libraryIdx *Index // built on first miss

	for _, track := range local.Tracks {
		if err := track.Validate(); err != nil {
			plan.Warnings = append(plan.Warnings, malformed(track, err))
			continue
		}

		if _, found := m.BestMatch(track, remoteIdx); found {
			continue
		}

		if libraryIdx == nil {
			libraryIdx = matchableIndex(library.Tracks)
		}

		match, found := m.BestMatch(track, libraryIdx)
		if !found {
			plan.Warnings = append(plan.Warnings, models.Warning{
				Kind:   models.WarnUnsyncable,
				Track:  track,
				Reason: "not found in remote library",
			})
			continue
		}

		plan.ToAdd = append(plan.ToAdd, models.PlanEntry{
			ID:          match.Track.RemoteID,
			DisplayName: track.DisplayName(),
			Track:       match.Track,
		})
	}

	if policy.NoRemove {
		return plan
	}

	localIdx := matchableIndex(local.Tracks)
	for _, track := range remote.Tracks {
		if err := track.Validate(); err != nil {
			plan.Warnings = append(plan.Warnings, malformed(track, err))
			continue
		}

		if _, found := m.BestMatch(track, localIdx); found {
			continue
		}

		plan.ToRemove = append(plan.ToRemove, models.PlanEntry{
			ID:          track.PlaylistEntryID,
			DisplayName: track.DisplayName(),
			Track:       track,
		})
	}

	return plan
}

// matchableIndex indexes the tracks that carry both a title and an artist.
func matchableIndex(tracks []models.TrackRef) *Index {
	idx := &Index{entries: make([]indexEntry, 0, len(tracks))}
	for i, t := range tracks {
		if t.Validate() != nil {
			continue
		}
		idx.entries = append(idx.entries, indexEntry{key: normalizeTrack(t), track: t, pos: i})
	}
	return idx
}

func malformed(track models.TrackRef, err error) models.Warning {
	return models.Warning{
		Kind:   models.WarnMalformed,
		Track:  track,
		Reason: fmt.Sprintf("cannot match: %v", err),
	}
}
