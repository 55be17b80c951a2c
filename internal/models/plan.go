package models

// PlanEntry is a single operation in a [Plan].
//
// ID is the library RemoteID for additions and the PlaylistEntryID for removals.
type PlanEntry struct {
	ID          string
	DisplayName string
	Track       TrackRef
}

// WarningKind classifies a track that could not take part in a sync.
type WarningKind int

const (
	WarnUnsyncable WarningKind = iota // local track found in neither the playlist nor the library
	WarnMalformed                     // record missing title or artist
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnsyncable:
		return "unsyncable"
	case WarnMalformed:
		return "malformed"
	default:
		return ""
	}
}

// Warning reports a track that was left out of a [Plan].
type Warning struct {
	Kind   WarningKind
	Track  TrackRef
	Reason string
}

// Plan is the edit set that makes a remote playlist match a local one.
//
// Entries keep the order in which they were encountered: local order for additions,
// remote order for removals.
type Plan struct {
	ToAdd    []PlanEntry
	ToRemove []PlanEntry
	Warnings []Warning
}

// Empty reports whether the plan has nothing to apply.
func (p *Plan) Empty() bool {
	return p == nil || (len(p.ToAdd) == 0 && len(p.ToRemove) == 0)
}

// AddIDs returns the remote library ids to add, in plan order.
func (p *Plan) AddIDs() []string {
	ids := make([]string, len(p.ToAdd))
	for i, e := range p.ToAdd {
		ids[i] = e.ID
	}
	return ids
}

// RemovedTracks returns the playlist entries to remove, in plan order.
func (p *Plan) RemovedTracks() []TrackRef {
	tracks := make([]TrackRef, len(p.ToRemove))
	for i, e := range p.ToRemove {
		tracks[i] = e.Track
	}
	return tracks
}
