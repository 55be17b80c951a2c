package models

import (
	"fmt"
	"time"
)

// SyncRun records the outcome of syncing one playlist.
type SyncRun struct {
	id               string
	sequence         int
	playlistName     string
	remotePlaylistID string
	outcome          string
	added            int
	removed          int
	unsyncable       int
	dryRun           bool
	message          string
	entries          []SyncRunEntry
	createdAt        time.Time
	updatedAt        time.Time
}

// SyncRunEntry is one planned operation belonging to a [SyncRun].
type SyncRunEntry struct {
	Action      string // "add" or "remove"
	EntryID     string
	DisplayName string
}

// Entry actions
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// NewSyncRun creates a [SyncRun] for the given playlist and outcome.
//
// The plan (possibly nil) supplies the counts and entries.
func NewSyncRun(playlistName, remotePlaylistID, outcome string, plan *Plan, dryRun bool) *SyncRun {
	now := time.Now()
	run := &SyncRun{
		playlistName:     playlistName,
		remotePlaylistID: remotePlaylistID,
		outcome:          outcome,
		dryRun:           dryRun,
		createdAt:        now,
		updatedAt:        now,
	}

	if plan != nil {
		run.added = len(plan.ToAdd)
		run.removed = len(plan.ToRemove)
		for _, w := range plan.Warnings {
			if w.Kind == WarnUnsyncable {
				run.unsyncable++
			}
		}
		for _, e := range plan.ToAdd {
			run.entries = append(run.entries, SyncRunEntry{Action: ActionAdd, EntryID: e.ID, DisplayName: e.DisplayName})
		}
		for _, e := range plan.ToRemove {
			run.entries = append(run.entries, SyncRunEntry{Action: ActionRemove, EntryID: e.ID, DisplayName: e.DisplayName})
		}
	}
	return run
}

// RestoreSyncRun rebuilds a [SyncRun] from stored values.
func RestoreSyncRun(id string, sequence int, playlistName, remotePlaylistID, outcome string,
	added, removed, unsyncable int, dryRun bool, message string, createdAt, updatedAt time.Time,
) *SyncRun {
	return &SyncRun{
		id:               id,
		sequence:         sequence,
		playlistName:     playlistName,
		remotePlaylistID: remotePlaylistID,
		outcome:          outcome,
		added:            added,
		removed:          removed,
		unsyncable:       unsyncable,
		dryRun:           dryRun,
		message:          message,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (r *SyncRun) ID() string               { return r.id }
func (r *SyncRun) Sequence() int            { return r.sequence }
func (r *SyncRun) PlaylistName() string     { return r.playlistName }
func (r *SyncRun) RemotePlaylistID() string { return r.remotePlaylistID }
func (r *SyncRun) Outcome() string          { return r.outcome }
func (r *SyncRun) Added() int               { return r.added }
func (r *SyncRun) Removed() int             { return r.removed }
func (r *SyncRun) Unsyncable() int          { return r.unsyncable }
func (r *SyncRun) DryRun() bool             { return r.dryRun }
func (r *SyncRun) Message() string          { return r.message }
func (r *SyncRun) Entries() []SyncRunEntry  { return r.entries }
func (r *SyncRun) CreatedAt() time.Time     { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time     { return r.updatedAt }

func (r *SyncRun) SetID(id string)                   { r.id = id }
func (r *SyncRun) SetSequence(seq int)               { r.sequence = seq }
func (r *SyncRun) SetMessage(msg string)             { r.message = msg }
func (r *SyncRun) SetEntries(entries []SyncRunEntry) { r.entries = entries }

// Validate checks that the run names a playlist and an outcome.
func (r *SyncRun) Validate() error {
	if r.playlistName == "" {
		return fmt.Errorf("playlist name is required")
	}
	if r.outcome == "" {
		return fmt.Errorf("outcome is required")
	}
	for _, e := range r.entries {
		if e.Action != ActionAdd && e.Action != ActionRemove {
			return fmt.Errorf("invalid entry action %q", e.Action)
		}
	}
	return nil
}

var _ Model = (*SyncRun)(nil)
