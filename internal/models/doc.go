// Package models defines the value types and persistence entities for plsync.
//
// The package contains two categories of types:
//
// 1. Value objects passed through a single reconciliation:
//   - [TrackRef] : a track as known to one side of the sync
//   - [LocalPlaylist] : the source-of-truth track list read from a playlist file
//   - [RemotePlaylistSnapshot] : a remote playlist and its current entries
//   - [RemoteLibrary] : every track available in the remote account
//   - [Plan] : the add/remove edit set produced by the reconciler
//
// 2. Persistent entities: database-backed records of past syncs
//   - [SyncRun] : one playlist sync with its outcome and counts
//   - [SyncRunEntry] : one planned add or remove belonging to a run
//
// Persistent entities implement the [Model] interface and are stored through [Repository].
package models
