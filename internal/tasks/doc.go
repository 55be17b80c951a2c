// Package tasks orchestrates local → remote playlist syncs with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines three operations:
//
//  1. [SyncEngine.Sync] : Sync one playlist file
//     - Loads the local playlist and rejects malformed tracks
//     - Resolves the remote playlist by name, creating it when missing
//     - Reconciles local tracks against the remote playlist and library
//     - Runs the plan through the policy gate and applies approved plans
//
//  2. [SyncEngine.SyncAll] : Sync many playlist files in order
//     - The remote library is fetched once per run
//     - Each playlist gets its own [SyncResult]; one failure never stops the others
//
//  3. [SyncEngine.Plan] : Reconcile without side effects
//     - Never creates playlists, asks for confirmation or applies changes
//
// # Outcomes
//
// Every playlist ends in one [Status]. Aborted (dry run would have to create the playlist),
// ambiguous (several remote playlists share the name) and failed are error outcomes and carry Err.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Sync History
//
// The optional [Recorder] interface persists one [models.SyncRun] per playlist.
//
// Recording errors are logged and never change the playlist's outcome.
//
// # Implementation
//
// [PlaylistEngine] implements [SyncEngine] with dependencies on:
//   - [services.LibraryService] : remote library client
//   - [Loader] : local playlist reader (playlist.Loader)
//   - [Recorder] : optional persistence layer (repositories.SyncRunRepository)
package tasks
