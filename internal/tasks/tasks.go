// package tasks implements the playlist sync operation against a remote library.
//
// The core abstraction is SyncEngine, which syncs local playlist files one at a time.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/playlist"
	"github.com/desertthunder/plsync/internal/reconcile"
	"github.com/desertthunder/plsync/internal/services"
	"github.com/desertthunder/plsync/internal/shared"
)

// Status is the per-playlist result of a sync.
type Status string

const (
	StatusUpToDate  Status = "up_to_date" // nothing to change
	StatusApplied   Status = "applied"    // plan approved and applied
	StatusDeclined  Status = "declined"   // confirmation refused or failed
	StatusDryRun    Status = "dry_run"    // plan computed, not applied
	StatusAborted   Status = "aborted"    // dry run needed to create the playlist
	StatusAmbiguous Status = "ambiguous"  // several remote playlists share the name
	StatusFailed    Status = "failed"     // load or remote error
)

// SyncResult describes what happened to one playlist.
type SyncResult struct {
	Path       string                 // Local playlist file
	Playlist   string                 // Playlist name
	Remote     *models.RemotePlaylist // Resolved or created remote playlist
	Created    bool                   // Remote playlist was created by this sync
	Plan       *models.Plan           // Computed plan, nil when the sync stopped earlier
	Summary    string                 // Add/remove listing for dry runs and applied plans
	Status     Status
	Err        error
	Candidates []string // Remote ids sharing the name when Status is StatusAmbiguous
}

// Failed reports whether the playlist ended in an error outcome.
func (r *SyncResult) Failed() bool {
	switch r.Status {
	case StatusFailed, StatusAborted, StatusAmbiguous:
		return true
	default:
		return false
	}
}

// SyncAllResult aggregates the results of a multi-playlist run.
type SyncAllResult struct {
	Results []*SyncResult
}

// FailedCount returns the number of playlists with an error outcome.
func (r *SyncAllResult) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// AllFailed reports whether every playlist ended in an error outcome.
func (r *SyncAllResult) AllFailed() bool {
	return len(r.Results) > 0 && r.FailedCount() == len(r.Results)
}

// PlanResult is a reconciled plan that was not applied.
type PlanResult struct {
	Playlist *models.LocalPlaylist
	Remote   *models.RemotePlaylist // nil when the playlist does not exist remotely yet
	Plan     *models.Plan
}

// Loader reads local playlist files.
type Loader interface {
	Load(path string) (*playlist.Result, error)
}

// Recorder persists the outcome of a sync.
//
// Implemented by repositories.SyncRunRepository.
type Recorder interface {
	Record(run *models.SyncRun) error
}

// SyncEngine defines operations for syncing local playlists into a remote library.
type SyncEngine interface {
	// Sync syncs a single playlist file.
	Sync(ctx context.Context, progress chan<- ProgressUpdate, path string) *SyncResult

	// SyncAll syncs each playlist file in order. A failure is scoped to its playlist.
	SyncAll(ctx context.Context, progress chan<- ProgressUpdate, paths []string) *SyncAllResult

	// Plan reconciles a playlist file without applying or creating anything.
	Plan(ctx context.Context, path string) (*PlanResult, error)
}

// EngineOpts configures a [PlaylistEngine].
type EngineOpts struct {
	Policy        reconcile.Policy
	Matcher       *reconcile.Matcher  // default: reconcile.DefaultMatcher
	Confirmer     reconcile.Confirmer // asked when the policy does not decide
	Recorder      Recorder            // optional sync history
	CreatePrivate bool                // privacy of created playlists
	Logger        *log.Logger
}

// PlaylistEngine implements SyncEngine.
// Contains dependencies on the remote library service and the local playlist loader.
type PlaylistEngine struct {
	service services.LibraryService
	loader  Loader
	opts    EngineOpts
	logger  *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine with the provided service and loader.
func NewPlaylistEngine(service services.LibraryService, loader Loader, opts EngineOpts) *PlaylistEngine {
	if opts.Matcher == nil {
		opts.Matcher = reconcile.DefaultMatcher()
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistEngine{
		service: service,
		loader:  loader,
		opts:    opts,
		logger:  logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}

// session caches the remote library across the playlists of one run.
type session struct {
	progress chan<- ProgressUpdate
	step     int
	total    int
	library  *models.RemoteLibrary
}

// Sync syncs a single playlist file.
func (e *PlaylistEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, path string) *SyncResult {
	s := &session{progress: progress, step: 1, total: 1}
	return e.syncOne(ctx, s, path)
}

// SyncAll syncs each playlist file sequentially.
func (e *PlaylistEngine) SyncAll(ctx context.Context, progress chan<- ProgressUpdate, paths []string) *SyncAllResult {
	result := &SyncAllResult{Results: make([]*SyncResult, 0, len(paths))}
	s := &session{progress: progress, total: len(paths)}

	for i, path := range paths {
		s.step = i + 1
		if err := ctx.Err(); err != nil {
			res := &SyncResult{Path: path, Playlist: playlist.Name(path), Status: StatusFailed, Err: err}
			result.Results = append(result.Results, res)
			e.sendProgress(progress, doneUpdate(s.step, s.total, res))
			continue
		}
		result.Results = append(result.Results, e.syncOne(ctx, s, path))
	}
	return result
}

func (e *PlaylistEngine) syncOne(ctx context.Context, s *session, path string) *SyncResult {
	res := &SyncResult{Path: path, Playlist: playlist.Name(path)}
	logger := shared.WithLogger(e.logger, "playlist", res.Playlist)

	defer func() {
		e.record(s, res, logger)
		e.sendProgress(s.progress, doneUpdate(s.step, s.total, res))
	}()

	if e.service == nil {
		res.fail(StatusFailed, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable))
		return res
	}

	e.sendProgress(s.progress, loadPlaylistUpdate(s.step, s.total, path))
	loaded, err := e.loader.Load(path)
	if err != nil {
		res.fail(StatusFailed, err)
		logger.Error("failed to load playlist", "path", path, "error", err)
		return res
	}
	local := loaded.Playlist
	res.Playlist = local.Name

	e.sendProgress(s.progress, resolvePlaylistUpdate(s.step, s.total, local.Name))
	remote, ids, err := e.resolve(ctx, local.Name)
	switch {
	case errors.Is(err, shared.ErrAmbiguousPlaylist):
		res.Candidates = ids
		res.fail(StatusAmbiguous, err)
		logger.Warn("ambiguous remote playlist", "ids", strings.Join(ids, ","))
		return res
	case err != nil:
		res.fail(StatusFailed, err)
		logger.Error("failed to resolve remote playlist", "error", err)
		return res
	}

	snapshot := &models.RemotePlaylistSnapshot{}
	if remote == nil {
		if err := reconcile.CheckCreate(e.opts.Policy); err != nil {
			res.fail(StatusAborted, fmt.Errorf("%w: %q does not exist remotely", err, local.Name))
			logger.Warn("remote playlist missing in dry run", "error", err)
			return res
		}

		remote, err = e.service.CreatePlaylist(ctx, local.Name, createDescription(local), e.opts.CreatePrivate)
		if err != nil {
			res.fail(StatusFailed, err)
			logger.Error("failed to create remote playlist", "error", err)
			return res
		}
		res.Created = true
		snapshot.Playlist = *remote
		e.sendProgress(s.progress, createPlaylistUpdate(s.step, s.total, remote))
		logger.Info("created remote playlist", "id", remote.ID)
	} else {
		e.sendProgress(s.progress, fetchSnapshotUpdate(s.step, s.total, local.Name))
		snapshot, err = e.service.GetPlaylistSnapshot(ctx, remote.ID)
		if err != nil {
			res.Remote = remote
			res.fail(StatusFailed, err)
			logger.Error("failed to fetch remote playlist", "id", remote.ID, "error", err)
			return res
		}
	}
	res.Remote = remote

	library, err := e.library(ctx, s, local.Name)
	if err != nil {
		res.fail(StatusFailed, err)
		logger.Error("failed to fetch remote library", "error", err)
		return res
	}

	plan := e.opts.Matcher.Reconcile(*local, *snapshot, *library, e.opts.Policy)
	plan.Warnings = mergeWarnings(loaded.Rejected, plan.Warnings)
	res.Plan = plan
	e.sendProgress(s.progress, reconcileUpdate(s.step, s.total, local.Name, plan))
	for _, w := range plan.Warnings {
		logger.Warn("track skipped", "kind", w.Kind, "track", w.Track.DisplayName(), "reason", w.Reason)
	}

	if !plan.Empty() && !e.opts.Policy.DryRun && !e.opts.Policy.AutoConfirm {
		e.sendProgress(s.progress, confirmUpdate(s.step, s.total, local.Name))
	}
	decision := reconcile.Decide(plan, e.opts.Policy, e.confirmer(local.Name))

	switch decision.Outcome {
	case reconcile.OutcomeUpToDate:
		res.Status = StatusUpToDate
	case reconcile.OutcomeDryRun:
		res.Status = StatusDryRun
		res.Summary = decision.Summary
	case reconcile.OutcomeDeclined:
		res.Status = StatusDeclined
		res.Err = decision.Err
	case reconcile.OutcomeApproved:
		e.sendProgress(s.progress, applyUpdate(s.step, s.total, local.Name))
		if err := e.apply(ctx, remote.ID, plan); err != nil {
			res.fail(StatusFailed, err)
			logger.Error("failed to apply plan", "error", err)
			return res
		}
		res.Status = StatusApplied
		res.Summary = decision.Summary
	}

	logger.Info("sync finished", "status", res.Status, "added", len(plan.ToAdd), "removed", len(plan.ToRemove))
	return res
}

// Plan reconciles a playlist without side effects.
//
// A playlist missing remotely is planned against an empty snapshot.
func (e *PlaylistEngine) Plan(ctx context.Context, path string) (*PlanResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	loaded, err := e.loader.Load(path)
	if err != nil {
		return nil, err
	}
	local := loaded.Playlist

	remote, _, err := e.resolve(ctx, local.Name)
	if err != nil {
		return nil, err
	}

	snapshot := &models.RemotePlaylistSnapshot{}
	if remote != nil {
		if snapshot, err = e.service.GetPlaylistSnapshot(ctx, remote.ID); err != nil {
			return nil, err
		}
	}

	library, err := e.service.GetLibrary(ctx)
	if err != nil {
		return nil, err
	}

	plan := e.opts.Matcher.Reconcile(*local, *snapshot, *library, e.opts.Policy)
	plan.Warnings = mergeWarnings(loaded.Rejected, plan.Warnings)
	return &PlanResult{Playlist: local, Remote: remote, Plan: plan}, nil
}

// resolve finds the remote playlist named name.
//
// Returns nil when none exists and [shared.ErrAmbiguousPlaylist] with the ids when several do.
func (e *PlaylistEngine) resolve(ctx context.Context, name string) (*models.RemotePlaylist, []string, error) {
	playlists, err := e.service.GetPlaylists(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list remote playlists: %w", err)
	}

	var matches []models.RemotePlaylist
	for _, p := range playlists {
		if p.Name == name {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil, nil
	case 1:
		return &matches[0], nil, nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, ids, fmt.Errorf("%w: %q matches %s", shared.ErrAmbiguousPlaylist, name, strings.Join(ids, ", "))
	}
}

func (e *PlaylistEngine) library(ctx context.Context, s *session, name string) (*models.RemoteLibrary, error) {
	if s.library != nil {
		return s.library, nil
	}

	e.sendProgress(s.progress, fetchLibraryUpdate(s.step, s.total, name))
	library, err := e.service.GetLibrary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote library: %w", err)
	}
	s.library = library
	return library, nil
}

// apply adds the planned tracks, then removes the planned entries.
//
// A removal failure after a successful add reports how many tracks were already added.
func (e *PlaylistEngine) apply(ctx context.Context, playlistID string, plan *models.Plan) error {
	if len(plan.ToAdd) > 0 {
		if err := e.service.AddTracks(ctx, playlistID, plan.AddIDs()); err != nil {
			return err
		}
	}
	if len(plan.ToRemove) > 0 {
		if err := e.service.RemoveEntries(ctx, playlistID, plan.RemovedTracks()); err != nil {
			if len(plan.ToAdd) > 0 {
				return fmt.Errorf("added %d tracks, then removal failed: %w", len(plan.ToAdd), err)
			}
			return err
		}
	}
	return nil
}

// confirmer prefixes the summary with the playlist name.
func (e *PlaylistEngine) confirmer(name string) reconcile.Confirmer {
	if e.opts.Confirmer == nil {
		return nil
	}
	return reconcile.ConfirmFunc(func(summary string) (bool, error) {
		return e.opts.Confirmer.Confirm(fmt.Sprintf("Playlist %q\n%s", name, summary))
	})
}

func (e *PlaylistEngine) record(s *session, res *SyncResult, logger *log.Logger) {
	if e.opts.Recorder == nil || res.Status == "" {
		return
	}

	e.sendProgress(s.progress, recordUpdate(s.step, s.total, res.Playlist))

	remoteID := ""
	if res.Remote != nil {
		remoteID = res.Remote.ID
	}
	run := models.NewSyncRun(res.Playlist, remoteID, string(res.Status), res.Plan, e.opts.Policy.DryRun)
	if res.Err != nil {
		run.SetMessage(res.Err.Error())
	}

	if err := e.opts.Recorder.Record(run); err != nil {
		logger.Warn("failed to record sync run", "error", err)
	}
}

func (r *SyncResult) fail(status Status, err error) {
	r.Status = status
	r.Err = err
}

// mergeWarnings puts loader rejections ahead of the reconciler's warnings.
func mergeWarnings(rejected, warnings []models.Warning) []models.Warning {
	out := make([]models.Warning, 0, len(rejected)+len(warnings))
	out = append(out, rejected...)
	return append(out, warnings...)
}

func createDescription(local *models.LocalPlaylist) string {
	return fmt.Sprintf("Synced from %s by plsync", local.Path)
}
