package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/playlist"
	"github.com/desertthunder/plsync/internal/reconcile"
	"github.com/desertthunder/plsync/internal/shared"
	tu "github.com/desertthunder/plsync/internal/testing"
)

// fakeLoader serves playlists by path.
type fakeLoader map[string]*playlist.Result

func (f fakeLoader) Load(path string) (*playlist.Result, error) {
	r, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrEmptyPlaylist, path)
	}
	return r, nil
}

type fakeRecorder struct {
	runs []*models.SyncRun
	err  error
}

func (r *fakeRecorder) Record(run *models.SyncRun) error {
	r.runs = append(r.runs, run)
	return r.err
}

var (
	heroes      = models.TrackRef{Title: "Heroes", Artist: "David Bowie"}
	hyperballad = models.TrackRef{Title: "Hyperballad", Artist: "Björk"}
	notUploaded = models.TrackRef{Title: "Not Uploaded", Artist: "Nobody"}
	wonderwall  = models.TrackRef{Title: "Wonderwall", Artist: "Oasis", RemoteID: "v-wonder"}
)

func library() []models.TrackRef {
	return []models.TrackRef{
		{Title: "Heroes", Artist: "David Bowie", RemoteID: "v-heroes"},
		{Title: "Hyperballad", Artist: "Björk", RemoteID: "v-hyper"},
		{Title: "Paranoid Android", Artist: "Radiohead", RemoteID: "v-para"},
		wonderwall,
	}
}

func roadTrip(tracks ...models.TrackRef) fakeLoader {
	return fakeLoader{
		"Road Trip.xspf": {
			Playlist: &models.LocalPlaylist{Name: "Road Trip", Path: "Road Trip.xspf", Tracks: tracks},
		},
	}
}

func autoConfirm() EngineOpts {
	return EngineOpts{Policy: reconcile.Policy{AutoConfirm: true}, CreatePrivate: true}
}

func remoteIDs(tracks []models.TrackRef) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.RemoteID
	}
	return ids
}

func TestPlaylistEngine_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing playlist and adds tracks", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes, hyperballad, notUploaded), autoConfirm())

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Err != nil {
			t.Fatalf("expected no error, got %v", res.Err)
		}
		if res.Status != StatusApplied {
			t.Errorf("expected status applied, got %s", res.Status)
		}
		if !res.Created {
			t.Error("expected playlist to be created")
		}

		ids := svc.PlaylistIDs("Road Trip")
		if len(ids) != 1 {
			t.Fatalf("expected 1 remote playlist, got %d", len(ids))
		}
		got := remoteIDs(svc.Tracks(ids[0]))
		if strings.Join(got, ",") != "v-heroes,v-hyper" {
			t.Errorf("unexpected remote tracks: %v", got)
		}

		if len(res.Plan.Warnings) != 1 || res.Plan.Warnings[0].Kind != models.WarnUnsyncable {
			t.Errorf("expected one unsyncable warning, got %+v", res.Plan.Warnings)
		}
		if svc.Calls("GetPlaylistSnapshot") != 0 {
			t.Error("expected new playlist to skip the snapshot fetch")
		}
	})

	t.Run("second sync is up to date", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes, hyperballad, notUploaded), autoConfirm())

		first := engine.Sync(ctx, nil, "Road Trip.xspf")
		if first.Status != StatusApplied {
			t.Fatalf("expected first sync to apply, got %s (%v)", first.Status, first.Err)
		}

		second := engine.Sync(ctx, nil, "Road Trip.xspf")
		if second.Status != StatusUpToDate {
			t.Errorf("expected second sync to be up to date, got %s", second.Status)
		}
		if !second.Plan.Empty() {
			t.Errorf("expected empty plan, got %+v", second.Plan)
		}
		if svc.Calls("AddTracks") != 1 || svc.Calls("CreatePlaylist") != 1 {
			t.Errorf("expected a single add and create, got add=%d create=%d",
				svc.Calls("AddTracks"), svc.Calls("CreatePlaylist"))
		}
	})

	t.Run("removes tracks missing locally", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		id := svc.AddPlaylist("Road Trip", wonderwall)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), autoConfirm())

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusApplied {
			t.Fatalf("expected applied, got %s (%v)", res.Status, res.Err)
		}
		if res.Created {
			t.Error("expected existing playlist to be reused")
		}
		if got := remoteIDs(svc.Tracks(id)); strings.Join(got, ",") != "v-heroes" {
			t.Errorf("unexpected remote tracks: %v", got)
		}
	})

	t.Run("no remove keeps extra tracks", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		id := svc.AddPlaylist("Road Trip", wonderwall)
		opts := autoConfirm()
		opts.Policy.NoRemove = true
		engine := NewPlaylistEngine(svc, roadTrip(heroes), opts)

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusApplied {
			t.Fatalf("expected applied, got %s (%v)", res.Status, res.Err)
		}
		if got := remoteIDs(svc.Tracks(id)); strings.Join(got, ",") != "v-wonder,v-heroes" {
			t.Errorf("unexpected remote tracks: %v", got)
		}
		if svc.Calls("RemoveEntries") != 0 {
			t.Error("expected no removal request")
		}
	})

	t.Run("dry run does not apply or ask", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		id := svc.AddPlaylist("Road Trip", wonderwall)
		asked := 0
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{
			Policy: reconcile.Policy{DryRun: true},
			Confirmer: reconcile.ConfirmFunc(func(string) (bool, error) {
				asked++
				return true, nil
			}),
		})

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusDryRun {
			t.Errorf("expected dry_run, got %s", res.Status)
		}
		if asked != 0 {
			t.Errorf("expected confirmer not to be called, got %d calls", asked)
		}
		if len(res.Plan.ToAdd) != 1 || len(res.Plan.ToRemove) != 1 {
			t.Errorf("expected plan with 1 add and 1 remove, got %+v", res.Plan)
		}
		if got := remoteIDs(svc.Tracks(id)); strings.Join(got, ",") != "v-wonder" {
			t.Errorf("expected playlist unchanged, got %v", got)
		}
	})

	t.Run("dry run lists the planned changes", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		svc.AddPlaylist("Road Trip", wonderwall)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{Policy: reconcile.Policy{DryRun: true}})

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		for _, want := range []string{"+ David Bowie - Heroes", "- Oasis - Wonderwall"} {
			if !strings.Contains(res.Summary, want) {
				t.Errorf("summary missing %q, got:\n%s", want, res.Summary)
			}
		}
	})

	t.Run("applied result keeps the summary", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), autoConfirm())

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusApplied || !strings.Contains(res.Summary, "Heroes") {
			t.Errorf("expected applied summary, got %s %q", res.Status, res.Summary)
		}
	})

	t.Run("up to date has no summary", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(), autoConfirm())

		if res := engine.Sync(ctx, nil, "Road Trip.xspf"); res.Summary != "" {
			t.Errorf("expected empty summary, got %q", res.Summary)
		}
	})

	t.Run("dry run aborts when playlist is missing", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{Policy: reconcile.Policy{DryRun: true}})

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusAborted {
			t.Errorf("expected aborted, got %s", res.Status)
		}
		if !errors.Is(res.Err, shared.ErrDryRunCreate) {
			t.Errorf("expected ErrDryRunCreate, got %v", res.Err)
		}
		if svc.Calls("CreatePlaylist") != 0 || svc.Calls("GetLibrary") != 0 {
			t.Error("expected no create and no planning")
		}
		if res.Plan != nil {
			t.Error("expected no plan")
		}
	})

	t.Run("ambiguous remote playlist", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		first := svc.AddPlaylist("Road Trip", wonderwall)
		second := svc.AddPlaylist("Road Trip")
		engine := NewPlaylistEngine(svc, roadTrip(heroes), autoConfirm())

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusAmbiguous {
			t.Errorf("expected ambiguous, got %s", res.Status)
		}
		if !errors.Is(res.Err, shared.ErrAmbiguousPlaylist) {
			t.Errorf("expected ErrAmbiguousPlaylist, got %v", res.Err)
		}
		if strings.Join(res.Candidates, ",") != first+","+second {
			t.Errorf("expected candidates %s,%s, got %v", first, second, res.Candidates)
		}
		for _, id := range []string{first, second} {
			if !strings.Contains(res.Err.Error(), id) {
				t.Errorf("expected error to list %s: %v", id, res.Err)
			}
		}
		if svc.Calls("AddTracks") != 0 || svc.Calls("RemoveEntries") != 0 {
			t.Error("expected nothing to change")
		}
	})

	t.Run("declined confirmation", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		id := svc.AddPlaylist("Road Trip")
		var summary string
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{
			Confirmer: reconcile.ConfirmFunc(func(s string) (bool, error) {
				summary = s
				return false, nil
			}),
		})

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusDeclined {
			t.Errorf("expected declined, got %s", res.Status)
		}
		if res.Failed() {
			t.Error("declined is not an error outcome")
		}
		if !strings.Contains(summary, `Playlist "Road Trip"`) || !strings.Contains(summary, "+ David Bowie - Heroes") {
			t.Errorf("unexpected summary: %q", summary)
		}
		if len(svc.Tracks(id)) != 0 {
			t.Error("expected playlist unchanged")
		}
	})

	t.Run("confirmer error declines", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		svc.AddPlaylist("Road Trip")
		boom := errors.New("stdin closed")
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{
			Confirmer: reconcile.ConfirmFunc(func(string) (bool, error) { return false, boom }),
		})

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusDeclined || !errors.Is(res.Err, boom) {
			t.Errorf("expected declined with error, got %s (%v)", res.Status, res.Err)
		}
	})

	t.Run("approved by confirmer", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		id := svc.AddPlaylist("Road Trip")
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{
			Confirmer: reconcile.ConfirmFunc(func(string) (bool, error) { return true, nil }),
		})

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusApplied {
			t.Errorf("expected applied, got %s (%v)", res.Status, res.Err)
		}
		if len(svc.Tracks(id)) != 1 {
			t.Error("expected track to be added")
		}
	})

	t.Run("remote failures", func(t *testing.T) {
		tests := []struct {
			method string
			seed   bool
		}{
			{method: "GetPlaylists"},
			{method: "CreatePlaylist"},
			{method: "GetPlaylistSnapshot", seed: true},
			{method: "GetLibrary"},
			{method: "AddTracks"},
		}

		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				svc := tu.NewMockLibraryService(library()...)
				if tt.seed {
					svc.AddPlaylist("Road Trip")
				}
				svc.Fail(tt.method, shared.ErrServiceUnavailable)
				engine := NewPlaylistEngine(svc, roadTrip(heroes), autoConfirm())

				res := engine.Sync(ctx, nil, "Road Trip.xspf")
				if res.Status != StatusFailed {
					t.Errorf("expected failed, got %s", res.Status)
				}
				if !errors.Is(res.Err, shared.ErrServiceUnavailable) {
					t.Errorf("expected ErrServiceUnavailable, got %v", res.Err)
				}
			})
		}
	})

	t.Run("load failure", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, fakeLoader{}, autoConfirm())

		res := engine.Sync(ctx, nil, "missing.m3u")
		if res.Status != StatusFailed || !errors.Is(res.Err, shared.ErrEmptyPlaylist) {
			t.Errorf("expected failed with ErrEmptyPlaylist, got %s (%v)", res.Status, res.Err)
		}
		if res.Playlist != "missing" {
			t.Errorf("expected name from path, got %q", res.Playlist)
		}
		if svc.Calls("GetPlaylists") != 0 {
			t.Error("expected no remote calls")
		}
	})

	t.Run("nil service", func(t *testing.T) {
		engine := NewPlaylistEngine(nil, roadTrip(heroes), autoConfirm())
		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if !errors.Is(res.Err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", res.Err)
		}
	})

	t.Run("loader rejections become warnings", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		loader := roadTrip(heroes)
		loader["Road Trip.xspf"].Rejected = []models.Warning{
			{Kind: models.WarnMalformed, Track: models.TrackRef{Title: "Orphan"}, Reason: "missing artist"},
		}
		engine := NewPlaylistEngine(svc, loader, autoConfirm())

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if len(res.Plan.Warnings) != 1 || res.Plan.Warnings[0].Kind != models.WarnMalformed {
			t.Errorf("expected malformed warning, got %+v", res.Plan.Warnings)
		}
	})
}

func TestPlaylistEngine_SyncAll(t *testing.T) {
	ctx := context.Background()

	loader := fakeLoader{
		"Road Trip.xspf": {Playlist: &models.LocalPlaylist{Name: "Road Trip", Tracks: []models.TrackRef{heroes}}},
		"Workout.m3u":    {Playlist: &models.LocalPlaylist{Name: "Workout", Tracks: []models.TrackRef{hyperballad}}},
	}

	t.Run("continues past failures", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, loader, autoConfirm())

		result := engine.SyncAll(ctx, nil, []string{"Road Trip.xspf", "broken.m3u", "Workout.m3u"})
		if len(result.Results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(result.Results))
		}

		want := []Status{StatusApplied, StatusFailed, StatusApplied}
		for i, s := range want {
			if result.Results[i].Status != s {
				t.Errorf("results[%d].Status = %s, want %s", i, result.Results[i].Status, s)
			}
		}
		if result.FailedCount() != 1 || result.AllFailed() {
			t.Errorf("expected 1 failure, got %d (all=%v)", result.FailedCount(), result.AllFailed())
		}
		if svc.Calls("GetLibrary") != 1 {
			t.Errorf("expected library to be fetched once, got %d", svc.Calls("GetLibrary"))
		}
	})

	t.Run("all failed", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		svc.Fail("GetPlaylists", shared.ErrAPIRequest)
		engine := NewPlaylistEngine(svc, loader, autoConfirm())

		result := engine.SyncAll(ctx, nil, []string{"Road Trip.xspf", "Workout.m3u"})
		if !result.AllFailed() {
			t.Error("expected every playlist to fail")
		}
	})

	t.Run("declined is not a failure", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, loader, EngineOpts{
			Confirmer: reconcile.ConfirmFunc(func(string) (bool, error) { return false, nil }),
		})

		result := engine.SyncAll(ctx, nil, []string{"Road Trip.xspf", "Workout.m3u"})
		if result.AllFailed() || result.FailedCount() != 0 {
			t.Errorf("expected no failures, got %d", result.FailedCount())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, loader, autoConfirm())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result := engine.SyncAll(cctx, nil, []string{"Road Trip.xspf"})
		if !errors.Is(result.Results[0].Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", result.Results[0].Err)
		}
		if svc.Calls("GetPlaylists") != 0 {
			t.Error("expected no remote calls")
		}
	})

	t.Run("empty", func(t *testing.T) {
		engine := NewPlaylistEngine(tu.NewMockLibraryService(), loader, autoConfirm())
		if result := engine.SyncAll(ctx, nil, nil); result.AllFailed() {
			t.Error("an empty run has no failures")
		}
	})
}

func TestPlaylistEngine_Recorder(t *testing.T) {
	ctx := context.Background()

	t.Run("records each playlist", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		rec := &fakeRecorder{}
		opts := autoConfirm()
		opts.Recorder = rec
		engine := NewPlaylistEngine(svc, roadTrip(heroes, notUploaded), opts)

		engine.Sync(ctx, nil, "Road Trip.xspf")
		engine.Sync(ctx, nil, "missing.xspf")

		if len(rec.runs) != 2 {
			t.Fatalf("expected 2 recorded runs, got %d", len(rec.runs))
		}

		applied := rec.runs[0]
		if applied.Outcome() != string(StatusApplied) || applied.Added() != 1 || applied.Unsyncable() != 1 {
			t.Errorf("unexpected run: outcome=%s added=%d unsyncable=%d",
				applied.Outcome(), applied.Added(), applied.Unsyncable())
		}
		if applied.RemotePlaylistID() == "" {
			t.Error("expected remote playlist id to be recorded")
		}

		failed := rec.runs[1]
		if failed.Outcome() != string(StatusFailed) || failed.Message() == "" {
			t.Errorf("expected failed run with message, got %s %q", failed.Outcome(), failed.Message())
		}
	})

	t.Run("removal failure records the applied additions", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		id := svc.AddPlaylist("Road Trip", wonderwall)
		svc.Fail("RemoveEntries", shared.ErrServiceUnavailable)
		rec := &fakeRecorder{}
		opts := autoConfirm()
		opts.Recorder = rec
		engine := NewPlaylistEngine(svc, roadTrip(heroes), opts)

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusFailed || !errors.Is(res.Err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected failed with ErrServiceUnavailable, got %s %v", res.Status, res.Err)
		}
		if got := remoteIDs(svc.Tracks(id)); strings.Join(got, ",") != "v-wonder,v-heroes" {
			t.Errorf("expected addition to stay applied, got %v", got)
		}
		if len(rec.runs) != 1 || !strings.Contains(rec.runs[0].Message(), "added 1 tracks") {
			t.Errorf("expected message naming the additions, got %+v", rec.runs)
		}
	})

	t.Run("removal failure without additions", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		svc.AddPlaylist("Road Trip", wonderwall)
		svc.Fail("RemoveEntries", shared.ErrServiceUnavailable)
		engine := NewPlaylistEngine(svc, roadTrip(), autoConfirm())

		res := engine.Sync(ctx, nil, "Road Trip.xspf")
		if res.Status != StatusFailed || strings.Contains(res.Err.Error(), "added") {
			t.Errorf("expected plain failure, got %s %v", res.Status, res.Err)
		}
	})

	t.Run("recorder errors do not change the outcome", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		opts := autoConfirm()
		opts.Recorder = &fakeRecorder{err: errors.New("disk full")}
		engine := NewPlaylistEngine(svc, roadTrip(heroes), opts)

		if res := engine.Sync(ctx, nil, "Road Trip.xspf"); res.Status != StatusApplied {
			t.Errorf("expected applied, got %s", res.Status)
		}
	})
}

func TestPlaylistEngine_Plan(t *testing.T) {
	ctx := context.Background()

	t.Run("missing playlist plans every track", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes, hyperballad), EngineOpts{})

		result, err := engine.Plan(ctx, "Road Trip.xspf")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Remote != nil {
			t.Error("expected no remote playlist")
		}
		if len(result.Plan.ToAdd) != 2 {
			t.Errorf("expected 2 adds, got %d", len(result.Plan.ToAdd))
		}
		if svc.Calls("CreatePlaylist") != 0 {
			t.Error("plan must not create playlists")
		}
	})

	t.Run("existing playlist", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		svc.AddPlaylist("Road Trip", wonderwall)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{})

		result, err := engine.Plan(ctx, "Road Trip.xspf")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Plan.ToRemove) != 1 || result.Plan.ToRemove[0].DisplayName != "Oasis - Wonderwall" {
			t.Errorf("unexpected removals: %+v", result.Plan.ToRemove)
		}
		if svc.Calls("AddTracks") != 0 || svc.Calls("RemoveEntries") != 0 {
			t.Error("plan must not apply changes")
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		svc.AddPlaylist("Road Trip")
		svc.AddPlaylist("Road Trip")
		engine := NewPlaylistEngine(svc, roadTrip(heroes), EngineOpts{})

		if _, err := engine.Plan(ctx, "Road Trip.xspf"); !errors.Is(err, shared.ErrAmbiguousPlaylist) {
			t.Errorf("expected ErrAmbiguousPlaylist, got %v", err)
		}
	})
}

func TestPlaylistEngine_Progress(t *testing.T) {
	ctx := context.Background()

	t.Run("does not block on an unread channel", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), autoConfirm())

		progress := make(chan ProgressUpdate)
		if res := engine.Sync(ctx, progress, "Road Trip.xspf"); res.Status != StatusApplied {
			t.Errorf("expected applied, got %s", res.Status)
		}
	})

	t.Run("emits phases in order", func(t *testing.T) {
		svc := tu.NewMockLibraryService(library()...)
		engine := NewPlaylistEngine(svc, roadTrip(heroes), autoConfirm())

		progress := make(chan ProgressUpdate, 32)
		engine.Sync(ctx, progress, "Road Trip.xspf")
		close(progress)

		var phases []string
		for u := range progress {
			phases = append(phases, u.Phase.String())
		}
		want := "load_playlist,resolve_playlist,create_playlist,fetch_library,reconcile,apply,done"
		if got := strings.Join(phases, ","); got != want {
			t.Errorf("phases = %s, want %s", got, want)
		}
	})
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{LoadPlaylist, "load_playlist"},
		{ResolvePlaylist, "resolve_playlist"},
		{CreatePlaylist, "create_playlist"},
		{FetchSnapshot, "fetch_snapshot"},
		{FetchLibrary, "fetch_library"},
		{Reconcile, "reconcile"},
		{Confirm, "confirm"},
		{Apply, "apply"},
		{Record, "record"},
		{Done, "done"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.want {
				t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
			}
		})
	}
}
