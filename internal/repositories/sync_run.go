package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// ErrSyncRunNotFound is returned when a run does not exist or was deleted.
var ErrSyncRunNotFound = errors.New("sync run not found")

// SyncRunRepository implements models.Repository[*models.SyncRun] for sync history.
type SyncRunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.SyncRun] = (*SyncRunRepository)(nil)

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a run and its entries with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sync_runs (id, sequence, playlist_name, remote_playlist_id, outcome, added, removed, unsyncable, dry_run, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		run.PlaylistName(),
		run.RemotePlaylistID(),
		run.Outcome(),
		run.Added(),
		run.Removed(),
		run.Unsyncable(),
		run.DryRun(),
		run.Message(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	for i, e := range run.Entries() {
		_, err := tx.Exec(
			`INSERT INTO sync_run_entries (run_id, position, action, entry_id, display_name) VALUES (?, ?, ?, ?, ?)`,
			id, i, e.Action, e.EntryID, e.DisplayName,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sync run entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sync run: %w", err)
	}

	run.SetID(id)
	run.SetSequence(sequence)
	return nil
}

// Get retrieves a run and its entries by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, sequence, playlist_name, remote_playlist_id, outcome, added, removed, unsyncable, dry_run, message, created_at, updated_at
		FROM sync_runs
		WHERE id = ? AND deleted_at IS NULL
	`

	run, err := scanSyncRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSyncRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	entries, err := r.entries(id)
	if err != nil {
		return nil, err
	}
	run.SetEntries(entries)
	return run, nil
}

// Delete soft-deletes a run by ID
func (r *SyncRunRepository) Delete(id string) error {
	query := `
		UPDATE sync_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrSyncRunNotFound, id)
	}

	return nil
}

// List retrieves runs newest first, excluding soft-deleted runs.
//
// Supported criteria: "playlist_name" (string), "outcome" (string), "limit" (int).
// Entries are not loaded; use [SyncRunRepository.Get] for a single run's entries.
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `
		SELECT id, sequence, playlist_name, remote_playlist_id, outcome, added, removed, unsyncable, dry_run, message, created_at, updated_at
		FROM sync_runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["playlist_name"].(string); ok && name != "" {
		query += " AND playlist_name = ?"
		args = append(args, name)
	}

	if outcome, ok := criteria["outcome"].(string); ok && outcome != "" {
		query += " AND outcome = ?"
		args = append(args, outcome)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Record stores a run. It satisfies the sync engine's recorder.
func (r *SyncRunRepository) Record(run *models.SyncRun) error {
	return r.Create(run)
}

func (r *SyncRunRepository) entries(runID string) ([]models.SyncRunEntry, error) {
	rows, err := r.db.Query(
		`SELECT action, entry_id, display_name FROM sync_run_entries WHERE run_id = ? ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync run entries: %w", err)
	}
	defer rows.Close()

	var entries []models.SyncRunEntry
	for rows.Next() {
		var e models.SyncRunEntry
		if err := rows.Scan(&e.Action, &e.EntryID, &e.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan sync run entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSyncRun scans a single row from [sql.Row] or [sql.Rows] into a [models.SyncRun]
func scanSyncRun(row scanner) (*models.SyncRun, error) {
	var (
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
		createdAt        time.Time
		updatedAt        time.Time
	)

	err := row.Scan(&id, &sequence, &playlistName, &remotePlaylistID, &outcome, &added, &removed, &unsyncable, &dryRun, &message, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	return models.RestoreSyncRun(id, sequence, playlistName, remotePlaylistID, outcome,
		added, removed, unsyncable, dryRun, message, createdAt, updatedAt), nil
}
