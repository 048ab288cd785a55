package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
)

const runColumns = `id, sequence, url_count, succeeded, failed, skipped, pages, items, cursor_scope, started_at, finished_at, created_at, updated_at`

// RunRepository implements models.Repository[*models.Run] for scrape run history.
//
// Also stores the per-URL outcomes of each run.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	return inTx(r.db, func(tx *sql.Tx) error { return r.insert(tx, run) })
}

func (r *RunRepository) insert(q execer, run *models.Run) error {
	sequence, err := nextSequence(q, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.Exec(query,
		id,
		sequence,
		run.URLCount,
		run.Succeeded,
		run.Failed,
		run.Skipped,
		run.Pages,
		run.Items,
		run.CursorScope,
		run.StartedAt,
		run.FinishedAt,
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ? AND deleted_at IS NULL`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return run, nil
}

// Update writes the run's counters and finish time
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET succeeded = ?, failed = ?, skipped = ?, pages = ?, items = ?, finished_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Succeeded,
		run.Failed,
		run.Skipped,
		run.Pages,
		run.Items,
		run.FinishedAt,
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return expectRow(result, run.ID())
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return expectRow(result, id)
}

// List retrieves runs newest first, excluding soft-deleted runs.
//
// Criteria: "cursor_scope" (string), "limit" (int, > 0).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE deleted_at IS NULL`
	args := []any{}

	if scope, ok := criteria["cursor_scope"].(string); ok && scope != "" {
		query += " AND cursor_scope = ?"
		args = append(args, scope)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// SaveOutcomes inserts the per-URL outcomes of a run
func (r *RunRepository) SaveOutcomes(runID string, outcomes []models.StoredOutcome) error {
	return inTx(r.db, func(tx *sql.Tx) error { return r.insertOutcomes(tx, runID, outcomes) })
}

func (r *RunRepository) insertOutcomes(q execer, runID string, outcomes []models.StoredOutcome) error {
	query := `
		INSERT INTO outcomes (run_id, position, url, resource_type, status, error_kind, message, record_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, o := range outcomes {
		if _, err := q.Exec(query, runID, o.Position, o.URL, o.ResourceType, o.Status, o.ErrorKind, o.Message, o.RecordCount); err != nil {
			return fmt.Errorf("failed to insert outcome %d: %w", o.Position, err)
		}
	}
	return nil
}

// Outcomes returns the outcomes of a run in input order
func (r *RunRepository) Outcomes(runID string) ([]models.StoredOutcome, error) {
	rows, err := r.db.Query(`
		SELECT run_id, position, url, resource_type, status, error_kind, message, record_count
		FROM outcomes
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.StoredOutcome
	for rows.Next() {
		var o models.StoredOutcome
		if err := rows.Scan(&o.RunID, &o.Position, &o.URL, &o.ResourceType, &o.Status, &o.ErrorKind, &o.Message, &o.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return outcomes, nil
}

// scanner is satisfied by [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		id         string
		sequence   int
		run        models.Run
		finishedAt sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&id, &sequence, &run.URLCount, &run.Succeeded, &run.Failed, &run.Skipped,
		&run.Pages, &run.Items, &run.CursorScope, &run.StartedAt, &finishedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	run.SetID(id)
	run.SetSequence(sequence)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if finishedAt.Valid {
		run.Finish(finishedAt.Time)
	}
	return &run, nil
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("not found or already deleted: %s", id)
	}
	return nil
}
