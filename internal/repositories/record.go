package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
)

const recordColumns = `id, sequence, run_id, position, source_url, kind, soundcloud_id, title, payload, created_at, updated_at`

// RecordRepository implements models.Repository[*models.StoredRecord] for normalized run output.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository with the given database connection
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a new record with generated ID and sequence
func (r *RecordRepository) Create(rec *models.StoredRecord) error {
	return inTx(r.db, func(tx *sql.Tx) error { return r.insert(tx, rec) })
}

func (r *RecordRepository) insert(q execer, rec *models.StoredRecord) error {
	sequence, err := nextSequence(q, "records")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	rec.SetID(id)
	rec.SetSequence(sequence)

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.Exec(query,
		id,
		sequence,
		rec.RunID,
		rec.Position,
		rec.SourceURL,
		rec.Kind,
		rec.SoundCloudID,
		rec.Title,
		string(rec.Payload),
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// Get retrieves a record by ID
func (r *RecordRepository) Get(id string) (*models.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ? AND deleted_at IS NULL`

	rec, err := scanRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	return rec, nil
}

// Update replaces a record's title and payload
func (r *RecordRepository) Update(rec *models.StoredRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	rec.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE records SET title = ?, payload = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, rec.Title, string(rec.Payload), now, rec.ID())
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return expectRow(result, rec.ID())
}

// Delete soft-deletes a record by ID
func (r *RecordRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE records SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return expectRow(result, id)
}

// List retrieves records in insertion order.
//
// Criteria: "run_id" (string), "kind" (string).
func (r *RecordRepository) List(criteria map[string]any) ([]*models.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE deleted_at IS NULL`
	args := []any{}

	if runID, ok := criteria["run_id"].(string); ok && runID != "" {
		query += " AND run_id = ?"
		args = append(args, runID)
	}

	if kind, ok := criteria["kind"].(string); ok && kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*models.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// ListByRun returns the records of a run in output order
func (r *RecordRepository) ListByRun(runID string) ([]*models.StoredRecord, error) {
	return r.List(map[string]any{"run_id": runID})
}

func scanRecord(row scanner) (*models.StoredRecord, error) {
	var (
		id           string
		sequence     int
		rec          models.StoredRecord
		soundcloudID sql.NullInt64
		payload      string
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &sequence, &rec.RunID, &rec.Position, &rec.SourceURL, &rec.Kind,
		&soundcloudID, &rec.Title, &payload, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.SetID(id)
	rec.SetSequence(sequence)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)
	rec.Payload = []byte(payload)
	if soundcloudID.Valid {
		rec.SoundCloudID = &soundcloudID.Int64
	}
	return &rec, nil
}
