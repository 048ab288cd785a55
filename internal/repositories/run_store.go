package repositories

import (
	"database/sql"
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
)

// RunStoreAdapter implements tasks.RecordStore using RunRepository and RecordRepository.
//
// The run is inserted first so outcomes and records can reference its ID.
// Both repositories must share one database.
type RunStoreAdapter struct {
	runs    *RunRepository
	records *RecordRepository
}

// NewRunStoreAdapter creates a new RunStoreAdapter with the given repositories
func NewRunStoreAdapter(runs *RunRepository, records *RecordRepository) *RunStoreAdapter {
	return &RunStoreAdapter{runs: runs, records: records}
}

// SaveRun persists run, then its outcomes and records under the new run ID,
// in one transaction. On failure nothing is written and run keeps no ID.
func (a *RunStoreAdapter) SaveRun(run *models.Run, outcomes []models.StoredOutcome, records []*models.StoredRecord) error {
	err := inTx(a.runs.db, func(tx *sql.Tx) error {
		if err := a.runs.insert(tx, run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		for i := range outcomes {
			outcomes[i].RunID = run.ID()
		}
		if err := a.runs.insertOutcomes(tx, run.ID(), outcomes); err != nil {
			return fmt.Errorf("failed to save outcomes: %w", err)
		}

		for _, rec := range records {
			rec.RunID = run.ID()
			if err := a.records.insert(tx, rec); err != nil {
				return fmt.Errorf("failed to save record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		run.SetID("")
		return err
	}
	return nil
}

// RunDetail is a stored run with its outcomes and records.
type RunDetail struct {
	Run      *models.Run            `json:"run"`
	Outcomes []models.StoredOutcome `json:"outcomes"`
	Records  []*models.StoredRecord `json:"records"`
}

// LoadRun fetches a run with its outcomes and records.
func (a *RunStoreAdapter) LoadRun(id string) (*RunDetail, error) {
	run, err := a.runs.Get(id)
	if err != nil {
		return nil, err
	}

	outcomes, err := a.runs.Outcomes(id)
	if err != nil {
		return nil, err
	}

	records, err := a.records.ListByRun(id)
	if err != nil {
		return nil, err
	}

	return &RunDetail{Run: run, Outcomes: outcomes, Records: records}, nil
}

// ListRuns returns up to limit runs, newest first. limit ≤ 0 returns all.
func (a *RunStoreAdapter) ListRuns(limit int) ([]*models.Run, error) {
	return a.runs.List(map[string]any{"limit": limit})
}
