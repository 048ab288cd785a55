package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var _ Model = (*Run)(nil)
var _ Model = (*StoredRecord)(nil)

// Outcome statuses persisted for each input URL.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Run is one persisted scraper invocation.
type Run struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time

	URLCount    int
	Succeeded   int
	Failed      int
	Skipped     int
	Pages       int
	Items       int
	CursorScope string
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// NewRun creates an unsaved run for urlCount input URLs.
func NewRun(cursorScope string, urlCount int, startedAt time.Time) *Run {
	now := time.Now()
	return &Run{
		createdAt:   now,
		updatedAt:   now,
		URLCount:    urlCount,
		CursorScope: cursorScope,
		StartedAt:   startedAt,
	}
}

func (r *Run) ID() string           { return r.id }
func (r *Run) Sequence() int        { return r.sequence }
func (r *Run) CreatedAt() time.Time { return r.createdAt }
func (r *Run) UpdatedAt() time.Time { return r.updatedAt }

func (r *Run) SetID(id string)          { r.id = id }
func (r *Run) SetSequence(seq int)      { r.sequence = seq }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *Run) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Run) Finish(at time.Time)      { r.FinishedAt = &at }
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Validate checks counters are consistent.
func (r *Run) Validate() error {
	if r.id == "" {
		return errors.New("run id is required")
	}
	if r.URLCount < 0 || r.Succeeded < 0 || r.Failed < 0 || r.Skipped < 0 || r.Pages < 0 || r.Items < 0 {
		return errors.New("run counters must not be negative")
	}
	if r.Succeeded+r.Failed+r.Skipped > r.URLCount {
		return fmt.Errorf("run outcomes (%d) exceed url count (%d)", r.Succeeded+r.Failed+r.Skipped, r.URLCount)
	}
	if r.StartedAt.IsZero() {
		return errors.New("run start time is required")
	}
	return nil
}

// MarshalJSON exposes the private identity fields.
func (r *Run) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string     `json:"id"`
		Sequence    int        `json:"sequence"`
		URLCount    int        `json:"url_count"`
		Succeeded   int        `json:"succeeded"`
		Failed      int        `json:"failed"`
		Skipped     int        `json:"skipped"`
		Pages       int        `json:"pages"`
		Items       int        `json:"items"`
		CursorScope string     `json:"cursor_scope"`
		StartedAt   time.Time  `json:"started_at"`
		FinishedAt  *time.Time `json:"finished_at,omitempty"`
	}{r.id, r.sequence, r.URLCount, r.Succeeded, r.Failed, r.Skipped, r.Pages, r.Items, r.CursorScope, r.StartedAt, r.FinishedAt})
}

// StoredRecord is a normalized record persisted as part of a run.
type StoredRecord struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time

	RunID        string          `json:"run_id"`
	Position     int             `json:"position"`
	SourceURL    string          `json:"source_url"`
	Kind         string          `json:"kind"`
	SoundCloudID *int64          `json:"soundcloud_id"`
	Title        string          `json:"title"`
	Payload      json.RawMessage `json:"payload"`
}

// NewStoredRecord serializes rec for storage under runID.
func NewStoredRecord(runID string, position int, sourceURL string, rec Record) (*StoredRecord, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	now := time.Now()
	return &StoredRecord{
		createdAt:    now,
		updatedAt:    now,
		RunID:        runID,
		Position:     position,
		SourceURL:    sourceURL,
		Kind:         rec.RecordKind(),
		SoundCloudID: rec.SoundCloudID(),
		Title:        rec.Label(),
		Payload:      payload,
	}, nil
}

func (s *StoredRecord) ID() string           { return s.id }
func (s *StoredRecord) Sequence() int        { return s.sequence }
func (s *StoredRecord) CreatedAt() time.Time { return s.createdAt }
func (s *StoredRecord) UpdatedAt() time.Time { return s.updatedAt }

func (s *StoredRecord) SetID(id string)          { s.id = id }
func (s *StoredRecord) SetSequence(seq int)      { s.sequence = seq }
func (s *StoredRecord) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *StoredRecord) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// Validate checks required fields.
func (s *StoredRecord) Validate() error {
	switch {
	case s.id == "":
		return errors.New("record id is required")
	case s.RunID == "":
		return errors.New("record run id is required")
	case s.Kind == "":
		return errors.New("record kind is required")
	case !json.Valid(s.Payload):
		return errors.New("record payload must be valid JSON")
	}
	return nil
}

// StoredOutcome is the persisted result for one input URL.
type StoredOutcome struct {
	RunID        string `json:"run_id"`
	Position     int    `json:"position"`
	URL          string `json:"url"`
	ResourceType string `json:"resource_type"`
	Status       string `json:"status"`
	ErrorKind    string `json:"error_kind,omitempty"`
	Message      string `json:"message,omitempty"`
	RecordCount  int    `json:"record_count"`
}
