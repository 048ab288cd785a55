package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/formatter"
	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/urfave/cli/v3"
)

// RunsList prints stored runs, newest first.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidFlag)
	}

	db, store, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if runs == nil {
			runs = []*models.Run{}
		}
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No runs stored yet. Use 'scx scrape --store' to record one.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Stored Runs (%d)", len(runs)))
	for _, run := range runs {
		r.writePlain("%s  %s  %d urls  %d ok  %d failed  %d skipped  %s\n",
			run.ID(),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.URLCount, run.Succeeded, run.Failed, run.Skipped,
			shared.FormatDuration(int(run.Duration().Milliseconds())),
		)
	}
	return nil
}

// RunsShow prints one stored run, or exports its records with --format.
func (r *Runner) RunsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	db, store, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	detail, err := store.LoadRun(id)
	if err != nil {
		return err
	}

	if f := cmd.String("format"); f != "" {
		format, err := formatter.ParseFormat(f)
		if err != nil {
			return err
		}
		records, err := decodeRecords(detail.Records)
		if err != nil {
			return err
		}
		return formatter.Write(r.output, records, format)
	}

	run := detail.Run
	r.writePlainHeader(fmt.Sprintf("Run %s", run.ID()))
	r.writePlain("Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	r.writePlain("Duration: %s\n", shared.FormatDuration(int(run.Duration().Milliseconds())))
	r.writePlain("Cursor scope: %s\n", run.CursorScope)
	r.writePlain("URLs: %d (%d ok, %d failed, %d skipped)\n", run.URLCount, run.Succeeded, run.Failed, run.Skipped)
	r.writePlain("Pages: %d (%d items)\n", run.Pages, run.Items)

	r.writePlain("\nOutcomes:\n")
	for _, out := range detail.Outcomes {
		line := fmt.Sprintf("  %d. [%s] %s (%s)", out.Position+1, out.Status, out.URL, out.ResourceType)
		switch {
		case out.ErrorKind != "":
			line += fmt.Sprintf(" %s: %s", out.ErrorKind, out.Message)
		case out.Message != "":
			line += " " + out.Message
		default:
			line += fmt.Sprintf(" %d records", out.RecordCount)
		}
		r.writePlain("%s\n", line)
	}

	if len(detail.Records) > 0 {
		r.writePlain("\nRecords:\n")
		for i, rec := range detail.Records {
			r.writePlain("  %d. [%s] %s\n", i+1, rec.Kind, rec.Title)
		}
	}
	return nil
}

// decodeRecords rebuilds typed records from their stored payloads.
func decodeRecords(stored []*models.StoredRecord) ([]models.Record, error) {
	records := make([]models.Record, 0, len(stored))
	for _, s := range stored {
		var rec models.Record
		switch s.Kind {
		case models.KindTrack:
			rec = &models.TrackRecord{}
		case models.KindPlaylist, models.KindAlbum:
			rec = &models.PlaylistRecord{}
		case models.KindUser:
			rec = &models.UserRecord{}
		default:
			return nil, fmt.Errorf("%w: unknown record kind %q", shared.ErrInvalidInput, s.Kind)
		}
		if err := json.Unmarshal(s.Payload, rec); err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", shared.ErrDecode, s.ID(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}
