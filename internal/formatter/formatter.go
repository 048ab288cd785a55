// package formatter exports scraped records to JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
)

// Format is an output serialization.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// ParseFormat maps a --format value (json, csv, markdown|md, text|txt) to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, text)", shared.ErrInvalidFlag, s)
	}
}

// Export serializes records in the given format.
func Export(records []models.Record, format Format) ([]byte, error) {
	switch format {
	case JSON, "":
		return ExportToJSON(records)
	case CSV:
		return ExportToCSV(records)
	case Markdown:
		return ExportToMarkdown(records)
	case Text:
		return ExportToText(records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToJSON renders records as an indented JSON array; no records yields [].
func ExportToJSON(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	data, err := shared.MarshalJSON(records, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV renders one row per record with columns: Kind, ID, Title, User, URL, Duration, Plays, Likes, Count.
//
// Count is comment_count for tracks, track_count for playlists and followers_count for users.
func ExportToCSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "ID", "Title", "User", "URL", "Duration", "Plays", "Likes", "Count"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		r := rowOf(rec)
		line := []string{
			r.kind,
			num(r.id),
			r.title,
			r.user,
			r.url,
			duration(r.duration),
			num(r.plays),
			num(r.likes),
			num(r.count),
		}
		if err := writer.Write(line); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders records grouped by kind, in input order within each group.
func ExportToMarkdown(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# SoundCloud Export\n\n")
	buf.WriteString(fmt.Sprintf("**Records**: %d\n\n", len(records)))

	for _, group := range []struct{ title, kind string }{
		{"Tracks", models.KindTrack},
		{"Playlists", models.KindPlaylist},
		{"Albums", models.KindAlbum},
		{"Users", models.KindUser},
	} {
		var rows []row
		for _, rec := range records {
			if rec.RecordKind() == group.kind {
				rows = append(rows, rowOf(rec))
			}
		}
		if len(rows) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", group.title))
		for i, r := range rows {
			label := r.title
			if r.url != "" {
				label = fmt.Sprintf("[%s](%s)", r.title, r.url)
			}
			userPart := ""
			if r.user != "" && r.kind != models.KindUser {
				userPart = r.user + " - "
			}
			buf.WriteString(fmt.Sprintf("%d. %s%s%s\n", i+1, userPart, label, r.details()))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per record.
func ExportToText(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Records: %d\n\n", len(records)))
	for i, rec := range records {
		r := rowOf(rec)
		userPart := ""
		if r.user != "" && r.kind != models.KindUser {
			userPart = r.user + " - "
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s%s%s\n", i+1, r.kind, userPart, r.title, r.details()))
	}

	return buf.Bytes(), nil
}

// Write serializes records to w.
func Write(w io.Writer, records []models.Record, format Format) error {
	data, err := Export(records, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteFile serializes records to path, creating parent directories.
func WriteFile(path string, records []models.Record, format Format) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := Export(records, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// row is the flat view of a record used by the tabular formats.
type row struct {
	kind     string
	id       *int64
	title    string
	user     string
	url      string
	duration *int64
	plays    *int64
	likes    *int64
	count    *int64
}

func rowOf(rec models.Record) row {
	switch r := rec.(type) {
	case *models.TrackRecord:
		return row{
			kind:     r.RecordKind(),
			id:       r.ID,
			title:    r.Title,
			user:     r.User.Username,
			url:      r.PermalinkURL,
			duration: r.Duration,
			plays:    r.PlaybackCount,
			likes:    r.LikesCount,
			count:    r.CommentCount,
		}
	case *models.PlaylistRecord:
		n := r.TrackCount
		return row{
			kind:     r.RecordKind(),
			id:       r.ID,
			title:    r.Title,
			user:     r.User.Username,
			url:      r.PermalinkURL,
			duration: r.Duration,
			count:    &n,
		}
	case *models.UserRecord:
		return row{
			kind:  r.RecordKind(),
			id:    r.ID,
			title: r.Username,
			user:  r.Username,
			url:   r.PermalinkURL,
			count: r.FollowersCount,
		}
	default:
		return row{kind: rec.RecordKind(), id: rec.SoundCloudID(), title: rec.Label()}
	}
}

// details renders the bracketed suffix used by the Markdown and text formats.
func (r row) details() string {
	var parts []string
	if r.duration != nil {
		parts = append(parts, shared.FormatDuration(int(*r.duration)))
	}
	if r.count != nil {
		switch r.kind {
		case models.KindTrack:
			parts = append(parts, fmt.Sprintf("%d comments", *r.count))
		case models.KindPlaylist, models.KindAlbum:
			parts = append(parts, fmt.Sprintf("%d tracks", *r.count))
		case models.KindUser:
			parts = append(parts, fmt.Sprintf("%d followers", *r.count))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func num(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func duration(ms *int64) string {
	if ms == nil {
		return ""
	}
	return shared.FormatDuration(int(*ms))
}
