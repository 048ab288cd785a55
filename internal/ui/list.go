package ui

import (
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/models"
	"github.com/Kiara-243/soundcloud-scraper/internal/tasks"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = outcomeItem{}
	_ list.Item = recordItem{}
)

// outcomeItem wraps [tasks.Outcome] to implement [list.Item].
type outcomeItem struct {
	outcome tasks.Outcome
}

func (i outcomeItem) FilterValue() string { return i.outcome.URL }
func (i outcomeItem) Title() string       { return i.outcome.URL }
func (i outcomeItem) Description() string {
	o := i.outcome
	switch o.Status() {
	case models.StatusFailed:
		return fmt.Sprintf("%s • %s • %v", o.Status(), o.Classification.Type, o.Err)
	case models.StatusSkipped:
		return fmt.Sprintf("%s • %s", o.Status(), o.Reason)
	default:
		return fmt.Sprintf("%s • %s • %d records", o.Status(), o.Classification.Type, len(o.Records))
	}
}

// recordItem wraps [models.Record] to implement [list.Item].
type recordItem struct {
	record models.Record
}

func (i recordItem) FilterValue() string { return i.record.Label() }
func (i recordItem) Title() string {
	if label := i.record.Label(); label != "" {
		return label
	}
	return "(untitled)"
}
func (i recordItem) Description() string {
	desc := i.record.RecordKind()
	if id := i.record.SoundCloudID(); id != nil {
		desc = fmt.Sprintf("%s • id %d", desc, *id)
	}
	if t, ok := i.record.(*models.TrackRecord); ok && len(t.Comments) > 0 {
		desc = fmt.Sprintf("%s • %d comments", desc, len(t.Comments))
	}
	return desc
}
