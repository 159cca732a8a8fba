package activity

import (
	"time"

	activityDatamodel "github.com/frahmantamala/shopfloor-tasks/internal/core/datamodel/activity"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/events"
	"github.com/google/uuid"
)

// Entry is one cell write made by a task action. Seq is the write order within its event.
type Entry struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	Row        int       `json:"row"`
	Action     string    `json:"action"`
	Username   string    `json:"username"`
	Field      string    `json:"field"`
	Column     string    `json:"column"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	Seq        int       `json:"seq"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EntriesFromEvent expands a task event into one entry per changed cell.
func EntriesFromEvent(event *events.TaskEvent) []*Entry {
	entries := make([]*Entry, 0, len(event.Changes))
	for i, change := range event.Changes {
		entries = append(entries, &Entry{
			ID:         uuid.NewString(),
			EventID:    event.EventID(),
			Row:        event.Row,
			Action:     event.EventType(),
			Username:   event.Username,
			Field:      change.Field,
			Column:     change.Column,
			OldValue:   change.OldValue,
			NewValue:   change.NewValue,
			Seq:        i,
			OccurredAt: event.OccurredAt(),
		})
	}
	return entries
}

func ToDataModel(e *Entry) *activityDatamodel.TaskActivity {
	return &activityDatamodel.TaskActivity{
		ID:         e.ID,
		EventID:    e.EventID,
		SheetRow:   e.Row,
		Action:     e.Action,
		Username:   e.Username,
		Field:      e.Field,
		CellColumn: e.Column,
		OldValue:   e.OldValue,
		NewValue:   e.NewValue,
		Seq:        e.Seq,
		OccurredAt: e.OccurredAt,
	}
}

func FromDataModel(a *activityDatamodel.TaskActivity) *Entry {
	return &Entry{
		ID:         a.ID,
		EventID:    a.EventID,
		Row:        a.SheetRow,
		Action:     a.Action,
		Username:   a.Username,
		Field:      a.Field,
		Column:     a.CellColumn,
		OldValue:   a.OldValue,
		NewValue:   a.NewValue,
		Seq:        a.Seq,
		OccurredAt: a.OccurredAt,
	}
}
