package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTaskStarted         = "task.started"
	EventTypeTaskQuantityUpdated = "task.quantity_updated"
	EventTypeTaskDone            = "task.done"
)

var TaskEventTypes = []string{
	EventTypeTaskStarted,
	EventTypeTaskQuantityUpdated,
	EventTypeTaskDone,
}

// CellChange is one cell write performed by a task mutation.
type CellChange struct {
	Field    string `json:"field"`
	Column   string `json:"column"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

type TaskEvent struct {
	BaseEvent
	Row      int          `json:"row"`
	Username string       `json:"username"`
	Changes  []CellChange `json:"changes"`
}

func NewTaskEvent(eventType string, row int, username string, changes []CellChange, at time.Time) *TaskEvent {
	return &TaskEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: at,
			Data: map[string]interface{}{
				"row":      row,
				"username": username,
				"changes":  len(changes),
			},
		},
		Row:      row,
		Username: username,
		Changes:  changes,
	}
}
