package activity

import "time"

type TaskActivity struct {
	ID         string    `gorm:"column:id;primaryKey"`
	EventID    string    `gorm:"column:event_id;index;not null"`
	SheetRow   int       `gorm:"column:sheet_row;index;not null"`
	Action     string    `gorm:"column:action;not null"`
	Username   string    `gorm:"column:username"`
	Field      string    `gorm:"column:field;not null"`
	CellColumn string    `gorm:"column:cell_column;not null"`
	OldValue   string    `gorm:"column:old_value"`
	NewValue   string    `gorm:"column:new_value"`
	Seq        int       `gorm:"column:seq;not null;default:0"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TaskActivity) TableName() string {
	return "task_activities"
}
