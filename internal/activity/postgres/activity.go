package postgres

import (
	"context"

	"github.com/frahmantamala/shopfloor-tasks/internal/activity"
	activityDatamodel "github.com/frahmantamala/shopfloor-tasks/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.RepositoryAPI {
	return &ActivityRepository{db: db}
}

// CreateBatch stores all records of one event in a single transaction.
func (r *ActivityRepository) CreateBatch(ctx context.Context, activities []*activityDatamodel.TaskActivity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&activities).Error
	})
}

func (r *ActivityRepository) ListByRow(ctx context.Context, row, limit int) ([]*activityDatamodel.TaskActivity, error) {
	var activities []*activityDatamodel.TaskActivity
	err := r.db.WithContext(ctx).
		Where("sheet_row = ?", row).
		Order("occurred_at DESC").
		Order("seq DESC").
		Order("id").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
