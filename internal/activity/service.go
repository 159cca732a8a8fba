package activity

import (
	"context"
	"fmt"
	"log/slog"

	activityDatamodel "github.com/frahmantamala/shopfloor-tasks/internal/core/datamodel/activity"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/events"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type RepositoryAPI interface {
	CreateBatch(ctx context.Context, activities []*activityDatamodel.TaskActivity) error
	ListByRow(ctx context.Context, row, limit int) ([]*activityDatamodel.TaskActivity, error)
}

type Subscriber interface {
	SubscribeAll(eventTypes []string, handler events.Handler)
}

type ServiceAPI interface {
	ListForRow(ctx context.Context, row, limit int) ([]*Entry, error)
}

// Service persists task events. With a nil repository the log is disabled: nothing is
// recorded and listings are empty.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Enabled() bool {
	return s.repo != nil
}

// Register subscribes the service to every task event type.
func (s *Service) Register(bus Subscriber) {
	if !s.Enabled() {
		s.logger.Info("activity log disabled, no database configured")
		return
	}
	bus.SubscribeAll(events.TaskEventTypes, s.HandleTaskEvent)
}

func (s *Service) HandleTaskEvent(ctx context.Context, event events.Event) error {
	taskEvent, ok := event.(*events.TaskEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}

	entries := EntriesFromEvent(taskEvent)
	if len(entries) == 0 {
		return nil
	}

	records := make([]*activityDatamodel.TaskActivity, len(entries))
	for i, e := range entries {
		records[i] = ToDataModel(e)
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return fmt.Errorf("failed to store activity for row %d: %w", taskEvent.Row, err)
	}

	s.logger.Debug("activity recorded", "event_id", taskEvent.EventID(), "row", taskEvent.Row, "entries", len(records))
	return nil
}

// ListForRow returns the newest entries for a sheet row first.
func (s *Service) ListForRow(ctx context.Context, row, limit int) ([]*Entry, error) {
	entries := make([]*Entry, 0)
	if !s.Enabled() {
		return entries, nil
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	records, err := s.repo.ListByRow(ctx, row, limit)
	if err != nil {
		s.logger.Error("failed to list activity", "row", row, "error", err)
		return nil, err
	}

	for _, r := range records {
		entries = append(entries, FromDataModel(r))
	}
	return entries, nil
}
