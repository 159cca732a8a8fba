package workorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/common/validation"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/events"
	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
)

const (
	StatusInProgress      = "בתהליך"
	StatusPendingApproval = "בוצע לאישור"

	TimestampLayout = "02/01/2006 15:04:05"
)

type RepositoryAPI interface {
	LoadOrders(ctx context.Context) ([]*WorkOrder, error)
	UpdateCell(ctx context.Context, row, col int, value interface{}) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ServiceAPI interface {
	ListForWorker(ctx context.Context, q ListQuery) ([]*WorkOrder, error)
	Start(ctx context.Context, dto StartDTO) error
	UpdateQuantity(ctx context.Context, dto UpdateQuantityDTO) error
	Done(ctx context.Context, dto DoneDTO) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	location  *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone task timestamps are written in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewService wires the work order operations. publisher may be nil.
func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().In(s.location).Format(TimestampLayout)
}

// ListForWorker returns the open orders assigned to the user or, when unassigned, to the
// department, in sheet order.
func (s *Service) ListForWorker(ctx context.Context, q ListQuery) ([]*WorkOrder, error) {
	orders, err := s.repo.LoadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}

	result := make([]*WorkOrder, 0)
	for _, o := range orders {
		if o.VisibleTo(q.Username, q.Department) && !o.IsClosed() {
			result = append(result, o)
		}
	}

	s.logger.Debug("work orders listed", "username", q.Username, "department", q.Department, "total", len(orders), "visible", len(result))
	return result, nil
}

// Start claims the row for username if nobody holds it, keeps or sets the in-progress status
// and stamps the start time once.
func (s *Service) Start(ctx context.Context, dto StartDTO) error {
	v := validation.NewValidator()
	v.Field("row", int(dto.Row)).Required()
	v.Field("username", dto.Username).Required().NotBlank()
	if err := v.Validate(internal.ErrMissingParams); err != nil {
		return err
	}

	order, err := s.find(ctx, int(dto.Row), dto.Version)
	if err != nil {
		return err
	}

	var writes []cellWrite
	if i := order.Indices.Worker; i != -1 && isBlank(order.Worker) {
		writes = append(writes, cellWrite{field: FieldWorker, col: i, value: dto.Username})
	}
	if i := order.Indices.Status; i != -1 {
		status := order.Status
		if isBlank(status) {
			status = StatusInProgress
		}
		writes = append(writes, cellWrite{field: FieldStatus, col: i, value: status})
	}
	if i := order.Indices.Start; i != -1 && isBlank(order.Start) {
		writes = append(writes, cellWrite{field: FieldStart, col: i, value: s.timestamp()})
	}

	return s.apply(ctx, events.EventTypeTaskStarted, order, dto.Username, writes)
}

// UpdateQuantity overwrites the done quantity. There is no bound or monotonicity check.
func (s *Service) UpdateQuantity(ctx context.Context, dto UpdateQuantityDTO) error {
	v := validation.NewValidator()
	v.Field("row", int(dto.Row)).Required()
	v.Field("qty_done", dto.QtyDone).Custom(requiredQuantity("qty_done"))
	if err := v.Validate(internal.ErrMissingParams); err != nil {
		return err
	}

	order, err := s.find(ctx, int(dto.Row), dto.Version)
	if err != nil {
		return err
	}

	if order.Indices.QtyDone == -1 {
		return internal.ErrQtyDoneColumnNotFound
	}

	writes := []cellWrite{{field: FieldQtyDone, col: order.Indices.QtyDone, value: float64(*dto.QtyDone)}}
	return s.apply(ctx, events.EventTypeTaskQuantityUpdated, order, actingUser(ctx), writes)
}

// Done stamps the end time (overwriting any earlier one), moves the status to pending
// approval and records the optional quantity and notes.
func (s *Service) Done(ctx context.Context, dto DoneDTO) error {
	v := validation.NewValidator()
	v.Field("row", int(dto.Row)).Required()
	if err := v.Validate(internal.ErrMissingParams); err != nil {
		return err
	}

	order, err := s.find(ctx, int(dto.Row), dto.Version)
	if err != nil {
		return err
	}

	var writes []cellWrite
	if i := order.Indices.End; i != -1 {
		writes = append(writes, cellWrite{field: FieldEnd, col: i, value: s.timestamp()})
	}
	if i := order.Indices.Status; i != -1 {
		writes = append(writes, cellWrite{field: FieldStatus, col: i, value: StatusPendingApproval})
	}
	if i := order.Indices.QtyDone; i != -1 && dto.QtyDone != nil {
		writes = append(writes, cellWrite{field: FieldQtyDone, col: i, value: float64(*dto.QtyDone)})
	}
	if i := order.Indices.Notes; i != -1 && dto.Notes != nil {
		writes = append(writes, cellWrite{field: FieldNotes, col: i, value: *dto.Notes})
	}

	return s.apply(ctx, events.EventTypeTaskDone, order, actingUser(ctx), writes)
}

// find re-reads the sheet and returns the order at row. A non-empty version must equal the
// checksum of the row as it is now.
func (s *Service) find(ctx context.Context, row int, version string) (*WorkOrder, error) {
	orders, err := s.repo.LoadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load work orders: %w", err)
	}

	for _, o := range orders {
		if o.Row != row {
			continue
		}
		if version != "" && version != o.Version {
			s.logger.Warn("work order changed since it was read", "row", row, "expected_version", version, "version", o.Version)
			return nil, internal.ErrRowVersionMismatch.WithDetails(map[string]string{"version": o.Version})
		}
		return o, nil
	}

	return nil, internal.ErrRowNotFound
}

type cellWrite struct {
	field string
	col   int
	value interface{}
}

// apply performs the writes in order. They are independent: the first failure stops the
// sequence and earlier writes stay in place. Whatever was written is published.
func (s *Service) apply(ctx context.Context, eventType string, order *WorkOrder, username string, writes []cellWrite) error {
	changes := make([]events.CellChange, 0, len(writes))
	var writeErr error

	for _, w := range writes {
		if err := s.repo.UpdateCell(ctx, order.Row, w.col, w.value); err != nil {
			writeErr = fmt.Errorf("failed to write %s of row %d: %w", w.field, order.Row, err)
			break
		}
		changes = append(changes, events.CellChange{
			Field:    w.field,
			Column:   spreadsheet.ColumnLetter(w.col),
			OldValue: order.RawCell(w.col),
			NewValue: cellText(w.value),
		})
	}

	if writeErr != nil {
		s.logger.Error("task update interrupted", "event", eventType, "row", order.Row, "written", len(changes), "planned", len(writes), "error", writeErr)
	} else {
		s.logger.Info("task updated", "event", eventType, "row", order.Row, "username", username, "cells", len(changes))
	}

	if len(changes) > 0 && s.publisher != nil {
		event := events.NewTaskEvent(eventType, order.Row, username, changes, s.now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish task event", "event", eventType, "row", order.Row, "error", err)
		}
	}

	return writeErr
}

func requiredQuantity(field string) validation.ValidatorFunc {
	return func(value interface{}) *internal.ValidationError {
		if q, ok := value.(*Quantity); !ok || q == nil {
			return &internal.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s is required", field),
				Code:    "REQUIRED",
			}
		}
		return nil
	}
}

func actingUser(ctx context.Context) string {
	if session, ok := internal.SessionFromContext(ctx); ok {
		return session.Username
	}
	return ""
}

func cellText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return Quantity(t).String()
	default:
		return fmt.Sprint(t)
	}
}
