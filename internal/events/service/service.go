package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-boxoffice/internal/clock"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/utils"
)

type EventDBLayer interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	EventExists(ctx context.Context, id int64) (bool, error)
	CountEvents(ctx context.Context) (int, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type EventService struct {
	DB     EventDBLayer
	Clock  clock.Clock
	Logger *logger.Logger
}

func NewEventService(db EventDBLayer, clk clock.Clock, log *logger.Logger) *EventService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &EventService{DB: db, Clock: clk, Logger: log}
}

// DemoEvent is the event created by SeedDemo on an empty registry.
func DemoEvent() models.CreateEventRequest {
	description := "Gran concierto de rock en vivo"
	start := "2025-12-15 20:00:00"
	end := "2025-12-15 23:00:00"
	return models.CreateEventRequest{
		Type:        "Concierto Rock",
		TotalCost:   5000.0,
		Description: &description,
		StartTime:   &start,
		EndTime:     &end,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, req models.CreateEventRequest) (int64, error) {
	event, err := s.buildEvent(req)
	if err != nil {
		return 0, err
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return 0, err
	}
	s.Logger.Info("EVENT", fmt.Sprintf("Created event %d (%s)", event.ID, event.Type))
	return event.ID, nil
}

func (s *EventService) buildEvent(req models.CreateEventRequest) (*models.Event, error) {
	eventType := strings.TrimSpace(req.Type)
	if eventType == "" {
		return nil, models.NewValidationError("type", "is required")
	}
	if req.TotalCost < 0 {
		return nil, models.NewValidationError("total_cost", "must not be negative")
	}

	start, err := utils.ParseOptionalTimestamp(req.StartTime)
	if err != nil {
		return nil, models.NewValidationError("start_time", err.Error())
	}
	end, err := utils.ParseOptionalTimestamp(req.EndTime)
	if err != nil {
		return nil, models.NewValidationError("end_time", err.Error())
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, models.NewValidationError("end_time", "must not precede start_time")
	}

	return &models.Event{
		Type:        eventType,
		TotalCost:   req.TotalCost,
		Description: utils.OptionalString(req.Description),
		StartTime:   start,
		EndTime:     end,
		CreatedAt:   s.Clock.Now().Truncate(time.Second),
	}, nil
}

func (s *EventService) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListEvents(ctx)
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.DB.GetEvent(ctx, id)
}

func (s *EventService) EventExists(ctx context.Context, id int64) (bool, error) {
	return s.DB.EventExists(ctx, id)
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.DB.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("EVENT", fmt.Sprintf("Deleted event %d", id))
	return nil
}

// SeedDemo creates DemoEvent when no event exists yet.
func (s *EventService) SeedDemo(ctx context.Context) (bool, error) {
	count, err := s.DB.CountEvents(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.Logger.Debug("SEED", fmt.Sprintf("Event registry already has %d events, skipping seed", count))
		return false, nil
	}
	id, err := s.CreateEvent(ctx, DemoEvent())
	if err != nil {
		return false, fmt.Errorf("seed demo event: %w", err)
	}
	s.Logger.Info("SEED", fmt.Sprintf("Seeded demo event %d", id))
	return true, nil
}
