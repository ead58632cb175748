package availability

import (
	"context"

	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

type AvailabilityDBLayer interface {
	SeatStatus(ctx context.Context, eventID int64) (map[int64]bool, error)
	AvailableSeats(ctx context.Context, eventID int64) ([]models.Seat, error)
}

type EventChecker interface {
	EventExists(ctx context.Context, id int64) (bool, error)
}

// AvailabilityService derives occupancy from tickets. Nothing about a seat's
// state is stored on the seat itself.
type AvailabilityService struct {
	DB     AvailabilityDBLayer
	Events EventChecker
	Logger *logger.Logger
}

func NewAvailabilityService(db AvailabilityDBLayer, events EventChecker, log *logger.Logger) *AvailabilityService {
	return &AvailabilityService{DB: db, Events: events, Logger: log}
}

// SeatStatus maps every seat id to true when it is sold for eventID. An
// unknown event simply has no sold seats.
func (s *AvailabilityService) SeatStatus(ctx context.Context, eventID int64) (map[int64]bool, error) {
	return s.DB.SeatStatus(ctx, eventID)
}

// SeatStatusForEvent is SeatStatus for an event that must exist.
func (s *AvailabilityService) SeatStatusForEvent(ctx context.Context, eventID int64) (map[int64]bool, error) {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.DB.SeatStatus(ctx, eventID)
}

func (s *AvailabilityService) AvailableSeats(ctx context.Context, eventID int64) ([]models.Seat, error) {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.DB.AvailableSeats(ctx, eventID)
}

// StatusLabels renders a SeatStatus map with AVAILABLE/SOLD values.
func StatusLabels(status map[int64]bool) map[int64]models.SeatStatus {
	labels := make(map[int64]models.SeatStatus, len(status))
	for id, occupied := range status {
		if occupied {
			labels[id] = models.SeatStatusSold
		} else {
			labels[id] = models.SeatStatusAvailable
		}
	}
	return labels
}

func (s *AvailabilityService) requireEvent(ctx context.Context, eventID int64) error {
	exists, err := s.Events.EventExists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrEventNotFound
	}
	return nil
}
