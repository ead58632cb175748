package seats

import (
	"context"
	"fmt"
	"strings"

	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

type SeatDBLayer interface {
	CreateSeat(ctx context.Context, seat *models.Seat) error
	CreateSeats(ctx context.Context, seats []models.Seat) error
	ListSeats(ctx context.Context) ([]models.Seat, error)
	CountSeats(ctx context.Context) (int, error)
}

type SeatCache interface {
	GetSections(ctx context.Context) (map[models.Section][]models.SeatPosition, bool, error)
	SetSections(ctx context.Context, sections map[models.Section][]models.SeatPosition) error
	Invalidate(ctx context.Context) error
}

// SeatService is the seat catalog. Cache is optional.
type SeatService struct {
	DB     SeatDBLayer
	Cache  SeatCache
	Logger *logger.Logger
}

func NewSeatService(db SeatDBLayer, cache SeatCache, log *logger.Logger) *SeatService {
	return &SeatService{DB: db, Cache: cache, Logger: log}
}

func (s *SeatService) CreateSeat(ctx context.Context, row string, number int, section models.Section) (int64, error) {
	seat := models.Seat{Row: strings.ToUpper(strings.TrimSpace(row)), Number: number, Section: section}
	if err := validateSeat(seat); err != nil {
		return 0, err
	}

	if err := s.DB.CreateSeat(ctx, &seat); err != nil {
		return 0, fmt.Errorf("create seat %s: %w", seat.Label(), err)
	}
	s.invalidate(ctx)
	return seat.ID, nil
}

func (s *SeatService) ListAllSeats(ctx context.Context) ([]models.Seat, error) {
	return s.DB.ListSeats(ctx)
}

func (s *SeatService) CountSeats(ctx context.Context) (int, error) {
	return s.DB.CountSeats(ctx)
}

// GroupSeatsBySection returns the seats of each section ordered by row and
// number, read through the cache when one is configured.
func (s *SeatService) GroupSeatsBySection(ctx context.Context) (map[models.Section][]models.SeatPosition, error) {
	if s.Cache != nil {
		sections, ok, err := s.Cache.GetSections(ctx)
		if err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Seat sections cache read failed: %v", err))
		} else if ok {
			return sections, nil
		}
	}

	seats, err := s.DB.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	sections := GroupBySection(seats)

	if s.Cache != nil {
		if err := s.Cache.SetSections(ctx, sections); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Seat sections cache write failed: %v", err))
		}
	}
	return sections, nil
}

// GroupBySection keeps the input order within each section.
func GroupBySection(seats []models.Seat) map[models.Section][]models.SeatPosition {
	sections := make(map[models.Section][]models.SeatPosition)
	for _, seat := range seats {
		sections[seat.Section] = append(sections[seat.Section], models.SeatPosition{
			ID:     seat.ID,
			Row:    seat.Row,
			Number: seat.Number,
		})
	}
	return sections
}

// SeedDefault creates the 3 sections of 10x10 seats when the catalog is
// empty. It returns the number of seats created.
func (s *SeatService) SeedDefault(ctx context.Context) (int, error) {
	count, err := s.DB.CountSeats(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.Logger.Debug("SEED", fmt.Sprintf("Seat catalog already has %d seats, skipping seed", count))
		return 0, nil
	}

	seats := DefaultLayout()
	if err := s.DB.CreateSeats(ctx, seats); err != nil {
		return 0, fmt.Errorf("seed seats: %w", err)
	}
	s.invalidate(ctx)
	s.Logger.Info("SEED", fmt.Sprintf("Seeded %d seats", len(seats)))
	return len(seats), nil
}

// DefaultLayout is sections A1..A3, rows A..J, numbers 1..10.
func DefaultLayout() []models.Seat {
	seats := make([]models.Seat, 0, len(models.Sections)*100)
	for _, section := range models.Sections {
		for row := models.FirstRow; row <= models.LastRow; row++ {
			for number := models.FirstNumber; number <= models.LastNumber; number++ {
				seats = append(seats, models.Seat{Row: string(rune(row)), Number: number, Section: section})
			}
		}
	}
	return seats
}

func validateSeat(seat models.Seat) error {
	if len(seat.Row) != 1 || seat.Row[0] < models.FirstRow || seat.Row[0] > models.LastRow {
		return models.NewValidationError("row", fmt.Sprintf("must be a letter %c-%c", models.FirstRow, models.LastRow))
	}
	if seat.Number < models.FirstNumber || seat.Number > models.LastNumber {
		return models.NewValidationError("number", fmt.Sprintf("must be between %d and %d", models.FirstNumber, models.LastNumber))
	}
	if !seat.Section.Valid() {
		return models.NewValidationError("section", fmt.Sprintf("unknown section %q", seat.Section))
	}
	return nil
}

func (s *SeatService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("Seat sections cache invalidation failed: %v", err))
	}
}
