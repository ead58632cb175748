package analytics

import (
	"context"

	"ms-boxoffice/internal/models"
)

type AnalyticsDBLayer interface {
	GetSectionSalesByEventID(ctx context.Context, eventID int64) ([]SectionSalesData, error)
	GetDailySalesByEventID(ctx context.Context, eventID int64) ([]DailySalesData, error)
}

type EventChecker interface {
	EventExists(ctx context.Context, id int64) (bool, error)
}

// Service handles analytics operations
type Service struct {
	db     AnalyticsDBLayer
	events EventChecker
}

// NewService creates a new analytics service
func NewService(db AnalyticsDBLayer, events EventChecker) *Service {
	return &Service{db: db, events: events}
}

// DailySalesMetrics contains metrics for a single day
type DailySalesMetrics struct {
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	TicketsSold int     `json:"tickets_sold"`
}

// EventSalesReport is the summary of an event plus its sales per day
type EventSalesReport struct {
	models.EventSalesSummary
	DailySales []DailySalesMetrics `json:"daily_sales"`
}

// EventSummary aggregates the tickets of an event over the whole catalog.
func (s *Service) EventSummary(ctx context.Context, eventID int64) (*models.EventSalesSummary, error) {
	if err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}

	rows, err := s.db.GetSectionSalesByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	summary := &models.EventSalesSummary{
		EventID:   eventID,
		BySection: make(map[models.Section]models.SectionSummary, len(rows)),
	}
	for _, row := range rows {
		summary.TotalSeats += row.Total
		summary.SoldSeats += row.Sold
		summary.Revenue += row.Revenue
		summary.BySection[row.Section] = models.SectionSummary{
			Sold:      row.Sold,
			Available: row.Total - row.Sold,
		}
	}
	summary.AvailableSeats = summary.TotalSeats - summary.SoldSeats
	return summary, nil
}

// EventReport is EventSummary with the daily breakdown of ticket sales.
func (s *Service) EventReport(ctx context.Context, eventID int64) (*EventSalesReport, error) {
	summary, err := s.EventSummary(ctx, eventID)
	if err != nil {
		return nil, err
	}

	daily, err := s.db.GetDailySalesByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	report := &EventSalesReport{
		EventSalesSummary: *summary,
		DailySales:        make([]DailySalesMetrics, 0, len(daily)),
	}
	for _, d := range daily {
		report.DailySales = append(report.DailySales, DailySalesMetrics{
			Date:        d.SalesDate,
			Revenue:     d.DailyRevenue,
			TicketsSold: d.DailyQuantity,
		})
	}
	return report, nil
}

func (s *Service) requireEvent(ctx context.Context, eventID int64) error {
	exists, err := s.events.EventExists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrEventNotFound
	}
	return nil
}
