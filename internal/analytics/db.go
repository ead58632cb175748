package analytics

import (
	"context"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/models"
)

// DB handles analytics database operations
type DB struct {
	bun *bun.DB
}

// NewDB creates a new analytics DB handler
func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// SectionSalesData is one section's seat and ticket totals for an event
type SectionSalesData struct {
	Section models.Section `bun:"section"`
	Total   int            `bun:"total"`
	Sold    int            `bun:"sold"`
	Revenue float64        `bun:"revenue"`
}

// GetSectionSalesByEventID counts every catalog seat per section together
// with the tickets issued for the event. Revenue is cast because sqlite
// returns an integer 0 for a section without tickets.
func (db *DB) GetSectionSalesByEventID(ctx context.Context, eventID int64) ([]SectionSalesData, error) {
	var rows []SectionSalesData
	err := database.Conn(ctx, db.bun).NewRaw(`
		SELECT
			s.section AS section,
			COUNT(*) AS total,
			COUNT(t.id) AS sold,
			CAST(COALESCE(SUM(t.price), 0) AS DOUBLE PRECISION) AS revenue
		FROM
			seats AS s
		LEFT JOIN
			tickets AS t ON t.seat_id = s.id AND t.event_id = ?
		GROUP BY
			s.section
		ORDER BY
			s.section
	`, eventID).Scan(ctx, &rows)
	if err != nil {
		return nil, models.StorageError("section sales", err)
	}
	return rows, nil
}

// DailySalesData represents raw daily sales metrics from the database
type DailySalesData struct {
	SalesDate     string  `bun:"sales_date"`
	DailyRevenue  float64 `bun:"daily_revenue"`
	DailyQuantity int     `bun:"daily_quantity"`
}

// GetDailySalesByEventID retrieves daily sales metrics for an event
func (db *DB) GetDailySalesByEventID(ctx context.Context, eventID int64) ([]DailySalesData, error) {
	var dailySales []DailySalesData
	err := database.Conn(ctx, db.bun).NewRaw(`
		SELECT
			CAST(DATE(t.purchase_time) AS TEXT) AS sales_date,
			CAST(SUM(t.price) AS DOUBLE PRECISION) AS daily_revenue,
			COUNT(*) AS daily_quantity
		FROM
			tickets AS t
		WHERE
			t.event_id = ?
		GROUP BY
			DATE(t.purchase_time)
		ORDER BY
			DATE(t.purchase_time)
	`, eventID).Scan(ctx, &dailySales)
	if err != nil {
		return nil, models.StorageError("daily sales", err)
	}
	return dailySales, nil
}
