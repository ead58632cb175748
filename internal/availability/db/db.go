package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/models"
)

const occupiedExpr = "EXISTS (SELECT 1 FROM tickets AS t WHERE t.event_id = ? AND t.seat_id = s.id)"

type DB struct {
	Bun *bun.DB
}

func (d *DB) conn(ctx context.Context) bun.IDB {
	return database.Conn(ctx, d.Bun)
}

type seatOccupancy struct {
	ID       int64 `bun:"id"`
	Occupied bool  `bun:"occupied"`
}

// SeatStatus reports every seat of the catalog with whether it is sold for
// the event. It is a single statement so the result is one snapshot.
func (d *DB) SeatStatus(ctx context.Context, eventID int64) (map[int64]bool, error) {
	var rows []seatOccupancy
	err := d.conn(ctx).NewSelect().
		Model((*models.Seat)(nil)).
		Column("s.id").
		ColumnExpr(occupiedExpr+" AS occupied", eventID).
		Scan(ctx, &rows)
	if err != nil {
		return nil, models.StorageError("seat status", err)
	}

	status := make(map[int64]bool, len(rows))
	for _, row := range rows {
		status[row.ID] = row.Occupied
	}
	return status, nil
}

// AvailableSeats returns the seats with no ticket for the event, ordered by
// section, row, number.
func (d *DB) AvailableSeats(ctx context.Context, eventID int64) ([]models.Seat, error) {
	seats := []models.Seat{}
	err := d.conn(ctx).NewSelect().
		Model(&seats).
		Where("NOT "+occupiedExpr, eventID).
		OrderExpr("s.section ASC, s.seat_row ASC, s.seat_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, models.StorageError("available seats", err)
	}
	return seats, nil
}
