package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) conn(ctx context.Context) bun.IDB {
	return database.Conn(ctx, d.Bun)
}

// CreateSeat inserts one seat and fills its ID.
func (d *DB) CreateSeat(ctx context.Context, seat *models.Seat) error {
	_, err := d.conn(ctx).NewInsert().
		Model(seat).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.ErrSeatDuplicate
		}
		return models.StorageError("create seat", err)
	}
	return nil
}

// CreateSeats bulk inserts seats in one statement.
func (d *DB) CreateSeats(ctx context.Context, seats []models.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	_, err := d.conn(ctx).NewInsert().
		Model(&seats).
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.ErrSeatDuplicate
		}
		return models.StorageError("create seats", err)
	}
	return nil
}

// ListSeats returns every seat ordered by section, row, number.
func (d *DB) ListSeats(ctx context.Context) ([]models.Seat, error) {
	var seats []models.Seat
	err := d.conn(ctx).NewSelect().
		Model(&seats).
		OrderExpr("s.section ASC, s.seat_row ASC, s.seat_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, models.StorageError("list seats", err)
	}
	return seats, nil
}

func (d *DB) GetSeat(ctx context.Context, id int64) (*models.Seat, error) {
	var seat models.Seat
	err := d.conn(ctx).NewSelect().
		Model(&seat).
		Where("s.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, models.ErrSeatNotFound
		}
		return nil, models.StorageError("get seat", err)
	}
	return &seat, nil
}

func (d *DB) CountSeats(ctx context.Context) (int, error) {
	count, err := d.conn(ctx).NewSelect().
		Model((*models.Seat)(nil)).
		Count(ctx)
	if err != nil {
		return 0, models.StorageError("count seats", err)
	}
	return count, nil
}
