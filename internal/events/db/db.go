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

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.conn(ctx).NewInsert().
		Model(event).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return models.StorageError("create event", err)
	}
	return nil
}

// ListEvents orders by start time with unscheduled events last, then by id.
func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := d.conn(ctx).NewSelect().
		Model(&events).
		OrderExpr("e.start_time IS NULL, e.start_time ASC, e.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, models.StorageError("list events", err)
	}
	return events, nil
}

func (d *DB) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.conn(ctx).NewSelect().
		Model(&event).
		Where("e.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, models.ErrEventNotFound
		}
		return nil, models.StorageError("get event", err)
	}
	return &event, nil
}

// EventExists checks if an event with the given ID exists in the database
func (d *DB) EventExists(ctx context.Context, id int64) (bool, error) {
	exists, err := d.conn(ctx).NewSelect().
		Model((*models.Event)(nil)).
		Where("e.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, models.StorageError("check event", err)
	}
	return exists, nil
}

func (d *DB) CountEvents(ctx context.Context) (int, error) {
	count, err := d.conn(ctx).NewSelect().
		Model((*models.Event)(nil)).
		Count(ctx)
	if err != nil {
		return 0, models.StorageError("count events", err)
	}
	return count, nil
}

// DeleteEvent removes the event; its tickets go with it through the foreign key.
func (d *DB) DeleteEvent(ctx context.Context, id int64) error {
	res, err := d.conn(ctx).NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return models.StorageError("delete event", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrEventNotFound
	}
	return nil
}
