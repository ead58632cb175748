package db

import (
	"context"

	"ms-boxoffice/internal/models"
)

// CountTickets returns the total count of tickets in the database
func (d *DB) CountTickets(ctx context.Context) (int, error) {
	count, err := d.conn(ctx).NewSelect().
		Model((*models.Ticket)(nil)).
		Count(ctx)
	if err != nil {
		return 0, models.StorageError("count tickets", err)
	}
	return count, nil
}

// CountTicketsForEvent returns how many seats are sold for an event.
func (d *DB) CountTicketsForEvent(ctx context.Context, eventID int64) (int, error) {
	count, err := d.conn(ctx).NewSelect().
		Model((*models.Ticket)(nil)).
		Where("t.event_id = ?", eventID).
		Count(ctx)
	if err != nil {
		return 0, models.StorageError("count event tickets", err)
	}
	return count, nil
}
