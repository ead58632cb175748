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

// IssueTicket inserts the ticket in a single statement. The unique index on
// (event_id, seat_id) decides between concurrent sales of the same seat.
func (d *DB) IssueTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := d.conn(ctx).NewInsert().
		Model(ticket).
		Returning("id").
		Exec(ctx)
	if err == nil {
		return nil
	}
	switch {
	case database.IsUniqueViolation(err):
		return &models.SeatConflictError{EventID: ticket.EventID, SeatID: ticket.SeatID}
	case database.IsForeignKeyViolation(err):
		return models.ErrNotFound
	default:
		return models.StorageError("issue ticket", err)
	}
}

func (d *DB) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.conn(ctx).NewSelect().
		Model(&ticket).
		Where("t.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, models.ErrTicketNotFound
		}
		return nil, models.StorageError("get ticket", err)
	}
	return &ticket, nil
}

// ListTicketsByEvent returns the tickets of an event in issue order.
func (d *DB) ListTicketsByEvent(ctx context.Context, eventID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.conn(ctx).NewSelect().
		Model(&tickets).
		Where("t.event_id = ?", eventID).
		Order("t.id").
		Scan(ctx)
	if err != nil {
		return nil, models.StorageError("list tickets", err)
	}
	return tickets, nil
}

// GetTicketSheet loads a ticket together with its event, seat and holder.
func (d *DB) GetTicketSheet(ctx context.Context, id int64) (*models.TicketSheet, error) {
	var sheet models.TicketSheet
	err := d.conn(ctx).NewSelect().
		TableExpr("tickets AS t").
		ColumnExpr("t.id AS ticket_id, t.event_id, t.seat_id, t.purchase_time, t.price").
		ColumnExpr("e.type AS event_type, e.start_time AS event_start").
		ColumnExpr("s.section, s.seat_row, s.seat_number").
		ColumnExpr("c.first_names AS holder").
		Join("JOIN events AS e ON e.id = t.event_id").
		Join("JOIN seats AS s ON s.id = t.seat_id").
		Join("LEFT JOIN clients AS c ON c.id = t.client_id").
		Where("t.id = ?", id).
		Limit(1).
		Scan(ctx, &sheet)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, models.ErrTicketNotFound
		}
		return nil, models.StorageError("get ticket sheet", err)
	}
	return &sheet, nil
}
