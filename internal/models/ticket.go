package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ticket binds one seat to one event as sold. A unique index on
// (event_id, seat_id) makes its insertion the authoritative occupancy check.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID      int64     `bun:"event_id,notnull" json:"event_id"`
	SeatID       int64     `bun:"seat_id,notnull" json:"seat_id"`
	ClientID     *int64    `bun:"client_id" json:"client_id,omitempty"`
	PurchaseTime time.Time `bun:"purchase_time,notnull" json:"purchase_time"`
	Price        float64   `bun:"price,notnull" json:"price"`
}

// TicketQRPayload is what gets encrypted into a ticket's QR code.
type TicketQRPayload struct {
	TicketID     int64     `json:"ticket_id"`
	EventID      int64     `json:"event_id"`
	SeatID       int64     `json:"seat_id"`
	PurchaseTime time.Time `json:"purchase_time"`
}

func (t Ticket) QRPayload() TicketQRPayload {
	return TicketQRPayload{
		TicketID:     t.ID,
		EventID:      t.EventID,
		SeatID:       t.SeatID,
		PurchaseTime: t.PurchaseTime,
	}
}

// TicketSheet is a ticket joined with what gets printed on it.
type TicketSheet struct {
	TicketID     int64      `bun:"ticket_id" json:"ticket_id"`
	EventID      int64      `bun:"event_id" json:"event_id"`
	EventType    string     `bun:"event_type" json:"event_type"`
	EventStart   *time.Time `bun:"event_start" json:"event_start,omitempty"`
	SeatID       int64      `bun:"seat_id" json:"seat_id"`
	Section      Section    `bun:"section" json:"section"`
	Row          string     `bun:"seat_row" json:"row"`
	Number       int        `bun:"seat_number" json:"number"`
	Holder       *string    `bun:"holder" json:"holder,omitempty"`
	PurchaseTime time.Time  `bun:"purchase_time" json:"purchase_time"`
	Price        float64    `bun:"price" json:"price"`
}

func (s TicketSheet) Ticket() Ticket {
	return Ticket{
		ID:           s.TicketID,
		EventID:      s.EventID,
		SeatID:       s.SeatID,
		PurchaseTime: s.PurchaseTime,
		Price:        s.Price,
	}
}

func (s TicketSheet) SeatLabel() string {
	return Seat{Row: s.Row, Number: s.Number, Section: s.Section}.Label()
}
