package models

import (
	"time"

	"github.com/google/uuid"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusSold      SeatStatus = "SOLD"
)

// SeatStatusChangeEvent is published whenever seats change state for an event.
type SeatStatusChangeEvent struct {
	CorrelationID uuid.UUID  `json:"correlation_id"`
	EventID       int64      `json:"event_id"`
	SeatIDs       []int64    `json:"seat_ids"`
	Status        SeatStatus `json:"status"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// SaleEvent is published for every sale that issued at least one ticket.
type SaleEvent struct {
	CorrelationID uuid.UUID   `json:"correlation_id"`
	Outcome       SaleOutcome `json:"outcome"`
	EventID       int64       `json:"event_id"`
	ClientID      *int64      `json:"client_id,omitempty"`
	SeatIDs       []int64     `json:"seat_ids"`
	TicketIDs     []int64     `json:"ticket_ids"`
	UnitPrice     float64     `json:"unit_price"`
	Total         float64     `json:"total"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

func NewSeatStatusChangeEvent(correlationID uuid.UUID, eventID int64, seatIDs []int64, status SeatStatus, at time.Time) SeatStatusChangeEvent {
	return SeatStatusChangeEvent{
		CorrelationID: correlationID,
		EventID:       eventID,
		SeatIDs:       seatIDs,
		Status:        status,
		OccurredAt:    at,
	}
}

// NewSaleEvent builds the published record of a sale from its request and result.
func NewSaleEvent(correlationID uuid.UUID, req SaleRequest, res SaleResult, at time.Time) SaleEvent {
	seats := res.SoldSeatIDs(req)
	return SaleEvent{
		CorrelationID: correlationID,
		Outcome:       res.Outcome,
		EventID:       req.EventID,
		ClientID:      res.ClientID,
		SeatIDs:       seats,
		TicketIDs:     res.TicketIDs,
		UnitPrice:     req.UnitPrice,
		Total:         req.UnitPrice * float64(len(res.TicketIDs)),
		OccurredAt:    at,
	}
}
