package models

type SaleOutcome string

const (
	SaleSold           SaleOutcome = "sold"
	SaleRejected       SaleOutcome = "rejected"
	SalePartialFailure SaleOutcome = "partial_failure"
	SaleError          SaleOutcome = "error"
)

type SaleRequest struct {
	EventID   int64   `json:"event_id"`
	SeatIDs   []int64 `json:"seat_ids"`
	Buyer     Buyer   `json:"buyer"`
	UnitPrice float64 `json:"unit_price"`
}

// SaleResult is always returned by the sale engine, also alongside an error,
// so that callers can reconcile what was created before a failure.
type SaleResult struct {
	Outcome        SaleOutcome `json:"outcome"`
	Reason         string      `json:"reason,omitempty"`
	ClientID       *int64      `json:"client_id,omitempty"`
	TicketIDs      []int64     `json:"ticket_ids"`
	ConflictSeatID *int64      `json:"conflict_seat_id,omitempty"`
}

// SoldSeatIDs returns the seats of the request that were ticketed, in order.
func (r SaleResult) SoldSeatIDs(req SaleRequest) []int64 {
	n := len(r.TicketIDs)
	if n > len(req.SeatIDs) {
		n = len(req.SeatIDs)
	}
	return append([]int64(nil), req.SeatIDs[:n]...)
}
