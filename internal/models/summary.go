package models

type SectionSummary struct {
	Sold      int `json:"sold"`
	Available int `json:"available"`
}

// EventSalesSummary aggregates the ticket set of one event.
type EventSalesSummary struct {
	EventID        int64                      `json:"event_id"`
	TotalSeats     int                        `json:"total_seats"`
	SoldSeats      int                        `json:"sold_seats"`
	AvailableSeats int                        `json:"available_seats"`
	Revenue        float64                    `json:"revenue"`
	BySection      map[Section]SectionSummary `json:"by_section"`
}
