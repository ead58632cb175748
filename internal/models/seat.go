package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

type Section string

const (
	SectionA1 Section = "A1"
	SectionA2 Section = "A2"
	SectionA3 Section = "A3"
)

// Sections lists the venue sections in display order.
var Sections = []Section{SectionA1, SectionA2, SectionA3}

const (
	FirstRow    = 'A'
	LastRow     = 'J'
	FirstNumber = 1
	LastNumber  = 10
)

func (s Section) Valid() bool {
	switch s {
	case SectionA1, SectionA2, SectionA3:
		return true
	}
	return false
}

// Seat is a physical location in the venue. It carries no occupancy state:
// a seat is occupied for an event only when a ticket exists for that pair.
type Seat struct {
	bun.BaseModel `bun:"table:seats,alias:s"`

	ID      int64   `bun:"id,pk,autoincrement" json:"id"`
	Row     string  `bun:"seat_row,notnull" json:"row"`
	Number  int     `bun:"seat_number,notnull" json:"number"`
	Section Section `bun:"section,notnull" json:"section"`
}

// Label renders the seat as "A1-B7".
func (s Seat) Label() string {
	return fmt.Sprintf("%s-%s%d", s.Section, s.Row, s.Number)
}

// SeatPosition is the per-section projection used by seat maps.
type SeatPosition struct {
	ID     int64  `json:"id"`
	Row    string `json:"row"`
	Number int    `json:"number"`
}
