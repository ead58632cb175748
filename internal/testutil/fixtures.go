package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-boxoffice/internal/models"
)

// FixtureTime is the creation time stamped on fixture rows.
var FixtureTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// InsertSeats creates the first n seats of section A1 (row A first) and
// returns their ids in insertion order.
func InsertSeats(t *testing.T, db *bun.DB, n int) []int64 {
	t.Helper()

	seats := make([]models.Seat, 0, n)
	for i := 0; i < n; i++ {
		seats = append(seats, models.Seat{
			Row:     string(rune(models.FirstRow + i/models.LastNumber)),
			Number:  i%models.LastNumber + 1,
			Section: models.SectionA1,
		})
	}
	ids := make([]int64, 0, n)
	for i := range seats {
		_, err := db.NewInsert().Model(&seats[i]).Returning("id").Exec(context.Background())
		require.NoError(t, err)
		ids = append(ids, seats[i].ID)
	}
	return ids
}

func InsertEvent(t *testing.T, db *bun.DB, eventType string) int64 {
	t.Helper()

	event := models.Event{Type: eventType, TotalCost: 100, CreatedAt: FixtureTime}
	_, err := db.NewInsert().Model(&event).Returning("id").Exec(context.Background())
	require.NoError(t, err)
	return event.ID
}

func InsertClient(t *testing.T, db *bun.DB, firstNames string) int64 {
	t.Helper()

	client := models.Client{FirstNames: firstNames, Phone: "555-0000", CreatedAt: FixtureTime}
	_, err := db.NewInsert().Model(&client).Returning("id").Exec(context.Background())
	require.NoError(t, err)
	return client.ID
}

// InsertTicket sells seatID for eventID outside of the sale engine.
func InsertTicket(t *testing.T, db *bun.DB, eventID, seatID int64, clientID *int64, price float64) int64 {
	t.Helper()

	ticket := models.Ticket{
		EventID:      eventID,
		SeatID:       seatID,
		ClientID:     clientID,
		PurchaseTime: FixtureTime,
		Price:        price,
	}
	_, err := db.NewInsert().Model(&ticket).Returning("id").Exec(context.Background())
	require.NoError(t, err)
	return ticket.ID
}
