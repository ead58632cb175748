package availability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilitydb "ms-boxoffice/internal/availability/db"
	availability "ms-boxoffice/internal/availability/service"
	eventsdb "ms-boxoffice/internal/events/db"
	events "ms-boxoffice/internal/events/service"
	"ms-boxoffice/internal/models"
	seatsdb "ms-boxoffice/internal/seats/db"
	seats "ms-boxoffice/internal/seats/service"
	"ms-boxoffice/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestFreshEventHasEverySeatAvailable(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	ctx := context.Background()

	seatSvc := seats.NewSeatService(&seatsdb.DB{Bun: bunDB}, nil, nil)
	_, err := seatSvc.SeedDefault(ctx)
	require.NoError(t, err)

	eventSvc := events.NewEventService(&eventsdb.DB{Bun: bunDB}, nil, nil)
	eventID, err := eventSvc.CreateEvent(ctx, models.CreateEventRequest{
		Type:        "Concert",
		TotalCost:   5000.0,
		Description: strPtr("rock night"),
		StartTime:   strPtr("2025-12-15 20:00:00"),
		EndTime:     strPtr("2025-12-15 23:00:00"),
	})
	require.NoError(t, err)

	svc := availability.NewAvailabilityService(&availabilitydb.DB{Bun: bunDB}, eventSvc, nil)
	available, err := svc.AvailableSeats(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, available, 300)
	assert.Equal(t, "A1-A1", available[0].Label())
	assert.Equal(t, "A3-J10", available[299].Label())

	status, err := svc.SeatStatusForEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, status, 300)
	for _, occupied := range status {
		assert.False(t, occupied)
	}
}

func TestAvailableAndSoldAreDisjoint(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	ctx := context.Background()

	seatIDs := testutil.InsertSeats(t, bunDB, 6)
	rock := testutil.InsertEvent(t, bunDB, "Rock")
	jazz := testutil.InsertEvent(t, bunDB, "Jazz")
	testutil.InsertTicket(t, bunDB, rock, seatIDs[1], nil, 10)
	testutil.InsertTicket(t, bunDB, rock, seatIDs[4], nil, 10)
	testutil.InsertTicket(t, bunDB, jazz, seatIDs[0], nil, 10)

	svc := availability.NewAvailabilityService(&availabilitydb.DB{Bun: bunDB}, &eventsdb.DB{Bun: bunDB}, nil)

	status, err := svc.SeatStatus(ctx, rock)
	require.NoError(t, err)
	require.Len(t, status, len(seatIDs))

	available, err := svc.AvailableSeats(ctx, rock)
	require.NoError(t, err)
	availableIDs := make(map[int64]bool)
	for _, seat := range available {
		availableIDs[seat.ID] = true
	}

	for _, id := range seatIDs {
		assert.NotEqual(t, status[id], availableIDs[id], "seat %d must be exactly one of sold or available", id)
	}
	assert.True(t, status[seatIDs[1]])
	assert.True(t, status[seatIDs[4]])
	assert.False(t, status[seatIDs[0]], "tickets of other events do not count")
	assert.Len(t, available, 4)

	labels := availability.StatusLabels(status)
	assert.Equal(t, models.SeatStatusSold, labels[seatIDs[1]])
	assert.Equal(t, models.SeatStatusAvailable, labels[seatIDs[0]])
}

func TestUnknownEvent(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.InsertSeats(t, bunDB, 2)

	svc := availability.NewAvailabilityService(&availabilitydb.DB{Bun: bunDB}, &eventsdb.DB{Bun: bunDB}, nil)

	_, err := svc.AvailableSeats(ctx, 99)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
	_, err = svc.SeatStatusForEvent(ctx, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)

	status, err := svc.SeatStatus(ctx, 99)
	require.NoError(t, err)
	assert.Len(t, status, 2)
}
