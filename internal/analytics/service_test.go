package analytics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-boxoffice/internal/analytics"
	eventsdb "ms-boxoffice/internal/events/db"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/testutil"
)

func TestEventSummary(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	ctx := context.Background()

	seats := testutil.InsertSeats(t, bunDB, 4)
	// one seat in another section
	extra := models.Seat{Row: "A", Number: 1, Section: models.SectionA2}
	_, err := bunDB.NewInsert().Model(&extra).Returning("id").Exec(ctx)
	require.NoError(t, err)

	rock := testutil.InsertEvent(t, bunDB, "Rock")
	jazz := testutil.InsertEvent(t, bunDB, "Jazz")
	testutil.InsertTicket(t, bunDB, rock, seats[0], nil, 100)
	testutil.InsertTicket(t, bunDB, rock, seats[1], nil, 100)
	testutil.InsertTicket(t, bunDB, rock, extra.ID, nil, 80)
	testutil.InsertTicket(t, bunDB, jazz, seats[2], nil, 999)

	svc := analytics.NewService(analytics.NewDB(bunDB), &eventsdb.DB{Bun: bunDB})
	summary, err := svc.EventSummary(ctx, rock)
	require.NoError(t, err)

	assert.Equal(t, rock, summary.EventID)
	assert.Equal(t, 5, summary.TotalSeats)
	assert.Equal(t, 3, summary.SoldSeats)
	assert.Equal(t, 2, summary.AvailableSeats)
	assert.InDelta(t, 280.0, summary.Revenue, 0.001)
	assert.Equal(t, models.SectionSummary{Sold: 2, Available: 2}, summary.BySection[models.SectionA1])
	assert.Equal(t, models.SectionSummary{Sold: 1, Available: 0}, summary.BySection[models.SectionA2])

	report, err := svc.EventReport(ctx, rock)
	require.NoError(t, err)
	require.Len(t, report.DailySales, 1)
	assert.Equal(t, testutil.FixtureTime.Format("2006-01-02"), report.DailySales[0].Date)
	assert.Equal(t, 3, report.DailySales[0].TicketsSold)
}

func TestEventSummaryUnknownEvent(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	svc := analytics.NewService(analytics.NewDB(bunDB), &eventsdb.DB{Bun: bunDB})

	_, err := svc.EventSummary(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestEventSummaryWithoutSales(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	testutil.InsertSeats(t, bunDB, 3)
	eventID := testutil.InsertEvent(t, bunDB, "Opera")
	svc := analytics.NewService(analytics.NewDB(bunDB), &eventsdb.DB{Bun: bunDB})

	report, err := svc.EventReport(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.AvailableSeats)
	assert.Zero(t, report.Revenue)
	assert.Empty(t, report.DailySales)
}

func TestEventSummaryWithUnsoldSection(t *testing.T) {
	bunDB := testutil.NewTestDB(t)
	ctx := context.Background()

	seats := testutil.InsertSeats(t, bunDB, 2)
	unsold := models.Seat{Row: "A", Number: 1, Section: models.SectionA2}
	_, err := bunDB.NewInsert().Model(&unsold).Returning("id").Exec(ctx)
	require.NoError(t, err)

	eventID := testutil.InsertEvent(t, bunDB, "Rock")
	testutil.InsertTicket(t, bunDB, eventID, seats[0], nil, 100)

	svc := analytics.NewService(analytics.NewDB(bunDB), &eventsdb.DB{Bun: bunDB})
	summary, err := svc.EventSummary(ctx, eventID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SoldSeats)
	assert.Equal(t, 2, summary.AvailableSeats)
	assert.InDelta(t, 100.0, summary.Revenue, 0.001)
	assert.Equal(t, models.SectionSummary{Sold: 1, Available: 1}, summary.BySection[models.SectionA1])
	assert.Equal(t, models.SectionSummary{Sold: 0, Available: 1}, summary.BySection[models.SectionA2])
}
