package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"ms-boxoffice/internal/analytics"
	"ms-boxoffice/internal/api"
	availabilitydb "ms-boxoffice/internal/availability/db"
	availability "ms-boxoffice/internal/availability/service"
	clientsdb "ms-boxoffice/internal/clients/db"
	clients "ms-boxoffice/internal/clients/service"
	"ms-boxoffice/internal/clock"
	eventsdb "ms-boxoffice/internal/events/db"
	events "ms-boxoffice/internal/events/service"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/sales"
	seatsdb "ms-boxoffice/internal/seats/db"
	seats "ms-boxoffice/internal/seats/service"
	"ms-boxoffice/internal/sse"
	"ms-boxoffice/internal/testutil"
	ticketsdb "ms-boxoffice/internal/tickets/db"
	qr "ms-boxoffice/internal/tickets/qr_genrator"
	tickets "ms-boxoffice/internal/tickets/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testAPI struct {
	db      *bun.DB
	handler http.Handler
	emitter *sse.SeatEventEmitter
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	bunDB := testutil.NewTestDB(t)
	clk := clock.NewFixed(time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC))
	eventStore := &eventsdb.DB{Bun: bunDB}

	eventSvc := events.NewEventService(eventStore, clk, nil)
	availSvc := availability.NewAvailabilityService(&availabilitydb.DB{Bun: bunDB}, eventStore, nil)
	clientSvc := clients.NewClientService(&clientsdb.DB{Bun: bunDB}, clk, nil)
	ticketSvc := tickets.NewTicketService(&ticketsdb.DB{Bun: bunDB}, "secret", nil)
	emitter := sse.NewSeatEventEmitter()

	saleSvc := sales.NewSaleService(eventStore, availSvc, clientSvc, ticketSvc, clk, nil)
	saleSvc.Emitter = emitter

	h := &api.Handler{
		Seats:        seats.NewSeatService(&seatsdb.DB{Bun: bunDB}, nil, nil),
		Events:       eventSvc,
		Availability: availSvc,
		Sales:        saleSvc,
		Clients:      clientSvc,
		Tickets:      ticketSvc,
		Analytics:    analytics.NewService(analytics.NewDB(bunDB), eventStore),
		Emitter:      emitter,
		DB:           bunDB,
	}
	return &testAPI{db: bunDB, handler: api.NewRouter(h), emitter: emitter}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	rec, env := a.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestSeatRoutes(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(t, http.MethodPost, "/api/seats", map[string]interface{}{"row": "B", "number": 3, "section": "A2"})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	rec, _ = a.do(t, http.MethodPost, "/api/seats", map[string]interface{}{"row": "B", "number": 3, "section": "A2"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = a.do(t, http.MethodPost, "/api/seats", map[string]interface{}{"row": "Z", "number": 3, "section": "A2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "row")

	rec, env = a.do(t, http.MethodGet, "/api/seats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Seat
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "A2-B3", list[0].Label())

	rec, env = a.do(t, http.MethodGet, "/api/seats/sections", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sections map[models.Section][]models.SeatPosition
	require.NoError(t, json.Unmarshal(env.Data, &sections))
	assert.Len(t, sections[models.SectionA2], 1)
}

func TestEventRoutes(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(t, http.MethodPost, "/api/events", map[string]interface{}{
		"type":       "Concert",
		"total_cost": 5000.0,
		"start_time": "2025-12-15 20:00:00",
		"end_time":   "2025-12-15 23:00:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	var created map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, _ = a.do(t, http.MethodPost, "/api/events", map[string]interface{}{"type": "Concert", "start_time": "soon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = a.do(t, http.MethodGet, "/api/events/"+itoa(created["id"]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var event models.Event
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, "Concert", event.Type)

	rec, _ = a.do(t, http.MethodGet, "/api/events/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = a.do(t, http.MethodGet, "/api/events/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = a.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.Event
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 1)
}

func TestSaleFlow(t *testing.T) {
	a := newTestAPI(t)
	seatIDs := testutil.InsertSeats(t, a.db, 3)
	eventID := testutil.InsertEvent(t, a.db, "Concert")
	buyer := map[string]string{"first_names": "Ana", "phone": "555-0100"}

	rec, env := a.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"event_id": eventID, "seat_ids": seatIDs[:2], "buyer": buyer, "unit_price": 100.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	var sold models.SaleResult
	require.NoError(t, json.Unmarshal(env.Data, &sold))
	assert.Equal(t, models.SaleSold, sold.Outcome)
	require.Len(t, sold.TicketIDs, 2)

	rec, env = a.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"event_id": eventID, "seat_ids": []int64{seatIDs[0], seatIDs[2]}, "buyer": buyer, "unit_price": 100.0,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	var rejected models.SaleResult
	require.NoError(t, json.Unmarshal(env.Data, &rejected))
	assert.Equal(t, models.SaleRejected, rejected.Outcome)
	require.NotNil(t, rejected.ConflictSeatID)
	assert.Equal(t, seatIDs[0], *rejected.ConflictSeatID)

	rec, env = a.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"event_id": eventID + 50, "seat_ids": []int64{seatIDs[2]}, "buyer": buyer,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var missing models.SaleResult
	require.NoError(t, json.Unmarshal(env.Data, &missing))
	assert.Equal(t, models.SaleError, missing.Outcome)

	rec, _ = a.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"event_id": eventID, "seat_ids": []int64{}, "buyer": buyer,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = a.do(t, http.MethodGet, "/api/events/"+itoa(eventID)+"/seats/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]models.SeatStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, models.SeatStatusSold, status[itoa(seatIDs[0])])
	assert.Equal(t, models.SeatStatusAvailable, status[itoa(seatIDs[2])])

	rec, env = a.do(t, http.MethodGet, "/api/events/"+itoa(eventID)+"/seats/available", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var available []models.Seat
	require.NoError(t, json.Unmarshal(env.Data, &available))
	require.Len(t, available, 1)
	assert.Equal(t, seatIDs[2], available[0].ID)

	rec, env = a.do(t, http.MethodGet, "/api/events/"+itoa(eventID)+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary analytics.EventSalesReport
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.SoldSeats)
	assert.InDelta(t, 200.0, summary.Revenue, 0.001)

	rec, env = a.do(t, http.MethodGet, "/api/tickets/"+itoa(sold.TicketIDs[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ticket models.Ticket
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, seatIDs[0], ticket.SeatID)

	rec, _ = a.do(t, http.MethodGet, "/api/tickets/"+itoa(sold.TicketIDs[0])+"/qr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, env = a.do(t, http.MethodGet, "/api/tickets/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count api.TicketCountResponse
	require.NoError(t, json.Unmarshal(env.Data, &count))
	assert.Equal(t, 2, count.TotalCount)

	rec, _ = a.do(t, http.MethodGet, "/api/tickets/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = a.do(t, http.MethodGet, "/api/tickets/404/pdf", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventTicketsAndVerification(t *testing.T) {
	a := newTestAPI(t)
	seatIDs := testutil.InsertSeats(t, a.db, 2)
	eventID := testutil.InsertEvent(t, a.db, "Concert")

	rec, env := a.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"event_id": eventID, "seat_ids": seatIDs, "buyer": map[string]string{"first_names": "Ana", "phone": "555"}, "unit_price": 40.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	rec, env = a.do(t, http.MethodGet, "/api/events/"+itoa(eventID)+"/tickets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var issued []models.Ticket
	require.NoError(t, json.Unmarshal(env.Data, &issued))
	require.Len(t, issued, 2)
	assert.Equal(t, seatIDs[0], issued[0].SeatID)
	assert.Equal(t, seatIDs[1], issued[1].SeatID)

	rec, _ = a.do(t, http.MethodGet, "/api/events/999/tickets", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	gen := qr.NewQRGenerator("secret")
	code, err := gen.Encrypt(issued[1])
	require.NoError(t, err)
	rec, env = a.do(t, http.MethodPost, "/api/tickets/verify", api.VerifyTicketRequest{Code: code})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	var verified models.Ticket
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	assert.Equal(t, issued[1].ID, verified.ID)

	forged := issued[1]
	forged.SeatID = seatIDs[0]
	code, err = gen.Encrypt(forged)
	require.NoError(t, err)
	rec, _ = a.do(t, http.MethodPost, "/api/tickets/verify", api.VerifyTicketRequest{Code: code})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = a.do(t, http.MethodPost, "/api/tickets/verify", api.VerifyTicketRequest{Code: "not-a-ticket"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := issued[0]
	missing.ID = 999
	code, err = gen.Encrypt(missing)
	require.NoError(t, err)
	rec, _ = a.do(t, http.MethodPost, "/api/tickets/verify", api.VerifyTicketRequest{Code: code})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRoutes(t *testing.T) {
	a := newTestAPI(t)
	seatIDs := testutil.InsertSeats(t, a.db, 1)
	eventID := testutil.InsertEvent(t, a.db, "Concert")
	clientID := testutil.InsertClient(t, a.db, "Ana")
	ticketID := testutil.InsertTicket(t, a.db, eventID, seatIDs[0], &clientID, 10)

	rec, env := a.do(t, http.MethodGet, "/api/clients/"+itoa(clientID), nil)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	rec, _ = a.do(t, http.MethodDelete, "/api/clients/"+itoa(clientID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = a.do(t, http.MethodGet, "/api/clients/"+itoa(clientID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = a.do(t, http.MethodDelete, "/api/clients/"+itoa(clientID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = a.do(t, http.MethodGet, "/api/tickets/"+itoa(ticketID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ticket models.Ticket
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Nil(t, ticket.ClientID)

	rec, _ = a.do(t, http.MethodDelete, "/api/events/"+itoa(eventID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = a.do(t, http.MethodGet, "/api/events/"+itoa(eventID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = a.do(t, http.MethodGet, "/api/tickets/"+itoa(ticketID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = a.do(t, http.MethodDelete, "/api/events/"+itoa(eventID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateClientRoute(t *testing.T) {
	a := newTestAPI(t)

	rec, env := a.do(t, http.MethodPost, "/api/clients", map[string]string{"first_names": "Luis", "phone": "555"})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	rec, _ = a.do(t, http.MethodPost, "/api/clients", map[string]string{"first_names": "Luis"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader("{"))
	raw := httptest.NewRecorder()
	a.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestSeatStatusStream(t *testing.T) {
	a := newTestAPI(t)
	seatIDs := testutil.InsertSeats(t, a.db, 1)
	eventID := testutil.InsertEvent(t, a.db, "Concert")

	server := httptest.NewServer(a.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/events/"+itoa(eventID)+"/seats/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))

	lines := bufio.NewScanner(resp.Body)
	readData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return ""
	}

	assert.Contains(t, readData(), `"connected"`)

	rec, env := a.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"event_id": eventID, "seat_ids": seatIDs, "buyer": map[string]string{"first_names": "Ana", "phone": "1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	var update models.SeatStatusChangeEvent
	require.NoError(t, json.Unmarshal([]byte(readData()), &update))
	assert.Equal(t, eventID, update.EventID)
	assert.Equal(t, seatIDs, update.SeatIDs)
	assert.Equal(t, models.SeatStatusSold, update.Status)
}

func TestSeatStatusStreamUnknownEvent(t *testing.T) {
	a := newTestAPI(t)
	rec, _ := a.do(t, http.MethodGet, "/api/events/12/seats/stream", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
