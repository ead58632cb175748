package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-boxoffice/internal/analytics"
	availability "ms-boxoffice/internal/availability/service"
	clients "ms-boxoffice/internal/clients/service"
	events "ms-boxoffice/internal/events/service"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/sales"
	seats "ms-boxoffice/internal/seats/service"
	"ms-boxoffice/internal/sse"
	tickets "ms-boxoffice/internal/tickets/service"
	"ms-boxoffice/internal/utils"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	Seats        *seats.SeatService
	Events       *events.EventService
	Availability *availability.AvailabilityService
	Sales        *sales.SaleService
	Clients      *clients.ClientService
	Tickets      *tickets.TicketService
	Analytics    *analytics.Service
	Emitter      *sse.SeatEventEmitter
	DB           Pinger
	Logger       *logger.Logger
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			h.Logger.Error("API", fmt.Sprintf("Health: database unreachable: %v", err))
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("Database unreachable", err.Error()))
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSeatTaken), errors.Is(err, models.ErrSeatDuplicate):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
	} else {
		h.Logger.Debug("API", fmt.Sprintf("%s: %v", op, err))
	}
	utils.WriteJSON(w, status, utils.ErrorResponse(op+" failed", err.Error()))
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(name, fmt.Sprintf("%q is not a valid id", raw))
	}
	return id, nil
}
