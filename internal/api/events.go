package api

import (
	"net/http"

	availability "ms-boxoffice/internal/availability/service"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/utils"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListAllEvents(r.Context())
	if err != nil {
		h.writeError(w, "List events", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events retrieved", events))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Create event", err)
		return
	}

	id, err := h.Events.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeError(w, "Create event", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", map[string]int64{"id": id}))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "Get event", err)
		return
	}

	event, err := h.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "Get event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", event))
}

func (h *Handler) AvailableSeats(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "Available seats", err)
		return
	}

	seats, err := h.Availability.AvailableSeats(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "Available seats", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Available seats retrieved", seats))
}

func (h *Handler) SeatStatus(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "Seat status", err)
		return
	}

	status, err := h.Availability.SeatStatusForEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "Seat status", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Seat status retrieved", availability.StatusLabels(status)))
}

func (h *Handler) EventSummary(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "Event summary", err)
		return
	}

	report, err := h.Analytics.EventReport(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "Event summary", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event summary retrieved", report))
}

// DeleteEvent removes the event and, through the cascade, its tickets.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "Delete event", err)
		return
	}

	if err := h.Events.DeleteEvent(r.Context(), eventID); err != nil {
		h.writeError(w, "Delete event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event deleted", map[string]int64{"id": eventID}))
}

func (h *Handler) ListEventTickets(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "List event tickets", err)
		return
	}

	if _, err := h.Events.GetEvent(r.Context(), eventID); err != nil {
		h.writeError(w, "List event tickets", err)
		return
	}
	tickets, err := h.Tickets.ListTicketsByEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "List event tickets", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tickets retrieved", tickets))
}
