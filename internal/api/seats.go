package api

import (
	"net/http"

	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/utils"
)

type createSeatRequest struct {
	Row     string         `json:"row"`
	Number  int            `json:"number"`
	Section models.Section `json:"section"`
}

func (h *Handler) ListSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.Seats.ListAllSeats(r.Context())
	if err != nil {
		h.writeError(w, "List seats", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Seats retrieved", seats))
}

func (h *Handler) SeatsBySection(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Seats.GroupSeatsBySection(r.Context())
	if err != nil {
		h.writeError(w, "Group seats", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Seats grouped by section", sections))
}

func (h *Handler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	var req createSeatRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Create seat", err)
		return
	}

	id, err := h.Seats.CreateSeat(r.Context(), req.Row, req.Number, req.Section)
	if err != nil {
		h.writeError(w, "Create seat", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Seat created", map[string]int64{"id": id}))
}
