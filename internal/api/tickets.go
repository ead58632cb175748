package api

import (
	"fmt"
	"net/http"
	"strconv"

	"ms-boxoffice/internal/utils"
)

// TicketCountResponse is the response format for the ticket count endpoint
type TicketCountResponse struct {
	TotalCount int `json:"total_count"`
}

// VerifyTicketRequest carries the text scanned from a ticket QR code.
type VerifyTicketRequest struct {
	Code string `json:"code"`
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := idParam(r, "ticketID")
	if err != nil {
		h.writeError(w, "Get ticket", err)
		return
	}

	ticket, err := h.Tickets.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.writeError(w, "Get ticket", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket retrieved", ticket))
}

func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	ticketID, err := idParam(r, "ticketID")
	if err != nil {
		h.writeError(w, "Ticket QR", err)
		return
	}

	png, err := h.Tickets.TicketQR(r.Context(), ticketID)
	if err != nil {
		h.writeError(w, "Ticket QR", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("TicketQR: failed to write response: %v", err))
	}
}

func (h *Handler) TicketPDF(w http.ResponseWriter, r *http.Request) {
	ticketID, err := idParam(r, "ticketID")
	if err != nil {
		h.writeError(w, "Ticket PDF", err)
		return
	}

	doc, err := h.Tickets.TicketPDF(r.Context(), ticketID)
	if err != nil {
		h.writeError(w, "Ticket PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=ticket-%d.pdf", ticketID))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.Logger.Error("API", fmt.Sprintf("TicketPDF: failed to write response: %v", err))
	}
}

func (h *Handler) CountTickets(w http.ResponseWriter, r *http.Request) {
	count, err := h.Tickets.CountTickets(r.Context())
	if err != nil {
		h.writeError(w, "Count tickets", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket count retrieved", TicketCountResponse{TotalCount: count}))
}

func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req VerifyTicketRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Verify ticket", err)
		return
	}

	ticket, err := h.Tickets.VerifyQR(r.Context(), req.Code)
	if err != nil {
		h.writeError(w, "Verify ticket", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket verified", ticket))
}
