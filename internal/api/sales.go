package api

import (
	"errors"
	"fmt"
	"net/http"

	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/utils"
)

// CreateSale answers with the SaleResult in every case so the ticket window
// can see which tickets were issued before a failure.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req models.SaleRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Create sale", err)
		return
	}

	res, err := h.Sales.CreateSale(r.Context(), req)
	if err == nil {
		utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Seats sold", res))
		return
	}

	status := saleStatus(res, err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("CreateSale: event %d: %v", req.EventID, err))
	}
	resp := utils.ErrorResponse(fmt.Sprintf("Sale %s", res.Outcome), err.Error())
	resp.Data = res
	utils.WriteJSON(w, status, resp)
}

func saleStatus(res models.SaleResult, err error) int {
	switch res.Outcome {
	case models.SaleRejected:
		return http.StatusConflict
	case models.SalePartialFailure:
		if errors.Is(err, models.ErrSeatTaken) {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	default:
		return statusFor(err)
	}
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var buyer models.Buyer
	if err := decodeBody(r, &buyer); err != nil {
		h.writeError(w, "Create client", err)
		return
	}

	id, err := h.Clients.CreateClient(r.Context(), buyer)
	if err != nil {
		h.writeError(w, "Create client", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Client created", map[string]int64{"id": id}))
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := idParam(r, "clientID")
	if err != nil {
		h.writeError(w, "Get client", err)
		return
	}

	client, err := h.Clients.GetClient(r.Context(), clientID)
	if err != nil {
		h.writeError(w, "Get client", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Client retrieved", client))
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := idParam(r, "clientID")
	if err != nil {
		h.writeError(w, "Delete client", err)
		return
	}

	if err := h.Clients.DeleteClient(r.Context(), clientID); err != nil {
		h.writeError(w, "Delete client", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Client deleted", map[string]int64{"id": clientID}))
}
