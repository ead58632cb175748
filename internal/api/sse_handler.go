package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/utils"
)

// StreamSeatStatus streams seat status changes of one event as server sent
// events until the client disconnects.
func (h *Handler) StreamSeatStatus(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		h.writeError(w, "Seat stream", err)
		return
	}
	exists, err := h.Events.EventExists(r.Context(), eventID)
	if err != nil {
		h.writeError(w, "Seat stream", err)
		return
	}
	if !exists {
		h.writeError(w, "Seat stream", models.ErrEventNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Seat stream failed", "streaming unsupported"))
		return
	}

	setupSSEHeaders(w)

	ctx := r.Context()
	updates := h.Emitter.Subscribe(ctx, eventID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"event_id\":%d}\n\n", eventID)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to seat status stream for event %d", eventID))

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize seat status update: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: seat_status\ndata: %s\n\n", data)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from seat status stream for event %d", eventID))
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
}
