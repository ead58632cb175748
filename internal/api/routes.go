package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ms-boxoffice/internal/logger"
)

// NewRouter registers every box office route on a chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Logger))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/seats", func(r chi.Router) {
			r.Get("/", h.ListSeats)
			r.Post("/", h.CreateSeat)
			r.Get("/sections", h.SeatsBySection)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", h.GetEvent)
				r.Delete("/", h.DeleteEvent)
				r.Get("/tickets", h.ListEventTickets)
				r.Get("/seats/available", h.AvailableSeats)
				r.Get("/seats/status", h.SeatStatus)
				r.Get("/seats/stream", h.StreamSeatStatus)
				r.Get("/summary", h.EventSummary)
			})
		})

		r.Post("/sales", h.CreateSale)
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", h.CreateClient)
			r.Get("/{clientID}", h.GetClient)
			r.Delete("/{clientID}", h.DeleteClient)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/count", h.CountTickets)
			r.Post("/verify", h.VerifyTicket)
			r.Get("/{ticketID}", h.GetTicket)
			r.Get("/{ticketID}/qr", h.TicketQR)
			r.Get("/{ticketID}/pdf", h.TicketPDF)
		})
	})

	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
