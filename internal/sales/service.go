package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	clients "ms-boxoffice/internal/clients/service"
	"ms-boxoffice/internal/clock"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

type EventChecker interface {
	EventExists(ctx context.Context, id int64) (bool, error)
}

type SeatStatusReader interface {
	SeatStatus(ctx context.Context, eventID int64) (map[int64]bool, error)
}

type ClientRegistry interface {
	CreateClient(ctx context.Context, buyer models.Buyer) (int64, error)
}

type TicketIssuer interface {
	IssueTicket(ctx context.Context, ticket models.Ticket) (int64, error)
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher forwards sale notifications to the message bus.
type Publisher interface {
	PublishSale(ctx context.Context, event models.SaleEvent) error
	PublishSeatStatus(ctx context.Context, event models.SeatStatusChangeEvent) error
}

// DefaultPublishTimeout bounds the time a sale spends publishing to the bus.
const DefaultPublishTimeout = 2 * time.Second

// Emitter pushes seat status changes to live subscribers.
type Emitter interface {
	Emit(event models.SeatStatusChangeEvent)
}

// SaleService sells seats of one event to one buyer.
//
// A sale checks every requested seat against a single SeatStatus snapshot and
// then registers the buyer and issues tickets one by one. The unique ticket
// index is what decides concurrent sales of the same seat: a seat lost
// between the check and the insert stops the sale with the tickets issued so
// far (partial_failure). With Atomic set the commit runs in one transaction
// and such a sale is rolled back instead.
type SaleService struct {
	Events  EventChecker
	Seats   SeatStatusReader
	Clients ClientRegistry
	Tickets TicketIssuer
	Clock   clock.Clock
	Logger  *logger.Logger

	Tx             Transactor
	Atomic         bool
	Publisher      Publisher
	PublishTimeout time.Duration
	Emitter        Emitter
}

func NewSaleService(events EventChecker, seats SeatStatusReader, clientRegistry ClientRegistry, tickets TicketIssuer, clk clock.Clock, log *logger.Logger) *SaleService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &SaleService{
		Events:  events,
		Seats:   seats,
		Clients: clientRegistry,
		Tickets: tickets,
		Clock:   clk,
		Logger:  log,

		PublishTimeout: DefaultPublishTimeout,
	}
}

// CreateSale always returns a SaleResult describing what was created, also
// when err is not nil.
func (s *SaleService) CreateSale(ctx context.Context, req models.SaleRequest) (models.SaleResult, error) {
	if err := validateRequest(req); err != nil {
		return errorResult(err), err
	}

	exists, err := s.Events.EventExists(ctx, req.EventID)
	if err != nil {
		return errorResult(err), fmt.Errorf("check event %d: %w", req.EventID, err)
	}
	if !exists {
		err := fmt.Errorf("event %d: %w", req.EventID, models.ErrEventNotFound)
		return errorResult(err), err
	}

	if res, err := s.precheck(ctx, req); err != nil {
		s.Logger.LogSale("REJECTED", req.EventID, res.Reason)
		return res, err
	}

	// once tickets start being issued the sale runs to completion
	ctx = context.WithoutCancel(ctx)

	var res models.SaleResult
	if s.Atomic && s.Tx != nil {
		res, err = s.commitAtomic(ctx, req)
	} else {
		res, err = s.commit(ctx, req)
	}

	s.logOutcome(req, res)
	s.announce(ctx, req, res)
	return res, err
}

// precheck resolves every requested seat from one status snapshot. Unknown
// seats fail the sale before occupied ones; among occupied seats the first
// in request order is reported.
func (s *SaleService) precheck(ctx context.Context, req models.SaleRequest) (models.SaleResult, error) {
	status, err := s.Seats.SeatStatus(ctx, req.EventID)
	if err != nil {
		return errorResult(err), fmt.Errorf("read seat status: %w", err)
	}

	for _, seatID := range req.SeatIDs {
		if _, ok := status[seatID]; !ok {
			err := fmt.Errorf("seat %d: %w", seatID, models.ErrSeatNotFound)
			return errorResult(err), err
		}
	}
	for _, seatID := range req.SeatIDs {
		if status[seatID] {
			conflict := &models.SeatConflictError{EventID: req.EventID, SeatID: seatID}
			return models.SaleResult{
				Outcome:        models.SaleRejected,
				Reason:         conflict.Error(),
				TicketIDs:      []int64{},
				ConflictSeatID: &conflict.SeatID,
			}, conflict
		}
	}
	return models.SaleResult{}, nil
}

func (s *SaleService) commit(ctx context.Context, req models.SaleRequest) (models.SaleResult, error) {
	clientID, err := s.Clients.CreateClient(ctx, req.Buyer)
	if err != nil {
		return errorResult(err), fmt.Errorf("register buyer: %w", err)
	}

	res := models.SaleResult{
		ClientID:  &clientID,
		TicketIDs: make([]int64, 0, len(req.SeatIDs)),
	}
	purchaseTime := s.Clock.Now()

	for _, seatID := range req.SeatIDs {
		ticketID, err := s.Tickets.IssueTicket(ctx, models.Ticket{
			EventID:      req.EventID,
			SeatID:       seatID,
			ClientID:     &clientID,
			PurchaseTime: purchaseTime,
			Price:        req.UnitPrice,
		})
		if err != nil {
			return partialResult(res, req, seatID, err)
		}
		res.TicketIDs = append(res.TicketIDs, ticketID)
	}

	res.Outcome = models.SaleSold
	return res, nil
}

func partialResult(res models.SaleResult, req models.SaleRequest, seatID int64, err error) (models.SaleResult, error) {
	res.Outcome = models.SalePartialFailure

	var conflict *models.SeatConflictError
	if errors.As(err, &conflict) {
		res.ConflictSeatID = &conflict.SeatID
		res.Reason = fmt.Sprintf("%v after %d of %d tickets issued", conflict, len(res.TicketIDs), len(req.SeatIDs))
		return res, err
	}

	if !errors.Is(err, models.ErrStorage) {
		err = models.StorageError(fmt.Sprintf("issue ticket for seat %d", seatID), err)
	}
	res.Reason = err.Error()
	return res, err
}

// commitAtomic runs commit in one transaction. Any failure leaves nothing
// behind, so partial results are reported as rejected or error.
func (s *SaleService) commitAtomic(ctx context.Context, req models.SaleRequest) (models.SaleResult, error) {
	var res models.SaleResult
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.commit(ctx, req)
		return err
	})
	if err == nil {
		return res, nil
	}

	var conflict *models.SeatConflictError
	if errors.As(err, &conflict) {
		return models.SaleResult{
			Outcome:        models.SaleRejected,
			Reason:         conflict.Error(),
			TicketIDs:      []int64{},
			ConflictSeatID: &conflict.SeatID,
		}, err
	}
	return errorResult(err), err
}

func validateRequest(req models.SaleRequest) error {
	if len(req.SeatIDs) == 0 {
		return models.NewValidationError("seat_ids", "at least one seat is required")
	}
	seen := make(map[int64]struct{}, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if _, dup := seen[id]; dup {
			return models.NewValidationError("seat_ids", fmt.Sprintf("seat %d requested more than once", id))
		}
		seen[id] = struct{}{}
	}
	if req.UnitPrice < 0 {
		return models.NewValidationError("unit_price", "must not be negative")
	}
	return clients.ValidateBuyer(req.Buyer)
}

func errorResult(err error) models.SaleResult {
	return models.SaleResult{
		Outcome:   models.SaleError,
		Reason:    err.Error(),
		TicketIDs: []int64{},
	}
}

func (s *SaleService) logOutcome(req models.SaleRequest, res models.SaleResult) {
	switch res.Outcome {
	case models.SaleSold:
		s.Logger.LogSale("SOLD", req.EventID, fmt.Sprintf("client %d bought seats %v as tickets %v", *res.ClientID, req.SeatIDs, res.TicketIDs))
	case models.SalePartialFailure:
		s.Logger.LogSale("PARTIAL", req.EventID, res.Reason)
	case models.SaleRejected:
		s.Logger.LogSale("REJECTED", req.EventID, res.Reason)
	default:
		s.Logger.LogSale("ERROR", req.EventID, res.Reason)
	}
}

// announce publishes the seats that were ticketed. Delivery problems never
// change the sale outcome.
func (s *SaleService) announce(ctx context.Context, req models.SaleRequest, res models.SaleResult) {
	if len(res.TicketIDs) == 0 {
		return
	}

	correlationID := uuid.New()
	now := s.Clock.Now()
	statusEvent := models.NewSeatStatusChangeEvent(correlationID, req.EventID, res.SoldSeatIDs(req), models.SeatStatusSold, now)

	if s.Emitter != nil {
		s.Emitter.Emit(statusEvent)
	}

	if s.Publisher != nil {
		timeout := s.PublishTimeout
		if timeout <= 0 {
			timeout = DefaultPublishTimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.Publisher.PublishSale(ctx, models.NewSaleEvent(correlationID, req, res, now)); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish sale %s: %v", correlationID, err))
		}
		if err := s.Publisher.PublishSeatStatus(ctx, statusEvent); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish seat status %s: %v", correlationID, err))
		}
	}
}
