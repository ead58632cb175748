package tickets

import (
	"context"
	"errors"
	"fmt"

	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
	qr_genrator "ms-boxoffice/internal/tickets/qr_genrator"
	"ms-boxoffice/internal/tickets/template"
)

type TicketDBLayer interface {
	IssueTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
	ListTicketsByEvent(ctx context.Context, eventID int64) ([]models.Ticket, error)
	CountTickets(ctx context.Context) (int, error)
	GetTicketSheet(ctx context.Context, id int64) (*models.TicketSheet, error)
}

type TicketService struct {
	DB          TicketDBLayer
	QRGenerator *qr_genrator.QRGenerator
	PDF         *template.TicketPDFGenerator
	Logger      *logger.Logger
}

func NewTicketService(db TicketDBLayer, qrSecret string, log *logger.Logger) *TicketService {
	return &TicketService{
		DB:          db,
		QRGenerator: qr_genrator.NewQRGenerator(qrSecret),
		PDF:         template.NewTicketPDFGenerator(template.DefaultFontPath),
		Logger:      log,
	}
}

// IssueTicket stores one ticket and returns its id. A seat already sold for
// the event yields a *models.SeatConflictError.
func (s *TicketService) IssueTicket(ctx context.Context, ticket models.Ticket) (int64, error) {
	if err := s.DB.IssueTicket(ctx, &ticket); err != nil {
		return 0, err
	}
	s.Logger.Debug("TICKET", fmt.Sprintf("Issued ticket %d for event %d seat %d", ticket.ID, ticket.EventID, ticket.SeatID))
	return ticket.ID, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	return s.DB.GetTicket(ctx, id)
}

func (s *TicketService) ListTicketsByEvent(ctx context.Context, eventID int64) ([]models.Ticket, error) {
	return s.DB.ListTicketsByEvent(ctx, eventID)
}

// TicketQR renders the encrypted ticket payload as a PNG QR code.
func (s *TicketService) TicketQR(ctx context.Context, id int64) ([]byte, error) {
	ticket, err := s.DB.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := s.QRGenerator.GenerateEncryptedQR(*ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR for ticket %d: %w", id, err)
	}
	return png, nil
}

// DecryptQR returns the ticket data carried by an encrypted QR text.
func (s *TicketService) DecryptQR(encoded string) (*models.TicketQRPayload, error) {
	return s.QRGenerator.DecryptQRData(encoded)
}

// VerifyQR checks a scanned QR text against the stored ticket. Unreadable
// codes and codes that do not match the ticket are validation errors.
func (s *TicketService) VerifyQR(ctx context.Context, encoded string) (*models.Ticket, error) {
	payload, err := s.DecryptQR(encoded)
	if err != nil {
		if errors.Is(err, qr_genrator.ErrInvalidQR) {
			return nil, models.NewValidationError("code", "unreadable ticket code")
		}
		return nil, err
	}

	ticket, err := s.DB.GetTicket(ctx, payload.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket.EventID != payload.EventID || ticket.SeatID != payload.SeatID {
		s.Logger.Warn("TICKET", fmt.Sprintf("QR for ticket %d does not match event %d seat %d", ticket.ID, payload.EventID, payload.SeatID))
		return nil, models.NewValidationError("code", "ticket code does not match the ticket")
	}
	return ticket, nil
}

// TicketPDF renders a printable ticket page carrying the QR code.
func (s *TicketService) TicketPDF(ctx context.Context, id int64) ([]byte, error) {
	sheet, err := s.DB.GetTicketSheet(ctx, id)
	if err != nil {
		return nil, err
	}
	qrPNG, err := s.QRGenerator.GenerateEncryptedQR(sheet.Ticket())
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR for ticket %d: %w", id, err)
	}
	doc, err := s.PDF.Generate(*sheet, qrPNG)
	if err != nil {
		s.Logger.Error("TICKET", fmt.Sprintf("PDF for ticket %d failed: %v", id, err))
		return nil, err
	}
	return doc, nil
}
