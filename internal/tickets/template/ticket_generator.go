package template

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"

	"ms-boxoffice/internal/models"
)

const fontName = "ticket"

// DefaultFontPath is used when TICKET_FONT_PATH is not set.
const DefaultFontPath = "./fonts/DejaVuSans.ttf"

// ErrFontUnavailable is returned when the TTF font cannot be loaded.
var ErrFontUnavailable = errors.New("ticket font unavailable")

type TicketPDFGenerator struct {
	FontPath string
}

func NewTicketPDFGenerator(fontPath string) *TicketPDFGenerator {
	return &TicketPDFGenerator{FontPath: fontPath}
}

// Generate lays out one A4 page for the ticket with its QR code below the
// details.
func (g *TicketPDFGenerator) Generate(sheet models.TicketSheet, qrCode []byte) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont(fontName, g.FontPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontUnavailable, g.FontPath, err)
	}
	if err := pdf.SetFont(fontName, "", 14); err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}

	addHeader(pdf, sheet)

	pdf.SetY(90)
	addTicketInfo(pdf, sheet)

	if len(qrCode) > 0 {
		pdf.SetY(pdf.GetY() + 20)
		addQRCode(pdf, qrCode)
	}

	pdf.SetY(760)
	addFooter(pdf)

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf, sheet models.TicketSheet) {
	pdf.SetX(40)
	pdf.SetY(40)
	pdf.Cell(nil, "TICKET - "+sheet.EventType)
}

func addTicketInfo(pdf *gopdf.GoPdf, sheet models.TicketSheet) {
	holder := "-"
	if sheet.Holder != nil {
		holder = *sheet.Holder
	}
	starts := "-"
	if sheet.EventStart != nil {
		starts = sheet.EventStart.Format("2006-01-02 15:04")
	}

	info := []struct {
		Label string
		Value string
	}{
		{"Ticket", fmt.Sprintf("#%d", sheet.TicketID)},
		{"Event", fmt.Sprintf("%s (#%d)", sheet.EventType, sheet.EventID)},
		{"Starts", starts},
		{"Seat", sheet.SeatLabel()},
		{"Holder", holder},
		{"Price", fmt.Sprintf("%.2f", sheet.Price)},
		{"Purchased", sheet.PurchaseTime.Format("2006-01-02 15:04")},
	}

	for _, item := range info {
		pdf.SetX(40)
		pdf.Cell(nil, item.Label+": "+item.Value)
		pdf.Br(20)
	}
}

func addQRCode(pdf *gopdf.GoPdf, qrCode []byte) {
	img, err := png.Decode(bytes.NewReader(qrCode))
	if err != nil {
		pdf.Cell(nil, "Failed to load QR code")
		return
	}

	rect := &gopdf.Rect{W: 160, H: 160}
	if err := pdf.ImageFrom(img, 40, pdf.GetY(), rect); err != nil {
		pdf.Cell(nil, "Failed to draw QR code")
	}
}

func addFooter(pdf *gopdf.GoPdf) {
	pdf.SetX(40)
	pdf.Cell(nil, "Present this ticket at the entrance. One seat per ticket.")
}
