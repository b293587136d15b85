package services

import (
	"bytes"
	"fmt"
	"strings"

	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders passenger-facing PDFs: one e-ticket per passenger
// and one receipt per booking.
type DocsService struct {
	BookingRepo repositories.BookingRepo
	RequestID   string
	// Loader overrides booking lookup in tests.
	Loader func(reference string) (bookingDocData, error)
}

type bookingDocData struct {
	Reference     string
	ContactName   string
	ContactPhone  string
	VesselName    string
	RouteFrom     string
	RouteTo       string
	TripDate      string
	TripTime      string
	IsWalkIn      bool
	Passengers    []models.Passenger
	TotalCents    int64
	AdminFeeCents int64
	GcashFeeCents int64
}

// GenerateETicket renders the e-ticket for one passenger of a booking.
// Tickets exist only after payment confirmation; a pending booking has
// none to render.
func (s DocsService) GenerateETicket(reference string, position int) ([]byte, string, error) {
	data, err := s.load(reference)
	if err != nil {
		return nil, "", err
	}
	var pax *models.Passenger
	for i := range data.Passengers {
		if data.Passengers[i].Position == position {
			pax = &data.Passengers[i]
			break
		}
	}
	if pax == nil {
		return nil, "", domain.NotFoundError{Resource: "passenger"}
	}
	if strings.TrimSpace(pax.TicketNo) == "" {
		return nil, "", domain.InvalidStateError{Status: "unticketed", Action: "render e-ticket for"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket",
		fmt.Sprintf("reference=%s position=%d", reference, position))
	return buildETicketPDF(data, *pax)
}

// GenerateReceipt renders the payment receipt for a booking.
func (s DocsService) GenerateReceipt(reference string) ([]byte, string, error) {
	data, err := s.load(reference)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "reference="+reference)
	return buildReceiptPDF(data)
}

func (s DocsService) load(reference string) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(reference)
	}
	var out bookingDocData
	b, err := s.BookingRepo.GetByReference(reference)
	if err != nil {
		return out, err
	}
	passengers, err := s.BookingRepo.Passengers(nil, b.ID)
	if err != nil {
		return out, err
	}
	out = bookingDocData{
		Reference:     b.Reference,
		ContactName:   b.ContactName,
		ContactPhone:  b.ContactPhone,
		VesselName:    b.VesselName,
		RouteFrom:     b.RouteFrom,
		RouteTo:       b.RouteTo,
		TripDate:      b.TripDate,
		TripTime:      b.TripTime,
		IsWalkIn:      b.IsWalkIn,
		Passengers:    passengers,
		TotalCents:    b.TotalCents,
		AdminFeeCents: b.AdminFeeCents,
		GcashFeeCents: b.GcashFeeCents,
	}
	return out, nil
}

func buildETicketPDF(d bookingDocData, pax models.Passenger) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FERRY E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger    : %s", safe(pax.FullName, "-")),
		fmt.Sprintf("Fare Type    : %s", safe(string(pax.FareType), "-")),
		fmt.Sprintf("Ticket No    : %s", safe(pax.TicketNo, "-")),
		fmt.Sprintf("Vessel       : %s", safe(d.VesselName, "-")),
		fmt.Sprintf("Route        : %s -> %s", safe(d.RouteFrom, "-"), safe(d.RouteTo, "-")),
		fmt.Sprintf("Departure    : %s %s", safe(dateOnly(d.TripDate), "-"), safe(timeHM(d.TripTime), "-")),
		fmt.Sprintf("Booking Ref  : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Contact      : %s", safe(d.ContactName, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger. Present it with a valid ID at the terminal at least 30 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s_%s.pdf", d.Reference, safeFilenamePart(pax.TicketNo))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No  : RCPT-"+safe(d.Reference, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date        : "+utils.FormatDateTime(utils.NowManila()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name   : %s", safe(d.ContactName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone  : %s", safe(d.ContactPhone, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	desc := fmt.Sprintf("Ferry %s -> %s (%s %s) aboard %s",
		safe(d.RouteFrom, "-"), safe(d.RouteTo, "-"),
		safe(dateOnly(d.TripDate), "-"), safe(timeHM(d.TripTime), "-"),
		safe(d.VesselName, "-"),
	)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)

	for _, p := range d.Passengers {
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s (%s): %s", p.Position, safe(p.FullName, "-"), p.FareType, utils.FormatPeso(p.FareCents)))
		pdf.Ln(6)
	}
	if d.AdminFeeCents > 0 {
		pdf.Cell(0, 6, "Admin fee: "+utils.FormatPeso(d.AdminFeeCents))
		pdf.Ln(6)
	}
	if d.GcashFeeCents > 0 {
		pdf.Cell(0, 6, "GCash fee: "+utils.FormatPeso(d.GcashFeeCents))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatPeso(d.TotalCents))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Keep this receipt for your records.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
