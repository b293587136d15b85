package services

import (
	"bytes"
	"testing"

	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
)

func docFixture() bookingDocData {
	return bookingDocData{
		Reference:    "FB-20260830-ABC123",
		ContactName:  "Juan Dela Cruz",
		ContactPhone: "0917",
		VesselName:   "MV Reina",
		RouteFrom:    "Batangas",
		RouteTo:      "Calapan",
		TripDate:     "2026-09-10",
		TripTime:     "08:00:00",
		Passengers: []models.Passenger{
			{Position: 1, FareType: domain.FareAdult, FullName: "Juan Dela Cruz", FareCents: 55000, TicketNo: "TKT-000000000001"},
			{Position: 2, FareType: domain.FareSenior, FullName: "Maria Dela Cruz", FareCents: 44000},
		},
		TotalCents:    104500,
		AdminFeeCents: 4000,
		GcashFeeCents: 1500,
	}
}

func docsService() DocsService {
	return DocsService{Loader: func(string) (bookingDocData, error) { return docFixture(), nil }}
}

func TestGenerateETicketRendersPDF(t *testing.T) {
	pdf, filename, err := docsService().GenerateETicket("FB-20260830-ABC123", 1)
	if err != nil {
		t.Fatalf("GenerateETicket: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
	if filename != "ETICKET_FB-20260830-ABC123_TKT-000000000001.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestGenerateETicketNeedsTicketNumber(t *testing.T) {
	_, _, err := docsService().GenerateETicket("FB-20260830-ABC123", 2)
	if !domain.IsInvalidState(err) {
		t.Fatalf("want invalid state for unticketed passenger, got %v", err)
	}
}

func TestGenerateETicketUnknownPosition(t *testing.T) {
	_, _, err := docsService().GenerateETicket("FB-20260830-ABC123", 9)
	if !domain.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestGenerateReceiptRendersPDF(t *testing.T) {
	pdf, filename, err := docsService().GenerateReceipt("FB-20260830-ABC123")
	if err != nil {
		t.Fatalf("GenerateReceipt: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
	if filename != "RECEIPT_FB-20260830-ABC123.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}
