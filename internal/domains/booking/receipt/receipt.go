// Package receipt renders the PDF handed to both parties of a confirmed or completed booking.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
)

type Details struct {
	BookingID   string
	Status      string
	ItemTitle   string
	OwnerName   string
	RenterName  string
	StartDate   string
	EndDate     string
	Days        int
	PricePerDay float64
	TotalPrice  float64
	IssuedAt    time.Time
}

func Filename(bookingID string) string {
	return fmt.Sprintf("rento-receipt-%s.pdf", bookingID)
}

func Render(d Details) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Rento booking receipt", false)
	pdf.SetCreationDate(d.IssuedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)

	for _, line := range []string{
		"Booking    : " + d.BookingID,
		"Status     : " + d.Status,
		"Issued     : " + d.IssuedAt.Format("2006-01-02 15:04"),
	} {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rental")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)

	for _, line := range []string{
		"Item       : " + d.ItemTitle,
		"Owner      : " + d.OwnerName,
		"Renter     : " + d.RenterName,
		fmt.Sprintf("Period     : %s to %s (%d day(s))", d.StartDate, d.EndDate, d.Days),
		"Daily rate : " + money(d.PricePerDay),
	} {
		pdf.Cell(0, 7, pdf.UnicodeTranslatorFromDescriptor("")(line))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Total: "+money(d.TotalPrice))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Payment and hand-over are arranged between owner and renter.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	return buf.Bytes(), nil
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
