package receipt_test

import (
	"bytes"
	"rento/internal/domains/booking/receipt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	pdf, err := receipt.Render(receipt.Details{
		BookingID:   "b-1",
		Status:      "CONFIRMED",
		ItemTitle:   "Camping tent",
		OwnerName:   "Olivia",
		RenterName:  "Dana",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-04",
		Days:        3,
		PricePerDay: 50,
		TotalPrice:  150,
		IssuedAt:    time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Greater(t, len(pdf), 500)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "rento-receipt-b-1.pdf", receipt.Filename("b-1"))
}
