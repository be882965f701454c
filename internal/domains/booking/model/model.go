package model

import (
	"rento/internal/domains/booking/lifecycle"
	"rento/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldItemID     = "item_id"
	FieldRenterID   = "renter_id"
	FieldOwnerID    = "owner_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldTotalPrice = "total_price"
	FieldStatus     = "status"
	FieldMessage    = "message"
)

type Booking struct {
	ID         string           `db:"id"`
	ItemID     string           `db:"item_id"`
	RenterID   string           `db:"renter_id"`
	OwnerID    string           `db:"owner_id"`
	StartDate  time.Time        `db:"start_date"`
	EndDate    time.Time        `db:"end_date"`
	TotalPrice float64          `db:"total_price"`
	Status     lifecycle.Status `db:"status"`
	Message    *string          `db:"message"`
	model.Metadata

	ItemTitle   *string `db:"item_title"   table:"items" column:"title"`
	ItemDeleted *bool   `db:"item_deleted" table:"items" column:"deleted"`
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN items ON items.id = bookings.item_id"
}

func (b Booking) Parties() lifecycle.Parties {
	return lifecycle.Parties{OwnerID: b.OwnerID, RenterID: b.RenterID}
}

// ItemRemoved reports whether the booked listing was deleted by its owner.
func (b Booking) ItemRemoved() bool {
	return b.ItemDeleted == nil || *b.ItemDeleted
}

func (b Booking) Title() string {
	if b.ItemTitle == nil {
		return ""
	}

	return *b.ItemTitle
}
