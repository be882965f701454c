package dto

import (
	"rento/internal/domains/booking/lifecycle"
	"rento/internal/domains/booking/model"
	"rento/shared"
	gDto "rento/shared/dto"
	gModel "rento/shared/model"
	"rento/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ItemID    string  `json:"item_id"           validate:"required,uuid"`
	StartDate string  `json:"start_date"        validate:"required,calendardate"`
	EndDate   string  `json:"end_date"          validate:"required,calendardate"`
	Message   *string `json:"message,omitempty" validate:"omitempty,max=1000"`
}

// Period parses the requested calendar dates in the application timezone.
func (c *CreateBookingRequest) Period() (start, end time.Time, err error) {
	start, err = timezone.ParseDate(c.StartDate)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	end, err = timezone.ParseDate(c.EndDate)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	return start, end, nil
}

// ItemTerms is what a booking copies from the listing it is made on.
type ItemTerms struct {
	ID          string
	OwnerID     string
	Title       string
	PricePerDay float64
}

func (c *CreateBookingRequest) ToModel(item ItemTerms, renterID string, start, end, now time.Time) model.Booking {
	title := item.Title
	notDeleted := false

	return model.Booking{
		ID:          uuid.NewString(),
		ItemID:      item.ID,
		RenterID:    renterID,
		OwnerID:     item.OwnerID,
		StartDate:   start,
		EndDate:     end,
		TotalPrice:  lifecycle.TotalPrice(start, end, item.PricePerDay),
		Status:      lifecycle.StatusPending,
		Message:     c.Message,
		Metadata:    gModel.NewMetadata(renterID, now),
		ItemTitle:   &title,
		ItemDeleted: &notDeleted,
	}
}

type BookingResponse struct {
	ID         string  `json:"id"`
	ItemID     string  `json:"item_id"`
	ItemTitle  string  `json:"item_title"`
	RenterID   string  `json:"renter_id"`
	OwnerID    string  `json:"owner_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Days       int     `json:"days"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	Message    *string `json:"message,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ItemID = model.ItemID
	r.ItemTitle = model.Title()
	r.RenterID = model.RenterID
	r.OwnerID = model.OwnerID
	r.StartDate = timezone.FormatDate(model.StartDate)
	r.EndDate = timezone.FormatDate(model.EndDate)
	r.Days = lifecycle.RentalDays(model.StartDate, model.EndDate)
	r.TotalPrice = model.TotalPrice
	r.Status = string(model.Status)
	r.Message = model.Message
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// Receipt is a rendered booking receipt.
type Receipt struct {
	Filename string
	Content  []byte
}
