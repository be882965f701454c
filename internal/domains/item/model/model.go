package model

import "rento/shared/model"

const (
	TableName  = "items"
	EntityName = "item"

	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldLocation    = "location"
	FieldPrice       = "price"
	FieldIsAvailable = "is_available"
	FieldImageURL    = "image_url"
	FieldDeleted     = "deleted"
)

// Item is a rental listing. OwnerID never changes after creation.
type Item struct {
	ID          string  `db:"id"`
	OwnerID     string  `db:"owner_id"`
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Category    string  `db:"category"`
	Location    string  `db:"location"`
	Price       float64 `db:"price"`
	IsAvailable bool    `db:"is_available"`
	ImageURL    *string `db:"image_url"`
	Deleted     bool    `db:"deleted"`
	model.Metadata
}

// Bookable reports whether new bookings may be placed on the item.
func (i Item) Bookable() bool {
	return !i.Deleted && i.IsAvailable
}
