package model

import "rento/shared/model"

const (
	TableName  = "messages"
	EntityName = "message"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldSenderID  = "sender_id"
	FieldBody      = "body"
	FieldCreatedAt = "created_at"
)

// Message is one line of the conversation attached to a booking.
type Message struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	SenderID  string `db:"sender_id"`
	Body      string `db:"body"`
	model.Metadata
}
