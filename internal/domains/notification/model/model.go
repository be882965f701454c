package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"rento/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldType      = "type"
	FieldTitle     = "title"
	FieldMessage   = "message"
	FieldData      = "data"
	FieldRead      = "read"
	FieldCreatedAt = "created_at"
)

// Type is the closed set of notification kinds.
type Type string

const (
	TypeBookingRequest   Type = "booking_request"
	TypeBookingApproved  Type = "booking_approved"
	TypeBookingRejected  Type = "booking_rejected"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeBookingCompleted Type = "booking_completed"
	TypeListingDeleted   Type = "listing_deleted"
	TypeNewMessage       Type = "new_message"
)

var Types = []Type{
	TypeBookingRequest,
	TypeBookingApproved,
	TypeBookingRejected,
	TypeBookingCancelled,
	TypeBookingCompleted,
	TypeListingDeleted,
	TypeNewMessage,
}

// Deep link actions understood by clients.
const (
	ActionOpenBooking        = "open_booking"
	ActionOpenBookingRequest = "open_booking_request"
	ActionOpenChat           = "open_chat"
	ActionListingRemoved     = "listing_removed"
)

// Payload keys.
const (
	DataBookingID = "booking_id"
	DataItemID    = "item_id"
	DataMessageID = "message_id"
	DataAction    = "action"
)

var errUnsupportedPayload = errors.New("unsupported notification payload type")

// Payload is the flat deep-link object stored with a notification.
type Payload map[string]any

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	return string(raw), nil
}

func (p *Payload) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*p = Payload{}

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedPayload, src)
	}

	decoded := Payload{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to unmarshal notification payload: %w", err)
	}

	*p = decoded

	return nil
}

// String returns the value under key when it is a string.
func (p Payload) String(key string) string {
	value, _ := p[key].(string)

	return value
}

type Notification struct {
	ID      string  `db:"id"`
	UserID  string  `db:"user_id"`
	Type    Type    `db:"type"`
	Title   string  `db:"title"`
	Message string  `db:"message"`
	Data    Payload `db:"data"`
	Read    bool    `db:"read"`
	model.Metadata
}
