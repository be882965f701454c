package dto

import (
	"rento/internal/domains/message/model"
	"rento/shared"
	gDto "rento/shared/dto"
	gModel "rento/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// Normalize trims surrounding whitespace so a blank body fails validation.
func (r *SendMessageRequest) Normalize() {
	r.Body = strings.TrimSpace(r.Body)
}

func (r *SendMessageRequest) ToModel(bookingID, senderID string, now time.Time) model.Message {
	return model.Message{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		SenderID:  senderID,
		Body:      r.Body,
		Metadata:  gModel.NewMetadata(senderID, now),
	}
}

type MessageResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	SenderID  string `json:"sender_id"`
	Body      string `json:"body"`
	gDto.Metadata
}

func (r *MessageResponse) FromModel(model model.Message) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.SenderID = model.SenderID
	r.Body = model.Body
	r.Metadata.FromModel(model.Metadata)
}

type GetMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetMessagesResponse) FromModels(models []model.Message, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Messages = make([]MessageResponse, len(models))
	for i, mod := range models {
		r.Messages[i].FromModel(mod)
	}
}
