package dto

import (
	"maps"
	"rento/internal/domains/notification/model"
	"rento/internal/domains/notification/template"
	"rento/shared"
	"rento/shared/constant"
	gModel "rento/shared/model"
	"rento/shared/timezone"
	"time"

	"github.com/google/uuid"
)

// NotifyRequest asks the fanout to notify one recipient. Vars fill the type's template, Data is the deep
// link payload; the template's action is added to it.
type NotifyRequest struct {
	UserID  string
	ActorID string
	Type    model.Type
	Data    model.Payload
	Vars    map[string]string
}

func (r *NotifyRequest) ToModel(rendered template.Rendered, now time.Time) model.Notification {
	data := model.Payload{}
	maps.Copy(data, r.Data)
	data[model.DataAction] = rendered.Action

	actor := r.ActorID
	if actor == "" {
		actor = constant.ActorSystem
	}

	return model.Notification{
		ID:       uuid.NewString(),
		UserID:   r.UserID,
		Type:     r.Type,
		Title:    rendered.Title,
		Message:  rendered.Message,
		Data:     data,
		Read:     false,
		Metadata: gModel.NewMetadata(actor, now),
	}
}

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Read      bool           `json:"read"`
	CreatedAt string         `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.Type = string(model.Type)
	r.Title = model.Title
	r.Message = model.Message
	r.Data = model.Data
	r.Read = model.Read
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
