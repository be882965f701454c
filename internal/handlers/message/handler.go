package message

import (
	"net/http"
	"rento/infras/otel"
	"rento/internal/domains/message/model/dto"
	"rento/internal/domains/message/service"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/validator"
	"rento/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Message
	otel    otel.Otel
}

func New(service service.Message, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the conversation of a booking. It expects a group scoped to /bookings.
func (handler *Handler) Router(routerGroup chi.Router) {
	routerGroup.Get("/{id}/messages", handler.GetMessages)
	routerGroup.Post("/{id}/messages", handler.SendMessage)
}

// SendMessage posts to the conversation of a booking.
// @Summary Send a message
// @Tags Message
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} response.Data[dto.MessageResponse] "Message sent"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/messages [post]
// @Security BearerAuth
func (handler *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendMessage")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	req := dto.SendMessageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	message, err := handler.service.Send(ctx, bookingID, req, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to send message")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Message sent")

	response.WithJSON(w, http.StatusCreated, message)
}

// GetMessages pages through the conversation of a booking, oldest first.
// @Summary List messages
// @Tags Message
// @Produce json
// @Param id path string true "Booking ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Data[dto.GetMessagesResponse] "Conversation"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/messages [get]
// @Security BearerAuth
func (handler *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMessages")
	defer scope.End()

	bookingID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	messages, err := handler.service.List(ctx, bookingID, shared.ActorID(ctx), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get messages")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, messages)
}
