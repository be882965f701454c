package notification

import (
	"net/http"
	"rento/infras/otel"
	"rento/infras/realtime"
	"rento/internal/domains/notification/service"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Notification
	hub     realtime.Hub
	otel    otel.Otel
}

func New(service service.Notification, hub realtime.Hub, otel otel.Otel) Handler {
	return Handler{
		service: service,
		hub:     hub,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetNotifications)
		routerGroup.Get("/unread-count", handler.CountUnread)
		routerGroup.Get("/stream", handler.Stream)
		routerGroup.Post("/read-all", handler.MarkAllRead)
		routerGroup.Post("/{id}/read", handler.MarkRead)
		routerGroup.Delete("/{id}", handler.DeleteNotification)
	})
}

// GetNotifications lists the inbox of the caller, newest first.
// @Summary List notifications
// @Tags Notification
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param unread_only query bool false "Only unread notifications"
// @Success 200 {object} response.Data[dto.GetNotificationsResponse] "Inbox"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications [get]
// @Security BearerAuth
func (handler *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNotifications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	unreadOnly := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamUnreadOnly))

	notifications, err := handler.service.List(ctx, shared.ActorID(ctx), queryParams, unreadOnly != nil && *unreadOnly)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, notifications)
}

// CountUnread returns the badge count of the caller.
// @Summary Unread count
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Data[dto.UnreadCountResponse] "Unread count"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/unread-count [get]
// @Security BearerAuth
func (handler *Handler) CountUnread(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CountUnread")
	defer scope.End()

	count, err := handler.service.CountUnread(ctx, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to count unread notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, count)
}

// MarkRead marks one notification of the caller as read.
// @Summary Mark as read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message "Notification marked as read"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/{id}/read [post]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.MarkRead(ctx, id, shared.ActorID(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("notification_id", id).Msg("failed to mark notification as read")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllRead clears the unread badge of the caller.
// @Summary Mark all as read
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Data[dto.MarkAllReadResponse] "Number of notifications marked"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/read-all [post]
// @Security BearerAuth
func (handler *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAllRead")
	defer scope.End()

	res, err := handler.service.MarkAllRead(ctx, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark all notifications as read")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteNotification removes a notification from the inbox of the caller.
// @Summary Delete a notification
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message "Notification deleted"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/notifications/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteNotification")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id, shared.ActorID(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("notification_id", id).Msg("failed to delete notification")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification deleted")
}

// Stream upgrades to a websocket that receives alerts while the caller stays connected.
// The access token may be passed as the access_token query parameter.
// @Summary Realtime alerts
// @Tags Notification
// @Param access_token query string false "Access token for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} response.Error
// @Router /v1/notifications/stream [get]
// @Security BearerAuth
func (handler *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := shared.ActorID(r.Context())

	log.Debug().Str("user_id", userID).Msg("realtime client connecting")

	// The upgrader has already answered the request when Serve fails.
	if err := handler.hub.Serve(w, r, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("realtime stream closed")

		return
	}

	log.Debug().Str("user_id", userID).Msg("realtime client disconnected")
}
