package service

import (
	"context"
	"fmt"
	"rento/config"
	"rento/infras/otel"
	"rento/internal/domains/notification/alert"
	"rento/internal/domains/notification/model"
	"rento/internal/domains/notification/model/dto"
	"rento/internal/domains/notification/repository"
	"rento/internal/domains/notification/template"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
	"rento/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	errNotificationNotFound = "notification not found"
	errNotOwner             = "notification belongs to another user"
	errMissingRecipient     = "notification recipient is required"
)

type Notification interface {
	Notifier
	List(ctx context.Context, userID string, params gDto.QueryParams, unreadOnly bool) (dto.GetNotificationsResponse, error)
	CountUnread(ctx context.Context, userID string) (dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id, actorID string) error
	MarkAllRead(ctx context.Context, actorID string) (dto.MarkAllReadResponse, error)
	Delete(ctx context.Context, id, actorID string) error
}

type serviceImpl struct {
	repo       repository.Notification
	dispatcher alert.Dispatcher
	cfg        *config.Config
	otel       otel.Otel
}

func New(repo repository.Notification, dispatcher alert.Dispatcher, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:       repo,
		dispatcher: dispatcher,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) Notify(ctx context.Context, req dto.NotifyRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notify")
	defer scope.Finish(&err)

	if req.UserID == constant.Empty {
		return failure.BadRequestFromString(errMissingRecipient) // nolint:wrapcheck
	}

	scope.SetAttribute("notification.type", string(req.Type))

	rendered, err := template.Render(req.Type, req.Vars)
	if err != nil {
		log.Error().Err(err).Str("type", string(req.Type)).Msg("failed to render notification")

		return fmt.Errorf("failed to render notification: %w", err)
	}

	notification := req.ToModel(rendered, timezone.Now())

	if err = s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Str("user_id", req.UserID).Str("type", string(req.Type)).Msg("failed to persist notification")

		return fmt.Errorf("failed to persist notification: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		notice := alert.Alert{
			ID:     notification.ID,
			UserID: notification.UserID,
			Type:   string(notification.Type),
			Title:  notification.Title,
			Body:   notification.Message,
			Data:   notification.Data,
		}

		if err := s.dispatcher.Schedule(c, notice); err != nil {
			log.Warn().Err(err).Str("notification_id", notification.ID).Msg("failed to schedule alert")
		}
	}()

	return nil
}

func (s *serviceImpl) List(ctx context.Context, userID string, params gDto.QueryParams, unreadOnly bool) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.Finish(&err)

	// Newest first, always.
	params.SortBy = model.TableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	filter := repository.ByUser(userID, unreadOnly)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) CountUnread(ctx context.Context, userID string) (res dto.UnreadCountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountUnread")
	defer scope.Finish(&err)

	count, err := s.repo.Count(ctx, repository.ByUser(userID, true))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	res.Count = count

	return res, nil
}

func (s *serviceImpl) owned(ctx context.Context, id, actorID string) (model.Notification, error) {
	notification, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("notification_id", id).Msg("failed to get notification")

		return notification, fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == constant.Empty {
		return notification, failure.NotFound(errNotificationNotFound) // nolint:wrapcheck
	}

	if notification.UserID != actorID {
		return notification, failure.Forbidden(errNotOwner) // nolint:wrapcheck
	}

	return notification, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.Finish(&err)

	notification, err := s.owned(ctx, id, actorID)
	if err != nil {
		return err
	}

	if notification.Read {
		return nil
	}

	fields := map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if _, err = s.repo.UpdateAffected(ctx, fields, repository.ByIDAndUser(id, actorID)); err != nil {
		log.Error().Err(err).Str("notification_id", id).Msg("failed to mark notification read")

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context, actorID string) (res dto.MarkAllReadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkAllRead")
	defer scope.Finish(&err)

	updated, err := s.repo.MarkAllRead(ctx, actorID, actorID, timezone.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", actorID).Msg("failed to mark all notifications read")

		return res, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	scope.SetAttribute("notification.updated", updated)
	res.Updated = updated

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.Finish(&err)

	if _, err = s.owned(ctx, id, actorID); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, repository.ByIDAndUser(id, actorID)); err != nil {
		log.Error().Err(err).Str("notification_id", id).Msg("failed to delete notification")

		return fmt.Errorf("failed to delete notification: %w", err)
	}

	return nil
}
