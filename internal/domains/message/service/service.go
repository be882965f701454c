package service

import (
	"context"
	"fmt"

	"rento/infras/otel"
	bookingModel "rento/internal/domains/booking/model"
	bookingRepository "rento/internal/domains/booking/repository"
	"rento/internal/domains/message/model"
	"rento/internal/domains/message/model/dto"
	"rento/internal/domains/message/repository"
	notificationModel "rento/internal/domains/notification/model"
	notificationDto "rento/internal/domains/notification/model/dto"
	notificationService "rento/internal/domains/notification/service"
	"rento/internal/domains/notification/template"
	userModel "rento/internal/domains/user/model"
	userRepository "rento/internal/domains/user/repository"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
	"rento/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	errBookingNotFound = "booking not found"
	errNotParty        = "you are not a party to this booking"
	errEmptyBody       = "message body cannot be empty"
)

type Message interface {
	// Send appends a message to the booking conversation and tells the other party.
	Send(ctx context.Context, bookingID string, req dto.SendMessageRequest, actorID string) (dto.MessageResponse, error)
	// List returns the conversation oldest first.
	List(ctx context.Context, bookingID, actorID string, params gDto.QueryParams) (dto.GetMessagesResponse, error)
}

type serviceImpl struct {
	repo     repository.Message
	bookings bookingRepository.Booking
	users    userRepository.User
	notifier notificationService.Notifier
	otel     otel.Otel
}

func New(
	repo repository.Message,
	bookings bookingRepository.Booking,
	users userRepository.User,
	notifier notificationService.Notifier,
	otel otel.Otel,
) Message {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		users:    users,
		notifier: notifier,
		otel:     otel,
	}
}

func (s *serviceImpl) booking(ctx context.Context, id, actorID string) (bookingModel.Booking, error) {
	booking, err := s.bookings.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking for conversation")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(errBookingNotFound) // nolint:wrapcheck
	}

	if !booking.Parties().Involves(actorID) {
		return booking, failure.Forbidden(errNotParty) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) Send(ctx context.Context, bookingID string, req dto.SendMessageRequest, actorID string) (res dto.MessageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Send")
	defer scope.Finish(&err)

	req.Normalize()

	if req.Body == constant.Empty {
		return res, failure.BadRequestFromString(errEmptyBody) // nolint:wrapcheck
	}

	booking, err := s.booking(ctx, bookingID, actorID)
	if err != nil {
		return res, err
	}

	message := req.ToModel(booking.ID, actorID, timezone.Now())

	if err = s.repo.Insert(ctx, message); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to send message")

		return res, fmt.Errorf("failed to send message: %w", err)
	}

	recipient := booking.Parties().Counterparty(actorID)

	err = s.notifier.Notify(ctx, notificationDto.NotifyRequest{
		UserID:  recipient,
		ActorID: actorID,
		Type:    notificationModel.TypeNewMessage,
		Data: notificationModel.Payload{
			notificationModel.DataBookingID: booking.ID,
			notificationModel.DataItemID:    booking.ItemID,
			notificationModel.DataMessageID: message.ID,
		},
		Vars: map[string]string{
			template.VarActorName: s.senderName(ctx, actorID),
			template.VarItemTitle: booking.Title(),
			template.VarPreview:   template.Preview(message.Body),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("message_id", message.ID).Str("recipient", recipient).Msg("failed to notify about new message")
	}

	res.FromModel(message)

	return res, nil
}

func (s *serviceImpl) senderName(ctx context.Context, userID string) string {
	user, err := s.users.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil || user.ID == constant.Empty {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to resolve sender name")

		return "Someone"
	}

	return user.DisplayName()
}

func (s *serviceImpl) List(ctx context.Context, bookingID, actorID string, params gDto.QueryParams) (res dto.GetMessagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.Finish(&err)

	if _, err = s.booking(ctx, bookingID, actorID); err != nil {
		return res, err
	}

	params.SortBy = model.TableName + "." + model.FieldCreatedAt
	params.SortDir = gDto.SortDirAsc

	filter := repository.ByBooking(bookingID)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to count messages")

		return res, fmt.Errorf("failed to count messages: %w", err)
	}

	messages, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get messages")

		return res, fmt.Errorf("failed to get messages: %w", err)
	}

	res.FromModels(messages, total, params.Limit)

	return res, nil
}
