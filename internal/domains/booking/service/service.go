package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rento/config"
	"rento/infras/otel"
	"rento/internal/domains/booking/lifecycle"
	"rento/internal/domains/booking/model"
	"rento/internal/domains/booking/model/dto"
	"rento/internal/domains/booking/receipt"
	"rento/internal/domains/booking/repository"
	itemModel "rento/internal/domains/item/model"
	itemRepository "rento/internal/domains/item/repository"
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
	errItemNotFound    = "item not found"
	errItemUnavailable = "item is not available for booking"
	errOwnItem         = "you cannot book your own item"
	errNotParty        = "you are not a party to this booking"
	errLostRace        = "booking was changed by another request"
	errNoReceipt       = "a receipt is only issued for confirmed or completed bookings"
	errUnknownStatus   = "unknown booking status %q"

	fallbackName = "Someone"
	systemName   = "Rento"
)

var sortableColumns = []string{model.FieldStartDate, model.FieldEndDate, model.FieldTotalPrice, model.FieldStatus, constant.FieldCreatedAt}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, actorID string) (dto.BookingResponse, error)
	Get(ctx context.Context, id, actorID string) (dto.BookingResponse, error)
	// Mine lists the bookings the actor placed as a renter.
	Mine(ctx context.Context, actorID string, params gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	// Incoming lists the bookings placed on the actor's items.
	Incoming(ctx context.Context, actorID string, params gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	Transition(ctx context.Context, id, actorID string, intent lifecycle.Intent) (dto.BookingResponse, error)
	// Withdraw rejects the booking when the owner asks and cancels it when the renter does.
	Withdraw(ctx context.Context, id, actorID string) (dto.BookingResponse, error)
	Receipt(ctx context.Context, id, actorID string) (dto.Receipt, error)
	// CompleteExpired completes up to limit CONFIRMED bookings that ended on or before today and
	// returns how many it moved.
	CompleteExpired(ctx context.Context, today time.Time, limit int) (int, error)
}

type serviceImpl struct {
	repo     repository.Booking
	items    itemRepository.Item
	users    userRepository.User
	notifier notificationService.Notifier
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	items itemRepository.Item,
	users userRepository.User,
	notifier notificationService.Notifier,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		items:    items,
		users:    users,
		notifier: notifier,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, actorID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.Finish(&err)

	start, end, err := req.Period()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = lifecycle.ValidatePeriod(start, end); err != nil {
		return res, err //nolint:wrapcheck
	}

	item, err := s.items.Get(ctx, shared.FilterByID(req.ItemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("item_id", req.ItemID).Msg("failed to get item for booking")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	switch {
	case item.ID == constant.Empty || item.Deleted:
		return res, failure.NotFound(errItemNotFound) // nolint:wrapcheck
	case !item.Bookable():
		return res, failure.BadRequestFromString(errItemUnavailable) // nolint:wrapcheck
	case item.OwnerID == actorID:
		return res, failure.BadRequestFromString(errOwnItem) // nolint:wrapcheck
	}

	booking := req.ToModel(dto.ItemTerms{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		PricePerDay: item.Price,
	}, actorID, start, end, timezone.Now())

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Str("item_id", item.ID).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.notify(ctx, booking, booking.OwnerID, actorID, notificationModel.TypeBookingRequest)

	log.Info().Str("booking_id", booking.ID).Str("item_id", item.ID).Float64("total_price", booking.TotalPrice).
		Msg("booking requested")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(errBookingNotFound) // nolint:wrapcheck
	}

	return booking, nil
}

// involved loads a booking only the owner or the renter may see.
func (s *serviceImpl) involved(ctx context.Context, id, actorID string) (model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return booking, err
	}

	if !booking.Parties().Involves(actorID) {
		return booking, failure.Forbidden(errNotParty) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) Get(ctx context.Context, id, actorID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.Finish(&err)

	booking, err := s.involved(ctx, id, actorID)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Mine(ctx context.Context, actorID string, params gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Mine")
	defer scope.Finish(&err)

	st, err := parseStatus(status)
	if err != nil {
		return res, err
	}

	return s.list(ctx, params, repository.ByRenter(actorID, st))
}

func (s *serviceImpl) Incoming(ctx context.Context, actorID string, params gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Incoming")
	defer scope.Finish(&err)

	st, err := parseStatus(status)
	if err != nil {
		return res, err
	}

	return s.list(ctx, params, repository.ByOwner(actorID, st))
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	params.RestrictSort(sortableColumns...)

	// The item join makes bare column names ambiguous.
	if params.SortBy != constant.Empty {
		params.SortBy = model.TableName + "." + params.SortBy
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	return res, nil
}

func parseStatus(value string) (lifecycle.Status, error) {
	if value == constant.Empty {
		return "", nil
	}

	status := lifecycle.Status(value)
	if !status.Valid() {
		return "", failure.BadRequestFromString(fmt.Sprintf(errUnknownStatus, value)) // nolint:wrapcheck
	}

	return status, nil
}

func (s *serviceImpl) Transition(ctx context.Context, id, actorID string, intent lifecycle.Intent) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.Finish(&err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if booking, err = s.transition(ctx, booking, actorID, intent); err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Withdraw(ctx context.Context, id, actorID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Withdraw")
	defer scope.Finish(&err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	intent, err := lifecycle.ResolveCancellation(booking.Parties(), actorID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if booking, err = s.transition(ctx, booking, actorID, intent); err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// transition applies one edge of the lifecycle. The status write is conditional on the status the
// decision was made against, so of two racing requests only one succeeds and only one notification
// goes out.
func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, actorID string, intent lifecycle.Intent) (model.Booking, error) {
	if booking.ItemRemoved() {
		return booking, failure.NotFound(errItemNotFound) // nolint:wrapcheck
	}

	decision, err := lifecycle.Decide(booking.Status, intent, booking.Parties(), actorID)
	if err != nil {
		return booking, err //nolint:wrapcheck
	}

	now := timezone.Now()

	moved, err := s.repo.TransitionStatus(ctx, booking.ID, decision.From, decision.To, actorID, now)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Str("intent", string(intent)).Msg("failed to update booking status")

		return booking, fmt.Errorf("failed to update booking status: %w", err)
	}

	if !moved {
		return booking, failure.InvalidTransition(errLostRace) // nolint:wrapcheck
	}

	booking.Status = decision.To
	booking.ModifiedAt = now
	booking.ModifiedBy = actorID

	log.Info().Str("booking_id", booking.ID).Str("from", string(decision.From)).Str("to", string(decision.To)).
		Str("role", string(decision.ActorRole)).Msg("booking transitioned")

	s.notify(ctx, booking, decision.RecipientID, actorID, decision.Notification)

	return booking, nil
}

// notify tells recipient about the booking. The status change has already been committed, so a
// failure here is only logged.
func (s *serviceImpl) notify(ctx context.Context, booking model.Booking, recipientID, actorID string, typ notificationModel.Type) {
	err := s.notifier.Notify(ctx, notificationDto.NotifyRequest{
		UserID:  recipientID,
		ActorID: actorID,
		Type:    typ,
		Data: notificationModel.Payload{
			notificationModel.DataBookingID: booking.ID,
			notificationModel.DataItemID:    booking.ItemID,
		},
		Vars: map[string]string{
			template.VarActorName: s.displayName(ctx, actorID),
			template.VarItemTitle: booking.Title(),
			template.VarStartDate: timezone.FormatDate(booking.StartDate),
			template.VarEndDate:   timezone.FormatDate(booking.EndDate),
		},
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Str("type", string(typ)).Str("recipient", recipientID).
			Msg("failed to send booking notification")
	}
}

func (s *serviceImpl) displayName(ctx context.Context, userID string) string {
	if userID == constant.ActorSystem {
		return systemName
	}

	user, err := s.users.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil || user.ID == constant.Empty {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to resolve display name")

		return fallbackName
	}

	return user.DisplayName()
}

func (s *serviceImpl) Receipt(ctx context.Context, id, actorID string) (res dto.Receipt, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Receipt")
	defer scope.Finish(&err)

	booking, err := s.involved(ctx, id, actorID)
	if err != nil {
		return res, err
	}

	if booking.Status != lifecycle.StatusConfirmed && booking.Status != lifecycle.StatusCompleted {
		return res, failure.InvalidTransition(errNoReceipt) // nolint:wrapcheck
	}

	days := lifecycle.RentalDays(booking.StartDate, booking.EndDate)

	content, err := receipt.Render(receipt.Details{
		BookingID:   booking.ID,
		Status:      string(booking.Status),
		ItemTitle:   booking.Title(),
		OwnerName:   s.displayName(ctx, booking.OwnerID),
		RenterName:  s.displayName(ctx, booking.RenterID),
		StartDate:   timezone.FormatDate(booking.StartDate),
		EndDate:     timezone.FormatDate(booking.EndDate),
		Days:        days,
		PricePerDay: booking.TotalPrice / float64(days),
		TotalPrice:  booking.TotalPrice,
		IssuedAt:    timezone.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to render receipt")

		return res, fmt.Errorf("failed to render receipt: %w", err)
	}

	res.Filename = receipt.Filename(booking.ID)
	res.Content = content

	return res, nil
}

func (s *serviceImpl) CompleteExpired(ctx context.Context, today time.Time, limit int) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompleteExpired")
	defer scope.Finish(&err)

	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.TableName + "." + model.FieldEndDate,
		SortDir: gDto.SortDirAsc,
	}

	due, err := s.repo.GetAll(ctx, params, repository.DueForCompletion(today))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings due for completion")

		return 0, fmt.Errorf("failed to get bookings due for completion: %w", err)
	}

	for _, booking := range due {
		if _, err := s.transition(ctx, booking, constant.ActorSystem, lifecycle.IntentComplete); err != nil {
			// The owner may have completed it a moment earlier.
			if failure.Is(err, http.StatusConflict) {
				log.Debug().Str("booking_id", booking.ID).Msg("booking already moved, skipping")

				continue
			}

			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to complete booking")

			continue
		}

		completed++
	}

	return completed, nil
}
