package booking

import (
	"net/http"
	"rento/infras/otel"
	"rento/internal/domains/booking/lifecycle"
	"rento/internal/domains/booking/model/dto"
	"rento/internal/domains/booking/service"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/validator"
	"rento/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const requestParamIntent = "intent"

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the booking routes on a group that is already scoped to /bookings, so the
// conversation routes can share it.
func (handler *Handler) Router(routerGroup chi.Router) {
	routerGroup.Post("/", handler.CreateBooking)
	routerGroup.Get("/mine", handler.GetMyBookings)
	routerGroup.Get("/incoming", handler.GetIncomingBookings)
	routerGroup.Get("/{id}", handler.GetBookingByID)
	routerGroup.Delete("/{id}", handler.WithdrawBooking)
	routerGroup.Get("/{id}/receipt", handler.GetReceipt)
	routerGroup.Post("/{id}/{intent}", handler.TransitionBooking)
}

// CreateBooking handles the creation of a new booking.
// @Summary Request a booking
// @Description Ask the owner to rent an item from start_date up to end_date. The end date is not charged, 2024-01-01 to 2024-01-04 is three days.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking requested"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetMyBookings lists the bookings the caller placed as a renter.
// @Summary My bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "PENDING, CONFIRMED, CANCELLED or COMPLETED"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.Mine(ctx, shared.ActorID(ctx), queryParams, r.URL.Query().Get(constant.RequestParamStatus))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get my bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetIncomingBookings lists the bookings placed on the caller's items.
// @Summary Incoming bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "PENDING, CONFIRMED, CANCELLED or COMPLETED"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/incoming [get]
// @Security BearerAuth
func (handler *Handler) GetIncomingBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIncomingBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.Incoming(ctx, shared.ActorID(ctx), queryParams, r.URL.Query().Get(constant.RequestParamStatus))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get incoming bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking the caller is a party to.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// TransitionBooking moves a booking along its lifecycle.
// @Summary Approve, reject, cancel or complete a booking
// @Description Owners approve, reject and complete. Renters cancel.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param intent path string true "approve, reject, cancel or complete"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/{intent} [post]
// @Security BearerAuth
func (handler *Handler) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".TransitionBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	intent, err := lifecycle.ParseIntent(chi.URLParam(r, requestParamIntent))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Transition(ctx, id, shared.ActorID(ctx), intent)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Str("intent", string(intent)).Msg("failed to transition booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking " + string(intent) + " applied")

	response.WithJSON(w, http.StatusOK, booking)
}

// WithdrawBooking backs out of a pending booking from either side. Bookings are never removed, the
// request only moves the status.
// @Summary Withdraw a booking
// @Description The owner's withdrawal rejects the booking, the renter's cancels it.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) WithdrawBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".WithdrawBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Withdraw(ctx, id, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to withdraw booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// GetReceipt downloads the PDF receipt of a confirmed or completed booking.
// @Summary Download a receipt
// @Tags Booking
// @Produce application/pdf
// @Param id path string true "Booking ID"
// @Success 200 {file} file "Receipt"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/receipt [get]
// @Security BearerAuth
func (handler *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReceipt")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	receipt, err := handler.service.Receipt(ctx, id, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get receipt")

		response.WithError(w, err)

		return
	}

	response.WithFile(w, constant.ContentTypePDF, receipt.Filename, receipt.Content)
}
