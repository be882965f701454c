package item

import (
	"net/http"
	"rento/infras/otel"
	"rento/internal/domains/item/model/dto"
	"rento/internal/domains/item/service"
	"rento/shared"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/validator"
	"rento/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Item
	otel    otel.Otel
}

func New(service service.Item, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/items", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateItem)
		routerGroup.Get("/", handler.GetItems)
		routerGroup.Post("/images", handler.UploadImage)
		routerGroup.Get("/{id}", handler.GetItemByID)
		routerGroup.Patch("/{id}", handler.UpdateItem)
		routerGroup.Delete("/{id}", handler.DeleteItem)
	})
}

// CreateItem lists a new item for rent.
// @Summary Create a listing
// @Description List an item for rent. The caller becomes its owner.
// @Tags Item
// @Accept json
// @Produce json
// @Param request body dto.CreateItemRequest true "Create Item Request"
// @Success 201 {object} response.Data[dto.ItemResponse] "Item created"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/items [post]
// @Security BearerAuth
func (handler *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateItem")
	defer scope.End()

	req := dto.CreateItemRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	item, err := handler.service.Create(ctx, req, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item created successfully")

	response.WithJSON(w, http.StatusCreated, item)
}

// GetItems browses the listings.
// @Summary Browse listings
// @Description Page through listings. Removed listings never appear.
// @Tags Item
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param owner_id query string false "Only items of this owner"
// @Param category query string false "Category, case insensitive"
// @Param available query bool false "Availability flag"
// @Param q query string false "Search in title and description"
// @Success 200 {object} response.Data[dto.GetItemsResponse] "List of items"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/items [get]
func (handler *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.ItemFilter{
		OwnerID:   query.Get(constant.RequestParamOwnerID),
		Category:  query.Get(constant.RequestParamCategory),
		Available: shared.ConvertStringToBool(query.Get(constant.RequestParamAvailable)),
		Query:     query.Get(constant.RequestParamQuery),
	}

	items, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// GetItemByID retrieves a single listing.
// @Summary Get a listing
// @Tags Item
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Data[dto.ItemResponse] "Item"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/items/{id} [get]
func (handler *Handler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItemByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("item_id", id).Msg("failed to get item")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateItem edits a listing. Only the owner may do this.
// @Summary Update a listing
// @Tags Item
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.UpdateItemRequest true "Update Item Request"
// @Success 200 {object} response.Message "Item updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/items/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id, shared.ActorID(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("item_id", id).Msg("failed to update item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item updated successfully")

	response.WithMessage(w, http.StatusOK, "Item updated successfully")
}

// DeleteItem removes a listing. Renters with open bookings are told about it.
// @Summary Remove a listing
// @Tags Item
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Message "Item deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/items/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id, shared.ActorID(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("item_id", id).Msg("failed to delete item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item deleted successfully")

	response.WithMessage(w, http.StatusOK, "Item deleted successfully")
}

// UploadImage stores a listing photo and returns its public URL.
// @Summary Upload a listing photo
// @Tags Item
// @Accept json
// @Produce json
// @Param request body dto.UploadImageRequest true "Image as a data URI"
// @Success 201 {object} response.Data[dto.UploadImageResponse] "Uploaded"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/items/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	req := dto.UploadImageRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadImage(ctx, req, shared.ActorID(ctx))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload item image")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}
