package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"rento/config"
	"rento/infras/otel"
	"rento/infras/s3"
	bookingRepository "rento/internal/domains/booking/repository"
	"rento/internal/domains/item/model"
	"rento/internal/domains/item/model/dto"
	"rento/internal/domains/item/repository"
	notificationModel "rento/internal/domains/notification/model"
	notificationDto "rento/internal/domains/notification/model/dto"
	notificationService "rento/internal/domains/notification/service"
	"rento/internal/domains/notification/template"
	"rento/shared"
	"rento/shared/base64"
	"rento/shared/cache"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
	"rento/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetItem    = "item:get"
	cacheGetAllItem = "item:gets"
)

const (
	errItemNotFound = "item not found"
	errNotOwner     = "only the owner can change this listing"
	errEmptyUpdate  = "update request cannot be empty"
)

var sortableColumns = []string{model.FieldTitle, model.FieldPrice, model.FieldCategory, constant.FieldCreatedAt}

type Item interface {
	Create(ctx context.Context, req dto.CreateItemRequest, actorID string) (dto.ItemResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ItemFilter) (dto.GetItemsResponse, error)
	Get(ctx context.Context, id string) (dto.ItemResponse, error)
	Update(ctx context.Context, req dto.UpdateItemRequest, id, actorID string) error
	Delete(ctx context.Context, id, actorID string) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest, actorID string) (dto.UploadImageResponse, error)
}

type serviceImpl struct {
	repo     repository.Item
	bookings bookingRepository.Booking
	notifier notificationService.Notifier
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
}

func New(
	repo repository.Item,
	bookings bookingRepository.Booking,
	notifier notificationService.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Item {
	return &serviceImpl{
		repo:     repo,
		bookings: bookings,
		notifier: notifier,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateItemRequest, actorID string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.Finish(&err)

	item := req.ToModel(actorID, timezone.Now())

	if err = s.repo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to create item")

		return res, fmt.Errorf("failed to create item: %w", err)
	}

	res.FromModel(item)

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllItem)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ItemFilter) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.Finish(&err)

	params.RestrictSort(sortableColumns...)

	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllItem, params, group)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for items")

		return res, nil
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count items")

		return res, fmt.Errorf("failed to count items: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get items")

		return res, fmt.Errorf("failed to get items: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save items to cache")
		}
	}()

	return res, nil
}

// find loads a listing that has not been deleted.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Item, error) {
	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("failed to get item")

		return item, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty || item.Deleted {
		return item, failure.NotFound(errItemNotFound) // nolint:wrapcheck
	}

	return item, nil
}

func (s *serviceImpl) owned(ctx context.Context, id, actorID string) (model.Item, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return item, err
	}

	if item.OwnerID != actorID {
		return item, failure.Forbidden(errNotOwner) // nolint:wrapcheck
	}

	return item, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.Finish(&err)

	cacheKey := shared.BuildCacheKey(cacheGetItem, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(item)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save item to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateItemRequest, id, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.Finish(&err)

	req.Normalize()

	if req == (dto.UpdateItemRequest{}) {
		return failure.BadRequestFromString(errEmptyUpdate) // nolint:wrapcheck
	}

	current, err := s.owned(ctx, id, actorID)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req, actorID), filter); err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("failed to update item")

		return fmt.Errorf("failed to update item: %w", err)
	}

	replacedImage := req.ImageURL != nil && current.ImageURL != nil && *current.ImageURL != *req.ImageURL

	go func() {
		c := context.WithoutCancel(ctx)

		if replacedImage {
			s.deleteImage(c, *current.ImageURL)
		}

		s.invalidate(c, id)
	}()

	return nil
}

// Delete removes a listing from the marketplace. The row is kept so bookings stay resolvable, and the
// renter of every still active booking on it is told.
func (s *serviceImpl) Delete(ctx context.Context, id, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.Finish(&err)

	item, err := s.owned(ctx, id, actorID)
	if err != nil {
		return err
	}

	removed, err := s.repo.SoftDelete(ctx, id, actorID, timezone.Now())
	if err != nil {
		log.Error().Err(err).Str("item_id", id).Msg("failed to delete item")

		return fmt.Errorf("failed to delete item: %w", err)
	}

	// A concurrent delete already hid the listing and told its renters.
	if !removed {
		return failure.NotFound(errItemNotFound) // nolint:wrapcheck
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	s.notifyRemoval(ctx, item, actorID)

	return nil
}

// notifyRemoval sends listing_deleted to the renter of each PENDING or CONFIRMED booking. A failure
// for one renter does not stop the others.
func (s *serviceImpl) notifyRemoval(ctx context.Context, item model.Item, actorID string) {
	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, bookingRepository.ActiveOnItem(item.ID))
	if err != nil {
		log.Error().Err(err).Str("item_id", item.ID).Msg("failed to load bookings of deleted item")

		return
	}

	notified := 0

	for _, booking := range bookings {
		err := s.notifier.Notify(ctx, notificationDto.NotifyRequest{
			UserID:  booking.RenterID,
			ActorID: actorID,
			Type:    notificationModel.TypeListingDeleted,
			Data: notificationModel.Payload{
				notificationModel.DataBookingID: booking.ID,
				notificationModel.DataItemID:    item.ID,
			},
			Vars: map[string]string{template.VarItemTitle: item.Title},
		})
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Str("renter_id", booking.RenterID).
				Msg("failed to notify renter about deleted listing")

			continue
		}

		notified++
	}

	log.Info().Str("item_id", item.ID).Int("bookings", len(bookings)).Int("notified", notified).Msg("listing deleted")
}

func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest, actorID string) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.Finish(&err)

	contentType, data, err := base64.Decode(req.Image)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	objectPath := path.Join(model.TableName, actorID, uuid.NewString()+"."+extension(contentType))

	url, err := s.s3.Upload(ctx, objectPath, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("object", objectPath).Msg("failed to upload item image")

		return res, fmt.Errorf("failed to upload image: %w", err)
	}

	res.URL = url

	return res, nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, url string) {
	objectPath := s.s3.ObjectPath(url)
	if objectPath == constant.Empty {
		return
	}

	if err := s.s3.Delete(ctx, objectPath); err != nil {
		log.Warn().Err(err).Str("object", objectPath).Msg("failed to delete replaced item image")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetItem, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete item from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllItem)
}

func extension(contentType string) string {
	_, subtype, found := strings.Cut(contentType, "/")
	if !found || subtype == "jpeg" {
		return "jpg"
	}

	return subtype
}
