package service

import (
	"context"
	"fmt"
	"rento/config"
	"rento/infras/otel"
	"rento/internal/domains/user/model"
	"rento/internal/domains/user/model/dto"
	"rento/internal/domains/user/repository"
	"rento/shared"
	"rento/shared/cache"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetProfile = "user:profile"
	cacheGetAllUser = "user:gets"
)

const (
	errUserNotFound = "user not found"
	errEmptyUpdate  = "update request cannot be empty"
)

var sortableColumns = []string{model.FieldEmail, model.FieldFullName, constant.FieldCreatedAt, model.FieldLastLogin}

type User interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	GetProfile(ctx context.Context, id string) (dto.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, actorID string) error
	RegisterPushToken(ctx context.Context, req dto.RegisterPushTokenRequest, actorID string) error
	Update(ctx context.Context, req dto.UpdateUserRequest, id, actorID string) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.Finish(&err)

	req.RestrictSort(sortableColumns...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound(errUserNotFound) // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.Finish(&err)

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetProfile(ctx context.Context, id string) (res dto.PublicProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetProfile")
	defer scope.Finish(&err)

	cacheKey := shared.BuildCacheKey(cacheGetProfile, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !user.Active {
		return res, failure.NotFound(errUserNotFound) // nolint:wrapcheck
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save profile to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateProfile")
	defer scope.Finish(&err)

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString(errEmptyUpdate) // nolint:wrapcheck
	}

	return s.update(ctx, shared.TransformFields(req, actorID), actorID)
}

// RegisterPushToken stores the device token alerts are pushed to. A new token replaces the old one.
func (s *serviceImpl) RegisterPushToken(ctx context.Context, req dto.RegisterPushTokenRequest, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RegisterPushToken")
	defer scope.Finish(&err)

	if err = s.update(ctx, shared.TransformFields(req, actorID), actorID); err != nil {
		return err
	}

	log.Info().Str("user_id", actorID).Msg("push token registered")

	return nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.Finish(&err)

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString(errEmptyUpdate) // nolint:wrapcheck
	}

	return s.update(ctx, shared.TransformFields(req, actorID), id)
}

func (s *serviceImpl) update(ctx context.Context, fields map[string]any, id string) error {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound(errUserNotFound) // nolint:wrapcheck
	}

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		for _, key := range []string{shared.BuildCacheKey(cacheGetUser, id), shared.BuildCacheKey(cacheGetProfile, id)} {
			if err := s.cache.Delete(c, key); err != nil {
				log.Error().Err(err).Str("cacheKey", key).Msg("failed to delete user from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
	}()

	return nil
}
