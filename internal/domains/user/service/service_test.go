package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rento/config"
	"rento/infras/otel/mocks"
	userMocks "rento/internal/domains/user/mocks"
	"rento/internal/domains/user/model"
	"rento/internal/domains/user/model/dto"
	"rento/internal/domains/user/service"
	cacheMocks "rento/shared/cache/mocks"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
	gModel "rento/shared/model"
	"rento/shared/timezone"
)

func stringPtr(s string) *string {
	return &s
}

func newService(t *testing.T) (service.User, *userMocks.MockUser, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func sampleUser() model.User {
	return model.User{
		ID:         "user-1",
		Email:      "ana@example.com",
		Level:      constant.RoleUser,
		FullName:   stringPtr("Ana Lima"),
		IsVerified: true,
		Active:     true,
		Metadata:   gModel.NewMetadata(constant.ContextGuest, timezone.Now()),
	}
}

func TestUserService_Get(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleUser(), nil)
			},
		},
		{
			name: "not found",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:user-1", gomock.Any()).Return(errors.New("cache miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), "user-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "ana@example.com", res.Email)
			assert.Nil(t, res.LastLogin)
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleUser(), nil)

	res, err := svc.GetProfile(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "Ana Lima", res.FullName)

	inactive := sampleUser()
	inactive.Active = false

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)

	_, err = svc.GetProfile(context.Background(), "user-1")
	assert.True(t, failure.Is(err, http.StatusNotFound))

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{}, "user-1")
	assert.True(t, failure.Is(err, http.StatusBadRequest))

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			assert.Equal(t, stringPtr("Ana Maria"), fields[model.FieldFullName])
			assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])
			assert.NotContains(t, fields, model.FieldPhone)

			where, args := filter.GetWhereClause()
			assert.Equal(t, "(users.id = :id)", where)
			assert.Equal(t, "user-1", args["id"])

			return nil
		})

	err = svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{FullName: stringPtr("Ana Maria")}, "user-1")
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_RegisterPushToken(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, "ExponentPushToken[abc]", fields[model.FieldPushToken])

			return nil
		})

	err := svc.RegisterPushToken(context.Background(), dto.RegisterPushTokenRequest{Token: "ExponentPushToken[abc]"}, "user-1")
	assert.NoError(t, err)

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err = svc.RegisterPushToken(context.Background(), dto.RegisterPushTokenRequest{Token: "t"}, "ghost")
	assert.True(t, failure.Is(err, http.StatusNotFound))

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_Update(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	active := false

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, &active, fields[model.FieldActive])
			assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

			return nil
		})

	err := svc.Update(context.Background(), dto.UpdateUserRequest{Active: &active}, "user-1", "admin-1")
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
}
