package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rento/config"
	otelMocks "rento/infras/otel/mocks"
	s3Mocks "rento/infras/s3/mocks"
	"rento/internal/domains/booking/lifecycle"
	bookingMocks "rento/internal/domains/booking/mocks"
	bookingModel "rento/internal/domains/booking/model"
	itemMocks "rento/internal/domains/item/mocks"
	"rento/internal/domains/item/model"
	"rento/internal/domains/item/model/dto"
	"rento/internal/domains/item/service"
	notificationMocks "rento/internal/domains/notification/mocks"
	notificationModel "rento/internal/domains/notification/model"
	notificationDto "rento/internal/domains/notification/model/dto"
	cacheMocks "rento/shared/cache/mocks"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
)

type fixture struct {
	svc      service.Item
	repo     *itemMocks.MockItem
	bookings *bookingMocks.MockBooking
	notifier *notificationMocks.MockNotifier
	s3       *s3Mocks.MockS3
	cache    *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     itemMocks.NewMockItem(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		notifier: notificationMocks.NewMockNotifier(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.bookings, f.notifier, cfg, f.cache, otelMocks.NewOtel(), f.s3)

	return f
}

func tent() model.Item {
	return model.Item{
		ID:          "item-1",
		OwnerID:     "owner-1",
		Title:       "Camping tent",
		Category:    "camping",
		Price:       50,
		IsAvailable: true,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, item model.Item) error {
		assert.Equal(t, "owner-1", item.OwnerID)
		assert.Equal(t, "outdoor gear", item.Category)
		assert.Equal(t, "Tent", item.Title)
		assert.True(t, item.IsAvailable)
		assert.NotEmpty(t, item.ID)

		return nil
	})

	res, err := f.svc.Create(context.Background(), dto.CreateItemRequest{
		Title:    "  Tent ",
		Category: "Outdoor GEAR",
		Price:    50,
	}, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", res.OwnerID)
}

func TestGet(t *testing.T) {
	t.Run("cache miss", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "item:get:item-1", gomock.Any()).Return(errors.New("redis: nil"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tent(), nil)

		res, err := f.svc.Get(context.Background(), "item-1")
		require.NoError(t, err)
		assert.Equal(t, "Camping tent", res.Title)
	})

	t.Run("deleted listing is not found", func(t *testing.T) {
		f := newFixture(t)

		deleted := tent()
		deleted.Deleted = true

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deleted, nil)

		_, err := f.svc.Get(context.Background(), "item-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGetAll_Filters(t *testing.T) {
	f := newFixture(t)

	available := true

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Item, error) {
			assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "items.deleted = :not_deleted")
			assert.Contains(t, where, " OR ")
			assert.Equal(t, "camping", args[model.FieldCategory])
			assert.Equal(t, "%tent%", args["q_title"])
			assert.Equal(t, true, args[model.FieldIsAvailable])

			return []model.Item{tent()}, nil
		})

	res, err := f.svc.GetAll(context.Background(),
		gDto.QueryParams{Page: 1, Limit: 10, SortBy: "password", SortDir: gDto.SortDirAsc},
		dto.ItemFilter{Category: "Camping", Available: &available, Query: "ｔｅｎｔ"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
}

func TestUpdate(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)

		price := 65.0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tent(), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, &price, fields[model.FieldPrice])
				assert.NotContains(t, fields, model.FieldOwnerID)

				return nil
			})

		assert.NoError(t, f.svc.Update(context.Background(), dto.UpdateItemRequest{Price: &price}, "item-1", "owner-1"))
	})

	t.Run("someone else", func(t *testing.T) {
		f := newFixture(t)

		price := 1.0

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tent(), nil)

		err := f.svc.Update(context.Background(), dto.UpdateItemRequest{Price: &price}, "item-1", "renter-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(context.Background(), dto.UpdateItemRequest{Title: "   "}, "item-1", "owner-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestDelete_NotifiesEveryActiveRenter(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tent(), nil)
	f.repo.EXPECT().SoftDelete(gomock.Any(), "item-1", "owner-1", gomock.Any()).Return(true, nil)

	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "bookings.status IN")
			assert.Equal(t, lifecycle.StatusPending, args["status_0"])
			assert.Equal(t, lifecycle.StatusConfirmed, args["status_1"])

			return []bookingModel.Booking{
				{ID: "b-1", ItemID: "item-1", RenterID: "renter-1", Status: lifecycle.StatusPending},
				{ID: "b-2", ItemID: "item-1", RenterID: "renter-2", Status: lifecycle.StatusPending},
				{ID: "b-3", ItemID: "item-1", RenterID: "renter-3", Status: lifecycle.StatusConfirmed},
			}, nil
		})

	recipients := []string{}

	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, req notificationDto.NotifyRequest) error {
			recipients = append(recipients, req.UserID)
			assert.Equal(t, notificationModel.TypeListingDeleted, req.Type)
			assert.Equal(t, "item-1", req.Data.String(notificationModel.DataItemID))

			if req.UserID == "renter-2" {
				return errors.New("insert failed")
			}

			return nil
		})

	require.NoError(t, f.svc.Delete(context.Background(), "item-1", "owner-1"))
	assert.Equal(t, []string{"renter-1", "renter-2", "renter-3"}, recipients)
}

func TestDelete_ConcurrentDeleteSendsNothing(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tent(), nil)
	f.repo.EXPECT().SoftDelete(gomock.Any(), "item-1", "owner-1", gomock.Any()).Return(false, nil)
	f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)

	err := f.svc.Delete(context.Background(), "item-1", "owner-1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestDelete_NotOwner(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tent(), nil)

	err := f.svc.Delete(context.Background(), "item-1", "renter-1")
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)

	f.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), "image/png", []byte("png-bytes")).
		DoAndReturn(func(_ context.Context, objectPath, _ string, _ []byte) (string, error) {
			assert.True(t, strings.HasPrefix(objectPath, "items/owner-1/"))
			assert.True(t, strings.HasSuffix(objectPath, ".png"))

			return "https://cdn.example.com/" + objectPath, nil
		})

	res, err := f.svc.UploadImage(context.Background(), dto.UploadImageRequest{Image: "data:image/png;base64,cG5nLWJ5dGVz"}, "owner-1")
	require.NoError(t, err)
	assert.Contains(t, res.URL, "https://cdn.example.com/items/owner-1/")
}

func TestUploadImage_BadPayload(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UploadImage(context.Background(), dto.UploadImageRequest{Image: "not a data uri"}, "owner-1")
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
