package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rento/config"
	otelMocks "rento/infras/otel/mocks"
	"rento/internal/domains/notification/alert"
	alertMocks "rento/internal/domains/notification/alert/mocks"
	notificationMocks "rento/internal/domains/notification/mocks"
	"rento/internal/domains/notification/model"
	"rento/internal/domains/notification/model/dto"
	"rento/internal/domains/notification/service"
	"rento/internal/domains/notification/template"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
)

func newService(t *testing.T) (service.Notification, *notificationMocks.MockNotification, *alertMocks.MockDispatcher) {
	ctrl := gomock.NewController(t)

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockDispatcher := alertMocks.NewMockDispatcher(ctrl)

	return service.New(mockRepo, mockDispatcher, &config.Config{}, otelMocks.NewOtel()), mockRepo, mockDispatcher
}

func approvedRequest() dto.NotifyRequest {
	return dto.NotifyRequest{
		UserID:  "renter-1",
		ActorID: "owner-1",
		Type:    model.TypeBookingApproved,
		Data:    model.Payload{model.DataBookingID: "b-1", model.DataItemID: "i-1"},
		Vars: map[string]string{
			template.VarItemTitle: "Camping tent",
			template.VarStartDate: "2024-01-01",
			template.VarEndDate:   "2024-01-04",
		},
	}
}

func TestNotify_PersistsAndSchedulesAlert(t *testing.T) {
	svc, mockRepo, mockDispatcher := newService(t)

	var stored model.Notification

	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n model.Notification) error {
		stored = n

		return nil
	})

	scheduled := make(chan alert.Alert, 1)
	mockDispatcher.EXPECT().Schedule(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a alert.Alert) error {
		scheduled <- a

		return nil
	})

	require.NoError(t, svc.Notify(context.Background(), approvedRequest()))

	assert.Equal(t, "renter-1", stored.UserID)
	assert.Equal(t, model.TypeBookingApproved, stored.Type)
	assert.Equal(t, "Booking approved", stored.Title)
	assert.Equal(t, "Your booking for Camping tent from 2024-01-01 to 2024-01-04 was approved.", stored.Message)
	assert.Equal(t, "b-1", stored.Data.String(model.DataBookingID))
	assert.Equal(t, model.ActionOpenBooking, stored.Data.String(model.DataAction))
	assert.False(t, stored.Read)
	assert.Equal(t, "owner-1", stored.CreatedBy)

	select {
	case a := <-scheduled:
		assert.Equal(t, stored.ID, a.ID)
		assert.Equal(t, "renter-1", a.UserID)
		assert.Equal(t, stored.Message, a.Body)
	case <-time.After(time.Second):
		t.Fatal("alert was not scheduled")
	}
}

func TestNotify_AlertFailureIsSwallowed(t *testing.T) {
	svc, mockRepo, mockDispatcher := newService(t)

	done := make(chan struct{})

	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	mockDispatcher.EXPECT().Schedule(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, alert.Alert) error {
		close(done)

		return errors.New("push gateway unavailable")
	})

	assert.NoError(t, svc.Notify(context.Background(), approvedRequest()))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("alert was not scheduled")
	}
}

func TestNotify_SystemActorByDefault(t *testing.T) {
	svc, mockRepo, mockDispatcher := newService(t)

	req := approvedRequest()
	req.ActorID = ""
	req.Type = model.TypeBookingCompleted

	done := make(chan struct{})

	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n model.Notification) error {
		assert.Equal(t, constant.ActorSystem, n.CreatedBy)

		return nil
	})
	mockDispatcher.EXPECT().Schedule(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, alert.Alert) error {
		close(done)

		return nil
	})

	require.NoError(t, svc.Notify(context.Background(), req))
	<-done
}

func TestNotify_Failures(t *testing.T) {
	t.Run("missing recipient", func(t *testing.T) {
		svc, _, _ := newService(t)

		req := approvedRequest()
		req.UserID = ""

		err := svc.Notify(context.Background(), req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing template variable", func(t *testing.T) {
		svc, _, _ := newService(t)

		req := approvedRequest()
		req.Vars = map[string]string{}

		assert.Error(t, svc.Notify(context.Background(), req))
	})

	t.Run("persist failure", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		err := svc.Notify(context.Background(), approvedRequest())
		assert.ErrorContains(t, err, "failed to persist notification")
	})
}

func TestList_NewestFirst(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Notification, error) {
			assert.Equal(t, "notifications.created_at", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "notifications.read = :unread")
			assert.Equal(t, "user-1", args[model.FieldUserID])

			return []model.Notification{{ID: "n-2"}, {ID: "n-1"}}, nil
		})

	res, err := svc.List(context.Background(), "user-1", gDto.QueryParams{Page: 1, Limit: 10, SortBy: "title"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	assert.Equal(t, "n-2", res.Notifications[0].ID)
}

func TestCountUnread(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
		_, args := filter.GetWhereClause()
		assert.Equal(t, false, args["unread"])

		return 3, nil
	})

	res, err := svc.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
}

func TestMarkRead(t *testing.T) {
	t.Run("unread", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{ID: "n-1", UserID: "user-1"}, nil)
		mockRepo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, true, fields[model.FieldRead])
				assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])

				return 1, nil
			})

		assert.NoError(t, svc.MarkRead(context.Background(), "n-1", "user-1"))
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{ID: "n-1", UserID: "user-1", Read: true}, nil)

		assert.NoError(t, svc.MarkRead(context.Background(), "n-1", "user-1"))
	})

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{}, nil)

		err := svc.MarkRead(context.Background(), "n-9", "user-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("another user's notification", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{ID: "n-1", UserID: "user-2"}, nil)

		err := svc.MarkRead(context.Background(), "n-1", "user-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestMarkAllRead(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	before := time.Now()

	mockRepo.EXPECT().MarkAllRead(gomock.Any(), "user-1", "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, cutoff time.Time) (int64, error) {
			assert.False(t, cutoff.Before(before.Add(-time.Second)))

			return 4, nil
		})

	res, err := svc.MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Updated)
}

func TestDelete(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{ID: "n-1", UserID: "user-1"}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), "n-1", "user-1"))
	})

	t.Run("not owner", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{ID: "n-1", UserID: "user-2"}, nil)

		err := svc.Delete(context.Background(), "n-1", "user-1")
		assert.True(t, failure.Is(err, http.StatusForbidden))
	})
}
