package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/internal/domains/notification/model"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	gRepo "rento/shared/repository"
	"time"
)

const (
	argUnread = "unread"
	argCutoff = "cutoff"
)

type Notification interface {
	Insert(ctx context.Context, model model.Notification) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Notification, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Notification, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	MarkAllRead(ctx context.Context, userID, actorID string, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// MarkAllRead flips every unread notification of userID created at or before cutoff in one statement.
// Rows inserted after cutoff keep their unread state.
func (r *repositoryImpl) MarkAllRead(ctx context.Context, userID, actorID string, cutoff time.Time) (int64, error) {
	fields := map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: cutoff,
		constant.FieldModifiedBy: actorID,
	}

	return r.UpdateAffected(ctx, fields, UnreadBefore(userID, cutoff)) //nolint:wrapcheck
}

// ByUser scopes a query to the notifications of userID, optionally only the unread ones.
func ByUser(userID string, unreadOnly bool) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if unreadOnly {
		filters = append(filters, gDto.Filter{
			ArgName:  argUnread,
			Field:    model.FieldRead,
			Value:    false,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

func UnreadBefore(userID string, cutoff time.Time) gDto.FilterGroup {
	filter := ByUser(userID, true)
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  argCutoff,
		Field:    constant.FieldCreatedAt,
		Value:    cutoff,
		Operator: gDto.FilterOperatorLessEq,
		Table:    model.TableName,
	})

	return filter
}

// ByIDAndUser matches one notification only while it belongs to userID.
func ByIDAndUser(id, userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
