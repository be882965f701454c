package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/internal/domains/booking/lifecycle"
	"rento/internal/domains/booking/model"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	gRepo "rento/shared/repository"
	"time"
)

const (
	argFromStatus  = "from_status"
	argItemDeleted = "item_deleted"
	itemsTable     = "items"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// TransitionStatus moves the booking from one status to another only while it is still in from.
	// It reports false when another writer changed the status first.
	TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, actorID string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) TransitionStatus(ctx context.Context, id string, from, to lifecycle.Status, actorID string, at time.Time) (bool, error) {
	fields := map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: actorID,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{
				ArgName:  argFromStatus,
				Field:    model.FieldStatus,
				Value:    from,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	affected, err := r.UpdateAffected(ctx, fields, filter)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return affected == 1, nil
}

func byField(field string, value any) gDto.Filter {
	return gDto.Filter{Field: field, Value: value, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

func and(filters ...any) gDto.FilterGroup {
	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

func activeStatuses() gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldStatus,
		Value:    []lifecycle.Status{lifecycle.StatusPending, lifecycle.StatusConfirmed},
		Operator: gDto.FilterOperatorIn,
		Table:    model.TableName,
	}
}

// ActiveOnItem matches the PENDING and CONFIRMED bookings of an item.
func ActiveOnItem(itemID string) gDto.FilterGroup {
	return and(byField(model.FieldItemID, itemID), activeStatuses())
}

// ByRenter matches the bookings userID placed, optionally in one status.
func ByRenter(userID string, status lifecycle.Status) gDto.FilterGroup {
	filter := and(byField(model.FieldRenterID, userID))
	if status != "" {
		filter.Filters = append(filter.Filters, byField(model.FieldStatus, status))
	}

	return filter
}

// ByOwner matches the bookings made on userID's items, optionally in one status.
func ByOwner(userID string, status lifecycle.Status) gDto.FilterGroup {
	filter := and(byField(model.FieldOwnerID, userID))
	if status != "" {
		filter.Filters = append(filter.Filters, byField(model.FieldStatus, status))
	}

	return filter
}

// DueForCompletion matches CONFIRMED bookings whose rental period ended on or before today. Bookings of
// removed listings are left alone, they accept no further transitions.
func DueForCompletion(today time.Time) gDto.FilterGroup {
	return and(
		byField(model.FieldStatus, lifecycle.StatusConfirmed),
		gDto.Filter{Field: model.FieldEndDate, Value: today, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		gDto.Filter{ArgName: argItemDeleted, Field: "deleted", Value: false, Operator: gDto.FilterOperatorEq, Table: itemsTable},
	)
}
