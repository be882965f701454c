package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/internal/domains/item/model"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	gRepo "rento/shared/repository"
)

// argWasDeleted binds the guard on deleted apart from the SET value of the same column.
const argWasDeleted = "was_deleted"

type Item interface {
	Insert(ctx context.Context, model model.Item) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Item, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Item, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	// SoftDelete hides a live listing. It reports false when the listing was already deleted.
	SoftDelete(ctx context.Context, id, actorID string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Item]
}

func New(db *postgres.Connection, otel otel.Otel) Item {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Item](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) SoftDelete(ctx context.Context, id, actorID string, at time.Time) (bool, error) {
	fields := map[string]any{
		model.FieldDeleted:       true,
		model.FieldIsAvailable:   false,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: actorID,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{
				ArgName:  argWasDeleted,
				Field:    model.FieldDeleted,
				Value:    false,
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
