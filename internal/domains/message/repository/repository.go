package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/internal/domains/message/model"
	gDto "rento/shared/dto"
	gRepo "rento/shared/repository"
)

type Message interface {
	Insert(ctx context.Context, model model.Message) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Message, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Message]
}

func New(db *postgres.Connection, otel otel.Otel) Message {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Message](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func ByBooking(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}
