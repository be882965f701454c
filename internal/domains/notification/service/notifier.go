package service

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=../mocks/notifier_mock.go -package=mocks

import (
	"context"
	"rento/internal/domains/notification/model/dto"
)

// Notifier is the fanout entry point of the booking, item and message services.
type Notifier interface {
	// Notify renders and persists one notification, then schedules its alert. Only the persist step
	// can fail the call; alert delivery is best effort.
	Notify(ctx context.Context, req dto.NotifyRequest) error
}
