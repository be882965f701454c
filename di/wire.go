//go:build wireinject
// +build wireinject

package di

import (
	"rento/config"
	"rento/infras/jwt"
	"rento/infras/kafka"
	"rento/infras/otel"
	"rento/infras/postgres"
	"rento/infras/realtime"
	"rento/infras/redis"
	"rento/infras/s3"
	"rento/internal/workers"
	"rento/permissions"
	"rento/shared/cache"
	"rento/transport/http"
	"rento/transport/http/middleware"
	"rento/transport/http/router"

	"github.com/google/wire"

	authService "rento/internal/domains/auth/service"
	bookingRepository "rento/internal/domains/booking/repository"
	bookingService "rento/internal/domains/booking/service"
	itemRepository "rento/internal/domains/item/repository"
	itemService "rento/internal/domains/item/service"
	messageRepository "rento/internal/domains/message/repository"
	messageService "rento/internal/domains/message/service"
	"rento/internal/domains/notification/alert"
	notificationRepository "rento/internal/domains/notification/repository"
	notificationService "rento/internal/domains/notification/service"
	userRepository "rento/internal/domains/user/repository"
	userService "rento/internal/domains/user/service"
	authHandler "rento/internal/handlers/auth"
	bookingHandler "rento/internal/handlers/booking"
	itemHandler "rento/internal/handlers/item"
	messageHandler "rento/internal/handlers/message"
	notificationHandler "rento/internal/handlers/notification"
	userHandler "rento/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	realtime.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	alert.New,
	notificationService.New,
	wire.Bind(new(notificationService.Notifier), new(notificationService.Notification)),
)

var itemDomain = wire.NewSet(
	itemRepository.New,
	itemService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var messageDomain = wire.NewSet(
	messageRepository.New,
	messageService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	notificationDomain,
	itemDomain,
	bookingDomain,
	messageDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	itemHandler.New,
	bookingHandler.New,
	messageHandler.New,
	notificationHandler.New,
	router.New,
)

var backgroundWorkers = wire.NewSet(
	workers.NewCompletionSweeper,
	workers.NewAlertConsumer,
	wire.Bind(new(workers.BookingCompleter), new(bookingService.Booking)),
)

func InitializeApplication() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		backgroundWorkers,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}
