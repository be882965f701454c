package router

import (
	"rento/internal/handlers/auth"
	"rento/internal/handlers/booking"
	"rento/internal/handlers/item"
	"rento/internal/handlers/message"
	"rento/internal/handlers/notification"
	"rento/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Item         item.Handler
	Booking      booking.Handler
	Message      message.Handler
	Notification notification.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Item.Router(routerGroup)
		routerGroup.Route("/bookings", func(bookingGroup chi.Router) {
			r.DomainHandlers.Booking.Router(bookingGroup)
			r.DomainHandlers.Message.Router(bookingGroup)
		})
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
