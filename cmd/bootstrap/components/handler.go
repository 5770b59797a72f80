package components

import (
	"book-locker/internal/handler"
	"book-locker/internal/handler/api"
	"book-locker/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewLockerHandler,
		api.NewPointHandler,
		api.NewBookHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	reservations *api.ReservationHandler,
	lockers *api.LockerHandler,
	points *api.PointHandler,
	books *api.BookHandler,
) handler.Handlers {
	return handler.Handlers{
		Reservations: reservations,
		Lockers:      lockers,
		Points:       points,
		Books:        books,
	}
}
