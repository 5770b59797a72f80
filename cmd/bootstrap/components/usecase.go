package components

import (
	"context"
	"log/slog"

	"book-locker/internal/pkg/clock"
	"book-locker/internal/usecase"
	"book-locker/internal/usecase/commands"
	"book-locker/internal/usecase/queries"
	"book-locker/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	usecaseSweeperModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewPointLedger,
		commands.NewLockerCommands,
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPointQueries,
		queries.NewLockerQueries,
		queries.NewReservationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseSweeperModule = fx.Module("usecase/sweeper",
	fx.Provide(
		sweeper.New,
	),
	fx.Invoke(registerSweeper),
)

// registerSweeper rebuilds book claims before the sweeper and the server accept work.
func registerSweeper(lc fx.Lifecycle, registry commands.ReservationCommands, s *sweeper.Sweeper, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := registry.Restore(ctx)
			if err != nil {
				return err
			}
			logger.Info("restored active reservations", "count", n)
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
