package components

import (
	"context"
	"log/slog"

	"book-locker/internal/infra/db"
	"book-locker/internal/infra/memstore"
	"book-locker/internal/infra/notify"
	"book-locker/internal/infra/repository"
	"book-locker/internal/pkg/clock"
	"book-locker/internal/pkg/config"
	"book-locker/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
	),
)

// Stores are the storage and delivery ports selected by STORAGE_DRIVER.
type Stores struct {
	fx.Out

	Accounts     shared.AccountStore
	Reservations shared.ReservationStore
	Lockers      shared.LockerStore
	Logs         shared.SystemLogStore
	Catalog      shared.Catalog
	Notifier     shared.Notifier
	Alerter      shared.Alerter
}

func NewStores(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (Stores, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, state is lost on restart")
		n := notify.NewLogNotifier(logger)
		return Stores{
			Accounts:     memstore.NewAccountStore(),
			Reservations: memstore.NewReservationStore(),
			Lockers:      memstore.NewLockerStore(),
			Logs:         memstore.NewSystemLogStore(),
			Catalog:      memstore.NewCatalog(),
			Notifier:     n,
			Alerter:      n,
		}, nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return Stores{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	outbox := notify.NewOutbox(repository.NewNotificationRepository(pool), clk)
	return Stores{
		Accounts:     repository.NewAccountRepository(pool),
		Reservations: repository.NewReservationRepository(pool),
		Lockers:      repository.NewLockerRepository(pool),
		Logs:         repository.NewSystemLogRepository(pool),
		Catalog:      repository.NewCatalogRepository(pool),
		Notifier:     outbox,
		Alerter:      outbox,
	}, nil
}
