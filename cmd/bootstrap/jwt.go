package bootstrap

import (
	"context"

	"book-locker/internal/pkg/config"
	"book-locker/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(lc fx.Lifecycle, cfg config.Config) (*jwt.Service, error) {
	svc, err := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			svc.Close()
			return nil
		},
	})

	return svc, nil
}
