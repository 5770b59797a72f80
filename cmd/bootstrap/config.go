package bootstrap

import (
	"book-locker/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewEngineConfig,
	),
)

func NewEngineConfig(cfg config.Config) config.EngineConfig {
	return cfg.Engine
}
