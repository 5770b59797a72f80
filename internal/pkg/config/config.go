package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Engine  EngineConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Seoul"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Seoul"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	// Only used by tooling that mints device/admin tokens.
	Duration time.Duration `envconfig:"JWT_DURATION" default:"30m"`
}

// EngineConfig holds the global timing policy of the locker and reservation engine.
type EngineConfig struct {
	HoldWindow       time.Duration `envconfig:"HOLD_WINDOW" default:"24h"`
	DoorTimeout      time.Duration `envconfig:"DOOR_TIMEOUT" default:"5m"`
	FaultEscalation  time.Duration `envconfig:"FAULT_ESCALATION" default:"5m"`
	SweepInterval    time.Duration `envconfig:"SWEEP_INTERVAL" default:"60s"`
	SweepBatchSize   int           `envconfig:"SWEEP_BATCH_SIZE" default:"500"`
	HeartbeatTimeout time.Duration `envconfig:"HEARTBEAT_TIMEOUT" default:"0s"` // 0 disables heartbeat loss detection
}

type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c EngineConfig) Validate() error {
	if c.HoldWindow <= 0 {
		return fmt.Errorf("HOLD_WINDOW must be positive, got %s", c.HoldWindow)
	}
	if c.DoorTimeout <= 0 {
		return fmt.Errorf("DOOR_TIMEOUT must be positive, got %s", c.DoorTimeout)
	}
	if c.FaultEscalation <= 0 {
		return fmt.Errorf("FAULT_ESCALATION must be positive, got %s", c.FaultEscalation)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.SweepBatchSize < 0 {
		return fmt.Errorf("SWEEP_BATCH_SIZE cannot be negative, got %d", c.SweepBatchSize)
	}
	if c.HeartbeatTimeout < 0 {
		return fmt.Errorf("HEARTBEAT_TIMEOUT cannot be negative, got %s", c.HeartbeatTimeout)
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return Config{}, err
	}
	switch cfg.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Seoul",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Seoul",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-locker-engine",
			Duration: 30 * time.Minute,
		},
		Engine: EngineConfig{
			HoldWindow:      24 * time.Hour,
			DoorTimeout:     5 * time.Minute,
			FaultEscalation: 5 * time.Minute,
			SweepInterval:   time.Hour, // tests drive sweeps directly
		},
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
	}
}
