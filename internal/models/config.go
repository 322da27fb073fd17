package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Telegram TelegramConfig
	Server   ServerConfig
	Sweeper  SweeperConfig
	Session  SessionConfig
	Display  DisplayConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedFile        string
}

// TelegramConfig holds bot credentials. The customer-facing bot and the
// administrator notification bot use separate tokens.
type TelegramConfig struct {
	BotToken             string
	NotificationBotToken string
	UpdateTimeout        int
	Debug                bool
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr            string
	Prefix          string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// SweeperConfig holds expiry sweep settings
type SweeperConfig struct {
	Interval     time.Duration
	OrderMaxAge  time.Duration
	RunOnStartup bool
}

// SessionConfig selects where conversation sessions live
type SessionConfig struct {
	Backend       string // "sqlite" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// DisplayConfig controls administrator-facing rendering
type DisplayConfig struct {
	Timezone string
}
