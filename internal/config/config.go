package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains token verification settings. Token issuance belongs
// to the identity service; this core only verifies bearer tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// SessionConfig contains practice-session tuning knobs.
type SessionConfig struct {
	// DefaultLimit caps the queue when the caller does not supply a limit.
	DefaultLimit int `mapstructure:"default_limit" validate:"required,gte=1,lte=500"`

	// MaxLimit is the hard ceiling on caller-supplied limits.
	MaxLimit int `mapstructure:"max_limit" validate:"required,gte=1,lte=1000"`

	// SnapshotTTLMinutes is the freshness window for restoring a persisted
	// session snapshot instead of rebuilding the queue.
	SnapshotTTLMinutes int `mapstructure:"snapshot_ttl_minutes" validate:"required,gte=1"`
}
