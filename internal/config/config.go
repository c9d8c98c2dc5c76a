package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Voting   VotingConfig   `yaml:"voting"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds secret-code and voting-session settings.
type AuthConfig struct {
	SessionSecret   string        `yaml:"session_secret"    env:"AUTH_SESSION_SECRET"    env-required:"true"`
	SessionIssuer   string        `yaml:"session_issuer"    env:"AUTH_SESSION_ISSUER"    env-default:"openballot"`
	SessionTTL      time.Duration `yaml:"session_ttl"       env:"AUTH_SESSION_TTL"       env-default:"20m"`
	FingerprintSalt string        `yaml:"fingerprint_salt"  env:"AUTH_FINGERPRINT_SALT"  env-required:"true"`
	CodeBcryptCost  int           `yaml:"code_bcrypt_cost"  env:"AUTH_CODE_BCRYPT_COST"  env-default:"10"`
	CodeTTL         time.Duration `yaml:"code_ttl"          env:"AUTH_CODE_TTL"          env-default:"720h"`
}

// VotingConfig holds ballot intake and rate-limit settings.
type VotingConfig struct {
	RateLimitWindow      time.Duration `yaml:"rate_limit_window"       env:"VOTING_RATE_LIMIT_WINDOW"       env-default:"15m"`
	RateLimitMaxFailures int           `yaml:"rate_limit_max_failures" env:"VOTING_RATE_LIMIT_MAX_FAILURES" env-default:"5"`
	ReceiptPrefix        string        `yaml:"receipt_prefix"          env:"VOTING_RECEIPT_PREFIX"          env-default:"VR"`
	NotifyTimeout        time.Duration `yaml:"notify_timeout"          env:"VOTING_NOTIFY_TIMEOUT"          env-default:"10s"`
}

// NotifyConfig holds confirmation dispatch settings.
type NotifyConfig struct {
	Enabled     bool   `yaml:"enabled"      env:"NOTIFY_ENABLED"      env-default:"true"`
	SenderName  string `yaml:"sender_name"  env:"NOTIFY_SENDER_NAME"  env-default:"Election Office"`
	SenderEmail string `yaml:"sender_email" env:"NOTIFY_SENDER_EMAIL" env-default:"no-reply@openballot.local"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
