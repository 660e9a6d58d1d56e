package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Notifier NotifierConfig `yaml:"notifier"`
	Mail     MailConfig     `yaml:"mail"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// NotifierConfig holds staleness-scan scheduling settings.
type NotifierConfig struct {
	// Interval between scheduled scans. The scanner itself rejects
	// overlapping runs, so a short interval degrades to back-to-back runs,
	// never to concurrent ones.
	Interval time.Duration `yaml:"interval" env:"NOTIFIER_INTERVAL" env-default:"168h"`

	// SendDelay is the pause between two consecutive per-user digests,
	// bounding the outbound mail rate.
	SendDelay time.Duration `yaml:"send_delay" env:"NOTIFIER_SEND_DELAY" env-default:"3s"`

	// RunOnStart triggers one scan immediately instead of waiting a full
	// interval after deployment.
	RunOnStart bool `yaml:"run_on_start" env:"NOTIFIER_RUN_ON_START" env-default:"false"`
}

// MailConfig holds SMTP relay settings. When disabled, digests are written to
// the log instead of being delivered.
type MailConfig struct {
	Enabled  bool   `yaml:"enabled"  env:"MAIL_ENABLED"  env-default:"false"`
	Host     string `yaml:"host"     env:"MAIL_HOST"`
	Port     int    `yaml:"port"     env:"MAIL_PORT"     env-default:"587"`
	Username string `yaml:"username" env:"MAIL_USERNAME"`
	Password string `yaml:"password" env:"MAIL_PASSWORD"`
	From     string `yaml:"from"     env:"MAIL_FROM"`
}
