package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/babyname-duel/db"
)

// EnvFile is loaded before the environment is read. Variables already set
// in the environment win.
var EnvFile = ".env.local"

type Config struct {
	Port          int    `env:"PORT" envDefault:"3318"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DatabaseType  string `env:"DATABASE_TYPE"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`

	// Identity
	JWTSecret   string `env:"JWT_SECRET"`
	JWTIssuer   string `env:"JWT_ISSUER"`
	DevIdentity bool   `env:"DEV_IDENTITY"`

	// Links in invite mails point here
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3318"`

	// Redis backs the notification queue and the invite rate limit.
	// Both are off when RedisURL is empty.
	RedisURL         string        `env:"REDIS_URL"`
	QueueName        string        `env:"QUEUE_NAME" envDefault:"notifications"`
	QueueConcurrency int           `env:"QUEUE_CONCURRENCY" envDefault:"4"`
	InviteRateLimit  int           `env:"INVITE_RATE_LIMIT" envDefault:"20"`
	InviteRateWindow time.Duration `env:"INVITE_RATE_WINDOW" envDefault:"1h"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

type SMTPConfig struct {
	Host       string `env:"HOST"`
	Port       int    `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	From       string `env:"FROM"`
	FromName   string `env:"FROM_NAME" envDefault:"BabyName Duel"`
	Encryption string `env:"ENCRYPTION" envDefault:"STARTTLS"`
}

// ParseFlags builds the config from .env.local, the environment and args,
// in increasing order of precedence, and validates it.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	flags := flag.NewFlagSet("babyname-duel", flag.ContinueOnError)

	// Env values are the flag defaults, so a flag only wins when given
	flags.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.AllowedOrigin, "origin", cfg.AllowedOrigin, "Allowed CORS origin")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "JWT signing secret (prefer env)")
	flags.BoolVar(&cfg.DevIdentity, "dev-identity", cfg.DevIdentity, "Trust the X-Dev-Uid header")
	flags.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	dialect, err := db.ParseDialect(c.DatabaseType, c.DatabaseURL)
	if err != nil {
		return err
	}
	c.DatabaseType = string(dialect)

	if c.JWTSecret == "" && !c.DevIdentity {
		return errors.New("JWT_SECRET required unless DEV_IDENTITY is set")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
