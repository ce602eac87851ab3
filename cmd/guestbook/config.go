package main

import (
	"errors"
	"fmt"
	"time"

	"guestbook-service/guestbook/domain"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR,default=:8080" validate:"required"`
	LogLevel   string `env:"LOG_LEVEL,default=INFO"`

	// armazenamento
	StoreBackend     string        `env:"STORE_BACKEND,default=file" validate:"oneof=file badger"`
	DataFile         string        `env:"DATA_FILE,default=./data/guestbook.json"`
	BadgerDir        string        `env:"BADGER_DIR,default=./data/badger"`
	StoreLockTimeout time.Duration `env:"STORE_LOCK_TIMEOUT,default=5s" validate:"gte=0"`
	ProcessLockName  string        `env:"PROCESS_LOCK_NAME"`

	// regras do livro de visitas
	MaxNameLength     int           `env:"MAX_NAME_LENGTH,default=20"`
	MaxMessageLength  int           `env:"MAX_MESSAGE_LENGTH,default=200"`
	MaxMessages       int           `env:"MAX_MESSAGES,default=100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,default=60s"`
	MarkupPolicy      string        `env:"MARKUP_POLICY,default=escape"`
	TrustProxyHeaders bool          `env:"TRUST_PROXY_HEADERS,default=true"`
	MaxBodyBytes      int64         `env:"MAX_BODY_BYTES,default=16384" validate:"gt=0"`

	// IMPORTANTE: o flood guard é por requisição (qualquer método), não substitui a
	// janela de postagem. Com FLOOD_BURST baixo a listagem também é barrada.
	FloodEnabled    bool          `env:"FLOOD_ENABLED,default=true"`
	FloodRPS        float64       `env:"FLOOD_RPS,default=5" validate:"gt=0"`
	FloodBurst      int           `env:"FLOOD_BURST,default=20" validate:"gt=0"`
	FloodRetryAfter time.Duration `env:"FLOOD_RETRY_AFTER,default=1s"`

	ConcurrencyMax     int           `env:"CONCURRENCY_MAX,default=100" validate:"gte=0"`
	ConcurrencyTimeout time.Duration `env:"CONCURRENCY_TIMEOUT,default=0s"`

	MetricsEnabled     bool          `env:"METRICS_ENABLED,default=true"`
	StatsRedisAddr     string        `env:"STATS_REDIS_ADDR"`
	StatsRedisPassword string        `env:"STATS_REDIS_PASSWORD"`
	StatsRedisDB       int           `env:"STATS_REDIS_DB,default=0"`
	StatsPrefix        string        `env:"STATS_PREFIX,default=guestbook:stats"`
	StatsTTL           time.Duration `env:"STATS_TTL,default=24h"`
	StatsBucket        string        `env:"STATS_BUCKET,default=minute" validate:"oneof=minute none"`
	StatsTrackClients  bool          `env:"STATS_TRACK_CLIENTS,default=false"`
}

var validate = validator.New()

// loadConfig lê o .env (se existir) e depois o ambiente.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := validate.Struct(c.Limits()); err != nil {
		return fmt.Errorf("invalid guestbook limits: %w", err)
	}
	switch c.StoreBackend {
	case "file":
		if c.DataFile == "" {
			return errors.New("DATA_FILE is required when STORE_BACKEND=file")
		}
	case "badger":
		if c.BadgerDir == "" {
			return errors.New("BADGER_DIR is required when STORE_BACKEND=badger")
		}
	}
	return nil
}

func (c Config) Limits() domain.Limits {
	return domain.Limits{
		MaxNameLength:    c.MaxNameLength,
		MaxMessageLength: c.MaxMessageLength,
		MaxMessages:      c.MaxMessages,
		RateLimitWindow:  c.RateLimitWindow,
		Markup:           domain.MarkupPolicy(c.MarkupPolicy),
	}
}
