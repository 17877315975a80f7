package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	AMQPURL               string `envconfig:"RABBITMQ_URL" default:"amqp://localhost:5672"`
	TranslationExchange   string `envconfig:"TRANSLATION_EXCHANGE" default:"translation_exchange"`
	TranslationQueue      string `envconfig:"TRANSLATION_QUEUE" default:"translation_queue"`
	TranslationRoutingKey string `envconfig:"TRANSLATION_ROUTING_KEY" default:"translation.request"`
	WorkerPrefetch        int    `envconfig:"WORKER_PREFETCH" default:"1"`

	TranslationProvider   string `envconfig:"TRANSLATION_PROVIDER" default:"google"`
	DefaultSourceLanguage string `envconfig:"DEFAULT_SOURCE_LANGUAGE" default:"en"`
	DetectSourceLanguage  bool   `envconfig:"DETECT_SOURCE_LANGUAGE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.AMQPURL) == "" {
		return fmt.Errorf("RABBITMQ_URL is required")
	}
	if strings.TrimSpace(c.TranslationExchange) == "" {
		return fmt.Errorf("TRANSLATION_EXCHANGE is required")
	}
	if strings.TrimSpace(c.TranslationQueue) == "" {
		return fmt.Errorf("TRANSLATION_QUEUE is required")
	}
	if strings.TrimSpace(c.TranslationRoutingKey) == "" {
		return fmt.Errorf("TRANSLATION_ROUTING_KEY is required")
	}
	if c.WorkerPrefetch < 1 {
		return fmt.Errorf("WORKER_PREFETCH must be >= 1")
	}
	if len(strings.TrimSpace(c.DefaultSourceLanguage)) != 2 {
		return fmt.Errorf("DEFAULT_SOURCE_LANGUAGE must be a two-letter code")
	}
	return nil
}
