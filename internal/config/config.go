package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type AppConfig struct {
	Env string `env:"APP_ENV" env-default:"development"`
	HTTPServer
	TokenDB
	SMTP
	Kafka
	LogConfig
	TargetProductID string `env:"TARGET_PRODUCT_ID" env-required:"true"`
}

type HTTPServer struct {
	Port string `env:"PORT" env-required:"true"`
}

type TokenDB struct {
	Host           string `env:"DB_HOST" env-required:"true"`
	Port           string `env:"DB_PORT" env-required:"true"`
	User           string `env:"DB_USER" env-required:"true"`
	Password       string `env:"DB_PASSWORD" env-required:"true"`
	Name           string `env:"DB_NAME" env-required:"true"`
	SSLMode        string `env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST" env-required:"true"`
	Port     int    `env:"SMTP_PORT" env-required:"true"`
	Secure   bool   `env:"SMTP_SECURE" env-default:"false"`
	Username string `env:"SMTP_USER" env-required:"true"`
	Password string `env:"SMTP_PASSWORD" env-required:"true"`
	From     string `env:"SMTP_FROM" env-required:"true"`
}

type Kafka struct {
	// Brokers is a comma-separated list; empty disables event publishing.
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC" env-default:"token-events"`
}

type LogConfig struct {
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
}

func (db TokenDB) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
}

func (k Kafka) BrokerList() []string {
	if k.Brokers == "" {
		return nil
	}
	parts := strings.Split(k.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func MustLoad() *AppConfig {
	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read config from environment: %v", err)
	}

	if port, err := strconv.Atoi(cfg.HTTPServer.Port); err != nil || port <= 0 {
		log.Fatalf("PORT must be a positive integer, got %q", cfg.HTTPServer.Port)
	}

	return &cfg
}
