package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Sales    SalesConfig
	LogDir   string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string // "sqlite" or "postgres"
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	AutoMigrate  bool
	SeedData     bool
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	GroupID string
	Topics  TopicConfig
	// PublishTimeout bounds the publishing done inside a sale request.
	PublishTimeout time.Duration
}

type TopicConfig struct {
	Sales      string
	SeatStatus string
}

type SalesConfig struct {
	// Atomic wraps the commit phase of a sale in one transaction so a
	// conflict never leaves partially issued tickets behind.
	Atomic         bool
	QRSecretKey    string
	TicketFontPath string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", ":8084"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // seat status streams are long lived
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			DSN:          getEnv("DB_DSN", "file:storage/data/auditorium.db?cache=shared"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			AutoMigrate:  getEnvBool("AUTO_MIGRATE", true),
			SeedData:     getEnvBool("SEED_DATA", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("CACHE_PREFIX", "boxoffice"),
			TTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", false),
			Brokers:        getEnvList("KAFKA_BROKERS", "localhost:9092"),
			GroupID:        getEnv("KAFKA_GROUP_ID", "boxoffice-sale-listener"),
			PublishTimeout: getEnvDuration("KAFKA_PUBLISH_TIMEOUT", 2*time.Second),
			Topics: TopicConfig{
				Sales:      getEnv("KAFKA_TOPIC_SALES", "boxoffice.sales"),
				SeatStatus: getEnv("KAFKA_TOPIC_SEAT_STATUS", "boxoffice.seats.status"),
			},
		},
		Sales: SalesConfig{
			Atomic:         getEnvBool("SALE_ATOMIC", false),
			QRSecretKey:    getEnv("QR_SECRET_KEY", "boxoffice-dev-secret"),
			TicketFontPath: getEnv("TICKET_FONT_PATH", "./fonts/DejaVuSans.ttf"),
		},
		LogDir: getEnv("LOG_DIR", "logs"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
