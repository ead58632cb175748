package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Sales.Atomic)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "boxoffice.sales", cfg.Kafka.Topics.Sales)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "./fonts/DejaVuSans.ttf", cfg.Sales.TicketFontPath)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SALE_ATOMIC", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.Sales.Atomic)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}
