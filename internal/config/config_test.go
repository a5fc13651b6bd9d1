package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("LEDGER_STORE", "Memory")
	t.Setenv("LEDGER_FETCH_LIMIT", "250")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "memory", cfg.Ledger.Store)
	assert.Equal(t, 250, cfg.Ledger.FetchLimit)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "ledger.payment_recorded", cfg.Kafka.PaymentTopic)
	assert.Equal(t, 60*time.Second, cfg.Redis.TTL)
}

func TestLedgerLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LedgerConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "UTC", LedgerConfig{Timezone: "UTC"}.Location().String())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a,,b "))
}
