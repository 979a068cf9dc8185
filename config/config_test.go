package config

import (
	"testing"
	"time"

	"fastpark/services/reservation"
	"fastpark/services/session"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaultsMatchCoreDefaults(t *testing.T) {
	LoadConfig()

	assert.Equal(t, "8080", AppConfig.AppPort)
	assert.Equal(t, "@every 30s", AppConfig.InventoryRefreshSpec)
	assert.Equal(t, reservation.DefaultSettings(), AppConfig.FlowSettings())
	assert.Equal(t, session.DefaultSettings(), AppConfig.SessionSettings())
	assert.Equal(t, 2*time.Second, AppConfig.ReceiptDelay())
	assert.Equal(t, 30*time.Minute, AppConfig.SnapshotTTL())
	assert.False(t, IsProduction())
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PAYMENT_DELAY_MS", "250")
	t.Setenv("EXTENSION_CHANCE", "0.5")
	t.Setenv("PROCESSING_FEE", "1.25")
	t.Setenv("MAX_DURATION_HOURS", "8")
	LoadConfig()

	assert.True(t, IsProduction())
	assert.Equal(t, 250*time.Millisecond, AppConfig.FlowSettings().PaymentDelay)
	assert.Equal(t, 0.5, AppConfig.SessionSettings().ExtensionChance)
	assert.Equal(t, 1.25, AppConfig.FlowSettings().ProcessingFee)
	assert.Equal(t, 1.25, AppConfig.SessionSettings().ProcessingFee)
	assert.Equal(t, 8, AppConfig.FlowSettings().MaxDurationHours)
	assert.Equal(t, 8, AppConfig.SessionSettings().MaxDurationHours)
}
