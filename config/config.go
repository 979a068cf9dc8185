package config

import (
	"log"
	"time"

	"fastpark/services/reservation"
	"fastpark/services/session"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	SnapshotCacheEnabled bool   `mapstructure:"SNAPSHOT_CACHE_ENABLED"`
	SnapshotCachePrefix  string `mapstructure:"SNAPSHOT_CACHE_PREFIX"`
	SnapshotTTLMinutes   int    `mapstructure:"SNAPSHOT_TTL_MINUTES"`

	// Simulation. A zero seed is time based.
	RandomSeed           int64   `mapstructure:"RANDOM_SEED"`
	RefreshFlipChance    float64 `mapstructure:"REFRESH_FLIP_CHANCE"`
	InventoryRefreshSpec string  `mapstructure:"INVENTORY_REFRESH_SPEC"`

	// Reservation flow.
	AvailabilityDelayMs int     `mapstructure:"AVAILABILITY_DELAY_MS"`
	AvailabilityChance  float64 `mapstructure:"AVAILABILITY_CHANCE"`
	PaymentDelayMs      int     `mapstructure:"PAYMENT_DELAY_MS"`
	HandoffDelayMs      int     `mapstructure:"HANDOFF_DELAY_MS"`
	MaxAlternatives     int     `mapstructure:"MAX_ALTERNATIVES"`
	MaxDurationHours    int     `mapstructure:"MAX_DURATION_HOURS"`

	// Session.
	ArrivalDelayMs          int     `mapstructure:"ARRIVAL_DELAY_MS"`
	TickIntervalMs          int     `mapstructure:"TICK_INTERVAL_MS"`
	ExtensionDelayMs        int     `mapstructure:"EXTENSION_DELAY_MS"`
	ExtensionChance         float64 `mapstructure:"EXTENSION_CHANCE"`
	ForcedEndGraceMs        int     `mapstructure:"FORCED_END_GRACE_MS"`
	ReceiptDelayMs          int     `mapstructure:"RECEIPT_DELAY_MS"`
	LowTimeThresholdMinutes int     `mapstructure:"LOW_TIME_THRESHOLD_MINUTES"`

	// Billing.
	ProcessingFee       float64 `mapstructure:"PROCESSING_FEE"`
	OvertimeRatePerHour float64 `mapstructure:"OVERTIME_RATE_PER_HOUR"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("SNAPSHOT_CACHE_ENABLED", false)
	viper.SetDefault("SNAPSHOT_CACHE_PREFIX", "parking:snapshot:")
	viper.SetDefault("SNAPSHOT_TTL_MINUTES", 30)
	viper.SetDefault("RANDOM_SEED", 0)
	viper.SetDefault("REFRESH_FLIP_CHANCE", 0.1)
	viper.SetDefault("INVENTORY_REFRESH_SPEC", "@every 30s")
	viper.SetDefault("AVAILABILITY_DELAY_MS", 1000)
	viper.SetDefault("AVAILABILITY_CHANCE", 0.7)
	viper.SetDefault("PAYMENT_DELAY_MS", 2000)
	viper.SetDefault("HANDOFF_DELAY_MS", 3000)
	viper.SetDefault("MAX_ALTERNATIVES", 3)
	viper.SetDefault("MAX_DURATION_HOURS", 24)
	viper.SetDefault("ARRIVAL_DELAY_MS", 5000)
	viper.SetDefault("TICK_INTERVAL_MS", 1000)
	viper.SetDefault("EXTENSION_DELAY_MS", 2000)
	viper.SetDefault("EXTENSION_CHANCE", 0.8)
	viper.SetDefault("FORCED_END_GRACE_MS", 10000)
	viper.SetDefault("RECEIPT_DELAY_MS", 2000)
	viper.SetDefault("LOW_TIME_THRESHOLD_MINUTES", 30)
	viper.SetDefault("PROCESSING_FEE", 0.50)
	viper.SetDefault("OVERTIME_RATE_PER_HOUR", 10.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// FlowSettings converts the reservation keys.
func (c Config) FlowSettings() reservation.Settings {
	s := reservation.DefaultSettings()
	s.AvailabilityDelay = millis(c.AvailabilityDelayMs)
	s.AvailabilityChance = c.AvailabilityChance
	s.PaymentDelay = millis(c.PaymentDelayMs)
	s.HandoffDelay = millis(c.HandoffDelayMs)
	s.ProcessingFee = c.ProcessingFee
	if c.MaxAlternatives > 0 {
		s.MaxAlternatives = c.MaxAlternatives
	}
	if c.MaxDurationHours > 0 {
		s.MaxDurationHours = c.MaxDurationHours
	}
	return s
}

// SessionSettings converts the session and billing keys.
func (c Config) SessionSettings() session.Settings {
	s := session.DefaultSettings()
	s.ArrivalDelay = millis(c.ArrivalDelayMs)
	if c.TickIntervalMs > 0 {
		s.TickInterval = millis(c.TickIntervalMs)
	}
	s.ExtensionDelay = millis(c.ExtensionDelayMs)
	s.ExtensionChance = c.ExtensionChance
	s.ForcedEndGrace = millis(c.ForcedEndGraceMs)
	s.LowTimeThreshold = c.LowTimeThresholdMinutes
	s.ProcessingFee = c.ProcessingFee
	s.OvertimeRatePerHour = c.OvertimeRatePerHour
	if c.MaxDurationHours > 0 {
		s.MaxDurationHours = c.MaxDurationHours
	}
	return s
}

func (c Config) ReceiptDelay() time.Duration {
	return millis(c.ReceiptDelayMs)
}

func (c Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLMinutes) * time.Minute
}
