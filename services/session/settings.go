package session

import "time"

// Settings tune the simulated session. Durations are wall-clock; one tick
// stands for one minute of parking time.
type Settings struct {
	ArrivalDelay        time.Duration
	TickInterval        time.Duration
	ExtensionDelay      time.Duration
	ExtensionChance     float64
	ForcedEndGrace      time.Duration
	LowTimeThreshold    int // minutes
	RateJitter          float64
	MinDynamicRate      float64
	ProcessingFee       float64
	OvertimeRatePerHour float64
	MaxDurationHours    int // cap on booked time, extensions included
}

func DefaultSettings() Settings {
	return Settings{
		ArrivalDelay:        5 * time.Second,
		TickInterval:        time.Second,
		ExtensionDelay:      2 * time.Second,
		ExtensionChance:     0.8,
		ForcedEndGrace:      10 * time.Second,
		LowTimeThreshold:    30,
		RateJitter:          0.25,
		MinDynamicRate:      1,
		ProcessingFee:       0.50,
		OvertimeRatePerHour: 10,
		MaxDurationHours:    DefaultMaxDurationHours,
	}
}

// DefaultMaxDurationHours caps the time left on a session after extensions.
const DefaultMaxDurationHours = 24

func (s Settings) maxHours() int {
	if s.MaxDurationHours <= 0 {
		return DefaultMaxDurationHours
	}
	return s.MaxDurationHours
}
