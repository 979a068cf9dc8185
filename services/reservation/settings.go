package reservation

import "time"

// Settings are the simulated latencies, outcome probabilities and fees of
// the reservation flow.
type Settings struct {
	AvailabilityDelay  time.Duration
	AvailabilityChance float64
	PaymentDelay       time.Duration
	HandoffDelay       time.Duration
	ProcessingFee      float64
	MaxAlternatives    int
	ConfirmationPrefix string
	MaxDurationHours   int
}

func DefaultSettings() Settings {
	return Settings{
		AvailabilityDelay:  time.Second,
		AvailabilityChance: 0.7,
		PaymentDelay:       2 * time.Second,
		HandoffDelay:       3 * time.Second,
		ProcessingFee:      0.50,
		MaxAlternatives:    3,
		ConfirmationPrefix: "PKG",
		MaxDurationHours:   DefaultMaxDurationHours,
	}
}

// DefaultMaxDurationHours caps a single reservation.
const DefaultMaxDurationHours = 24

func (s Settings) maxHours() int {
	if s.MaxDurationHours <= 0 {
		return DefaultMaxDurationHours
	}
	return s.MaxDurationHours
}
