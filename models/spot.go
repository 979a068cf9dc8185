package models

import "gopkg.in/guregu/null.v4"

// SpotStatus is the display status derived from a spot's flags.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "available"
	SpotOccupied  SpotStatus = "occupied"
	SpotReserved  SpotStatus = "reserved"
)

// Spot is a single parking space. IsReserved implies IsAvailable, and
// TimeLeft (minutes) is only valid while the spot is reserved.
type Spot struct {
	ID          string   `json:"id"`
	Level       string   `json:"level"`
	Section     string   `json:"section"`
	IsAvailable bool     `json:"isAvailable"`
	IsReserved  bool     `json:"isReserved"`
	TimeLeft    null.Int `json:"timeLeft"`
	Rate        float64  `json:"rate"` // per hour
}

// Status reports whether the spot is occupied, reserved or free to book.
func (s Spot) Status() SpotStatus {
	if !s.IsAvailable {
		return SpotOccupied
	}
	if s.IsReserved {
		return SpotReserved
	}
	return SpotAvailable
}

// IsSelectable is the gate used by the reservation flow.
func (s Spot) IsSelectable() bool {
	return s.IsAvailable && !s.IsReserved
}

// Location renders "Level 1, Section A".
func (s Spot) Location() string {
	return s.Level + ", Section " + s.Section
}

// InventoryStats counts spots per status.
type InventoryStats struct {
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
	Total     int `json:"total"`
}
