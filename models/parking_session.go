package models

import "time"

// SessionPhase tracks where a live parking session is.
type SessionPhase string

const (
	PhaseArriving  SessionPhase = "arriving"
	PhaseParked    SessionPhase = "parked"
	PhaseExtending SessionPhase = "extending"
	PhaseEnded     SessionPhase = "ended"
)

// EndReason records which trigger finalized a session.
type EndReason string

const (
	EndExpired EndReason = "expired"
	EndManual  EndReason = "manual"
	EndForced  EndReason = "forced"
)

// SessionState is the mutable state of a live session, copied out as a
// read-only snapshot for presentation.
type SessionState struct {
	SessionID               string       `json:"sessionId"`
	SpotID                  string       `json:"spotId"`
	VehiclePlate            string       `json:"vehiclePlate"`
	Phase                   SessionPhase `json:"phase"`
	ReservedDurationMinutes int          `json:"reservedDurationMinutes"`
	TimeRemainingMinutes    int          `json:"timeRemainingMinutes"`
	ElapsedMinutes          int          `json:"elapsedMinutes"`
	ExtendedMinutes         int          `json:"extendedMinutes"`
	CurrentCostAccrued      float64      `json:"currentCostAccrued"`
	BaseRatePerHour         float64      `json:"baseRatePerHour"`
	DynamicRatePerHour      float64      `json:"dynamicRatePerHour"`
	LowTimeWarning          bool         `json:"lowTimeWarning"`
	RelocationWarning       bool         `json:"relocationWarning"`
	ExtensionsEnabled       bool         `json:"extensionsEnabled"`
	PendingExtensionHours   int          `json:"pendingExtensionHours,omitempty"`
	ParkedAt                *time.Time   `json:"parkedAt,omitempty"`
	ProgressPercent         float64      `json:"progressPercent"`
}

// Progress is the share of the booked time, extensions included, already
// used, in percent.
func (s SessionState) Progress() float64 {
	booked := s.ElapsedMinutes + s.TimeRemainingMinutes
	if booked <= 0 {
		return 0
	}
	return float64(s.ElapsedMinutes) / float64(booked) * 100
}

// SessionSummary is the immutable bill produced when a session ends.
type SessionSummary struct {
	SessionID             string      `json:"sessionId"`
	SpotID                string      `json:"spotId"`
	ReservedDurationHours float64     `json:"reservedDurationHours"`
	ActualDurationHours   float64     `json:"actualDurationHours"`
	FinalCost             float64     `json:"finalCost"`
	ProcessingFee         float64     `json:"processingFee"`
	OvertimePenalty       float64     `json:"overtimePenalty"`
	Total                 float64     `json:"total"`
	UserDetails           UserDetails `json:"userDetails"`
	CheckIn               time.Time   `json:"checkIn"`
	CheckOut              time.Time   `json:"checkOut"`
	ConfirmationNumber    string      `json:"confirmationNumber"`
	EndReason             EndReason   `json:"endReason"`
}

// HasOvertime reports whether the overtime warning should be shown.
func (s SessionSummary) HasOvertime() bool {
	return s.ActualDurationHours > s.ReservedDurationHours
}

// Feedback is the star rating left after a session.
type Feedback struct {
	ConfirmationNumber string    `json:"confirmationNumber"`
	Rating             int       `json:"rating"`
	SubmittedAt        time.Time `json:"submittedAt"`
}
