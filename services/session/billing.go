package session

import (
	"fastpark/models"
	"math"
	"time"
)

// AccruedCost bills elapsed minutes at the base hourly rate.
func AccruedCost(elapsedMinutes int, baseRatePerHour float64) float64 {
	return float64(elapsedMinutes) / 60 * baseRatePerHour
}

// DynamicRate is the displayed rate: base plus jitter, never below floor.
func DynamicRate(base, jitter, floor float64) float64 {
	return math.Max(floor, base+jitter)
}

// OvertimePenalty charges every hour used beyond the reservation.
func OvertimePenalty(actualHours, reservedHours, ratePerHour float64) float64 {
	return math.Max(0, actualHours-reservedHours) * ratePerHour
}

// Finalize turns the last session state into the summary. The accrued cost
// is taken as-is; the overtime penalty and processing fee are added on top.
func Finalize(res models.Reservation, state models.SessionState, settings Settings, reason models.EndReason, checkOut time.Time) models.SessionSummary {
	actual := float64(state.ElapsedMinutes) / 60
	reserved := float64(res.Duration)
	penalty := OvertimePenalty(actual, reserved, settings.OvertimeRatePerHour)
	finalCost := state.CurrentCostAccrued

	return models.SessionSummary{
		SessionID:             state.SessionID,
		SpotID:                res.SpotID,
		ReservedDurationHours: reserved,
		ActualDurationHours:   actual,
		FinalCost:             finalCost,
		ProcessingFee:         settings.ProcessingFee,
		OvertimePenalty:       penalty,
		Total:                 finalCost + settings.ProcessingFee + penalty,
		UserDetails:           res.UserDetails,
		CheckIn:               checkOut.Add(-time.Duration(state.ElapsedMinutes) * time.Minute),
		CheckOut:              checkOut,
		ConfirmationNumber:    res.ConfirmationNumber,
		EndReason:             reason,
	}
}
