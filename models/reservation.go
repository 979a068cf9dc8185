package models

import "time"

// UserDetails is the contact and vehicle information collected before payment.
type UserDetails struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,parkemail"`
	Phone        string `json:"phone,omitempty"`
	VehiclePlate string `json:"vehiclePlate" validate:"required"`
}

// PaymentDetails carries card data for the simulated charge. It is never
// copied into a Reservation.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	NameOnCard string `json:"nameOnCard" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
}

// Reservation is a confirmed booking of one spot. It is created once, when
// payment completes, and never mutated afterwards.
type Reservation struct {
	SpotID             string      `json:"spotId"`
	Level              string      `json:"level"`
	Section            string      `json:"section"`
	Rate               float64     `json:"rate"`
	Duration           int         `json:"duration"` // hours
	Cost               float64     `json:"cost"`
	ProcessingFee      float64     `json:"processingFee"`
	TotalCharged       float64     `json:"totalCharged"`
	UserDetails        UserDetails `json:"userDetails"`
	Timestamp          time.Time   `json:"timestamp"`
	ConfirmationNumber string      `json:"confirmationNumber"`
}

// DurationMinutes is the reserved duration in minutes.
func (r Reservation) DurationMinutes() int {
	return r.Duration * 60
}

// BaseRate is the billing rate per hour derived from the paid cost.
func (r Reservation) BaseRate() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return r.Cost / float64(r.Duration)
}

// PaymentSummary is shown on the payment step.
type PaymentSummary struct {
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	ProcessingFee float64 `json:"processingFee"`
	Total         float64 `json:"total"`
}

// SpotQuote is a spot costed for a given duration.
type SpotQuote struct {
	Spot     Spot    `json:"spot"`
	Duration int     `json:"duration"`
	Cost     float64 `json:"cost"`
}
