package models

// FlowStep is the current screen of the reservation flow.
type FlowStep string

const (
	StepIdle         FlowStep = "idle"
	StepDuration     FlowStep = "duration"
	StepChecking     FlowStep = "checking"
	StepConfirmation FlowStep = "confirmation"
	StepAlternative  FlowStep = "alternative"
	StepPayment      FlowStep = "payment"
	StepProcessing   FlowStep = "processing"
	StepComplete     FlowStep = "complete"
	StepHandedOff    FlowStep = "handed_off"
)

// FlowSnapshot is a read-only copy of the reservation flow for rendering.
type FlowSnapshot struct {
	Step           FlowStep        `json:"step"`
	Spot           *Spot           `json:"spot,omitempty"`
	DurationHours  int             `json:"durationHours,omitempty"`
	EstimatedCost  float64         `json:"estimatedCost,omitempty"`
	Alternatives   []SpotQuote     `json:"alternatives,omitempty"`
	UserDetails    *UserDetails    `json:"userDetails,omitempty"`
	PaymentSummary *PaymentSummary `json:"paymentSummary,omitempty"`
	Reservation    *Reservation    `json:"reservation,omitempty"`
}

// ParkingSnapshot is the whole presentation state at one instant.
type ParkingSnapshot struct {
	Flow        FlowSnapshot    `json:"flow"`
	Session     *SessionState   `json:"session,omitempty"`
	Summary     *SessionSummary `json:"summary,omitempty"`
	Feedback    *Feedback       `json:"feedback,omitempty"`
	ReceiptSent bool            `json:"receiptSent"`
	Stats       InventoryStats  `json:"stats"`
}
