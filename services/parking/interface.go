// Package parking owns one reservation flow, at most one live session and
// the last bill, and exposes them as user intents.
package parking

import (
	"fastpark/models"
	"fastpark/services/clock"
	"fastpark/services/inventory"
	"fastpark/services/notification"
	"fastpark/services/reservation"
	"fastpark/services/session"
	"fastpark/services/simulation"
	"time"

	"go.uber.org/zap"
)

// ParkingService is the set of intents the presentation host can issue.
// Every method must be called on the scheduler's logical thread.
type ParkingService interface {
	ListSpots() []models.Spot
	Stats() models.InventoryStats
	RefreshInventory() models.InventoryStats

	SelectSpot(spotID string) error
	EstimateCost(hours int) (float64, error)
	ConfirmDuration(hours int) error
	ModifyDuration() error
	SelectAlternative(spotID string) error
	SubmitUserInfo(details models.UserDetails) error
	SubmitPayment(details models.PaymentDetails) error
	CancelReservation() error

	MarkArrived() error
	RequestExtension(hours int) error
	EndSession() (models.SessionSummary, error)
	SubmitRating(rating int) (models.Feedback, error)

	Reset()
	Snapshot() models.ParkingSnapshot
}

// Dependencies wires a DefaultParkingService.
type Dependencies struct {
	Inventory    *inventory.Inventory
	Scheduler    clock.Scheduler
	Source       simulation.Source
	Sink         notification.Sink
	Logger       *zap.Logger
	Flow         reservation.Settings
	Session      session.Settings
	ReceiptDelay time.Duration
}

// DefaultParkingService implements ParkingService.
type DefaultParkingService struct {
	inventory    *inventory.Inventory
	sched        clock.Scheduler
	src          simulation.Source
	sink         notification.Sink
	logger       *zap.Logger
	settings     session.Settings
	receiptDelay time.Duration

	flow        *reservation.Flow
	engine      *session.Engine
	summary     *models.SessionSummary
	feedback    *models.Feedback
	receipt     clock.Timer
	receiptSent bool
}

var _ ParkingService = (*DefaultParkingService)(nil)
