package parking

import (
	"context"
	"fastpark/models"
	"fastpark/services/clock"
	"fastpark/services/notification"
	"fastpark/services/reservation"
	"fastpark/services/session"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultReceiptDelay is how long after checkout the simulated receipt
// email goes out.
const DefaultReceiptDelay = 2 * time.Second

func NewDefaultParkingService(deps Dependencies) (*DefaultParkingService, error) {
	if deps.Inventory == nil || deps.Scheduler == nil || deps.Source == nil {
		return nil, fmt.Errorf("parking service initialization error: inventory, scheduler and source are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Sink == nil {
		deps.Sink = notification.Multi{}
	}
	if deps.ReceiptDelay <= 0 {
		deps.ReceiptDelay = DefaultReceiptDelay
	}

	s := &DefaultParkingService{
		inventory:    deps.Inventory,
		sched:        deps.Scheduler,
		src:          deps.Source,
		sink:         deps.Sink,
		logger:       deps.Logger,
		settings:     deps.Session,
		receiptDelay: deps.ReceiptDelay,
	}
	s.flow = reservation.NewFlow(deps.Flow, deps.Inventory, deps.Scheduler, deps.Source,
		deps.Logger.Named("reservation"), reservation.Hooks{
			OnStep:        s.onFlowStep,
			OnReservation: s.startSession,
		})
	return s, nil
}

// --- Inventory ---

func (s *DefaultParkingService) ListSpots() []models.Spot {
	return s.inventory.ListSpots()
}

func (s *DefaultParkingService) Stats() models.InventoryStats {
	return s.inventory.Stats()
}

// RefreshInventory advances the occupancy simulation one step.
func (s *DefaultParkingService) RefreshInventory() models.InventoryStats {
	stats := s.inventory.Refresh()
	s.emit(notification.EventInventoryRefreshed, "Spot availability refreshed", stats)
	return stats
}

// --- Reservation flow ---

func (s *DefaultParkingService) SelectSpot(spotID string) error {
	return s.flow.SelectSpot(spotID)
}

func (s *DefaultParkingService) EstimateCost(hours int) (float64, error) {
	return s.flow.EstimateCost(hours)
}

func (s *DefaultParkingService) ConfirmDuration(hours int) error {
	return s.flow.ConfirmDuration(hours)
}

func (s *DefaultParkingService) ModifyDuration() error {
	return s.flow.ModifyDuration()
}

func (s *DefaultParkingService) SelectAlternative(spotID string) error {
	return s.flow.SelectAlternative(spotID)
}

func (s *DefaultParkingService) SubmitUserInfo(details models.UserDetails) error {
	return s.flow.SubmitUserInfo(details)
}

func (s *DefaultParkingService) SubmitPayment(details models.PaymentDetails) error {
	return s.flow.SubmitPayment(details)
}

func (s *DefaultParkingService) CancelReservation() error {
	return s.flow.Cancel()
}

func (s *DefaultParkingService) onFlowStep(snap models.FlowSnapshot) {
	s.emit(notification.EventFlowStep, "Reservation step changed", snap)
}

// --- Session ---

// startSession replaces any previous engine with one for res.
func (s *DefaultParkingService) startSession(res models.Reservation) {
	if s.engine != nil {
		s.engine.Close()
	}
	s.receipt = clock.Stop(s.receipt)
	s.summary = nil
	s.feedback = nil
	s.receiptSent = false

	s.engine = session.NewEngine(res, s.settings, s.sched, s.src, s.logger.Named("session"), session.Hooks{
		OnPhase: func(st models.SessionState) {
			s.emit(notification.EventSessionPhase, "Session phase changed", st)
		},
		OnTick: func(st models.SessionState) {
			s.emit(notification.EventSessionTick, "", st)
		},
		OnWarning: func(w session.Warning, st models.SessionState) {
			s.emit(notification.EventSessionWarning, s.warningMessage(w), warningPayload{Warning: w, Session: st})
		},
		OnSummary: s.onSummary,
	})
	s.logger.Info("Starting parking session",
		zap.String("sessionId", s.engine.ID()),
		zap.String("confirmation", res.ConfirmationNumber))
	s.engine.Start()
}

func (s *DefaultParkingService) MarkArrived() error {
	if s.engine == nil {
		return models.ErrNoSession
	}
	return s.engine.MarkArrived()
}

func (s *DefaultParkingService) RequestExtension(hours int) error {
	if s.engine == nil {
		return models.ErrNoSession
	}
	return s.engine.RequestExtension(hours)
}

func (s *DefaultParkingService) EndSession() (models.SessionSummary, error) {
	if s.engine == nil {
		return models.SessionSummary{}, models.ErrNoSession
	}
	return s.engine.End()
}

func (s *DefaultParkingService) onSummary(summary models.SessionSummary) {
	s.summary = &summary
	s.emit(notification.EventSessionSummary, "Session summary ready", summary)

	s.receipt = clock.Stop(s.receipt)
	s.receipt = s.sched.AfterFunc(s.receiptDelay, func() {
		s.receipt = nil
		if s.summary == nil || s.summary.SessionID != summary.SessionID {
			return
		}
		s.receiptSent = true
		s.emit(notification.EventReceiptSent, "Receipt sent", receiptPayload{
			Email:              summary.UserDetails.Email,
			ConfirmationNumber: summary.ConfirmationNumber,
			Total:              summary.Total,
		})
	})
}

// --- Feedback ---

// SubmitRating records a 1 to 5 star rating for the last session.
func (s *DefaultParkingService) SubmitRating(rating int) (models.Feedback, error) {
	if s.summary == nil {
		return models.Feedback{}, models.ErrNoSummary
	}
	if rating < 1 || rating > 5 {
		return models.Feedback{}, models.NewValidationError("rating", "must be between 1 and 5")
	}
	fb := models.Feedback{
		ConfirmationNumber: s.summary.ConfirmationNumber,
		Rating:             rating,
		SubmittedAt:        s.sched.Now(),
	}
	s.feedback = &fb
	s.emit(notification.EventFeedbackReceived, "Thank you for your feedback", fb)
	return fb, nil
}

// --- Lifecycle ---

// Reset returns to the dashboard: the session is dropped without a bill and
// the flow goes back to Idle. Spots are kept.
func (s *DefaultParkingService) Reset() {
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
	s.receipt = clock.Stop(s.receipt)
	s.flow.Reset()
	s.summary = nil
	s.feedback = nil
	s.receiptSent = false
	s.logger.Info("Parking state reset")
}

// Snapshot copies everything the presentation needs.
func (s *DefaultParkingService) Snapshot() models.ParkingSnapshot {
	snap := models.ParkingSnapshot{
		Flow:        s.flow.Snapshot(),
		Stats:       s.inventory.Stats(),
		ReceiptSent: s.receiptSent,
	}
	if s.engine != nil {
		st := s.engine.State()
		snap.Session = &st
	}
	if s.summary != nil {
		summary := *s.summary
		snap.Summary = &summary
	}
	if s.feedback != nil {
		fb := *s.feedback
		snap.Feedback = &fb
	}
	return snap
}

// Close stops every pending timer. The service must not be used afterwards.
func (s *DefaultParkingService) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
	s.receipt = clock.Stop(s.receipt)
	s.flow.Reset()
}

// --- events ---

type warningPayload struct {
	Warning session.Warning     `json:"warning"`
	Session models.SessionState `json:"session"`
}

type receiptPayload struct {
	Email              string  `json:"email"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	Total              float64 `json:"total"`
}

func (s *DefaultParkingService) warningMessage(w session.Warning) string {
	switch w {
	case session.WarningLowTime:
		return fmt.Sprintf("Less than %d minutes remaining", s.settings.LowTimeThreshold)
	case session.WarningRelocation:
		return "Extension denied, please relocate your vehicle"
	default:
		return "Session warning"
	}
}

func (s *DefaultParkingService) emit(t notification.EventType, msg string, payload interface{}) {
	ev := notification.Event{
		ID:      uuid.New().String(),
		Type:    t,
		At:      s.sched.Now(),
		Message: msg,
		Payload: payload,
	}
	if err := s.sink.Notify(context.Background(), ev); err != nil {
		s.logger.Warn("Failed to deliver parking event", zap.String("event", string(t)), zap.Error(err))
	}
}
