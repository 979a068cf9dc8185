// Package reservation implements the booking flow that turns a selected
// spot into a paid, confirmed Reservation.
package reservation

import (
	"fastpark/models"
	"fastpark/services/clock"
	"fastpark/services/simulation"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SpotSource is the part of the inventory the flow reads.
type SpotSource interface {
	Get(id string) (models.Spot, error)
	Alternatives(excludeID string, limit int) []models.Spot
}

// Hooks receive flow updates. Both are optional.
type Hooks struct {
	OnStep func(models.FlowSnapshot)
	// OnReservation is called once the confirmed reservation is handed off.
	OnReservation func(models.Reservation)
}

// Flow is the reservation state machine. It is not safe for concurrent use:
// intents and timer callbacks must run on the scheduler's logical thread.
type Flow struct {
	settings Settings
	spots    SpotSource
	sched    clock.Scheduler
	src      simulation.Source
	validate *validator.Validate
	logger   *zap.Logger
	hooks    Hooks

	step         models.FlowStep
	spot         *models.Spot
	duration     int
	alternatives []models.SpotQuote
	user         *models.UserDetails
	reservation  *models.Reservation

	// pending is the single timer of the current stage; stage invalidates
	// callbacks that belong to an earlier stage.
	pending clock.Timer
	stage   uint64
}

func NewFlow(settings Settings, spots SpotSource, sched clock.Scheduler, src simulation.Source, logger *zap.Logger, hooks Hooks) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		settings: settings,
		spots:    spots,
		sched:    sched,
		src:      src,
		validate: newValidator(),
		logger:   logger,
		hooks:    hooks,
		step:     models.StepIdle,
	}
}

func (f *Flow) Step() models.FlowStep {
	return f.step
}

// --- Intents ---

// SelectSpot starts (or restarts) the flow on spot id.
func (f *Flow) SelectSpot(id string) error {
	if !f.beforePayment() {
		return f.invalid("select spot")
	}
	spot, err := f.spots.Get(id)
	if err != nil {
		return err
	}
	if !spot.IsSelectable() {
		return fmt.Errorf("%w: %s is %s", models.ErrSpotUnavailable, id, spot.Status())
	}

	f.enterStage()
	f.spot = &spot
	if f.duration < 1 {
		f.duration = 1
	}
	f.alternatives = nil
	f.user = nil
	f.reservation = nil
	f.step = models.StepDuration

	f.logger.Info("Spot selected", zap.String("spotId", spot.ID), zap.String("location", spot.Location()), zap.Float64("rate", spot.Rate))
	f.notify()
	return nil
}

// EstimateCost prices the selected spot for hours.
func (f *Flow) EstimateCost(hours int) (float64, error) {
	if f.spot == nil {
		return 0, f.invalid("estimate cost")
	}
	if err := models.CheckDuration(hours, f.settings.maxHours()); err != nil {
		return 0, err
	}
	return f.spot.Rate * float64(hours), nil
}

// ConfirmDuration fixes the duration and starts the simulated availability
// check.
func (f *Flow) ConfirmDuration(hours int) error {
	if f.step != models.StepDuration {
		return f.invalid("confirm duration")
	}
	if err := models.CheckDuration(hours, f.settings.maxHours()); err != nil {
		return err
	}

	stage := f.enterStage()
	f.duration = hours
	f.step = models.StepChecking
	f.pending = f.sched.AfterFunc(f.settings.AvailabilityDelay, func() {
		f.completeAvailabilityCheck(stage)
	})

	f.logger.Info("Checking availability", zap.String("spotId", f.spot.ID), zap.Int("hours", hours))
	f.notify()
	return nil
}

// ModifyDuration returns to the duration step, discarding any in-flight
// availability check.
func (f *Flow) ModifyDuration() error {
	switch f.step {
	case models.StepChecking, models.StepConfirmation, models.StepAlternative:
	default:
		return f.invalid("modify duration")
	}
	f.enterStage()
	f.alternatives = nil
	f.step = models.StepDuration
	f.notify()
	return nil
}

// SelectAlternative rebinds the flow to one of the offered spots and skips
// the availability re-check.
func (f *Flow) SelectAlternative(id string) error {
	if f.step != models.StepAlternative {
		return f.invalid("select alternative")
	}
	for _, q := range f.alternatives {
		if q.Spot.ID != id {
			continue
		}
		spot := q.Spot
		f.enterStage()
		f.spot = &spot
		f.alternatives = nil
		f.step = models.StepConfirmation

		f.logger.Info("Alternative spot selected", zap.String("spotId", id))
		f.notify()
		return nil
	}
	return fmt.Errorf("%w: %s was not offered", models.ErrSpotNotFound, id)
}

// SubmitUserInfo validates contact details and moves to payment.
func (f *Flow) SubmitUserInfo(details models.UserDetails) error {
	if f.step != models.StepConfirmation {
		return f.invalid("submit user info")
	}
	details = normalizeUser(details)
	if err := f.validate.Struct(details); err != nil {
		return toValidationError(err)
	}

	f.enterStage()
	f.user = &details
	f.step = models.StepPayment
	f.notify()
	return nil
}

// SubmitPayment validates the card fields and starts the simulated charge,
// which always succeeds.
func (f *Flow) SubmitPayment(payment models.PaymentDetails) error {
	if f.step != models.StepPayment {
		return f.invalid("submit payment")
	}
	payment = normalizePayment(payment)
	if err := f.validate.Struct(payment); err != nil {
		return toValidationError(err)
	}

	stage := f.enterStage()
	f.step = models.StepProcessing
	f.pending = f.sched.AfterFunc(f.settings.PaymentDelay, func() {
		f.completePayment(stage)
	})

	f.logger.Info("Processing payment", zap.String("spotId", f.spot.ID))
	f.notify()
	return nil
}

// Cancel abandons the flow. It is refused while payment is processing and
// until the confirmed reservation has been handed off.
func (f *Flow) Cancel() error {
	if f.step == models.StepProcessing || f.step == models.StepComplete {
		return f.invalid("cancel")
	}
	f.Reset()
	return nil
}

// Reset unconditionally returns the flow to Idle.
func (f *Flow) Reset() {
	f.enterStage()
	wasIdle := f.step == models.StepIdle && f.spot == nil
	f.step = models.StepIdle
	f.spot = nil
	f.duration = 0
	f.alternatives = nil
	f.user = nil
	f.reservation = nil
	if !wasIdle {
		f.notify()
	}
}

// --- Timer callbacks ---

func (f *Flow) completeAvailabilityCheck(stage uint64) {
	if stage != f.stage || f.step != models.StepChecking {
		return
	}
	f.pending = nil

	if f.src.Chance(f.settings.AvailabilityChance) {
		f.step = models.StepConfirmation
		f.logger.Info("Spot available", zap.String("spotId", f.spot.ID))
		f.notify()
		return
	}

	// AvailabilityDenied: offer other selectable spots at the same duration.
	var quotes []models.SpotQuote
	for _, s := range f.spots.Alternatives(f.spot.ID, f.settings.MaxAlternatives) {
		quotes = append(quotes, models.SpotQuote{
			Spot:     s,
			Duration: f.duration,
			Cost:     s.Rate * float64(f.duration),
		})
	}
	f.alternatives = quotes
	f.step = models.StepAlternative
	f.logger.Info("Spot no longer available",
		zap.String("spotId", f.spot.ID),
		zap.Int("alternatives", len(f.alternatives)))
	f.notify()
}

func (f *Flow) completePayment(stage uint64) {
	if stage != f.stage || f.step != models.StepProcessing {
		return
	}
	f.pending = nil

	cost := f.spot.Rate * float64(f.duration)
	res := models.Reservation{
		SpotID:             f.spot.ID,
		Level:              f.spot.Level,
		Section:            f.spot.Section,
		Rate:               f.spot.Rate,
		Duration:           f.duration,
		Cost:               cost,
		ProcessingFee:      f.settings.ProcessingFee,
		TotalCharged:       cost + f.settings.ProcessingFee,
		UserDetails:        *f.user,
		Timestamp:          f.sched.Now(),
		ConfirmationNumber: NewConfirmationNumber(f.settings.ConfirmationPrefix, f.src),
	}
	f.reservation = &res
	f.step = models.StepComplete
	f.pending = f.sched.AfterFunc(f.settings.HandoffDelay, func() {
		f.handOff(stage)
	})

	f.logger.Info("Reservation confirmed",
		zap.String("confirmation", res.ConfirmationNumber),
		zap.String("spotId", res.SpotID),
		zap.Float64("totalCharged", res.TotalCharged))
	f.notify()
}

func (f *Flow) handOff(stage uint64) {
	if stage != f.stage || f.step != models.StepComplete || f.reservation == nil {
		return
	}
	f.pending = nil
	f.step = models.StepHandedOff
	f.notify()

	if f.hooks.OnReservation != nil {
		f.hooks.OnReservation(*f.reservation)
	}
}

// --- Snapshot ---

// Snapshot copies the flow for rendering.
func (f *Flow) Snapshot() models.FlowSnapshot {
	snap := models.FlowSnapshot{Step: f.step, DurationHours: f.duration}
	if f.spot != nil {
		spot := *f.spot
		snap.Spot = &spot
		if f.duration >= 1 {
			snap.EstimatedCost = spot.Rate * float64(f.duration)
		}
	}
	if len(f.alternatives) > 0 {
		snap.Alternatives = append([]models.SpotQuote(nil), f.alternatives...)
	}
	if f.user != nil {
		user := *f.user
		snap.UserDetails = &user
		snap.PaymentSummary = f.paymentSummary()
	}
	if f.reservation != nil {
		res := *f.reservation
		snap.Reservation = &res
	}
	return snap
}

func (f *Flow) paymentSummary() *models.PaymentSummary {
	if f.spot == nil {
		return nil
	}
	amount := f.spot.Rate * float64(f.duration)
	return &models.PaymentSummary{
		Description:   fmt.Sprintf("Spot %s - %d hour(s)", f.spot.ID, f.duration),
		Amount:        amount,
		ProcessingFee: f.settings.ProcessingFee,
		Total:         amount + f.settings.ProcessingFee,
	}
}

// --- helpers ---

func (f *Flow) beforePayment() bool {
	switch f.step {
	case models.StepIdle, models.StepDuration, models.StepChecking,
		models.StepConfirmation, models.StepAlternative:
		return true
	}
	return false
}

// enterStage stops the pending timer and starts a new stage epoch.
func (f *Flow) enterStage() uint64 {
	f.pending = clock.Stop(f.pending)
	f.stage++
	return f.stage
}

func (f *Flow) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s during %s", models.ErrInvalidTransition, action, f.step)
}

func (f *Flow) notify() {
	if f.hooks.OnStep != nil {
		f.hooks.OnStep(f.Snapshot())
	}
}
