// Package session runs a live parking session from arrival to checkout and
// produces its bill.
package session

import (
	"fastpark/models"
	"fastpark/services/clock"
	"fastpark/services/simulation"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Warning identifies a session alert.
type Warning string

const (
	WarningLowTime    Warning = "low_time"
	WarningRelocation Warning = "relocation"
)

// Hooks receive engine updates. All are optional and run on the scheduler's
// logical thread.
type Hooks struct {
	OnPhase   func(models.SessionState)
	OnTick    func(models.SessionState)
	OnWarning func(Warning, models.SessionState)
	OnSummary func(models.SessionSummary)
}

// Engine drives one session for one reservation. It is not safe for
// concurrent use.
type Engine struct {
	settings    Settings
	sched       clock.Scheduler
	src         simulation.Source
	logger      *zap.Logger
	hooks       Hooks
	reservation models.Reservation

	state   models.SessionState
	summary *models.SessionSummary
	closed  bool

	arrival   clock.Timer
	ticker    clock.Timer
	extension clock.Timer
	forcedEnd clock.Timer
}

// NewEngine prepares a session for res. Nothing is scheduled until Start.
func NewEngine(res models.Reservation, settings Settings, sched clock.Scheduler, src simulation.Source, logger *zap.Logger, hooks Hooks) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()
	return &Engine{
		settings:    settings,
		sched:       sched,
		src:         src,
		logger:      logger.With(zap.String("sessionId", id), zap.String("spotId", res.SpotID)),
		hooks:       hooks,
		reservation: res,
		state: models.SessionState{
			SessionID:               id,
			SpotID:                  res.SpotID,
			VehiclePlate:            res.UserDetails.VehiclePlate,
			ReservedDurationMinutes: res.DurationMinutes(),
			TimeRemainingMinutes:    res.DurationMinutes(),
			BaseRatePerHour:         res.BaseRate(),
			DynamicRatePerHour:      res.BaseRate(),
		},
	}
}

func (e *Engine) ID() string {
	return e.state.SessionID
}

// State returns a copy of the current session state.
func (e *Engine) State() models.SessionState {
	st := e.state
	st.ProgressPercent = st.Progress()
	if st.ParkedAt != nil {
		at := *st.ParkedAt
		st.ParkedAt = &at
	}
	return st
}

// Summary returns the bill once the session has ended.
func (e *Engine) Summary() (models.SessionSummary, bool) {
	if e.summary == nil {
		return models.SessionSummary{}, false
	}
	return *e.summary, true
}

// Start enters Arriving and schedules the simulated arrival sensor.
func (e *Engine) Start() {
	if e.closed || e.state.Phase != "" {
		return
	}
	e.state.Phase = models.PhaseArriving
	e.arrival = e.sched.AfterFunc(e.settings.ArrivalDelay, func() {
		if e.closed || e.state.Phase != models.PhaseArriving {
			return
		}
		e.arrival = nil
		e.logger.Info("Vehicle arrival detected")
		e.park()
	})
	e.logger.Info("Awaiting vehicle arrival", zap.Duration("autoArrival", e.settings.ArrivalDelay))
	e.emitPhase()
}

// MarkArrived is the manual arrival confirmation.
func (e *Engine) MarkArrived() error {
	if e.closed || e.state.Phase != models.PhaseArriving {
		return e.invalid("mark arrived")
	}
	e.arrival = clock.Stop(e.arrival)
	e.park()
	return nil
}

func (e *Engine) park() {
	now := e.sched.Now()
	base := e.reservation.BaseRate()

	e.state.Phase = models.PhaseParked
	e.state.TimeRemainingMinutes = e.reservation.DurationMinutes()
	e.state.ElapsedMinutes = 0
	e.state.CurrentCostAccrued = 0
	e.state.BaseRatePerHour = base
	e.state.DynamicRatePerHour = base
	e.state.ExtensionsEnabled = true
	e.state.ParkedAt = &now

	e.ticker = clock.Stop(e.ticker)
	e.ticker = e.sched.Every(e.settings.TickInterval, e.tick)

	e.logger.Info("Vehicle parked",
		zap.Int("reservedMinutes", e.state.ReservedDurationMinutes),
		zap.Float64("baseRate", base))
	e.emitPhase()
}

func (e *Engine) tick() {
	if e.closed || !e.parked() {
		return
	}
	st := &e.state
	if st.TimeRemainingMinutes > 0 {
		st.TimeRemainingMinutes--
		st.ElapsedMinutes++
	}
	jitter := e.src.Uniform(-e.settings.RateJitter, e.settings.RateJitter)
	st.DynamicRatePerHour = DynamicRate(st.BaseRatePerHour, jitter, e.settings.MinDynamicRate)
	st.CurrentCostAccrued = AccruedCost(st.ElapsedMinutes, st.BaseRatePerHour)

	if e.hooks.OnTick != nil {
		e.hooks.OnTick(e.State())
	}

	if st.TimeRemainingMinutes <= e.settings.LowTimeThreshold && !st.LowTimeWarning {
		st.LowTimeWarning = true
		e.logger.Info("Low time remaining", zap.Int("minutesLeft", st.TimeRemainingMinutes))
		e.emitWarning(WarningLowTime)
	}

	if st.TimeRemainingMinutes == 0 {
		e.logger.Info("Session time expired")
		e.finish(models.EndExpired)
	}
}

// RequestExtension asks for more time. The simulated operator answers after
// ExtensionDelay.
func (e *Engine) RequestExtension(hours int) error {
	if e.closed || e.state.Phase != models.PhaseParked || !e.state.ExtensionsEnabled {
		return e.invalid("extend")
	}
	limit := e.settings.maxHours()
	if err := models.CheckDuration(hours, limit); err != nil {
		return err
	}
	// Time left after the extension may not exceed the cap either.
	if allowed := (limit*60 - e.state.TimeRemainingMinutes) / 60; hours > allowed {
		if allowed < 0 {
			allowed = 0
		}
		return &models.InvalidDurationError{Hours: hours, Max: allowed}
	}

	e.state.Phase = models.PhaseExtending
	e.state.ExtensionsEnabled = false
	e.state.PendingExtensionHours = hours
	e.extension = clock.Stop(e.extension)
	e.extension = e.sched.AfterFunc(e.settings.ExtensionDelay, func() {
		e.resolveExtension(hours)
	})

	e.logger.Info("Extension requested", zap.Int("hours", hours))
	e.emitPhase()
	return nil
}

func (e *Engine) resolveExtension(hours int) {
	if e.closed || e.state.Phase != models.PhaseExtending {
		return
	}
	e.extension = nil
	e.state.PendingExtensionHours = 0
	e.state.Phase = models.PhaseParked

	if e.src.Chance(e.settings.ExtensionChance) {
		e.state.TimeRemainingMinutes += hours * 60
		e.state.ExtendedMinutes += hours * 60
		e.state.ExtensionsEnabled = true
		e.logger.Info("Extension approved",
			zap.Int("hours", hours),
			zap.Int("minutesLeft", e.state.TimeRemainingMinutes))
		e.emitPhase()
		return
	}

	// ExtensionDenied: the vehicle has to be moved before the grace expires.
	e.state.RelocationWarning = true
	e.forcedEnd = clock.Stop(e.forcedEnd)
	e.forcedEnd = e.sched.AfterFunc(e.settings.ForcedEndGrace, func() {
		e.forcedEnd = nil
		if e.closed || e.summary != nil {
			return
		}
		e.logger.Warn("Relocation grace expired, ending session")
		e.finish(models.EndForced)
	})
	e.logger.Warn("Extension denied", zap.Duration("grace", e.settings.ForcedEndGrace))
	e.emitPhase()
	e.emitWarning(WarningRelocation)
}

// End checks the vehicle out. Calling it again returns the same summary.
func (e *Engine) End() (models.SessionSummary, error) {
	if e.summary != nil {
		return *e.summary, nil
	}
	if e.closed || e.state.Phase == "" {
		return models.SessionSummary{}, e.invalid("end")
	}
	e.finish(models.EndManual)
	return *e.summary, nil
}

// Close releases every timer without producing a summary.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.stopTimers()
	e.logger.Debug("Session closed")
}

func (e *Engine) finish(reason models.EndReason) {
	e.stopTimers()
	e.state.Phase = models.PhaseEnded
	e.state.PendingExtensionHours = 0
	e.state.ExtensionsEnabled = false

	summary := Finalize(e.reservation, e.state, e.settings, reason, e.sched.Now())
	e.summary = &summary

	e.logger.Info("Session ended",
		zap.String("reason", string(reason)),
		zap.Float64("actualHours", summary.ActualDurationHours),
		zap.Float64("overtimePenalty", summary.OvertimePenalty),
		zap.Float64("total", summary.Total))
	e.emitPhase()
	if e.hooks.OnSummary != nil {
		e.hooks.OnSummary(summary)
	}
}

func (e *Engine) stopTimers() {
	e.arrival = clock.Stop(e.arrival)
	e.ticker = clock.Stop(e.ticker)
	e.extension = clock.Stop(e.extension)
	e.forcedEnd = clock.Stop(e.forcedEnd)
}

// parked is true while the vehicle occupies the spot, including while an
// extension request is pending.
func (e *Engine) parked() bool {
	return e.state.Phase == models.PhaseParked || e.state.Phase == models.PhaseExtending
}

func (e *Engine) invalid(action string) error {
	phase := string(e.state.Phase)
	if e.closed {
		phase = "closed"
	} else if phase == "" {
		phase = "not started"
	}
	return fmt.Errorf("%w: cannot %s while session is %s", models.ErrInvalidTransition, action, phase)
}

func (e *Engine) emitPhase() {
	if e.hooks.OnPhase != nil {
		e.hooks.OnPhase(e.State())
	}
}

func (e *Engine) emitWarning(w Warning) {
	if e.hooks.OnWarning != nil {
		e.hooks.OnWarning(w, e.State())
	}
}
