package reservation

import (
	"math"
	"regexp"
	"testing"
	"time"

	"fastpark/models"
	"fastpark/services/clock"
	"fastpark/services/inventory"
	"fastpark/services/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

type flowHarness struct {
	flow     *Flow
	clock    *clock.Manual
	src      *simulation.Scripted
	steps    []models.FlowStep
	handed   []models.Reservation
	settings Settings
}

func newHarness(t *testing.T) *flowHarness {
	t.Helper()
	spots := []models.Spot{
		{ID: "L1-A1", Level: "Level 1", Section: "A", IsAvailable: true, Rate: 5},
		{ID: "L1-A2", Level: "Level 1", Section: "A", IsAvailable: false, Rate: 5},
		{ID: "L1-A3", Level: "Level 1", Section: "A", IsAvailable: true, IsReserved: true, TimeLeft: null.IntFrom(30), Rate: 5},
		{ID: "L1-B1", Level: "Level 1", Section: "B", IsAvailable: true, Rate: 6},
		{ID: "L1-C1", Level: "Level 1", Section: "C", IsAvailable: true, Rate: 7},
		{ID: "L2-C2", Level: "Level 2", Section: "C", IsAvailable: true, Rate: 7},
		{ID: "L2-C3", Level: "Level 2", Section: "C", IsAvailable: true, Rate: 7},
	}
	h := &flowHarness{
		clock:    clock.NewManual(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		src:      simulation.NewScripted(),
		settings: DefaultSettings(),
	}
	inv := inventory.New(spots, h.src, 0, nil)
	h.flow = NewFlow(h.settings, inv, h.clock, h.src, nil, Hooks{
		OnStep:        func(s models.FlowSnapshot) { h.steps = append(h.steps, s.Step) },
		OnReservation: func(r models.Reservation) { h.handed = append(h.handed, r) },
	})
	return h
}

func validUser() models.UserDetails {
	return models.UserDetails{Name: "Ada", Email: "ada@example.com", VehiclePlate: "ABC-123"}
}

func validCard() models.PaymentDetails {
	return models.PaymentDetails{CardNumber: "4242 4242 4242 4242", NameOnCard: "Ada", Expiry: "12/30", CVV: "123"}
}

func (h *flowHarness) toConfirmation(t *testing.T, spotID string, hours int) {
	t.Helper()
	require.NoError(t, h.flow.SelectSpot(spotID))
	require.NoError(t, h.flow.ConfirmDuration(hours))
	h.src.QueueChance(true)
	h.clock.Advance(h.settings.AvailabilityDelay)
	require.Equal(t, models.StepConfirmation, h.flow.Step())
}

func TestSelectSpotRejectsUnknownAndUnselectable(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.flow.SelectSpot("Z9"), models.ErrSpotNotFound)
	assert.ErrorIs(t, h.flow.SelectSpot("L1-A2"), models.ErrSpotUnavailable)
	assert.ErrorIs(t, h.flow.SelectSpot("L1-A3"), models.ErrSpotUnavailable)
	assert.Equal(t, models.StepIdle, h.flow.Step())
	assert.Empty(t, h.steps)

	require.NoError(t, h.flow.SelectSpot("L1-A1"))
	assert.Equal(t, models.StepDuration, h.flow.Step())
}

func TestEstimateCost(t *testing.T) {
	h := newHarness(t)
	_, err := h.flow.EstimateCost(2)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	require.NoError(t, h.flow.SelectSpot("L1-B1"))
	cost, err := h.flow.EstimateCost(4)
	require.NoError(t, err)
	assert.Equal(t, 24.0, cost)

	_, err = h.flow.EstimateCost(0)
	var de *models.InvalidDurationError
	assert.ErrorAs(t, err, &de)
}

func TestConfirmDurationRejectsShortDuration(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))

	var de *models.InvalidDurationError
	require.ErrorAs(t, h.flow.ConfirmDuration(0), &de)
	assert.Equal(t, 0, de.Hours)
	assert.Equal(t, models.StepDuration, h.flow.Step())
	assert.Equal(t, 0, h.clock.Pending())
}

func TestDurationAboveCapIsRejected(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))

	_, err := h.flow.EstimateCost(25)
	var de *models.InvalidDurationError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 24, de.Max)

	for _, hours := range []int{25, math.MaxInt64/60 + 1, math.MaxInt} {
		assert.ErrorAs(t, h.flow.ConfirmDuration(hours), &de, "hours %d", hours)
	}
	assert.Equal(t, models.StepDuration, h.flow.Step())
	assert.Equal(t, 0, h.clock.Pending())

	require.NoError(t, h.flow.ConfirmDuration(24))
	assert.Equal(t, models.StepChecking, h.flow.Step())
}

func TestAvailabilitySuccessAfterLatency(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))
	require.NoError(t, h.flow.ConfirmDuration(2))
	assert.Equal(t, models.StepChecking, h.flow.Step())

	h.src.QueueChance(true)
	h.clock.Advance(999 * time.Millisecond)
	assert.Equal(t, models.StepChecking, h.flow.Step())
	h.clock.Advance(time.Millisecond)

	snap := h.flow.Snapshot()
	assert.Equal(t, models.StepConfirmation, snap.Step)
	require.NotNil(t, snap.Spot)
	assert.Equal(t, "L1-A1", snap.Spot.ID)
	assert.Equal(t, 2, snap.DurationHours)
	assert.Equal(t, 10.0, snap.EstimatedCost)
}

func TestAvailabilityDeniedOffersAlternatives(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))
	require.NoError(t, h.flow.ConfirmDuration(2))

	h.src.QueueChance(false)
	h.clock.Advance(time.Second)

	snap := h.flow.Snapshot()
	require.Equal(t, models.StepAlternative, snap.Step)
	require.Len(t, snap.Alternatives, 3)
	for _, q := range snap.Alternatives {
		assert.NotEqual(t, "L1-A1", q.Spot.ID)
		assert.True(t, q.Spot.IsSelectable())
		assert.Equal(t, q.Spot.Rate*2, q.Cost)
		assert.Equal(t, 2, q.Duration)
	}
	assert.Equal(t, "L1-B1", snap.Alternatives[0].Spot.ID)
	assert.Equal(t, 12.0, snap.Alternatives[0].Cost)

	assert.ErrorIs(t, h.flow.SelectAlternative("L2-C3"), models.ErrSpotNotFound, "not offered")

	require.NoError(t, h.flow.SelectAlternative("L1-C1"))
	snap = h.flow.Snapshot()
	assert.Equal(t, models.StepConfirmation, snap.Step)
	assert.Equal(t, "L1-C1", snap.Spot.ID)
	assert.Equal(t, 14.0, snap.EstimatedCost)
	assert.Empty(t, snap.Alternatives)
}

func TestModifyDurationCancelsPendingCheck(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))
	require.NoError(t, h.flow.ConfirmDuration(2))

	require.NoError(t, h.flow.ModifyDuration())
	assert.Equal(t, models.StepDuration, h.flow.Step())

	h.clock.Advance(5 * time.Second)
	assert.Equal(t, models.StepDuration, h.flow.Step(), "stale check must not fire")
	assert.Equal(t, 0, h.clock.Pending())
}

func TestReselectDuringCheckCancelsPendingCheck(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))
	require.NoError(t, h.flow.ConfirmDuration(2))
	require.NoError(t, h.flow.SelectSpot("L1-B1"))

	h.clock.Advance(5 * time.Second)
	assert.Equal(t, models.StepDuration, h.flow.Step())
	assert.Equal(t, "L1-B1", h.flow.Snapshot().Spot.ID)
}

func TestSubmitUserInfoValidation(t *testing.T) {
	h := newHarness(t)
	h.toConfirmation(t, "L1-A1", 1)

	cases := []struct {
		name  string
		user  models.UserDetails
		field string
	}{
		{"missing name", models.UserDetails{Email: "a@b.co", VehiclePlate: "X"}, "name"},
		{"blank name", models.UserDetails{Name: "   ", Email: "a@b.co", VehiclePlate: "X"}, "name"},
		{"missing email", models.UserDetails{Name: "A", VehiclePlate: "X"}, "email"},
		{"bad email", models.UserDetails{Name: "A", Email: "a@b", VehiclePlate: "X"}, "email"},
		{"spaced email", models.UserDetails{Name: "A", Email: "a b@c.de", VehiclePlate: "X"}, "email"},
		{"missing plate", models.UserDetails{Name: "A", Email: "a@b.co"}, "vehiclePlate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.flow.SubmitUserInfo(tc.user)
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.True(t, models.IsValidation(err))
			assert.Equal(t, models.StepConfirmation, h.flow.Step())
		})
	}

	require.NoError(t, h.flow.SubmitUserInfo(models.UserDetails{Name: " Ada ", Email: "ada@example.com", VehiclePlate: "ABC"}))
	snap := h.flow.Snapshot()
	assert.Equal(t, models.StepPayment, snap.Step)
	assert.Equal(t, "Ada", snap.UserDetails.Name)
	require.NotNil(t, snap.PaymentSummary)
	assert.Equal(t, 5.0, snap.PaymentSummary.Amount)
	assert.Equal(t, 0.5, snap.PaymentSummary.ProcessingFee)
	assert.Equal(t, 5.5, snap.PaymentSummary.Total)
}

func TestSubmitPaymentValidation(t *testing.T) {
	h := newHarness(t)
	h.toConfirmation(t, "L1-A1", 1)
	require.NoError(t, h.flow.SubmitUserInfo(validUser()))

	card := validCard()
	card.CVV = ""
	var ve *models.ValidationError
	require.ErrorAs(t, h.flow.SubmitPayment(card), &ve)
	assert.Equal(t, "cvv", ve.Field)
	assert.Equal(t, models.StepPayment, h.flow.Step())
}

func TestFullFlowProducesReservation(t *testing.T) {
	h := newHarness(t)
	h.toConfirmation(t, "L1-B1", 3)
	require.NoError(t, h.flow.SubmitUserInfo(validUser()))
	require.NoError(t, h.flow.SubmitPayment(validCard()))
	assert.Equal(t, models.StepProcessing, h.flow.Step())

	h.clock.Advance(h.settings.PaymentDelay)
	snap := h.flow.Snapshot()
	require.Equal(t, models.StepComplete, snap.Step)
	require.NotNil(t, snap.Reservation)

	res := *snap.Reservation
	assert.Equal(t, "L1-B1", res.SpotID)
	assert.Equal(t, 3, res.Duration)
	assert.Equal(t, 18.0, res.Cost)
	assert.Equal(t, 18.5, res.TotalCharged)
	assert.Equal(t, 0.5, res.ProcessingFee)
	assert.Equal(t, "ada@example.com", res.UserDetails.Email)
	assert.Regexp(t, regexp.MustCompile(`^PKG[0-9A-Z]{9}$`), res.ConfirmationNumber)
	assert.Empty(t, h.handed)

	assert.ErrorIs(t, h.flow.Cancel(), models.ErrInvalidTransition)

	h.clock.Advance(h.settings.HandoffDelay)
	assert.Equal(t, models.StepHandedOff, h.flow.Step())
	require.Len(t, h.handed, 1)
	assert.Equal(t, res, h.handed[0])

	assert.Equal(t, []models.FlowStep{
		models.StepDuration, models.StepChecking, models.StepConfirmation,
		models.StepPayment, models.StepProcessing, models.StepComplete, models.StepHandedOff,
	}, h.steps)
}

func TestWrongStepIntentsAreRejected(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.flow.ConfirmDuration(1), models.ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.ModifyDuration(), models.ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.SelectAlternative("L1-B1"), models.ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.SubmitUserInfo(validUser()), models.ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.SubmitPayment(validCard()), models.ErrInvalidTransition)

	h.toConfirmation(t, "L1-A1", 1)
	require.NoError(t, h.flow.SubmitUserInfo(validUser()))
	require.NoError(t, h.flow.SubmitPayment(validCard()))
	assert.ErrorIs(t, h.flow.SelectSpot("L1-B1"), models.ErrInvalidTransition)
}

func TestCancelReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.flow.SelectSpot("L1-A1"))
	require.NoError(t, h.flow.ConfirmDuration(1))

	require.NoError(t, h.flow.Cancel())
	snap := h.flow.Snapshot()
	assert.Equal(t, models.StepIdle, snap.Step)
	assert.Nil(t, snap.Spot)

	h.clock.Advance(time.Minute)
	assert.Equal(t, models.StepIdle, h.flow.Step())
}

func TestConfirmationNumberFormat(t *testing.T) {
	src := simulation.NewScripted().QueueInt(0, 9, 10, 35, 1, 2, 3, 4, 5)
	assert.Equal(t, "PKG09AZ12345", NewConfirmationNumber("PKG", src))

	rnd := simulation.NewRandSource(1)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^PKG[0-9A-Z]{9}$`, NewConfirmationNumber("PKG", rnd))
	}
}

func TestValidatorRegistersEmailRule(t *testing.T) {
	var v interface{ Struct(interface{}) error }
	require.NotPanics(t, func() { v = newValidator() })

	err := toValidationError(v.Struct(models.UserDetails{Name: "Ada", Email: "ada@", VehiclePlate: "X"}))
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
	assert.NoError(t, v.Struct(validUser()))
}
