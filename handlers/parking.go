package handlers

import (
	"context"
	"net/http"
	"strconv"

	"fastpark/models"
	"fastpark/services/parking"
	"fastpark/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Runner executes fn on the parking service's logical thread.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// ParkingHandler translates HTTP requests into parking intents and answers
// with the resulting snapshot.
type ParkingHandler struct {
	Service parking.ParkingService
	Runner  Runner
}

func NewParkingHandler(svc parking.ParkingService, runner Runner) *ParkingHandler {
	return &ParkingHandler{Service: svc, Runner: runner}
}

type spotRequest struct {
	SpotID string `json:"spotId" binding:"required"`
}

type hoursRequest struct {
	Hours int `json:"hours"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// intent runs fn and replies with the snapshot taken right after it.
func (h *ParkingHandler) intent(c *gin.Context, name string, fn func() error) {
	var (
		err  error
		snap models.ParkingSnapshot
	)
	if doErr := h.Runner.Do(c.Request.Context(), func() {
		if err = fn(); err == nil {
			snap = h.Service.Snapshot()
		}
	}); doErr != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Parking service unavailable", doErr.Error())
		return
	}
	if err != nil {
		getLogger(c).Debug("Parking intent rejected", zap.String("intent", name), zap.Error(err))
		utils.ParkingError(c, err)
		return
	}
	getLogger(c).Info("Parking intent applied", zap.String("intent", name), zap.String("step", string(snap.Flow.Step)))
	c.JSON(http.StatusOK, snap)
}

// read runs fn for a query that cannot fail.
func (h *ParkingHandler) read(c *gin.Context, fn func() interface{}) {
	var out interface{}
	if err := h.Runner.Do(c.Request.Context(), func() { out = fn() }); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Parking service unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, out)
}

func bindOrReject(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

// --- Inventory ---

func (h *ParkingHandler) ListSpots(c *gin.Context) {
	h.read(c, func() interface{} {
		return gin.H{"spots": h.Service.ListSpots()}
	})
}

func (h *ParkingHandler) Stats(c *gin.Context) {
	h.read(c, func() interface{} { return h.Service.Stats() })
}

func (h *ParkingHandler) Snapshot(c *gin.Context) {
	h.read(c, func() interface{} { return h.Service.Snapshot() })
}

// --- Reservation flow ---

func (h *ParkingHandler) SelectSpot(c *gin.Context) {
	var req spotRequest
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "select", func() error { return h.Service.SelectSpot(req.SpotID) })
}

func (h *ParkingHandler) EstimateCost(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "1"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid hours", err.Error())
		return
	}
	var (
		cost   float64
		estErr error
	)
	if doErr := h.Runner.Do(c.Request.Context(), func() {
		cost, estErr = h.Service.EstimateCost(hours)
	}); doErr != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Parking service unavailable", doErr.Error())
		return
	}
	if estErr != nil {
		utils.ParkingError(c, estErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hours": hours, "estimatedCost": cost})
}

func (h *ParkingHandler) ConfirmDuration(c *gin.Context) {
	var req hoursRequest
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "duration", func() error { return h.Service.ConfirmDuration(req.Hours) })
}

func (h *ParkingHandler) ModifyDuration(c *gin.Context) {
	h.intent(c, "duration.modify", h.Service.ModifyDuration)
}

func (h *ParkingHandler) SelectAlternative(c *gin.Context) {
	var req spotRequest
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "alternative", func() error { return h.Service.SelectAlternative(req.SpotID) })
}

func (h *ParkingHandler) SubmitUserInfo(c *gin.Context) {
	var req models.UserDetails
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "user-info", func() error { return h.Service.SubmitUserInfo(req) })
}

func (h *ParkingHandler) SubmitPayment(c *gin.Context) {
	var req models.PaymentDetails
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "payment", func() error { return h.Service.SubmitPayment(req) })
}

func (h *ParkingHandler) CancelReservation(c *gin.Context) {
	h.intent(c, "cancel", h.Service.CancelReservation)
}

// --- Session ---

func (h *ParkingHandler) MarkArrived(c *gin.Context) {
	h.intent(c, "arrived", h.Service.MarkArrived)
}

func (h *ParkingHandler) RequestExtension(c *gin.Context) {
	var req hoursRequest
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "extend", func() error { return h.Service.RequestExtension(req.Hours) })
}

func (h *ParkingHandler) EndSession(c *gin.Context) {
	h.intent(c, "end", func() error {
		_, err := h.Service.EndSession()
		return err
	})
}

func (h *ParkingHandler) SubmitRating(c *gin.Context) {
	var req ratingRequest
	if !bindOrReject(c, &req) {
		return
	}
	h.intent(c, "rating", func() error {
		_, err := h.Service.SubmitRating(req.Rating)
		return err
	})
}

func (h *ParkingHandler) Reset(c *gin.Context) {
	h.intent(c, "reset", func() error {
		h.Service.Reset()
		return nil
	})
}
