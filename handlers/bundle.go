// File: fastpark/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Inventory endpoints
	ListSpots gin.HandlerFunc
	Stats     gin.HandlerFunc
	Snapshot  gin.HandlerFunc

	// Reservation endpoints
	SelectSpot        gin.HandlerFunc
	EstimateCost      gin.HandlerFunc
	ConfirmDuration   gin.HandlerFunc
	ModifyDuration    gin.HandlerFunc
	SelectAlternative gin.HandlerFunc
	SubmitUserInfo    gin.HandlerFunc
	SubmitPayment     gin.HandlerFunc
	CancelReservation gin.HandlerFunc

	// Session endpoints
	MarkArrived      gin.HandlerFunc
	RequestExtension gin.HandlerFunc
	EndSession       gin.HandlerFunc
	SubmitRating     gin.HandlerFunc
	Reset            gin.HandlerFunc

	// Health
	Health gin.HandlerFunc
}

// NewHandlerBundle assembles a bundle from the parking handler.
func NewHandlerBundle(ph *ParkingHandler, health gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		ListSpots: ph.ListSpots,
		Stats:     ph.Stats,
		Snapshot:  ph.Snapshot,

		SelectSpot:        ph.SelectSpot,
		EstimateCost:      ph.EstimateCost,
		ConfirmDuration:   ph.ConfirmDuration,
		ModifyDuration:    ph.ModifyDuration,
		SelectAlternative: ph.SelectAlternative,
		SubmitUserInfo:    ph.SubmitUserInfo,
		SubmitPayment:     ph.SubmitPayment,
		CancelReservation: ph.CancelReservation,

		MarkArrived:      ph.MarkArrived,
		RequestExtension: ph.RequestExtension,
		EndSession:       ph.EndSession,
		SubmitRating:     ph.SubmitRating,
		Reset:            ph.Reset,

		Health: health,
	}
}
