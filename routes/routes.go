package routes

import (
	"fastpark/handlers"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterParkingRoutes registers the dashboard and reservation endpoints.
func RegisterParkingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/parking")
	{
		api.GET("/spots", hb.ListSpots)
		api.GET("/stats", hb.Stats)
		api.GET("/snapshot", hb.Snapshot)

		api.POST("/select", hb.SelectSpot)
		api.GET("/estimate", hb.EstimateCost)
		api.POST("/duration", hb.ConfirmDuration)
		api.POST("/duration/modify", hb.ModifyDuration)
		api.POST("/alternative", hb.SelectAlternative)
		api.POST("/user-info", hb.SubmitUserInfo)
		api.POST("/payment", hb.SubmitPayment)
		api.POST("/cancel", hb.CancelReservation)

		api.POST("/arrived", hb.MarkArrived)
		api.POST("/extend", hb.RequestExtension)
		api.POST("/end", hb.EndSession)
		api.POST("/rating", hb.SubmitRating)
		api.POST("/reset", hb.Reset)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterParkingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
