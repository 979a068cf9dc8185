package handlers

import (
	"net/http"

	"fastpark/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and, when the snapshot cache is enabled,
// the last redis check.
func HealthHandler(cacheEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "message": "Hi, I'm " + utils.ServiceName}
		if cacheEnabled {
			health := utils.GetHealthStatus()
			body["redis"] = health.Redis
			body["checkedAt"] = health.CheckedAt
			for _, ok := range health.Redis {
				if !ok {
					body["status"] = "degraded"
				}
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
