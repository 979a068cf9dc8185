package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fastpark/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func stub(name string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, name) }
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hb := &handlers.HandlerBundle{
		ListSpots: stub("spots"), Stats: stub("stats"), Snapshot: stub("snapshot"),
		SelectSpot: stub("select"), EstimateCost: stub("estimate"),
		ConfirmDuration: stub("duration"), ModifyDuration: stub("modify"),
		SelectAlternative: stub("alternative"), SubmitUserInfo: stub("user-info"),
		SubmitPayment: stub("payment"), CancelReservation: stub("cancel"),
		MarkArrived: stub("arrived"), RequestExtension: stub("extend"),
		EndSession: stub("end"), SubmitRating: stub("rating"), Reset: stub("reset"),
		Health: stub("health"),
	}
	r := gin.New()
	RegisterRoutes(r, hb)

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/parking/spots", "spots"},
		{http.MethodGet, "/api/parking/stats", "stats"},
		{http.MethodGet, "/api/parking/snapshot", "snapshot"},
		{http.MethodPost, "/api/parking/select", "select"},
		{http.MethodGet, "/api/parking/estimate", "estimate"},
		{http.MethodPost, "/api/parking/duration", "duration"},
		{http.MethodPost, "/api/parking/duration/modify", "modify"},
		{http.MethodPost, "/api/parking/alternative", "alternative"},
		{http.MethodPost, "/api/parking/user-info", "user-info"},
		{http.MethodPost, "/api/parking/payment", "payment"},
		{http.MethodPost, "/api/parking/cancel", "cancel"},
		{http.MethodPost, "/api/parking/arrived", "arrived"},
		{http.MethodPost, "/api/parking/extend", "extend"},
		{http.MethodPost, "/api/parking/end", "end"},
		{http.MethodPost, "/api/parking/rating", "rating"},
		{http.MethodPost, "/api/parking/reset", "reset"},
		{http.MethodGet, "/health", "health"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, &handlers.HandlerBundle{Health: stub("health")})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
