package routes

import (
	"net/http"

	"stationbook/handlers"
	"stationbook/utils"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers availability, hold and cleanup endpoints.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	bookings := r.Group("/bookings")
	{
		bookings.GET("", bh.ListBookings)
		bookings.GET("/slots", bh.GetSlots)
		bookings.POST("/hold", bh.CreateHold)
		bookings.DELETE("/hold/:id", bh.ReleaseHold)
		bookings.POST("/cleanup", bh.Cleanup)
	}
}

// RegisterPaymentRoutes registers the gateway integration endpoints.
func RegisterPaymentRoutes(r *gin.Engine, ph *handlers.PaymentHandler) {
	payments := r.Group("/payments")
	{
		payments.POST("/initiate", ph.Initiate)
		payments.GET("/status", ph.Status)
		payments.POST("/webhook", ph.Webhook)
		payments.GET("/return", ph.Return)
	}
}

// RegisterStationRoutes registers the station catalogue endpoint.
func RegisterStationRoutes(r *gin.Engine, sh *handlers.StationHandler) {
	r.GET("/stations", sh.ListStations)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}
