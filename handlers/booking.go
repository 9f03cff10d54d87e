package handlers

import (
	"net/http"
	"time"

	bookingRepo "stationbook/database/repository/booking"
	"stationbook/services/booking"
	"stationbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the hold lifecycle and availability reads.
type BookingHandler struct {
	Availability booking.AvailabilityService
	Holds        booking.HoldService
	Reaper       booking.ReaperService
	Bookings     bookingRepo.BookingRepository
	Logger       *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(
	availability booking.AvailabilityService,
	holds booking.HoldService,
	reaper booking.ReaperService,
	bookings bookingRepo.BookingRepository,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		Availability: availability,
		Holds:        holds,
		Reaper:       reaper,
		Bookings:     bookings,
		Logger:       logger,
	}
}

// GetSlots returns the availability grid for a station/date.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	stationID := c.Query("station")
	date := c.Query("date")
	if stationID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, "station and date query params are required")
		return
	}

	slots, err := h.Availability.GetDaySlots(c.Request.Context(), stationID, date)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "station": stationID, "date": date, "slots": slots})
}

type createHoldInput struct {
	StationID string `json:"stationId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// CreateHold claims a slot for the configured TTL.
func (h *BookingHandler) CreateHold(c *gin.Context) {
	var input createHoldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, "invalid input: "+err.Error())
		return
	}

	startMinute, err := utils.ClockToMinute(input.StartTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, err.Error())
		return
	}
	endMinute, err := utils.ClockToMinute(input.EndTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, err.Error())
		return
	}

	block, err := h.Holds.CreateHold(c.Request.Context(), booking.CreateHoldRequest{
		StationID:   input.StationID,
		Date:        input.Date,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":        true,
		"holdId":    block.ID,
		"expiresAt": block.ExpiresAt.Format(time.RFC3339),
	})
}

// ReleaseHold frees an unconfirmed hold.
func (h *BookingHandler) ReleaseHold(c *gin.Context) {
	holdID := c.Param("id")
	if err := h.Holds.ReleaseHold(c.Request.Context(), holdID); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListBookings returns the confirmed bookings for a station/date. Read
// surface for dashboards and the front desk; no reservation logic.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	stationID := c.Query("station")
	date := c.Query("date")
	if stationID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, booking.CodeBadRequest, "station and date query params are required")
		return
	}

	bookings, err := h.Bookings.OccupiedForDay(c.Request.Context(), stationID, date)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "bookings": bookings})
}

// Cleanup triggers one reaper sweep and reports the number of holds
// removed.
func (h *BookingHandler) Cleanup(c *gin.Context) {
	count, err := h.Reaper.ReapExpired(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted_count": count})
}
