package handlers

import (
	"net/http"

	stationRepo "stationbook/database/repository/station"

	"github.com/gin-gonic/gin"
)

// StationHandler exposes the read-only station catalogue.
type StationHandler struct {
	Stations stationRepo.StationRepository
}

// NewStationHandler constructs a StationHandler.
func NewStationHandler(stations stationRepo.StationRepository) *StationHandler {
	return &StationHandler{Stations: stations}
}

// ListStations returns all stations open for booking.
func (h *StationHandler) ListStations(c *gin.Context) {
	stations, err := h.Stations.ListActive(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stations": stations})
}
