package stationRepo

import (
	"context"

	"stationbook/models"
)

// StationRepository provides read access to the station catalogue. The
// reservation engine never mutates stations.
type StationRepository interface {
	GetByID(ctx context.Context, stationID string) (*models.Station, error)
	ListActive(ctx context.Context) ([]models.Station, error)
}
