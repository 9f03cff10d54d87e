package bookingRepo

import (
	"context"
	"errors"

	"stationbook/models"
)

// ErrDuplicateBooking is returned when a booking already occupies the
// slot tuple.
var ErrDuplicateBooking = errors.New("booking already exists for slot")

// ErrBookingNotFound is returned when no booking matches the given id.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository persists durable bookings materialized from
// confirmed slot blocks.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetByHoldID finds the booking materialized from a given slot
	// block, if any. Reconciliation retries use this to stay idempotent.
	GetByHoldID(ctx context.Context, holdID string) (*models.Booking, error)
	// OccupiedForDay returns bookings for a station/date whose status
	// still ties up the slot (cancelled and no-show excluded).
	OccupiedForDay(ctx context.Context, stationID, date string) ([]models.Booking, error)
	// ExistsForSlot reports whether an occupying booking holds the exact
	// slot tuple.
	ExistsForSlot(ctx context.Context, stationID, date string, startMinute, endMinute int) (bool, error)
	// UpdateStatus moves a booking along its lifecycle (front-desk flow).
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
}
