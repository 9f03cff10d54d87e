package slotRepo

import (
	"context"
	"errors"
	"time"

	"stationbook/models"
)

// ErrDuplicateSlot is returned by Insert when a live block already
// guards the same (station, date, start, end) tuple.
var ErrDuplicateSlot = errors.New("slot already held")

// ErrBlockNotFound is returned when no block matches the given id.
var ErrBlockNotFound = errors.New("slot block not found")

// SlotBlockRepository persists temporary holds. Every mutation is a
// single conditional write; callers learn the outcome from the return
// value, never from a prior read.
type SlotBlockRepository interface {
	// Insert stores a new unconfirmed block. The unique index on the
	// slot tuple makes concurrent inserts for the same slot lose with
	// ErrDuplicateSlot.
	Insert(ctx context.Context, block *models.SlotBlock) error

	GetByID(ctx context.Context, blockID string) (*models.SlotBlock, error)

	// LiveForDay returns unconfirmed blocks for a station/date whose
	// expiry is still in the future.
	LiveForDay(ctx context.Context, stationID, date string, now time.Time) ([]models.SlotBlock, error)

	// Confirm flips is_confirmed on the block only if it is still
	// unconfirmed and unexpired at the given instant. Returns false when
	// the block is missing, expired or already confirmed. That is the
	// cue for the unfulfillable branch.
	Confirm(ctx context.Context, blockID string, now time.Time) (bool, error)

	// DeleteUnconfirmed removes the block only while it is unconfirmed.
	// Returns false if nothing was deleted.
	DeleteUnconfirmed(ctx context.Context, blockID string) (bool, error)

	// PurgeExpiredForSlot clears dead blocks for one slot tuple so a
	// fresh insert can pass the unique index.
	PurgeExpiredForSlot(ctx context.Context, stationID, date string, startMinute, endMinute int, now time.Time) error

	// ReapExpired deletes every unconfirmed block whose expiry has
	// passed and returns the count removed.
	ReapExpired(ctx context.Context, now time.Time) (int64, error)
}
