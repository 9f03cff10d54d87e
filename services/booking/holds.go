package booking

import (
	"context"
	"time"

	"stationbook/config"
	bookingRepo "stationbook/database/repository/booking"
	slotRepo "stationbook/database/repository/slot"
	stationRepo "stationbook/database/repository/station"
	"stationbook/models"
	"stationbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldService creates and releases temporary, exclusive holds on a
// station/time-slot.
type HoldService interface {
	CreateHold(ctx context.Context, req CreateHoldRequest) (*models.SlotBlock, error)
	ReleaseHold(ctx context.Context, holdID string) error
}

// CreateHoldRequest describes the slot tuple to claim. TTL of zero
// falls back to the configured hold lifetime.
type CreateHoldRequest struct {
	StationID   string
	Date        string
	StartMinute int
	EndMinute   int
	TTL         time.Duration
}

// DefaultHoldService is the production implementation.
type DefaultHoldService struct {
	Stations stationRepo.StationRepository
	Slots    slotRepo.SlotBlockRepository
	Bookings bookingRepo.BookingRepository
	Cache    *redis.Client // optional
	Clock    utils.Clock
}

// CreateHold claims the slot tuple. The conflict check and the insert
// collapse into one atomic step: expired leftovers are purged first,
// then the insert either passes the partial unique index or loses to a
// concurrent live hold. Under N concurrent calls for the same tuple
// exactly one insert lands.
func (s *DefaultHoldService) CreateHold(ctx context.Context, req CreateHoldRequest) (*models.SlotBlock, error) {
	logger := utils.GetLogger()
	now := s.Clock.Now()

	day, err := utils.ParseBookingDate(req.Date)
	if err != nil {
		return nil, NewBadRequest(err.Error())
	}
	if req.EndMinute <= req.StartMinute {
		return nil, NewBadRequest("slot end must be after slot start")
	}

	station, err := s.Stations.GetByID(ctx, req.StationID)
	if err != nil {
		if err == stationRepo.ErrStationNotFound {
			return nil, NewNotFound("station not found")
		}
		return nil, err
	}
	if !station.Active {
		return nil, NewInvalidState("station is not accepting bookings")
	}
	if !onGrid(station, req.StartMinute, req.EndMinute) {
		return nil, NewBadRequest("requested slot does not match the station's slot grid")
	}

	// Past slots are rejected by server time only.
	slotStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(req.StartMinute) * time.Minute)
	if slotStart.Before(now) {
		return nil, NewBadRequest("slot start time has already passed")
	}

	booked, err := s.Bookings.ExistsForSlot(ctx, req.StationID, req.Date, req.StartMinute, req.EndMinute)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, NewConflict("slot is already booked")
	}

	// Clear dead blocks so the unique index only sees live contenders.
	if err := s.Slots.PurgeExpiredForSlot(ctx, req.StationID, req.Date, req.StartMinute, req.EndMinute, now); err != nil {
		return nil, err
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = config.HoldTTL()
	}

	block := &models.SlotBlock{
		ID:          uuid.New().String(),
		StationID:   req.StationID,
		BookingDate: req.Date,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		ExpiresAt:   now.Add(ttl),
		IsConfirmed: false,
		CreatedAt:   now,
	}

	if err := s.Slots.Insert(ctx, block); err != nil {
		if err == slotRepo.ErrDuplicateSlot {
			return nil, NewConflict("slot is currently held by another customer")
		}
		return nil, err
	}

	InvalidateAvailability(ctx, s.Cache, req.StationID, req.Date)
	logger.Info("slot hold created",
		zap.String("holdId", block.ID),
		zap.String("stationId", req.StationID),
		zap.String("date", req.Date),
		zap.Int("start", req.StartMinute),
	)
	return block, nil
}

// ReleaseHold deletes an unconfirmed hold. Confirmed holds belong to a
// booking and are released only through booking cancellation. The
// delete itself is conditional on the unconfirmed state, so a confirm
// racing this call cannot lose its block.
func (s *DefaultHoldService) ReleaseHold(ctx context.Context, holdID string) error {
	block, err := s.Slots.GetByID(ctx, holdID)
	if err != nil {
		if err == slotRepo.ErrBlockNotFound {
			return NewNotFound("hold not found")
		}
		return err
	}
	if block.IsConfirmed {
		return NewInvalidState("hold is confirmed; cancel the booking instead")
	}

	deleted, err := s.Slots.DeleteUnconfirmed(ctx, holdID)
	if err != nil {
		return err
	}
	if !deleted {
		// The block changed between read and delete: either the reaper
		// took it or reconciliation confirmed it.
		if current, err := s.Slots.GetByID(ctx, holdID); err == nil && current.IsConfirmed {
			return NewInvalidState("hold is confirmed; cancel the booking instead")
		}
		return NewNotFound("hold not found")
	}

	InvalidateAvailability(ctx, s.Cache, block.StationID, block.BookingDate)
	return nil
}

func onGrid(station *models.Station, startMinute, endMinute int) bool {
	for _, window := range station.SlotGrid() {
		if window[0] == startMinute && window[1] == endMinute {
			return true
		}
	}
	return false
}

// InvalidateAvailability drops the cached grid for a station/date.
// Nil-safe so tests and cache-less deployments can skip Redis.
func InvalidateAvailability(ctx context.Context, cache *redis.Client, stationID, date string) {
	if cache == nil {
		return
	}
	cache.Del(ctx, utils.AvailabilityCacheKey(stationID, date))
}
