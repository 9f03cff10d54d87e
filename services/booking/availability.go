package booking

import (
	"context"
	"encoding/json"

	bookingRepo "stationbook/database/repository/booking"
	slotRepo "stationbook/database/repository/slot"
	stationRepo "stationbook/database/repository/station"
	"stationbook/models"
	"stationbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// AvailabilityService computes free time slots for a station/date by
// subtracting confirmed bookings and live holds from the station's slot
// grid. Read-only.
type AvailabilityService interface {
	GetDaySlots(ctx context.Context, stationID, date string) ([]models.SlotDescriptor, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Stations stationRepo.StationRepository
	Slots    slotRepo.SlotBlockRepository
	Bookings bookingRepo.BookingRepository
	Cache    *redis.Client // optional; nil disables caching
	Clock    utils.Clock
}

// GetDaySlots returns the ordered slot grid for a station/date with
// occupied slots marked unavailable. When the query date is today,
// slots whose start has already passed are dropped entirely, by server
// time, so a client with a stale clock cannot resurrect them. A slot
// starting this very minute is still offered.
func (s *DefaultAvailabilityService) GetDaySlots(ctx context.Context, stationID, date string) ([]models.SlotDescriptor, error) {
	logger := utils.GetLogger()

	if _, err := utils.ParseBookingDate(date); err != nil {
		return nil, NewBadRequest(err.Error())
	}

	cacheKey := utils.AvailabilityCacheKey(stationID, date)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var slots []models.SlotDescriptor
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				return slots, nil
			}
		}
	}

	station, err := s.Stations.GetByID(ctx, stationID)
	if err != nil {
		if err == stationRepo.ErrStationNotFound {
			return nil, NewNotFound("station not found")
		}
		return nil, err
	}

	now := s.Clock.Now()

	bookings, err := s.Bookings.OccupiedForDay(ctx, stationID, date)
	if err != nil {
		return nil, err
	}
	blocks, err := s.Slots.LiveForDay(ctx, stationID, date, now)
	if err != nil {
		return nil, err
	}

	occupied := make(map[[2]int]bool, len(bookings)+len(blocks))
	for _, b := range bookings {
		occupied[[2]int{b.StartMinute, b.EndMinute}] = true
	}
	for _, blk := range blocks {
		occupied[[2]int{blk.StartMinute, blk.EndMinute}] = true
	}

	isToday := date == now.Format(utils.DateLayout)
	nowMinute := now.Hour()*60 + now.Minute()

	var slots []models.SlotDescriptor
	for _, window := range station.SlotGrid() {
		start, end := window[0], window[1]
		if isToday && start < nowMinute {
			continue
		}
		slots = append(slots, models.SlotDescriptor{
			StartMinute: start,
			EndMinute:   end,
			StartTime:   utils.MinuteToClock(start),
			EndTime:     utils.MinuteToClock(end),
			Available:   !occupied[[2]int{start, end}],
		})
	}

	if s.Cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, utils.AvailabilityCacheTTL).Err(); err != nil {
				logger.Warn("failed to cache availability", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return slots, nil
}
