package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "stationbook/database/repository/booking"
	slotRepo "stationbook/database/repository/slot"
	stationRepo "stationbook/database/repository/station"
	"stationbook/models"
)

// In-memory repositories mirroring the Mongo implementations' conditional
// write semantics, including the partial unique indexes.

type memStationRepo struct {
	stations map[string]models.Station
}

func (r *memStationRepo) GetByID(_ context.Context, id string) (*models.Station, error) {
	s, ok := r.stations[id]
	if !ok {
		return nil, stationRepo.ErrStationNotFound
	}
	return &s, nil
}

func (r *memStationRepo) ListActive(_ context.Context) ([]models.Station, error) {
	var out []models.Station
	for _, s := range r.stations {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

type memSlotRepo struct {
	mu     sync.Mutex
	blocks map[string]models.SlotBlock
}

func newMemSlotRepo() *memSlotRepo {
	return &memSlotRepo{blocks: make(map[string]models.SlotBlock)}
}

func (r *memSlotRepo) Insert(_ context.Context, block *models.SlotBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Unique index over the slot tuple covers every unconfirmed block,
	// expired leftovers included; that is why callers purge first.
	for _, b := range r.blocks {
		if !b.IsConfirmed &&
			b.StationID == block.StationID && b.BookingDate == block.BookingDate &&
			b.StartMinute == block.StartMinute && b.EndMinute == block.EndMinute {
			return slotRepo.ErrDuplicateSlot
		}
	}
	r.blocks[block.ID] = *block
	return nil
}

func (r *memSlotRepo) GetByID(_ context.Context, id string) (*models.SlotBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok {
		return nil, slotRepo.ErrBlockNotFound
	}
	return &b, nil
}

func (r *memSlotRepo) LiveForDay(_ context.Context, stationID, date string, now time.Time) ([]models.SlotBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SlotBlock
	for _, b := range r.blocks {
		if b.StationID == stationID && b.BookingDate == date && b.Live(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memSlotRepo) Confirm(_ context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok || b.IsConfirmed || !b.ExpiresAt.After(now) {
		return false, nil
	}
	b.IsConfirmed = true
	r.blocks[id] = b
	return true, nil
}

func (r *memSlotRepo) DeleteUnconfirmed(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok || b.IsConfirmed {
		return false, nil
	}
	delete(r.blocks, id)
	return true, nil
}

func (r *memSlotRepo) PurgeExpiredForSlot(_ context.Context, stationID, date string, startMinute, endMinute int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.blocks {
		if !b.IsConfirmed && b.StationID == stationID && b.BookingDate == date &&
			b.StartMinute == startMinute && b.EndMinute == endMinute &&
			!b.ExpiresAt.After(now) {
			delete(r.blocks, id)
		}
	}
	return nil
}

func (r *memSlotRepo) ReapExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, b := range r.blocks {
		if !b.IsConfirmed && !b.ExpiresAt.After(now) {
			delete(r.blocks, id)
			count++
		}
	}
	return count, nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *memBookingRepo) Insert(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.Status.Occupying() &&
			b.StationID == booking.StationID && b.BookingDate == booking.BookingDate &&
			b.StartMinute == booking.StartMinute && b.EndMinute == booking.EndMinute {
			return bookingRepo.ErrDuplicateBooking
		}
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *memBookingRepo) GetByHoldID(_ context.Context, holdID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.HoldID == holdID {
			out := b
			return &out, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *memBookingRepo) OccupiedForDay(_ context.Context, stationID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.StationID == stationID && b.BookingDate == date && b.Status.Occupying() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ExistsForSlot(_ context.Context, stationID, date string, startMinute, endMinute int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.Status.Occupying() && b.StationID == stationID && b.BookingDate == date &&
			b.StartMinute == startMinute && b.EndMinute == endMinute {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	r.bookings[id] = b
	return nil
}
