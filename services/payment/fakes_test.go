package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "stationbook/database/repository/booking"
	paymentRepo "stationbook/database/repository/payment"
	slotRepo "stationbook/database/repository/slot"
	"stationbook/models"
)

// In-memory repositories mirroring the Mongo implementations' conditional
// write semantics.

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
	// insertErr, when set, fails the next Insert once. Simulates a
	// transient storage outage during materialization.
	insertErr error
	// beforeInsert, when set, runs once just before the next Insert.
	// Lets tests interleave a racing writer at the worst moment.
	beforeInsert func()
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *memBookingRepo) Insert(_ context.Context, booking *models.Booking) error {
	if hook := r.takeBeforeInsert(); hook != nil {
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		err := r.insertErr
		r.insertErr = nil
		return err
	}
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

func (r *memBookingRepo) takeBeforeInsert() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	hook := r.beforeInsert
	r.beforeInsert = nil
	return hook
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

func (r *memBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type memPaymentRepo struct {
	mu   sync.Mutex
	txns map[string]models.PaymentTransaction
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{txns: make(map[string]models.PaymentTransaction)}
}

func (r *memPaymentRepo) Insert(_ context.Context, txn *models.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txns[txn.TransactionID]; ok {
		return paymentRepo.ErrDuplicateTransaction
	}
	r.txns[txn.TransactionID] = *txn
	return nil
}

func (r *memPaymentRepo) GetByTransactionID(_ context.Context, id string) (*models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, paymentRepo.ErrTransactionNotFound
	}
	return &t, nil
}

func (r *memPaymentRepo) MarkTerminal(_ context.Context, id string, status models.PaymentStatus, unfulfillable bool, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok || t.Status != models.PaymentPending {
		return false, nil
	}
	t.Status = status
	t.Unfulfillable = unfulfillable
	t.UpdatedAt = now
	r.txns[id] = t
	return true, nil
}

func (r *memPaymentRepo) IncrementPollAttempts(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[id]
	if !ok {
		return 0, paymentRepo.ErrTransactionNotFound
	}
	t.PollAttempts++
	r.txns[id] = t
	return t.PollAttempts, nil
}

// fakeGateway scripts gateway responses and counts calls.
type fakeGateway struct {
	mu          sync.Mutex
	redirectURL string
	createErr   error
	state       string
	statusErr   error

	createCalls int
	statusCalls int
}

func (g *fakeGateway) CreatePayment(_ context.Context, _ GatewayPaymentRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.createErr != nil {
		return "", g.createErr
	}
	return g.redirectURL, nil
}

func (g *fakeGateway) FetchStatus(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	if g.statusErr != nil {
		return "", g.statusErr
	}
	return g.state, nil
}

// recordingEvents captures every notification for assertions.
type recordingEvents struct {
	mu            sync.Mutex
	confirmed     []models.Booking
	failed        []models.PaymentTransaction
	unfulfillable []models.PaymentTransaction
}

func (e *recordingEvents) BookingConfirmed(_ context.Context, b models.Booking) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmed = append(e.confirmed, b)
}

func (e *recordingEvents) PaymentFailed(_ context.Context, t models.PaymentTransaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = append(e.failed, t)
}

func (e *recordingEvents) PaymentUnfulfillable(_ context.Context, t models.PaymentTransaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unfulfillable = append(e.unfulfillable, t)
}

var errGatewayDown = errors.New("gateway unreachable")
