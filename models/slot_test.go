package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStationSlotGrid(t *testing.T) {
	s := Station{OpenMinute: 540, CloseMinute: 720, SlotMinutes: 60}
	assert.Equal(t, [][2]int{{540, 600}, {600, 660}, {660, 720}}, s.SlotGrid())

	// A window that doesn't divide evenly drops the trailing remainder.
	s = Station{OpenMinute: 540, CloseMinute: 710, SlotMinutes: 60}
	assert.Equal(t, [][2]int{{540, 600}, {600, 660}}, s.SlotGrid())

	s = Station{OpenMinute: 600, CloseMinute: 540, SlotMinutes: 60}
	assert.Nil(t, s.SlotGrid())
	s = Station{OpenMinute: 540, CloseMinute: 720}
	assert.Nil(t, s.SlotGrid())
}

func TestSlotBlockLive(t *testing.T) {
	now := time.Date(2030, 5, 20, 8, 0, 0, 0, time.UTC)

	b := SlotBlock{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, b.Live(now))

	b.IsConfirmed = true
	assert.False(t, b.Live(now))

	b = SlotBlock{ExpiresAt: now}
	assert.False(t, b.Live(now), "expiry instant itself is dead")
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.True(t, PaymentSuccess.Terminal())
	assert.True(t, PaymentFailed.Terminal())
	assert.True(t, PaymentUnknown.Terminal())
}

func TestBookingStatusOccupying(t *testing.T) {
	assert.True(t, BookingConfirmed.Occupying())
	assert.True(t, BookingInProgress.Occupying())
	assert.True(t, BookingCompleted.Occupying())
	assert.False(t, BookingCancelled.Occupying())
	assert.False(t, BookingNoShow.Occupying())
}
