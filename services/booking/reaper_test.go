package booking

import (
	"context"
	"testing"
	"time"

	"stationbook/models"
	"stationbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReapExpiredSweepsOnlyDeadHolds(t *testing.T) {
	now := time.Date(2030, 5, 20, 8, 0, 0, 0, time.UTC)
	slots := newMemSlotRepo()
	ctx := context.Background()

	require.NoError(t, slots.Insert(ctx, &models.SlotBlock{
		ID: "dead", StationID: "st-1", BookingDate: "2030-05-20",
		StartMinute: 540, EndMinute: 600, ExpiresAt: now.Add(-time.Second),
	}))
	require.NoError(t, slots.Insert(ctx, &models.SlotBlock{
		ID: "live", StationID: "st-1", BookingDate: "2030-05-20",
		StartMinute: 600, EndMinute: 660, ExpiresAt: now.Add(10 * time.Minute),
	}))
	confirmed := &models.SlotBlock{
		ID: "confirmed", StationID: "st-1", BookingDate: "2030-05-20",
		StartMinute: 660, EndMinute: 720, ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, slots.Insert(ctx, confirmed))
	ok, err := slots.Confirm(ctx, "confirmed", now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	svc := &DefaultReaperService{Slots: slots, Clock: utils.FixedClock{T: now}}
	count, err := svc.ReapExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = slots.GetByID(ctx, "dead")
	assert.Error(t, err)
	_, err = slots.GetByID(ctx, "live")
	assert.NoError(t, err)
	// Confirmed blocks outlive their expiry; they belong to bookings.
	_, err = slots.GetByID(ctx, "confirmed")
	assert.NoError(t, err)
}
