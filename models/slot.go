package models

import "time"

// SlotBlock is a temporary, exclusive claim on a station/time-slot while
// payment is in flight. A live block (unconfirmed, not yet expired)
// keeps the slot out of availability; a confirmed block is the
// provenance of exactly one Booking and is never deleted by the reaper.
type SlotBlock struct {
	ID          string    `bson:"id" json:"id"`
	StationID   string    `bson:"stationId" json:"stationId"`
	BookingDate string    `bson:"bookingDate" json:"bookingDate"` // "2006-01-02"
	StartMinute int       `bson:"startMinute" json:"startMinute"` // minutes from midnight
	EndMinute   int       `bson:"endMinute" json:"endMinute"`
	ExpiresAt   time.Time `bson:"expiresAt" json:"expiresAt"`
	IsConfirmed bool      `bson:"isConfirmed" json:"isConfirmed"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Live reports whether the block still guards its slot at the given
// instant: not yet confirmed and not yet expired.
func (b *SlotBlock) Live(now time.Time) bool {
	return !b.IsConfirmed && b.ExpiresAt.After(now)
}

// SlotDescriptor is one entry of the availability grid returned for a
// station/date query.
type SlotDescriptor struct {
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	StartTime   string `json:"startTime"` // "15:04" rendering of StartMinute
	EndTime     string `json:"endTime"`
	Available   bool   `json:"available"`
}
