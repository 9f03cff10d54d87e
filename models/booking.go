package models

import "time"

// BookingStatus is the lifecycle stage of a confirmed booking. The
// reservation engine only ever creates "confirmed" records; the later
// stages belong to front-desk flows.
type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no-show"
)

// Occupying reports whether the status still ties up its slot tuple.
// A cancelled or no-show booking frees the slot for rebooking.
func (s BookingStatus) Occupying() bool {
	return s == BookingConfirmed || s == BookingInProgress || s == BookingCompleted
}

// Booking represents a durable booking record, materialized exactly once
// from a confirmed SlotBlock.
type Booking struct {
	ID          string        `bson:"id" json:"id"`
	StationID   string        `bson:"stationId" json:"stationId"`
	CustomerID  string        `bson:"customerId" json:"customerId"`
	BookingDate string        `bson:"bookingDate" json:"bookingDate"` // "2006-01-02"
	StartMinute int           `bson:"startMinute" json:"startMinute"`
	EndMinute   int           `bson:"endMinute" json:"endMinute"`
	Amount      float64       `bson:"amount" json:"amount"`
	Status      BookingStatus `bson:"status" json:"status"`
	HoldID      string        `bson:"holdId" json:"holdId"` // provenance SlotBlock
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
