package models

import "time"

// PaymentStatus tracks a transaction against the external gateway.
// Transitions are monotonic: PENDING may move to exactly one of
// SUCCESS, FAILED or UNKNOWN, and the terminal states never change.
// UNKNOWN means reconciliation was abandoned after repeated polls, not
// a gateway-reported outcome.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentUnknown PaymentStatus = "UNKNOWN"
)

// Terminal reports whether the status can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed || s == PaymentUnknown
}

// PaymentTransaction is the local record of one gateway transaction.
// TransactionID is caller-supplied and globally unique (the idempotency
// key for retried initiations). Rows are never deleted; they are the
// audit trail for reconciliation.
type PaymentTransaction struct {
	TransactionID string        `bson:"transactionId" json:"transactionId"`
	HoldID        string        `bson:"holdId" json:"holdId"`
	Amount        float64       `bson:"amount" json:"amount"`
	CustomerPhone string        `bson:"customerPhone" json:"customerPhone"`
	Status        PaymentStatus `bson:"status" json:"status"`
	// Unfulfillable marks a payment that succeeded after its hold had
	// already expired or been reaped. The money was taken but no booking
	// exists; the refund workflow consumes this flag.
	Unfulfillable bool      `bson:"unfulfillable,omitempty" json:"unfulfillable,omitempty"`
	PollAttempts  int       `bson:"pollAttempts" json:"pollAttempts"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
