package paymentRepo

import (
	"context"
	"errors"
	"time"

	"stationbook/models"
)

// ErrDuplicateTransaction is returned when the merchant transaction id
// is already taken (retried initiations hit this on purpose).
var ErrDuplicateTransaction = errors.New("transaction already exists")

// ErrTransactionNotFound is returned when no transaction matches the id.
var ErrTransactionNotFound = errors.New("transaction not found")

// PaymentRepository persists gateway transactions. Rows are never
// deleted; terminal states are reached through one conditional update.
type PaymentRepository interface {
	Insert(ctx context.Context, txn *models.PaymentTransaction) error
	GetByTransactionID(ctx context.Context, txnID string) (*models.PaymentTransaction, error)

	// MarkTerminal moves a PENDING transaction into the given terminal
	// status in one conditional write. Returns false when the
	// transaction was already terminal; duplicate webhooks and racing
	// polls land here and no-op.
	MarkTerminal(ctx context.Context, txnID string, status models.PaymentStatus, unfulfillable bool, now time.Time) (bool, error)

	// IncrementPollAttempts bumps the failed-poll counter and returns
	// the new value.
	IncrementPollAttempts(ctx context.Context, txnID string) (int, error)
}
