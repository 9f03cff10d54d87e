package notification

import (
	"context"

	"stationbook/models"

	"go.uber.org/zap"
)

// Events is the reconciliation engine's outbound reporting surface. It
// is a constructed dependency passed into the engine, not a global
// dispatcher, so tests can substitute a recorder and deployments
// can plug in push/webhook fan-out.
type Events interface {
	// BookingConfirmed fires once when a paid hold becomes a booking.
	BookingConfirmed(ctx context.Context, booking models.Booking)
	// PaymentFailed fires once when the gateway reports a failure and
	// the hold has been released.
	PaymentFailed(ctx context.Context, txn models.PaymentTransaction)
	// PaymentUnfulfillable fires when a payment succeeded after its hold
	// was lost. This is the refund workflow's trigger; it must never be
	// dropped silently.
	PaymentUnfulfillable(ctx context.Context, txn models.PaymentTransaction)
}

// LogEvents reports every event as a structured log line. The default
// implementation until a downstream consumer is wired in.
type LogEvents struct {
	Logger *zap.Logger
}

func NewLogEvents(logger *zap.Logger) *LogEvents {
	return &LogEvents{Logger: logger}
}

func (e *LogEvents) BookingConfirmed(ctx context.Context, booking models.Booking) {
	e.Logger.Info("booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("stationId", booking.StationID),
		zap.String("date", booking.BookingDate),
		zap.Int("start", booking.StartMinute),
	)
}

func (e *LogEvents) PaymentFailed(ctx context.Context, txn models.PaymentTransaction) {
	e.Logger.Info("payment failed, hold released",
		zap.String("transactionId", txn.TransactionID),
		zap.String("holdId", txn.HoldID),
	)
}

func (e *LogEvents) PaymentUnfulfillable(ctx context.Context, txn models.PaymentTransaction) {
	// Error level on purpose: money was taken with no booking to show
	// for it, and someone has to issue a refund.
	e.Logger.Error("payment succeeded but hold was lost; refund required",
		zap.String("transactionId", txn.TransactionID),
		zap.String("holdId", txn.HoldID),
		zap.Float64("amount", txn.Amount),
		zap.String("customerPhone", txn.CustomerPhone),
	)
}
