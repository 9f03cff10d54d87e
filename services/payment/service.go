package payment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	bookingRepo "stationbook/database/repository/booking"
	paymentRepo "stationbook/database/repository/payment"
	slotRepo "stationbook/database/repository/slot"
	"stationbook/models"
	"stationbook/services/booking"
	"stationbook/services/notification"
	"stationbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the payment side of the reservation engine: it opens
// gateway transactions against holds and reconciles their outcomes.
// Webhook push and client poll both funnel into the same transition
// logic, so the two channels can never disagree on a terminal state.
type Service interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	HandleWebhook(ctx context.Context, rawPayload []byte, authHeader string) error
	CheckStatus(ctx context.Context, transactionID string) (*StatusResponse, error)
}

// InitiateRequest opens a payment for a live hold. TransactionID is the
// caller's idempotency key.
type InitiateRequest struct {
	HoldID        string
	TransactionID string
	Amount        float64
	CustomerPhone string
}

// InitiateResponse carries the customer redirect target.
type InitiateResponse struct {
	RedirectURL   string
	TransactionID string
}

// StatusResponse is the local view of a transaction.
type StatusResponse struct {
	TransactionID string               `json:"transactionId"`
	State         models.PaymentStatus `json:"state"`
	Amount        float64              `json:"amount"`
	Unfulfillable bool                 `json:"unfulfillable,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// DefaultService is the production implementation.
type DefaultService struct {
	Payments paymentRepo.PaymentRepository
	Slots    slotRepo.SlotBlockRepository
	Bookings bookingRepo.BookingRepository
	Gateway  Gateway
	Notifier notification.Events
	Cache    *redis.Client // optional
	Clock    utils.Clock

	// WebhookSecret guards the webhook endpoint; empty disables the check.
	WebhookSecret string
	// PollAfter is the minimum transaction age before CheckStatus may
	// query the gateway directly.
	PollAfter time.Duration
	// MaxPolls caps failed gateway polls before the transaction is
	// abandoned as UNKNOWN.
	MaxPolls int
}

// Initiate opens a PENDING transaction linked to a live hold and asks
// the gateway for a redirect URL. It never confirms the hold; only
// reconciliation does that. A gateway timeout leaves the transaction
// PENDING and the hold alive; the hold's own TTL is the cleanup path.
func (s *DefaultService) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	logger := utils.GetLogger()
	now := s.Clock.Now()

	block, err := s.Slots.GetByID(ctx, req.HoldID)
	if err != nil {
		if err == slotRepo.ErrBlockNotFound {
			return nil, booking.NewNotFound("hold not found")
		}
		return nil, err
	}
	if !block.Live(now) {
		return nil, booking.NewNotFound("hold has expired or is already confirmed")
	}

	txn := &models.PaymentTransaction{
		TransactionID: req.TransactionID,
		HoldID:        req.HoldID,
		Amount:        req.Amount,
		CustomerPhone: req.CustomerPhone,
		Status:        models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Payments.Insert(ctx, txn); err != nil {
		if err == paymentRepo.ErrDuplicateTransaction {
			return nil, booking.NewAlreadyExists("transaction id already used")
		}
		return nil, err
	}

	redirectURL, err := s.Gateway.CreatePayment(ctx, GatewayPaymentRequest{
		MerchantTransactionID: req.TransactionID,
		Amount:                req.Amount,
		CustomerPhone:         req.CustomerPhone,
	})
	if err != nil {
		logger.Error("gateway payment creation failed",
			zap.String("transactionId", req.TransactionID), zap.Error(err))
		return nil, booking.NewUpstreamFailure("payment gateway error: " + err.Error())
	}

	logger.Info("payment initiated",
		zap.String("transactionId", req.TransactionID),
		zap.String("holdId", req.HoldID),
		zap.Float64("amount", req.Amount),
	)
	return &InitiateResponse{RedirectURL: redirectURL, TransactionID: req.TransactionID}, nil
}

type webhookPayload struct {
	MerchantTransactionID string `json:"merchantTransactionId"`
	State                 string `json:"state"`
}

// HandleWebhook consumes the gateway's push notification. Duplicate
// deliveries are expected: a terminal transaction makes the call a
// successful no-op.
func (s *DefaultService) HandleWebhook(ctx context.Context, rawPayload []byte, authHeader string) error {
	if s.WebhookSecret != "" && authHeader != s.WebhookSecret {
		return booking.NewUnauthorized("webhook authorization mismatch")
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawPayload, &payload); err != nil {
		return booking.NewBadRequest("unparseable webhook payload")
	}
	if payload.MerchantTransactionID == "" || payload.State == "" {
		return booking.NewBadRequest("webhook payload missing merchantTransactionId or state")
	}

	txn, err := s.Payments.GetByTransactionID(ctx, payload.MerchantTransactionID)
	if err != nil {
		if err == paymentRepo.ErrTransactionNotFound {
			return booking.NewNotFound("unknown transaction")
		}
		return err
	}
	if txn.Status.Terminal() {
		return nil
	}

	return s.applyOutcome(ctx, txn, normalizeState(payload.State))
}

// CheckStatus returns the local transaction state. For transactions
// still PENDING past the poll threshold it queries the gateway and
// applies the same transition rules as the webhook path; whichever
// channel lands first wins and the other no-ops.
func (s *DefaultService) CheckStatus(ctx context.Context, transactionID string) (*StatusResponse, error) {
	logger := utils.GetLogger()

	txn, err := s.Payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if err == paymentRepo.ErrTransactionNotFound {
			return nil, booking.NewNotFound("unknown transaction")
		}
		return nil, err
	}

	if txn.Status == models.PaymentPending && s.Gateway != nil &&
		s.Clock.Now().Sub(txn.CreatedAt) >= s.PollAfter {

		state, gerr := s.Gateway.FetchStatus(ctx, transactionID)
		if gerr != nil {
			// Only failed polls count toward abandonment; an interim
			// answer from the gateway is progress, not a failure.
			attempts, ierr := s.Payments.IncrementPollAttempts(ctx, transactionID)
			if ierr != nil {
				return nil, ierr
			}
			logger.Warn("gateway status poll failed",
				zap.String("transactionId", transactionID),
				zap.Int("attempts", attempts), zap.Error(gerr))
			if s.MaxPolls > 0 && attempts >= s.MaxPolls {
				// Give up reconciling; operations takes it from here.
				if moved, merr := s.Payments.MarkTerminal(ctx, transactionID, models.PaymentUnknown, false, s.Clock.Now()); merr == nil && moved {
					logger.Error("transaction abandoned as UNKNOWN after repeated poll failures",
						zap.String("transactionId", transactionID))
				}
			}
		} else if aerr := s.applyOutcome(ctx, txn, normalizeState(state)); aerr != nil {
			// Reconciliation hiccups leave the row PENDING for the next
			// poll or webhook; the status read below still answers.
			logger.Warn("poll-driven reconciliation failed",
				zap.String("transactionId", transactionID), zap.Error(aerr))
		}

		if txn, err = s.Payments.GetByTransactionID(ctx, transactionID); err != nil {
			return nil, err
		}
	}

	return &StatusResponse{
		TransactionID: txn.TransactionID,
		State:         txn.Status,
		Amount:        txn.Amount,
		Unfulfillable: txn.Unfulfillable,
		CreatedAt:     txn.CreatedAt,
	}, nil
}

type gatewayOutcome int

const (
	outcomePending gatewayOutcome = iota
	outcomeSuccess
	outcomeFailure
)

// normalizeState folds the gateway's state vocabulary into the three
// outcomes the engine acts on. Interim states reconcile later.
func normalizeState(state string) gatewayOutcome {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "SUCCESS", "PAYMENT_SUCCESS", "COMPLETED", "PAID":
		return outcomeSuccess
	case "FAILED", "FAILURE", "PAYMENT_ERROR", "DECLINED", "EXPIRED":
		return outcomeFailure
	default:
		return outcomePending
	}
}

// applyOutcome advances one transaction. Both delivery channels call
// this and nothing else, so retries and races always converge.
func (s *DefaultService) applyOutcome(ctx context.Context, txn *models.PaymentTransaction, outcome gatewayOutcome) error {
	switch outcome {
	case outcomeSuccess:
		return s.applySuccess(ctx, txn)
	case outcomeFailure:
		return s.applyFailure(ctx, txn)
	default:
		return nil
	}
}

// applySuccess confirms the hold and materializes the booking. The
// confirm is a conditional write whose filter re-checks expiry, so a
// reaper winning the race shows up here as confirmed=false and the
// transaction takes the unfulfillable branch instead of producing a
// booking with no hold behind it.
func (s *DefaultService) applySuccess(ctx context.Context, txn *models.PaymentTransaction) error {
	confirmed, err := s.Slots.Confirm(ctx, txn.HoldID, s.Clock.Now())
	if err != nil {
		return err
	}
	if confirmed {
		return s.materialize(ctx, txn)
	}

	// The conditional confirm matched nothing. Figure out which of the
	// idempotent re-entry cases this is.
	if _, err := s.Bookings.GetByHoldID(ctx, txn.HoldID); err == nil {
		// A previous attempt finished materializing; just close out.
		s.markSuccess(ctx, txn, nil)
		return nil
	} else if err != bookingRepo.ErrBookingNotFound {
		return err
	}

	block, err := s.Slots.GetByID(ctx, txn.HoldID)
	if err == nil && block.IsConfirmed {
		// Confirmed earlier but the booking insert never landed; resume.
		return s.materialize(ctx, txn)
	}
	if err != nil && err != slotRepo.ErrBlockNotFound {
		return err
	}

	// Hold expired or was reaped before payment completed.
	s.markUnfulfillable(ctx, txn)
	return nil
}

// materialize turns the confirmed block into a durable booking, then
// closes the transaction. The bookings unique index is the final
// arbiter: a booking from a different hold occupying the tuple makes
// the payment unfulfillable, never silently merged.
func (s *DefaultService) materialize(ctx context.Context, txn *models.PaymentTransaction) error {
	block, err := s.Slots.GetByID(ctx, txn.HoldID)
	if err != nil {
		if err == slotRepo.ErrBlockNotFound {
			s.markUnfulfillable(ctx, txn)
			return nil
		}
		return err
	}

	newBooking := &models.Booking{
		ID:          uuid.New().String(),
		StationID:   block.StationID,
		CustomerID:  txn.CustomerPhone,
		BookingDate: block.BookingDate,
		StartMinute: block.StartMinute,
		EndMinute:   block.EndMinute,
		Amount:      txn.Amount,
		Status:      models.BookingConfirmed,
		HoldID:      block.ID,
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Bookings.Insert(ctx, newBooking); err != nil {
		if err == bookingRepo.ErrDuplicateBooking {
			// A racing success delivery can land its booking between our
			// idempotency check and this insert. If the occupying booking
			// belongs to this very hold, the race's winner finished the
			// job and this delivery closes out as an ordinary success.
			// Only a different hold on the tuple makes the payment
			// unfulfillable.
			if _, herr := s.Bookings.GetByHoldID(ctx, txn.HoldID); herr == nil {
				s.markSuccess(ctx, txn, nil)
				return nil
			} else if herr != bookingRepo.ErrBookingNotFound {
				return herr
			}
			s.markUnfulfillable(ctx, txn)
			return nil
		}
		// Transient storage failure: leave the transaction PENDING so a
		// later webhook or poll retries the materialization.
		return err
	}

	booking.InvalidateAvailability(ctx, s.Cache, block.StationID, block.BookingDate)
	s.markSuccess(ctx, txn, newBooking)
	return nil
}

// applyFailure closes the transaction as FAILED and frees the slot
// immediately instead of waiting out the hold TTL.
func (s *DefaultService) applyFailure(ctx context.Context, txn *models.PaymentTransaction) error {
	logger := utils.GetLogger()

	moved, err := s.Payments.MarkTerminal(ctx, txn.TransactionID, models.PaymentFailed, false, s.Clock.Now())
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	block, berr := s.Slots.GetByID(ctx, txn.HoldID)
	deleted, err := s.Slots.DeleteUnconfirmed(ctx, txn.HoldID)
	if err != nil {
		// The TTL expiry backstops a failed release.
		logger.Warn("failed to release hold after payment failure",
			zap.String("holdId", txn.HoldID), zap.Error(err))
	} else if deleted && berr == nil {
		booking.InvalidateAvailability(ctx, s.Cache, block.StationID, block.BookingDate)
	}

	txn.Status = models.PaymentFailed
	s.Notifier.PaymentFailed(ctx, *txn)
	return nil
}

func (s *DefaultService) markSuccess(ctx context.Context, txn *models.PaymentTransaction, newBooking *models.Booking) {
	moved, err := s.Payments.MarkTerminal(ctx, txn.TransactionID, models.PaymentSuccess, false, s.Clock.Now())
	if err != nil {
		utils.GetLogger().Warn("failed to mark transaction SUCCESS",
			zap.String("transactionId", txn.TransactionID), zap.Error(err))
		return
	}
	if moved && newBooking != nil {
		s.Notifier.BookingConfirmed(ctx, *newBooking)
	}
}

func (s *DefaultService) markUnfulfillable(ctx context.Context, txn *models.PaymentTransaction) {
	moved, err := s.Payments.MarkTerminal(ctx, txn.TransactionID, models.PaymentSuccess, true, s.Clock.Now())
	if err != nil {
		utils.GetLogger().Warn("failed to mark transaction unfulfillable",
			zap.String("transactionId", txn.TransactionID), zap.Error(err))
		return
	}
	if moved {
		txn.Status = models.PaymentSuccess
		txn.Unfulfillable = true
		s.Notifier.PaymentUnfulfillable(ctx, *txn)
	}
}
