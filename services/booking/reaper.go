package booking

import (
	"context"

	slotRepo "stationbook/database/repository/slot"
	"stationbook/utils"

	"go.uber.org/zap"
)

// ReaperService sweeps expired, unconfirmed holds back into
// availability. It runs on a schedule and on demand; either way the
// sweep is one conditional DeleteMany, so a hold being confirmed at the
// same instant is decided by the confirm step's expiry filter, never
// here.
type ReaperService interface {
	ReapExpired(ctx context.Context) (int64, error)
}

// DefaultReaperService is the production implementation.
type DefaultReaperService struct {
	Slots slotRepo.SlotBlockRepository
	Clock utils.Clock
}

// ReapExpired deletes every dead hold and returns the count removed.
// Availability caches are not invalidated per key; their TTL is shorter
// than the reap interval.
func (s *DefaultReaperService) ReapExpired(ctx context.Context) (int64, error) {
	logger := utils.GetLogger()

	count, err := s.Slots.ReapExpired(ctx, s.Clock.Now())
	if err != nil {
		logger.Error("expired hold sweep failed", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		logger.Info("expired holds reaped", zap.Int64("deleted", count))
	}
	return count, nil
}
