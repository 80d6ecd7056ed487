package loyalty

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

// Service implements the reward ledger
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new loyalty service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreditPoints credits points to a rider and returns the new balance
func (s *Service) CreditPoints(ctx context.Context, riderID uuid.UUID, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return 0, common.NewBadRequestError("points amount must be positive", nil)
	}

	balance, err := s.repo.CreditPoints(ctx, riderID, amount, reason)
	if err != nil {
		return 0, err
	}

	logger.WithContext(ctx).Info("loyalty points credited",
		zap.String("rider_id", riderID.String()),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance))
	return balance, nil
}

// GetAccount returns a rider's loyalty account
func (s *Service) GetAccount(ctx context.Context, riderID uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, riderID)
}

// GetPointsHistory returns a rider's points transactions
func (s *Service) GetPointsHistory(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*PointsTransaction, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetPointsHistory(ctx, riderID, limit, offset)
}
