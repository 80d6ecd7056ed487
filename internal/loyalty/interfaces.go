package loyalty

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for loyalty repository operations
type RepositoryInterface interface {
	CreditPoints(ctx context.Context, riderID uuid.UUID, amount int64, reason string) (int64, error)
	GetAccount(ctx context.Context, riderID uuid.UUID) (*Account, error)
	GetPointsHistory(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*PointsTransaction, int, error)
}
