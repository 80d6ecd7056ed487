package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles loyalty data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new loyalty repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreditPoints adds points to a rider's balance and records the transaction.
// The account row is created on first credit. Returns the new balance.
func (r *Repository) CreditPoints(ctx context.Context, riderID uuid.UUID, amount int64, reason string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	var balance int64
	err = tx.QueryRow(ctx, `
		INSERT INTO loyalty_accounts (rider_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (rider_id) DO UPDATE
		SET balance = loyalty_accounts.balance + EXCLUDED.balance, updated_at = $3
		RETURNING balance`,
		riderID, amount, now,
	).Scan(&balance)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO points_transactions (id, rider_id, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), riderID, amount, reason, now,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// GetAccount returns a rider's loyalty account, or an empty account if the
// rider has never earned points
func (r *Repository) GetAccount(ctx context.Context, riderID uuid.UUID) (*Account, error) {
	account := &Account{}
	err := r.db.QueryRow(ctx,
		`SELECT rider_id, balance, created_at, updated_at FROM loyalty_accounts WHERE rider_id = $1`, riderID,
	).Scan(&account.RiderID, &account.Balance, &account.CreatedAt, &account.UpdatedAt)
	if err == pgx.ErrNoRows {
		return &Account{RiderID: riderID}, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetPointsHistory returns a rider's points transactions, newest first
func (r *Repository) GetPointsHistory(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*PointsTransaction, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM points_transactions WHERE rider_id = $1`, riderID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, rider_id, amount, reason, created_at
		FROM points_transactions
		WHERE rider_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		riderID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []*PointsTransaction
	for rows.Next() {
		ptx := &PointsTransaction{}
		if err := rows.Scan(&ptx.ID, &ptx.RiderID, &ptx.Amount, &ptx.Reason, &ptx.CreatedAt); err != nil {
			return nil, 0, err
		}
		txs = append(txs, ptx)
	}
	return txs, total, rows.Err()
}
