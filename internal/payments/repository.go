package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/592Darkness/ride-dispatch/pkg/common"
)

// Repository handles payment reconciliation data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new payment repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetPaymentView returns the payment-relevant slice of a ride
func (r *Repository) GetPaymentView(ctx context.Context, rideID uuid.UUID) (*PaymentView, error) {
	view := &PaymentView{}
	var paymentStatus *string
	err := r.db.QueryRow(ctx,
		`SELECT id, rider_id, driver_id, status, payment_status FROM rides WHERE id = $1`, rideID,
	).Scan(&view.RideID, &view.RiderID, &view.DriverID, &view.RideStatus, &paymentStatus)
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("ride not found", nil)
	}
	if err != nil {
		return nil, err
	}
	if paymentStatus != nil {
		view.PaymentStatus = *paymentStatus
	}
	return view, nil
}

// ApplyPaymentAction records one party's confirm/dispute under a row lock.
// The lock re-reads the current payment status, so two concurrent actions on
// the same ride serialize and converge regardless of arrival order. Reaching
// fully_confirmed approves the pending driver payout; the conditional update
// makes that idempotent.
func (r *Repository) ApplyPaymentAction(ctx context.Context, rideID, actorID uuid.UUID, party, action string) (*PaymentResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var rideStatus string
	var paymentStatus *string
	err = tx.QueryRow(ctx,
		`SELECT status, payment_status FROM rides WHERE id = $1 FOR UPDATE`, rideID,
	).Scan(&rideStatus, &paymentStatus)
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("ride not found", nil)
	}
	if err != nil {
		return nil, err
	}
	if rideStatus != "completed" {
		return nil, common.NewInvalidStateError("payment actions require a completed ride")
	}

	current := StatusPending
	if paymentStatus != nil && *paymentStatus != "" {
		current = *paymentStatus
	}

	next, changed, err := nextPaymentStatus(current, party, action)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if changed {
		_, err = tx.Exec(ctx,
			`UPDATE rides SET payment_status = $1, updated_at = $2 WHERE id = $3`,
			next, now, rideID,
		)
		if err != nil {
			return nil, err
		}

		if next == StatusFullyConfirmed {
			_, err = tx.Exec(ctx,
				`UPDATE driver_payouts SET status = 'approved', updated_at = $1 WHERE ride_id = $2 AND status = 'pending'`,
				now, rideID,
			)
			if err != nil {
				return nil, err
			}
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payment_events (id, ride_id, actor_type, actor_id, action, from_status, to_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), rideID, party, actorID, action, current, next, now,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PaymentResult{
		RideID:         rideID,
		PreviousStatus: current,
		NewStatus:      next,
		Changed:        changed,
		Settled:        next == StatusFullyConfirmed,
	}, nil
}
