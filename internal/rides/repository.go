package rides

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/592Darkness/ride-dispatch/pkg/common"
)

// Repository handles ride data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new ride repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const rideColumns = `
	id, rider_id, driver_id, pickup_address, dropoff_address, vehicle_type,
	status, estimated_fare, final_fare, distance_km, payment_status,
	rating, rating_comment, cancellation_reason, scheduled_at,
	accepted_at, completed_at, created_at, updated_at`

func scanRide(row pgx.Row) (*Ride, error) {
	ride := &Ride{}
	err := row.Scan(
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.PickupAddress, &ride.DropoffAddress, &ride.VehicleType,
		&ride.Status, &ride.EstimatedFare, &ride.FinalFare, &ride.DistanceKm, &ride.PaymentStatus,
		&ride.Rating, &ride.RatingComment, &ride.CancellationReason, &ride.ScheduledAt,
		&ride.AcceptedAt, &ride.CompletedAt, &ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ride, nil
}

// CreateRide inserts a new ride
func (r *Repository) CreateRide(ctx context.Context, ride *Ride) error {
	query := `
		INSERT INTO rides (
			id, rider_id, pickup_address, dropoff_address, vehicle_type,
			status, estimated_fare, scheduled_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		ride.ID, ride.RiderID, ride.PickupAddress, ride.DropoffAddress, ride.VehicleType,
		ride.Status, ride.EstimatedFare, ride.ScheduledAt, ride.CreatedAt, ride.UpdatedAt,
	)
	return err
}

// GetRide returns a ride by ID
func (r *Repository) GetRide(ctx context.Context, rideID uuid.UUID) (*Ride, error) {
	ride, err := scanRide(r.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, rideID))
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("ride not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return ride, nil
}

// ListRidesByRider returns a rider's rides, newest first, with the total count
func (r *Repository) ListRidesByRider(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*Ride, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rides WHERE rider_id = $1`, riderID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE rider_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		riderID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, ride)
	}
	return result, total, rows.Err()
}

// lockRide re-reads a ride under a row lock inside tx
func lockRide(ctx context.Context, tx pgx.Tx, rideID uuid.UUID) (*Ride, error) {
	ride, err := scanRide(tx.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1 FOR UPDATE`, rideID))
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("ride not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return ride, nil
}

func insertRideEvent(ctx context.Context, tx pgx.Tx, rideID uuid.UUID, fromStatus, toStatus, actorType string, actorID *uuid.UUID, details string, at time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ride_events (id, ride_id, from_status, to_status, actor_type, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), rideID, fromStatus, toStatus, actorType, actorID, details, at,
	)
	return err
}

// Transition applies a generic status transition. The ride row is locked and
// the current status re-read inside the transaction, so a concurrent
// transition that commits first makes this one fail legality cleanly.
func (r *Repository) Transition(ctx context.Context, input TransitionInput) (*Ride, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ride, err := lockRide(ctx, tx, input.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ride.Status, input.Target) {
		return nil, common.NewInvalidStateError("ride cannot move from " + ride.Status + " to " + input.Target)
	}

	now := time.Now()
	_, err = tx.Exec(ctx,
		`UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3`,
		input.Target, now, input.RideID,
	)
	if err != nil {
		return nil, err
	}

	if err := insertRideEvent(ctx, tx, input.RideID, ride.Status, input.Target, input.ActorType, input.ActorID, input.Details, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	ride.Status = input.Target
	ride.UpdatedAt = now
	return ride, nil
}

// CompleteRide settles an in-progress ride: freezes the final fare and
// distance, opens the payment for dual confirmation, releases the driver,
// and books a pending payout for the driver's share.
func (r *Repository) CompleteRide(ctx context.Context, input CompletionInput) (*Ride, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ride, err := lockRide(ctx, tx, input.RideID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ride.Status, StatusCompleted) {
		return nil, common.NewInvalidStateError("ride cannot be completed from status " + ride.Status)
	}
	if ride.DriverID == nil || *ride.DriverID != input.DriverID {
		return nil, common.NewForbiddenError("ride is not assigned to this driver")
	}

	now := time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE rides
		SET status = $1, final_fare = $2, distance_km = $3, payment_status = 'pending',
			completed_at = $4, updated_at = $4
		WHERE id = $5`,
		StatusCompleted, input.FinalFare, input.DistanceKm, now, input.RideID,
	)
	if err != nil {
		return nil, err
	}

	ct, err := tx.Exec(ctx,
		`UPDATE drivers SET status = 'available', updated_at = $1 WHERE id = $2 AND status = 'on_ride'`,
		now, input.DriverID,
	)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() != 1 {
		return nil, common.NewInvalidStateError("driver is not on this ride")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO driver_payouts (id, ride_id, driver_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', $5, $5)`,
		uuid.New(), input.RideID, input.DriverID, input.DriverShare, now,
	)
	if err != nil {
		return nil, err
	}

	if err := insertRideEvent(ctx, tx, input.RideID, ride.Status, StatusCompleted, "driver", &input.DriverID, "ride completed", now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	pending := "pending"
	ride.Status = StatusCompleted
	ride.FinalFare = &input.FinalFare
	ride.DistanceKm = &input.DistanceKm
	ride.PaymentStatus = &pending
	ride.CompletedAt = &now
	ride.UpdatedAt = now
	return ride, nil
}

// CancelRide moves a non-terminal ride to cancelled. A cancelled ride never
// retains a fare, and any assigned driver goes back into the pool.
// Eligibility is re-checked against the actor under the row lock, so a ride
// that advances between the caller's read and the lock fails cleanly here.
func (r *Repository) CancelRide(ctx context.Context, rideID uuid.UUID, actorType string, actorID *uuid.UUID, reason string) (*Ride, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ride, err := lockRide(ctx, tx, rideID)
	if err != nil {
		return nil, err
	}
	if !CancelableBy(actorType, ride.Status) {
		return nil, common.NewInvalidStateError("ride cannot be cancelled from status " + ride.Status)
	}

	now := time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE rides
		SET status = $1, cancellation_reason = $2, final_fare = 0, updated_at = $3
		WHERE id = $4`,
		StatusCancelled, reason, now, rideID,
	)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != nil {
		_, err = tx.Exec(ctx,
			`UPDATE drivers SET status = 'available', updated_at = $1 WHERE id = $2 AND status = 'on_ride'`,
			now, *ride.DriverID,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := insertRideEvent(ctx, tx, rideID, ride.Status, StatusCancelled, actorType, actorID, reason, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	zero := int64(0)
	ride.Status = StatusCancelled
	ride.CancellationReason = &reason
	ride.FinalFare = &zero
	ride.UpdatedAt = now
	return ride, nil
}

// SetRating records a rating exactly once. The conditional update keeps a
// concurrent second rating from overwriting the first.
func (r *Repository) SetRating(ctx context.Context, rideID uuid.UUID, rating int, comment string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE rides
		SET rating = $1, rating_comment = $2, updated_at = $3
		WHERE id = $4 AND rating IS NULL`,
		rating, comment, time.Now(), rideID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return common.NewConflictError("ride has already been rated")
	}
	return nil
}
