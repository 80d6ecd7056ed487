package matching

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/592Darkness/ride-dispatch/internal/fares"
	"github.com/592Darkness/ride-dispatch/pkg/common"
)

// Repository handles driver matching data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new matching repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const driverColumns = `
	id, name, phone, vehicle_type, status, rating,
	current_location, location_updated_at, created_at, updated_at`

func scanDriver(row pgx.Row) (*Driver, error) {
	d := &Driver{}
	err := row.Scan(
		&d.ID, &d.Name, &d.Phone, &d.VehicleType, &d.Status, &d.Rating,
		&d.CurrentLocation, &d.LocationUpdatedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListAvailableDrivers returns available drivers for a vehicle type, ordered
// by most recent location update. Freshest-location-first is the documented
// tie-break policy, not an accident of row order.
func (r *Repository) ListAvailableDrivers(ctx context.Context, vehicleType string) ([]*Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE status = 'available' AND lower(trim(vehicle_type)) = $1
		ORDER BY location_updated_at DESC NULLS LAST
	`

	rows, err := r.db.Query(ctx, query, fares.NormalizeVehicleType(vehicleType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// GetDriver returns a single driver by ID
func (r *Repository) GetDriver(ctx context.Context, driverID uuid.UUID) (*Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	d, err := scanDriver(r.db.QueryRow(ctx, query, driverID))
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("driver not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetRideForMatching returns the slice of a ride the matcher validates against
func (r *Repository) GetRideForMatching(ctx context.Context, rideID uuid.UUID) (*RideSummary, error) {
	summary := &RideSummary{}
	err := r.db.QueryRow(ctx,
		`SELECT id, rider_id, status, vehicle_type FROM rides WHERE id = $1`, rideID,
	).Scan(&summary.ID, &summary.RiderID, &summary.Status, &summary.VehicleType)
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("ride not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ClaimRide atomically binds a driver to a searching ride. Both conditional
// updates must affect exactly one row; anything else aborts the transaction,
// leaving the ride searching and the driver available for other rides.
func (r *Repository) ClaimRide(ctx context.Context, rideID, driverID uuid.UUID) (*ClaimResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent claims on the same ride
	var riderID uuid.UUID
	var status string
	err = tx.QueryRow(ctx,
		`SELECT rider_id, status FROM rides WHERE id = $1 FOR UPDATE`, rideID,
	).Scan(&riderID, &status)
	if err == pgx.ErrNoRows {
		return nil, common.NewNotFoundError("ride not found", nil)
	}
	if err != nil {
		return nil, err
	}
	if status != "searching" {
		return nil, ErrRideNotClaimable
	}

	now := time.Now()

	ct, err := tx.Exec(ctx, `
		UPDATE rides
		SET driver_id = $1, status = 'confirmed', accepted_at = $2, updated_at = $2
		WHERE id = $3 AND status = 'searching'`,
		driverID, now, rideID,
	)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() != 1 {
		return nil, ErrRideNotClaimable
	}

	ct, err = tx.Exec(ctx, `
		UPDATE drivers
		SET status = 'on_ride', updated_at = $1
		WHERE id = $2 AND status = 'available'`,
		now, driverID,
	)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() != 1 {
		return nil, ErrDriverClaimed
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO ride_events (id, ride_id, from_status, to_status, actor_type, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), rideID, status, "confirmed", "driver", driverID, "driver claimed ride", now,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ClaimResult{RiderID: riderID, FromStatus: status}, nil
}
