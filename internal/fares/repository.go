package fares

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles fare rate data access
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new fares repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetActiveRate returns the single active rate row for a vehicle type.
// A unique partial index guarantees at most one active row per type.
func (r *Repository) GetActiveRate(ctx context.Context, vehicleType string) (*FareRate, error) {
	query := `
		SELECT id, vehicle_type, base_rate, price_per_km, minimum_fare, multiplier,
		       is_active, created_at, updated_at
		FROM fare_rates
		WHERE lower(trim(vehicle_type)) = $1 AND is_active = true
	`

	rate := &FareRate{}
	err := r.db.QueryRow(ctx, query, NormalizeVehicleType(vehicleType)).Scan(
		&rate.ID, &rate.VehicleType, &rate.BaseRate, &rate.PricePerKm,
		&rate.MinimumFare, &rate.Multiplier, &rate.IsActive,
		&rate.CreatedAt, &rate.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}
