package matching

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Driver statuses
const (
	DriverAvailable = "available"
	DriverOnRide    = "on_ride"
	DriverOffline   = "offline"
)

// Expected matching outcomes. NoDriverAvailable is not a failure: callers
// use it to decide "keep polling".
var (
	ErrNoDriverAvailable = errors.New("no driver available")
	ErrDriverClaimed     = errors.New("driver already claimed")
	ErrRideNotClaimable  = errors.New("ride is no longer searching")
	ErrVehicleMismatch   = errors.New("driver vehicle type does not match ride")
)

// Driver represents a driver in the pool
type Driver struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Phone             string     `json:"phone" db:"phone"`
	VehicleType       string     `json:"vehicle_type" db:"vehicle_type"`
	Status            string     `json:"status" db:"status"`
	Rating            float64    `json:"rating" db:"rating"`
	CurrentLocation   *string    `json:"current_location,omitempty" db:"current_location"`
	LocationUpdatedAt *time.Time `json:"location_updated_at,omitempty" db:"location_updated_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// DriverAssignment is the result of a successful claim
type DriverAssignment struct {
	RideID     uuid.UUID `json:"ride_id"`
	RiderID    uuid.UUID `json:"rider_id"`
	Driver     *Driver   `json:"driver"`
	AssignedAt time.Time `json:"assigned_at"`
}

// ClaimResult carries the ride fields the post-claim side effects need
type ClaimResult struct {
	RiderID    uuid.UUID `json:"rider_id"`
	FromStatus string    `json:"from_status"`
}

// RideSummary is the slice of a ride the matcher needs for validation
type RideSummary struct {
	ID          uuid.UUID `json:"id"`
	RiderID     uuid.UUID `json:"rider_id"`
	Status      string    `json:"status"`
	VehicleType string    `json:"vehicle_type"`
}
