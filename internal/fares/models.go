package fares

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle types offered to riders
const (
	VehicleStandard = "standard"
	VehicleSUV      = "suv"
	VehiclePremium  = "premium"
)

// NormalizeVehicleType lowercases and trims a vehicle type for comparison
func NormalizeVehicleType(vehicleType string) string {
	return strings.ToLower(strings.TrimSpace(vehicleType))
}

// IsValidVehicleType reports whether the vehicle type is offered
func IsValidVehicleType(vehicleType string) bool {
	switch NormalizeVehicleType(vehicleType) {
	case VehicleStandard, VehicleSUV, VehiclePremium:
		return true
	}
	return false
}

// FareRate is the active rate row for a vehicle type. All amounts are integer
// minor currency units.
type FareRate struct {
	ID          uuid.UUID `json:"id" db:"id"`
	VehicleType string    `json:"vehicle_type" db:"vehicle_type"`
	BaseRate    int64     `json:"base_rate" db:"base_rate"`
	PricePerKm  int64     `json:"price_per_km" db:"price_per_km"`
	MinimumFare int64     `json:"minimum_fare" db:"minimum_fare"`
	Multiplier  float64   `json:"multiplier" db:"multiplier"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// defaultRates back the calculator when no active rate row exists for a
// vehicle type. One triple per vehicle type.
var defaultRates = map[string]FareRate{
	VehicleStandard: {VehicleType: VehicleStandard, BaseRate: 1000, PricePerKm: 200, MinimumFare: 1500, Multiplier: 1.0},
	VehicleSUV:      {VehicleType: VehicleSUV, BaseRate: 1800, PricePerKm: 300, MinimumFare: 2800, Multiplier: 1.2},
	VehiclePremium:  {VehicleType: VehiclePremium, BaseRate: 2500, PricePerKm: 400, MinimumFare: 4000, Multiplier: 1.5},
}

// FareBreakdown itemizes a computed fare. Downstream callers and the UI both
// need the intermediates, not just the rounded total.
type FareBreakdown struct {
	VehicleType       string  `json:"vehicle_type"`
	DistanceKm        float64 `json:"distance_km"`
	BaseRate          int64   `json:"base_rate"`
	PricePerKm        int64   `json:"price_per_km"`
	DistanceFare      int64   `json:"distance_fare"`
	Subtotal          int64   `json:"subtotal"`
	VehicleMultiplier float64 `json:"vehicle_multiplier"`
	TrafficMultiplier float64 `json:"traffic_multiplier"`
	MinimumFare       int64   `json:"minimum_fare"`
	FinalFare         int64   `json:"final_fare"`
	RoundedFare       int64   `json:"rounded_fare"`
}

// FareEstimate is a pre-ride quote with route context
type FareEstimate struct {
	FareBreakdown
	DurationSeconds  int    `json:"duration_seconds"`
	PickupResolved   string `json:"pickup_resolved,omitempty"`
	DropoffResolved  string `json:"dropoff_resolved,omitempty"`
	DistanceFallback bool   `json:"distance_fallback,omitempty"`
}

// EstimateFareRequest is the request body for a fare estimate
type EstimateFareRequest struct {
	PickupAddress  string `json:"pickup_address" validate:"required"`
	DropoffAddress string `json:"dropoff_address" validate:"required"`
	VehicleType    string `json:"vehicle_type" validate:"required,vehicle_type"`
}
