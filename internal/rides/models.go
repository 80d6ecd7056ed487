package rides

import (
	"time"

	"github.com/google/uuid"
)

// Ride statuses
const (
	StatusScheduled  = "scheduled"
	StatusSearching  = "searching"
	StatusConfirmed  = "confirmed"
	StatusArriving   = "arriving"
	StatusArrived    = "arrived"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// AllowedTransitions maps a target status to the statuses it is legally
// reachable from. Cancellation is handled separately because it is legal
// from any non-terminal status.
var AllowedTransitions = map[string][]string{
	StatusSearching:  {StatusScheduled},
	StatusConfirmed:  {StatusSearching},
	StatusArriving:   {StatusConfirmed},
	StatusArrived:    {StatusConfirmed, StatusArriving},
	StatusInProgress: {StatusConfirmed, StatusArriving, StatusArrived},
	StatusCompleted:  {StatusInProgress},
}

// terminal statuses never transition again
func isTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CanTransition reports whether a ride in `from` may move to `to`
func CanTransition(from, to string) bool {
	if to == StatusCancelled {
		return !isTerminal(from)
	}
	for _, legal := range AllowedTransitions[to] {
		if from == legal {
			return true
		}
	}
	return false
}

// riderCancelable statuses: rides past arriving are no longer the rider's to
// cancel
var riderCancelable = map[string]bool{
	StatusScheduled: true,
	StatusSearching: true,
	StatusConfirmed: true,
	StatusArriving:  true,
}

// IsRiderCancelable reports whether the rider may cancel from this status
func IsRiderCancelable(status string) bool {
	return riderCancelable[status]
}

// CancelableBy reports whether an actor of the given type may cancel a ride
// in the given status. Riders are held to the stricter pre-progress set;
// drivers and the system may cancel from any non-terminal status.
func CancelableBy(actorType, status string) bool {
	if actorType == "rider" {
		return IsRiderCancelable(status)
	}
	return CanTransition(status, StatusCancelled)
}

// Polling stages returned to clients. The server's status is authoritative;
// the client's stage is a cursor hint only.
const (
	StageSearching  = 0
	StageAssigned   = 1
	StageArriving   = 2
	StageArrived    = 3
	StageInProgress = 4
	StageCompleted  = 5
)

var statusStages = map[string]int{
	StatusScheduled:  StageSearching,
	StatusSearching:  StageSearching,
	StatusConfirmed:  StageAssigned,
	StatusArriving:   StageArriving,
	StatusArrived:    StageArrived,
	StatusInProgress: StageInProgress,
	StatusCompleted:  StageCompleted,
}

// StageFor maps a ride status to its polling stage
func StageFor(status string) int {
	return statusStages[status]
}

// Ride represents a trip request from creation to terminal state
type Ride struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	RiderID            uuid.UUID  `json:"rider_id" db:"rider_id"`
	DriverID           *uuid.UUID `json:"driver_id,omitempty" db:"driver_id"`
	PickupAddress      string     `json:"pickup_address" db:"pickup_address"`
	DropoffAddress     string     `json:"dropoff_address" db:"dropoff_address"`
	VehicleType        string     `json:"vehicle_type" db:"vehicle_type"`
	Status             string     `json:"status" db:"status"`
	EstimatedFare      int64      `json:"estimated_fare" db:"estimated_fare"`
	FinalFare          *int64     `json:"final_fare,omitempty" db:"final_fare"`
	DistanceKm         *float64   `json:"distance_km,omitempty" db:"distance_km"`
	PaymentStatus      *string    `json:"payment_status,omitempty" db:"payment_status"`
	Rating             *int       `json:"rating,omitempty" db:"rating"`
	RatingComment      *string    `json:"rating_comment,omitempty" db:"rating_comment"`
	CancellationReason *string    `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	ScheduledAt        *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// RideEvent is one append-only audit row for a status transition
type RideEvent struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	RideID     uuid.UUID  `json:"ride_id" db:"ride_id"`
	FromStatus string     `json:"from_status" db:"from_status"`
	ToStatus   string     `json:"to_status" db:"to_status"`
	ActorType  string     `json:"actor_type" db:"actor_type"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty" db:"actor_id"`
	Details    string     `json:"details" db:"details"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// TransitionInput carries everything a generic status transition needs
type TransitionInput struct {
	RideID    uuid.UUID
	Target    string
	ActorType string
	ActorID   *uuid.UUID
	Details   string
}

// CompletionInput carries the settlement values frozen on completion
type CompletionInput struct {
	RideID      uuid.UUID
	DriverID    uuid.UUID
	FinalFare   int64
	DistanceKm  float64
	DriverShare int64
}

// RequestRideRequest is the booking payload
type RequestRideRequest struct {
	PickupAddress  string     `json:"pickup_address" binding:"required" validate:"required,min=3,max=500"`
	DropoffAddress string     `json:"dropoff_address" binding:"required" validate:"required,min=3,max=500"`
	VehicleType    string     `json:"vehicle_type" binding:"required" validate:"required,vehicle_type"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
}

// CancelRideRequest carries an optional cancellation reason
type CancelRideRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RateRideRequest is the rating payload
type RateRideRequest struct {
	Rating  int    `json:"rating" binding:"required" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// DriverInfo is the driver payload included in poll responses once assigned
type DriverInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	VehicleType string    `json:"vehicle_type"`
	Rating      float64   `json:"rating"`
}

// EtaInfo is the non-binding route estimate attached to polls while a ride
// is active. Settlement never reads these numbers.
type EtaInfo struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationSeconds int     `json:"duration_seconds"`
}

// PollResponse is the staged polling payload
type PollResponse struct {
	RideID      uuid.UUID   `json:"ride_id"`
	Status      string      `json:"status"`
	Stage       int         `json:"stage"`
	NextStage   int         `json:"next_stage"`
	WaitSeconds int         `json:"wait_seconds"`
	Driver      *DriverInfo `json:"driver,omitempty"`
	Eta         *EtaInfo    `json:"eta,omitempty"`
	FinalFare   *int64      `json:"final_fare,omitempty"`
}
