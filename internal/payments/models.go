package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/592Darkness/ride-dispatch/pkg/common"
)

// Payment statuses on a completed ride
const (
	StatusPending           = "pending"
	StatusCustomerConfirmed = "customer_confirmed"
	StatusDriverConfirmed   = "confirmed"
	StatusCustomerDisputed  = "customer_disputed"
	StatusDriverDisputed    = "driver_disputed"
	StatusFullyConfirmed    = "fully_confirmed"
)

// Acting parties
const (
	PartyRider  = "rider"
	PartyDriver = "driver"
)

// Actions
const (
	ActionConfirm = "confirm"
	ActionDispute = "dispute"
)

func isDisputed(status string) bool {
	return status == StatusCustomerDisputed || status == StatusDriverDisputed
}

// nextPaymentStatus is the reconciliation rule: two independent parties
// submit confirm/dispute in any order and the outcome must not depend on
// arrival order. A dispute is sticky: once either side disputes, a later
// confirm from the other side does not override it. Repeating an action
// that is already recorded is a no-op.
func nextPaymentStatus(current, party, action string) (next string, changed bool, err error) {
	if current == StatusFullyConfirmed {
		if action == ActionDispute {
			return current, false, common.NewInvalidStateError("payment is already settled")
		}
		return current, false, nil
	}
	if isDisputed(current) {
		return current, false, nil
	}

	switch action {
	case ActionConfirm:
		if party == PartyRider {
			switch current {
			case StatusPending:
				return StatusCustomerConfirmed, true, nil
			case StatusDriverConfirmed:
				return StatusFullyConfirmed, true, nil
			case StatusCustomerConfirmed:
				return current, false, nil
			}
		} else {
			switch current {
			case StatusPending:
				return StatusDriverConfirmed, true, nil
			case StatusCustomerConfirmed:
				return StatusFullyConfirmed, true, nil
			case StatusDriverConfirmed:
				return current, false, nil
			}
		}
	case ActionDispute:
		if party == PartyRider {
			return StatusCustomerDisputed, true, nil
		}
		return StatusDriverDisputed, true, nil
	}

	return current, false, common.NewBadRequestError("unsupported payment action", nil)
}

// PaymentView is the slice of a ride the payment manager validates against
type PaymentView struct {
	RideID        uuid.UUID  `json:"ride_id"`
	RiderID       uuid.UUID  `json:"rider_id"`
	DriverID      *uuid.UUID `json:"driver_id"`
	RideStatus    string     `json:"ride_status"`
	PaymentStatus string     `json:"payment_status"`
}

// PaymentResult is the outcome of one recorded action
type PaymentResult struct {
	RideID         uuid.UUID `json:"ride_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Changed        bool      `json:"changed"`
	Settled        bool      `json:"settled"`
}

// PaymentEvent is one append-only audit row for a payment action
type PaymentEvent struct {
	ID         uuid.UUID `json:"id" db:"id"`
	RideID     uuid.UUID `json:"ride_id" db:"ride_id"`
	ActorType  string    `json:"actor_type" db:"actor_type"`
	ActorID    uuid.UUID `json:"actor_id" db:"actor_id"`
	Action     string    `json:"action" db:"action"`
	FromStatus string    `json:"from_status" db:"from_status"`
	ToStatus   string    `json:"to_status" db:"to_status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PaymentActionRequest is the request body for a payment action
type PaymentActionRequest struct {
	Action string `json:"action" binding:"required" validate:"required,payment_action"`
}
