package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// Account is a rider's loyalty points balance
type Account struct {
	RiderID   uuid.UUID `json:"rider_id" db:"rider_id"`
	Balance   int64     `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PointsTransaction is one credit or debit against an account
type PointsTransaction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RiderID   uuid.UUID `json:"rider_id" db:"rider_id"`
	Amount    int64     `json:"amount" db:"amount"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
