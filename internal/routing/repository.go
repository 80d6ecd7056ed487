package routing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles API call log persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new routing repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// AppendCallLog inserts one audit row for a provider call
func (r *Repository) AppendCallLog(ctx context.Context, entry *APICallLog) error {
	query := `
		INSERT INTO api_call_logs (id, endpoint, request_payload, response_payload, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Endpoint, entry.RequestPayload, entry.ResponsePayload,
		entry.Success, entry.CreatedAt,
	)
	return err
}
