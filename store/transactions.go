package store

import (
	"context"

	"vibemap-backend/models"
)

func (s *Store) RecordSponsoredTransaction(ctx context.Context, tx *models.SponsoredTransaction) error {
	query := `
		INSERT INTO sponsored_transactions (user_id, transaction_digest, transaction_type, gas_used, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return s.db.QueryRow(ctx, query, tx.UserID, tx.TransactionDigest, tx.TransactionType, tx.GasUsed, tx.Status).
		Scan(&tx.ID, &tx.CreatedAt)
}
