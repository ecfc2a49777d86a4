package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TxTypeCheckIn = "check_in"
	TxStatusOK    = "success"
)

// SponsoredTransaction records a transaction whose gas was paid by the
// admin wallet.
type SponsoredTransaction struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"userId" db:"user_id"`
	TransactionDigest string    `json:"transactionDigest" db:"transaction_digest"`
	TransactionType   string    `json:"transactionType" db:"transaction_type"`
	GasUsed           string    `json:"gasUsed" db:"gas_used"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}
