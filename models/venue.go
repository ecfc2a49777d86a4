package models

import (
	"github.com/google/uuid"
)

type Venue struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Category      string    `json:"category" db:"category"`
	Latitude      float64   `json:"latitude" db:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude"`
	Address       *string   `json:"address,omitempty" db:"address"`
	Photos        []string  `json:"photos" db:"photos"`
	TotalCheckIns int       `json:"totalCheckIns" db:"total_check_ins"`
	Verified      bool      `json:"verified" db:"verified"`
	OnChainID     *string   `json:"onChainId,omitempty" db:"on_chain_id"`
}

// IsOnChain reports whether the venue is registered in the venue registry
// contract. Only on-chain venues mint real stamps.
func (v *Venue) IsOnChain() bool {
	return v.OnChainID != nil && *v.OnChainID != ""
}
