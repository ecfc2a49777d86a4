package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a VibeMap account. Either TelegramID or Email identifies the
// user to the auth middleware.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TelegramID    *string   `json:"telegramId,omitempty" db:"telegram_id"`
	Email         *string   `json:"email,omitempty" db:"email"`
	WalletAddress string    `json:"walletAddress" db:"wallet_address"`
	Username      *string   `json:"username" db:"username"`
	AvatarURL     *string   `json:"avatarUrl" db:"avatar_url"`
	TotalStamps   int       `json:"totalStamps" db:"total_stamps"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Profile is a User plus the wallet balance read from the ledger.
type Profile struct {
	User
	Balance string `json:"balance"` // MIST, not stored in DB
}

type GoogleAuthRequest struct {
	Email         string `json:"email" binding:"required"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatarUrl"`
	WalletAddress string `json:"walletAddress" binding:"required"`
}

type TelegramAuthRequest struct {
	InitData      string `json:"initData"`
	TelegramID    string `json:"telegramId" binding:"required"`
	Username      string `json:"username"`
	WalletAddress string `json:"walletAddress" binding:"required"`
}

// LeaderboardEntry is one row of the stamp leaderboard.
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"userId"`
	Username    *string   `json:"username"`
	AvatarURL   *string   `json:"avatarUrl"`
	TotalStamps int       `json:"totalStamps"`
}
