package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockStampPrefix marks stamp ids that were generated locally instead of
// minted on chain. On-chain object ids always start with "0x".
const MockStampPrefix = "mock-"

type CheckIn struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"userId" db:"user_id"`
	VenueID       uuid.UUID `json:"venueId" db:"venue_id"`
	Latitude      float64   `json:"latitude" db:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude"`
	PhotoURL      string    `json:"photoUrl" db:"photo_url"`
	Caption       string    `json:"caption" db:"caption"`
	Rating        int       `json:"rating" db:"rating"`
	StampNftID    string    `json:"stampNftId" db:"stamp_nft_id"`
	VisitorNumber int       `json:"visitorNumber" db:"visitor_number"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// IsMock reports whether the stamp was generated locally.
func (c *CheckIn) IsMock() bool {
	return strings.HasPrefix(c.StampNftID, MockStampPrefix)
}

// CheckInWithVenue is a check-in joined with the venue name, used by the
// profile collection view.
type CheckInWithVenue struct {
	CheckIn
	VenueName string `json:"venueName"`
}

type SponsorCheckInRequest struct {
	VenueID   string   `json:"venueId" binding:"required"`
	ImageURL  string   `json:"imageUrl"`
	Caption   string   `json:"caption"`
	Rating    int      `json:"rating"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type VibeDropRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Caption   string  `json:"caption"`
	ImageURL  string  `json:"imageUrl"`
}
