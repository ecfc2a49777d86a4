package store

import (
	"context"

	"github.com/google/uuid"

	"vibemap-backend/models"
)

// CreateCheckIn inserts ci and fills in its generated id and timestamp.
func (s *Store) CreateCheckIn(ctx context.Context, ci *models.CheckIn) error {
	query := `
		INSERT INTO check_ins (user_id, venue_id, latitude, longitude, photo_url, caption, rating, stamp_nft_id, visitor_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	return s.db.QueryRow(ctx, query,
		ci.UserID, ci.VenueID, ci.Latitude, ci.Longitude, ci.PhotoURL, ci.Caption, ci.Rating, ci.StampNftID, ci.VisitorNumber,
	).Scan(&ci.ID, &ci.CreatedAt)
}

func (s *Store) GetCheckIn(ctx context.Context, id uuid.UUID) (*models.CheckIn, error) {
	var ci models.CheckIn
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, venue_id, latitude, longitude, photo_url, caption, rating, stamp_nft_id, visitor_number, created_at
		FROM check_ins WHERE id = $1
	`, id).Scan(&ci.ID, &ci.UserID, &ci.VenueID, &ci.Latitude, &ci.Longitude, &ci.PhotoURL, &ci.Caption, &ci.Rating, &ci.StampNftID, &ci.VisitorNumber, &ci.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &ci, nil
}

// ListUserCheckIns returns a user's stamp collection, newest first.
func (s *Store) ListUserCheckIns(ctx context.Context, userID uuid.UUID) ([]models.CheckInWithVenue, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.user_id, c.venue_id, c.latitude, c.longitude, c.photo_url, c.caption, c.rating,
		       c.stamp_nft_id, c.visitor_number, c.created_at, v.name
		FROM check_ins c
		JOIN venues v ON v.id = c.venue_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CheckInWithVenue{}
	for rows.Next() {
		var ci models.CheckInWithVenue
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.VenueID, &ci.Latitude, &ci.Longitude, &ci.PhotoURL, &ci.Caption, &ci.Rating,
			&ci.StampNftID, &ci.VisitorNumber, &ci.CreatedAt, &ci.VenueName); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

// ListVenueCheckIns returns the most recent check-ins at a venue.
func (s *Store) ListVenueCheckIns(ctx context.Context, venueID uuid.UUID, limit int) ([]models.CheckIn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, venue_id, latitude, longitude, photo_url, caption, rating, stamp_nft_id, visitor_number, created_at
		FROM check_ins
		WHERE venue_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, venueID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CheckIn{}
	for rows.Next() {
		var ci models.CheckIn
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.VenueID, &ci.Latitude, &ci.Longitude, &ci.PhotoURL, &ci.Caption, &ci.Rating, &ci.StampNftID, &ci.VisitorNumber, &ci.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}
