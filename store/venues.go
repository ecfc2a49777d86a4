package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vibemap-backend/models"
)

// NearbyRadius is the half-width, in degrees, of the nearby search box.
const NearbyRadius = 0.1

const venueColumns = `id, name, category, latitude, longitude, address, COALESCE(photos, '{}'), total_check_ins, verified, on_chain_id`

func scanVenue(row pgx.Row) (*models.Venue, error) {
	var v models.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Category, &v.Latitude, &v.Longitude, &v.Address, &v.Photos, &v.TotalCheckIns, &v.Verified, &v.OnChainID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	v, err := scanVenue(s.db.QueryRow(ctx, "SELECT "+venueColumns+" FROM venues WHERE id = $1", id))
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// NearbyVenues returns venues inside a NearbyRadius box around lat/lng,
// closest first.
func (s *Store) NearbyVenues(ctx context.Context, lat, lng float64, limit int) ([]models.Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4
		ORDER BY (latitude - $5) * (latitude - $5) + (longitude - $6) * (longitude - $6)
		LIMIT $7
	`
	return s.queryVenues(ctx, query, lat-NearbyRadius, lat+NearbyRadius, lng-NearbyRadius, lng+NearbyRadius, lat, lng, limit)
}

func (s *Store) TrendingVenues(ctx context.Context, limit int) ([]models.Venue, error) {
	query := "SELECT " + venueColumns + " FROM venues ORDER BY total_check_ins DESC, name LIMIT $1"
	return s.queryVenues(ctx, query, limit)
}

func (s *Store) queryVenues(ctx context.Context, query string, args ...interface{}) ([]models.Venue, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := []models.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, rows.Err()
}

// SetVenueCheckIns overwrites the visitor counter. Callers compute the new
// value from an earlier read; there is no compare-and-set.
func (s *Store) SetVenueCheckIns(ctx context.Context, id uuid.UUID, total int) error {
	tag, err := s.db.Exec(ctx, "UPDATE venues SET total_check_ins = $1 WHERE id = $2", total, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", id, ErrNotFound)
	}
	return nil
}
