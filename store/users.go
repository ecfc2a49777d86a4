package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vibemap-backend/models"
)

const userColumns = `id, telegram_id, email, wallet_address, username, avatar_url, total_stamps, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Email, &u.WalletAddress, &u.Username, &u.AvatarURL, &u.TotalStamps, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertGoogleUser creates the user for email or refreshes its wallet,
// username and avatar.
func (s *Store) UpsertGoogleUser(ctx context.Context, req models.GoogleAuthRequest) (*models.User, error) {
	query := `
		INSERT INTO users (email, wallet_address, username, avatar_url)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (email) DO UPDATE SET
			wallet_address = EXCLUDED.wallet_address,
			username = COALESCE(EXCLUDED.username, users.username),
			avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url)
		RETURNING ` + userColumns
	return scanUser(s.db.QueryRow(ctx, query, req.Email, req.WalletAddress, req.Username, req.AvatarURL))
}

func (s *Store) UpsertTelegramUser(ctx context.Context, req models.TelegramAuthRequest) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, wallet_address, username)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (telegram_id) DO UPDATE SET
			wallet_address = EXCLUDED.wallet_address,
			username = COALESCE(EXCLUDED.username, users.username)
		RETURNING ` + userColumns
	return scanUser(s.db.QueryRow(ctx, query, req.TelegramID, req.WalletAddress, req.Username))
}

// FindUserByToken resolves the placeholder bearer token, which is either
// the user's telegram id or email.
func (s *Store) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE telegram_id = $1 OR email = $1 LIMIT 1", token))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) IncrementUserStamps(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "UPDATE users SET total_stamps = total_stamps + 1 WHERE id = $1", id)
	return err
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, username, avatar_url, total_stamps
		FROM users
		ORDER BY total_stamps DESC, created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.AvatarURL, &e.TotalStamps); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
