package store

import (
	"context"

	"github.com/google/uuid"

	"vibemap-backend/models"
)

func (s *Store) CreateComment(ctx context.Context, cm *models.Comment) error {
	query := `
		INSERT INTO comments (check_in_id, user_id, content, parent_comment_id, reply_depth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, likes_count, created_at
	`
	return s.db.QueryRow(ctx, query, cm.CheckInID, cm.UserID, cm.Content, cm.ParentCommentID, cm.ReplyDepth).
		Scan(&cm.ID, &cm.LikesCount, &cm.CreatedAt)
}

func (s *Store) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var cm models.Comment
	err := s.db.QueryRow(ctx, `
		SELECT id, check_in_id, user_id, content, parent_comment_id, reply_depth, likes_count, created_at
		FROM comments WHERE id = $1
	`, id).Scan(&cm.ID, &cm.CheckInID, &cm.UserID, &cm.Content, &cm.ParentCommentID, &cm.ReplyDepth, &cm.LikesCount, &cm.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &cm, nil
}

// ListComments returns every comment on a check-in in posting order;
// clients rebuild threads from parentCommentId.
func (s *Store) ListComments(ctx context.Context, checkInID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, check_in_id, user_id, content, parent_comment_id, reply_depth, likes_count, created_at
		FROM comments
		WHERE check_in_id = $1
		ORDER BY created_at
	`, checkInID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.CheckInID, &cm.UserID, &cm.Content, &cm.ParentCommentID, &cm.ReplyDepth, &cm.LikesCount, &cm.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}
