package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxReplyDepth bounds comment threads. Top-level comments have depth 0.
const MaxReplyDepth = 3

type Comment struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	CheckInID       uuid.UUID  `json:"checkInId" db:"check_in_id"`
	UserID          uuid.UUID  `json:"userId" db:"user_id"`
	Content         string     `json:"content" db:"content"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty" db:"parent_comment_id"`
	ReplyDepth      int        `json:"replyDepth" db:"reply_depth"`
	LikesCount      int        `json:"likesCount" db:"likes_count"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID string `json:"parentCommentId"`
}
