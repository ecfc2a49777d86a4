package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibemap-backend/middleware"
	"vibemap-backend/models"
	"vibemap-backend/store"
)

type CommentStore interface {
	GetCheckIn(ctx context.Context, id uuid.UUID) (*models.CheckIn, error)
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	CreateComment(ctx context.Context, cm *models.Comment) error
	ListComments(ctx context.Context, checkInID uuid.UUID) ([]models.Comment, error)
}

type CommentHandler struct {
	comments CommentStore
}

func NewCommentHandler(comments CommentStore) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in ID"})
		return
	}
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	if _, err := h.comments.GetCheckIn(c, checkInID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Check-in not found"})
			return
		}
		writeError(c, err)
		return
	}

	comment := &models.Comment{
		CheckInID: checkInID,
		UserID:    middleware.CurrentUser(c).ID,
		Content:   content,
	}

	if req.ParentCommentID != "" {
		parentID, err := uuid.Parse(req.ParentCommentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent comment ID"})
			return
		}
		parent, err := h.comments.GetComment(c, parentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
				return
			}
			writeError(c, err)
			return
		}
		if parent.CheckInID != checkInID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to another check-in"})
			return
		}
		if parent.ReplyDepth+1 > models.MaxReplyDepth {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum reply depth reached"})
			return
		}
		comment.ParentCommentID = &parent.ID
		comment.ReplyDepth = parent.ReplyDepth + 1
	}

	if err := h.comments.CreateComment(c, comment); err != nil {
		log.Printf("Error creating comment on %s: %v", checkInID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	checkInID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in ID"})
		return
	}
	comments, err := h.comments.ListComments(c, checkInID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
