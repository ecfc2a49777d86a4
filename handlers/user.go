package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibemap-backend/middleware"
	"vibemap-backend/models"
	"vibemap-backend/sui"
)

type UserStore interface {
	UpsertGoogleUser(ctx context.Context, req models.GoogleAuthRequest) (*models.User, error)
	UpsertTelegramUser(ctx context.Context, req models.TelegramAuthRequest) (*models.User, error)
	ListUserCheckIns(ctx context.Context, userID uuid.UUID) ([]models.CheckInWithVenue, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// BalanceReader reads a wallet's SUI balance from the ledger.
type BalanceReader interface {
	GetBalance(ctx context.Context, owner string) (*sui.Balance, error)
}

type UserHandler struct {
	users  UserStore
	ledger BalanceReader
}

func NewUserHandler(users UserStore, ledger BalanceReader) *UserHandler {
	return &UserHandler{
		users:  users,
		ledger: ledger,
	}
}

func (h *UserHandler) GoogleAuth(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := sui.ParseAddress(req.WalletAddress); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Google sign-in for %s", req.Email)
	user, err := h.users.UpsertGoogleUser(c, req)
	if err != nil {
		log.Printf("Error upserting google user %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": req.Email})
}

// TelegramAuth trusts the telegram id in the body; initData is accepted
// but not verified.
func (h *UserHandler) TelegramAuth(c *gin.Context) {
	var req models.TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := sui.ParseAddress(req.WalletAddress); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Telegram sign-in for %s", req.TelegramID)
	user, err := h.users.UpsertTelegramUser(c, req)
	if err != nil {
		log.Printf("Error upserting telegram user %s: %v", req.TelegramID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": req.TelegramID})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	// Balance is best-effort; the profile renders with "0" when the
	// fullnode is unreachable.
	balance := "0"
	if h.ledger != nil {
		if bal, err := h.ledger.GetBalance(c, user.WalletAddress); err == nil {
			balance = bal.TotalBalance
		} else {
			log.Printf("Warning: could not fetch balance for %s: %v", user.WalletAddress, err)
		}
	}

	c.JSON(http.StatusOK, models.Profile{User: *user, Balance: balance})
}

func (h *UserHandler) GetMyCheckIns(c *gin.Context) {
	user := middleware.CurrentUser(c)
	checkIns, err := h.users.ListUserCheckIns(c, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkIns": checkIns, "total": len(checkIns)})
}

func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.users.Leaderboard(c, queryLimit(c, 50, 100))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
