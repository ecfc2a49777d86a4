package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vibemap-backend/checkin"
	"vibemap-backend/store"
	"vibemap-backend/sui"
)

// statusFor maps domain errors to HTTP status codes. Ledger failures,
// configuration and storage errors are all 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, checkin.ErrVenueNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sui.ErrValidation), errors.Is(err, checkin.ErrVenueNotOnChain):
		return http.StatusBadRequest
	default:
		// Gas funding and submission failures are 500s too; the service
		// logs gas funding separately for operators.
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// queryLimit reads ?limit, clamped to [1, max].
func queryLimit(c *gin.Context, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
