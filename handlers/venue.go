package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibemap-backend/models"
)

type VenueStore interface {
	GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	NearbyVenues(ctx context.Context, lat, lng float64, limit int) ([]models.Venue, error)
	TrendingVenues(ctx context.Context, limit int) ([]models.Venue, error)
	ListVenueCheckIns(ctx context.Context, venueID uuid.UUID, limit int) ([]models.CheckIn, error)
}

type VenueHandler struct {
	venues VenueStore
}

func NewVenueHandler(venues VenueStore) *VenueHandler {
	return &VenueHandler{venues: venues}
}

func (h *VenueHandler) GetNearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat/lng out of range"})
		return
	}

	venues, err := h.venues.NearbyVenues(c, lat, lng, queryLimit(c, 50, 200))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, venues)
}

func (h *VenueHandler) GetTrending(c *gin.Context) {
	venues, err := h.venues.TrendingVenues(c, queryLimit(c, 10, 50))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, venues)
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}
	venue, err := h.venues.GetVenue(c, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) GetVenueCheckIns(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}
	checkIns, err := h.venues.ListVenueCheckIns(c, id, queryLimit(c, 20, 100))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkIns": checkIns})
}
