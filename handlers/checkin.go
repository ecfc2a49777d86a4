package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vibemap-backend/checkin"
	"vibemap-backend/middleware"
	"vibemap-backend/models"
	"vibemap-backend/sui"
)

// CheckinService is the check-in flow behind the sponsor endpoints.
type CheckinService interface {
	CheckIn(ctx context.Context, req checkin.Request) (*checkin.Result, error)
	Sponsor(ctx context.Context, req checkin.Request) (*sui.SponsorshipResult, error)
}

type CheckinHandler struct {
	service CheckinService
}

func NewCheckinHandler(service CheckinService) *CheckinHandler {
	return &CheckinHandler{service: service}
}

func (h *CheckinHandler) bind(c *gin.Context) (checkin.Request, bool) {
	var req models.SponsorCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return checkin.Request{}, false
	}
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return checkin.Request{}, false
	}
	return checkin.Request{
		User:      middleware.CurrentUser(c),
		VenueID:   venueID,
		ImageURL:  req.ImageURL,
		Caption:   req.Caption,
		Rating:    req.Rating,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, true
}

// SponsorCheckIn runs the server-authoritative flow: mock stamp for
// unregistered venues, executed mint for registered ones.
func (h *CheckinHandler) SponsorCheckIn(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	log.Printf("Check-in: user=%s venue=%s", req.User.ID, req.VenueID)

	res, err := h.service.CheckIn(c, req)
	if err != nil {
		writeError(c, err)
		return
	}

	if res.Mock {
		c.JSON(http.StatusOK, gin.H{
			"mock":       true,
			"checkIn":    res.CheckIn,
			"stampNftId": res.StampNftID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"onChain": true,
		"tx":      res.Tx,
		"stamped": res.Stamped,
		"checkIn": res.CheckIn,
	})
}

// SponsorLegacy returns sponsor-signed bytes for the client to co-sign and
// submit. No check-in is recorded.
func (h *CheckinHandler) SponsorLegacy(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	log.Printf("Sponsor-only check-in: user=%s venue=%s", req.User.ID, req.VenueID)

	res, err := h.service.Sponsor(c, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"txBytes":          res.TxBytes,
		"sponsorSignature": res.SponsorSignature,
	})
}

// VibeDrop reports the contract encoding of a free-standing coordinate.
func (h *CheckinHandler) VibeDrop(c *gin.Context) {
	var req models.VibeDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude/longitude out of range"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Vibe drop logic initiated",
		"latU64":  strconv.FormatUint(sui.EncodeCoordinate(req.Latitude), 10),
		"lngU64":  strconv.FormatUint(sui.EncodeCoordinate(req.Longitude), 10),
	})
}
