package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"vibemap-backend/models"
	"vibemap-backend/store"
	"vibemap-backend/sui"
)

// DefaultImageURL is used when a check-in carries no photo.
const DefaultImageURL = "https://vibemap.app/default-stamp.png"

var (
	ErrVenueNotFound = errors.New("venue not found")
	// ErrVenueNotOnChain is returned by the sponsor-only flow, which has
	// nothing to sponsor for an unregistered venue.
	ErrVenueNotOnChain = errors.New("venue is not registered on-chain")
)

// Store is the persistence the check-in flow needs.
type Store interface {
	GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	CreateCheckIn(ctx context.Context, ci *models.CheckIn) error
	SetVenueCheckIns(ctx context.Context, id uuid.UUID, total int) error
	IncrementUserStamps(ctx context.Context, id uuid.UUID) error
	RecordSponsoredTransaction(ctx context.Context, tx *models.SponsoredTransaction) error
}

// Submitter sponsors and optionally executes check-in calls.
type Submitter interface {
	Sponsor(ctx context.Context, call *sui.CheckInCall) (*sui.SponsorshipResult, error)
	Execute(ctx context.Context, call *sui.CheckInCall) (*sui.SponsorshipResult, error)
}

type Request struct {
	User      *models.User
	VenueID   uuid.UUID
	ImageURL  string
	Caption   string
	Rating    int
	Latitude  *float64
	Longitude *float64
}

// Result is the outcome of a check-in. Exactly one of Mock and OnChain is
// set.
type Result struct {
	Mock       bool
	OnChain    bool
	CheckIn    *models.CheckIn
	StampNftID string
	Tx         *sui.SponsorshipResult
	Stamped    *sui.StampEvent
}

type Service struct {
	store     Store
	builder   *sui.Builder
	submitter Submitter
	log       *slog.Logger
	now       func() time.Time
}

// NewService wires the check-in flow. submitter may be nil when no admin
// wallet is configured; on-chain venues then fail with a configuration
// error while unregistered venues keep working.
func NewService(st Store, builder *sui.Builder, submitter Submitter, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, builder: builder, submitter: submitter, log: log, now: time.Now}
}

// CheckIn records a visit. Unregistered venues get a locally generated
// mock stamp; registered venues mint through the submitter first and only
// persist once execution succeeded.
func (s *Service) CheckIn(ctx context.Context, req Request) (*Result, error) {
	venue, params, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if !venue.IsOnChain() {
		return s.mockCheckIn(ctx, req, venue, params)
	}
	return s.onChainCheckIn(ctx, req, venue, params)
}

// Sponsor returns sponsor-signed bytes for the user to co-sign and submit.
// Nothing is persisted.
func (s *Service) Sponsor(ctx context.Context, req Request) (*sui.SponsorshipResult, error) {
	venue, params, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if !venue.IsOnChain() {
		return nil, ErrVenueNotOnChain
	}
	call, err := s.build(params)
	if err != nil {
		return nil, err
	}
	return s.submitter.Sponsor(ctx, call)
}

func (s *Service) prepare(ctx context.Context, req Request) (*models.Venue, sui.CheckInParams, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, sui.CheckInParams{}, fmt.Errorf("%w: rating must be between 1 and 5, got %d", sui.ErrValidation, req.Rating)
	}
	venue, err := s.store.GetVenue(ctx, req.VenueID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, sui.CheckInParams{}, ErrVenueNotFound
	}
	if err != nil {
		return nil, sui.CheckInParams{}, fmt.Errorf("failed to load venue: %w", err)
	}

	lat, lng := venue.Latitude, venue.Longitude
	if req.Latitude != nil {
		lat = *req.Latitude
	}
	if req.Longitude != nil {
		lng = *req.Longitude
	}
	if err := sui.ValidateCoordinates(lat, lng); err != nil {
		return nil, sui.CheckInParams{}, err
	}
	image := req.ImageURL
	if image == "" {
		image = DefaultImageURL
	}
	params := sui.CheckInParams{
		ImageURL:  image,
		Caption:   req.Caption,
		Rating:    req.Rating,
		Recipient: req.User.WalletAddress,
		Latitude:  &lat,
		Longitude: &lng,
	}
	if venue.IsOnChain() {
		params.VenueObjectID = *venue.OnChainID
	}
	return venue, params, nil
}

func (s *Service) build(params sui.CheckInParams) (*sui.CheckInCall, error) {
	if s.submitter == nil {
		return nil, fmt.Errorf("%w: admin wallet is not configured", sui.ErrConfiguration)
	}
	return s.builder.CheckIn(params)
}

func (s *Service) mockCheckIn(ctx context.Context, req Request, venue *models.Venue, params sui.CheckInParams) (*Result, error) {
	stampID := models.MockStampPrefix + strconv.FormatInt(s.now().UnixMilli(), 10)
	ci, err := s.persist(ctx, req, venue, params, stampID, venue.TotalCheckIns+1)
	if err != nil {
		return nil, err
	}
	s.log.Info("mock check-in recorded", "venue", venue.ID, "user", req.User.ID, "stamp", stampID, "visitor", ci.VisitorNumber)
	return &Result{Mock: true, CheckIn: ci, StampNftID: stampID}, nil
}

func (s *Service) onChainCheckIn(ctx context.Context, req Request, venue *models.Venue, params sui.CheckInParams) (*Result, error) {
	call, err := s.build(params)
	if err != nil {
		return nil, err
	}

	// Once submitted the transaction cannot be recalled, so neither the
	// execution wait nor the reconciliation writes follow the request.
	ctx = context.WithoutCancel(ctx)

	res, err := s.submitter.Execute(ctx, call)
	if err != nil {
		var gasErr *sui.GasFundingError
		if errors.As(err, &gasErr) {
			s.log.Error("admin wallet cannot fund check-in", "reason", gasErr.Reason, "owner", gasErr.Owner, "balance", gasErr.Balance, "budget", gasErr.Budget)
		}
		return nil, err
	}

	visitor := venue.TotalCheckIns + 1
	stampID := res.Digest
	if res.Stamped != nil {
		stampID = res.Stamped.StampID
		n, err := res.Stamped.VisitorNumberInt()
		switch {
		case err != nil:
			s.log.Warn("visitor number not usable, using venue counter", "digest", res.Digest, "error", err)
		case n > 0:
			visitor = n
		}
	}

	ci, err := s.persist(ctx, req, venue, params, stampID, visitor)
	if err != nil {
		s.log.Error("check-in executed but not recorded", "digest", res.Digest, "error", err)
		return nil, err
	}

	gasUsed := "0"
	if res.Effects != nil {
		if total, err := res.Effects.GasUsed.Total(); err != nil {
			s.log.Warn("gas used not recorded", "digest", res.Digest, "error", err)
		} else {
			gasUsed = strconv.FormatInt(total, 10)
		}
	}
	tx := &models.SponsoredTransaction{
		UserID:            req.User.ID,
		TransactionDigest: res.Digest,
		TransactionType:   models.TxTypeCheckIn,
		GasUsed:           gasUsed,
		Status:            models.TxStatusOK,
	}
	if err := s.store.RecordSponsoredTransaction(ctx, tx); err != nil {
		s.log.Warn("failed to record sponsored transaction", "digest", res.Digest, "error", err)
	}

	s.log.Info("on-chain check-in recorded", "venue", venue.ID, "user", req.User.ID, "digest", res.Digest, "visitor", visitor)
	return &Result{OnChain: true, CheckIn: ci, StampNftID: stampID, Tx: res, Stamped: res.Stamped}, nil
}

// persist writes the check-in row and bumps the counters. The venue counter
// is set from the value read in prepare, so concurrent check-ins at one
// venue can lose updates and share a visitor number.
func (s *Service) persist(ctx context.Context, req Request, venue *models.Venue, params sui.CheckInParams, stampID string, visitor int) (*models.CheckIn, error) {
	ci := &models.CheckIn{
		UserID:        req.User.ID,
		VenueID:       venue.ID,
		Latitude:      *params.Latitude,
		Longitude:     *params.Longitude,
		PhotoURL:      params.ImageURL,
		Caption:       params.Caption,
		Rating:        params.Rating,
		StampNftID:    stampID,
		VisitorNumber: visitor,
	}
	if err := s.store.CreateCheckIn(ctx, ci); err != nil {
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}
	if err := s.store.SetVenueCheckIns(ctx, venue.ID, venue.TotalCheckIns+1); err != nil {
		return nil, fmt.Errorf("failed to update venue counter: %w", err)
	}
	if err := s.store.IncrementUserStamps(ctx, req.User.ID); err != nil {
		return nil, fmt.Errorf("failed to update user stamps: %w", err)
	}
	return ci, nil
}
