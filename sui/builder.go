package sui

import (
	"fmt"
	"unicode/utf8"
)

const (
	DefaultModule   = "venue_registry"
	DefaultFunction = "check_in"
)

type BuilderConfig struct {
	PackageID string
	Module    string
	Function  string
	// ExplicitRecipient passes the recipient as a Move address argument so
	// the stamp goes to the user even when the admin wallet is the sender.
	// Contracts that mint to the sender take no recipient argument.
	ExplicitRecipient bool
}

// Builder assembles unsigned check-in calls. It performs no I/O.
type Builder struct {
	cfg BuilderConfig
}

func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Module == "" {
		cfg.Module = DefaultModule
	}
	if cfg.Function == "" {
		cfg.Function = DefaultFunction
	}
	return &Builder{cfg: cfg}
}

type CheckInParams struct {
	VenueObjectID string
	ImageURL      string
	Caption       string
	Rating        int
	Recipient     string
	Latitude      *float64
	Longitude     *float64
}

// CheckInCall is an unsigned venue_registry::check_in invocation.
type CheckInCall struct {
	Package   Address
	Module    string
	Function  string
	Venue     Address
	ImageURL  []byte
	Caption   string
	Rating    uint8
	Latitude  uint64
	Longitude uint64
	Recipient Address
	Clock     Address

	explicitRecipient bool
}

// CheckIn validates p and returns the call description.
func (b *Builder) CheckIn(p CheckInParams) (*CheckInCall, error) {
	if b.cfg.PackageID == "" {
		return nil, fmt.Errorf("%w: contract package id is not set", ErrConfiguration)
	}
	pkg, err := ParseAddress(b.cfg.PackageID)
	if err != nil {
		return nil, fmt.Errorf("%w: contract package id %q is malformed", ErrConfiguration, b.cfg.PackageID)
	}
	venue, err := ParseAddress(p.VenueObjectID)
	if err != nil {
		return nil, err
	}
	recipient, err := ParseAddress(p.Recipient)
	if err != nil {
		return nil, err
	}
	if p.Rating < 1 || p.Rating > 5 {
		return nil, validationErr("rating must be between 1 and 5, got %d", p.Rating)
	}
	if !utf8.ValidString(p.Caption) {
		return nil, validationErr("caption is not valid UTF-8")
	}

	call := &CheckInCall{
		Package:           pkg,
		Module:            b.cfg.Module,
		Function:          b.cfg.Function,
		Venue:             venue,
		ImageURL:          []byte(p.ImageURL),
		Caption:           p.Caption,
		Rating:            uint8(p.Rating),
		Recipient:         recipient,
		Clock:             ClockObjectID,
		explicitRecipient: b.cfg.ExplicitRecipient,
	}
	if p.Latitude != nil {
		if !validLatitude(*p.Latitude) {
			return nil, validationErr("latitude %v out of range", *p.Latitude)
		}
		call.Latitude = EncodeCoordinate(*p.Latitude)
	}
	if p.Longitude != nil {
		if !validLongitude(*p.Longitude) {
			return nil, validationErr("longitude %v out of range", *p.Longitude)
		}
		call.Longitude = EncodeCoordinate(*p.Longitude)
	}
	return call, nil
}

// Target is the fully qualified Move function, package::module::function.
func (c *CheckInCall) Target() string {
	return c.Package.String() + "::" + c.Module + "::" + c.Function
}

// pureArgs returns the pure inputs in contract argument order, between the
// venue object and the clock.
func (c *CheckInCall) pureArgs() [][]byte {
	args := [][]byte{
		pureBytes(c.ImageURL),
		pureString(c.Caption),
		pureU8(c.Rating),
		pureU64(c.Latitude),
		pureU64(c.Longitude),
	}
	if c.explicitRecipient {
		args = append(args, pureAddress(c.Recipient))
	}
	return args
}
