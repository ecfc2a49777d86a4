package sui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultStampEventMarker matches the StampMinted event type of any
// published version of the venue registry package.
const DefaultStampEventMarker = "::venue_registry::StampMinted"

// StampEvent is the decoded StampMinted payload.
type StampEvent struct {
	StampID       string `json:"stampId"`
	VenueID       string `json:"venueId,omitempty"`
	Owner         string `json:"owner,omitempty"`
	VisitorNumber string `json:"visitorNumber"`
	Rarity        *uint8 `json:"rarity,omitempty"`
}

// VisitorNumberInt returns the visitor number as an int.
func (e *StampEvent) VisitorNumberInt() (int, error) {
	n, err := strconv.Atoi(e.VisitorNumber)
	if err != nil {
		return 0, fmt.Errorf("%w: visitor_number %q: %v", ErrEventParse, e.VisitorNumber, err)
	}
	return n, nil
}

// stampMintedJSON is the parsedJson wire schema. It is a flat object;
// u64 fields arrive as decimal strings and u8 fields as numbers.
type stampMintedJSON struct {
	StampID       *string `json:"stamp_id"`
	VenueID       *string `json:"venue_id"`
	Owner         *string `json:"owner"`
	VisitorNumber *string `json:"visitor_number"`
	Rarity        *uint8  `json:"rarity"`
}

// ParseStampEvent decodes the first event whose type contains marker.
// Every failure, including a missing event, wraps ErrEventParse.
func ParseStampEvent(events []Event, marker string) (*StampEvent, error) {
	if marker == "" {
		marker = DefaultStampEventMarker
	}
	for _, ev := range events {
		if !strings.Contains(ev.Type, marker) {
			continue
		}
		return decodeStampMinted(ev.ParsedJSON)
	}
	return nil, fmt.Errorf("%w: no event matching %q", ErrEventParse, marker)
}

func decodeStampMinted(raw json.RawMessage) (*StampEvent, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: parsedJson is not an object", ErrEventParse)
	}
	var wire stampMintedJSON
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventParse, err)
	}
	if wire.StampID == nil || *wire.StampID == "" {
		return nil, fmt.Errorf("%w: stamp_id missing", ErrEventParse)
	}
	if wire.VisitorNumber == nil {
		return nil, fmt.Errorf("%w: visitor_number missing", ErrEventParse)
	}
	if _, err := strconv.ParseUint(*wire.VisitorNumber, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: visitor_number %q is not a u64", ErrEventParse, *wire.VisitorNumber)
	}

	ev := &StampEvent{
		StampID:       *wire.StampID,
		VisitorNumber: *wire.VisitorNumber,
		Rarity:        wire.Rarity,
	}
	if wire.VenueID != nil {
		ev.VenueID = *wire.VenueID
	}
	if wire.Owner != nil {
		ev.Owner = *wire.Owner
	}
	return ev, nil
}
