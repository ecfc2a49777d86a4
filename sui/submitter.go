package sui

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mr-tron/base58"
)

const (
	// DefaultGasBudget is 0.01 SUI.
	DefaultGasBudget uint64 = 10_000_000
	// maxGasObjects is the protocol limit on gas payment coins.
	maxGasObjects = 256
)

// Mode selects what Submit does after signing.
type Mode int

const (
	// SponsorOnly signs as gas sponsor with the user as sender and hands
	// the bytes back for the user to co-sign and submit.
	SponsorOnly Mode = iota
	// ExecuteAndWait makes the admin wallet sender and sponsor, submits,
	// and waits for effects.
	ExecuteAndWait
)

func (m Mode) String() string {
	if m == SponsorOnly {
		return "sponsor_only"
	}
	return "execute_and_wait"
}

// Ledger is the slice of the fullnode API the submitter needs.
type Ledger interface {
	GetCoins(ctx context.Context, owner string, cursor *string) (*CoinPage, error)
	GetReferenceGasPrice(ctx context.Context) (uint64, error)
	GetObject(ctx context.Context, id string) (*ObjectData, error)
	ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (*TransactionBlockResponse, error)
}

type SubmitterConfig struct {
	GasBudget   uint64
	EventMarker string
}

// SponsorshipResult carries either the sponsor-signed bytes or the
// execution outcome, depending on the mode.
type SponsorshipResult struct {
	TxBytes          string              `json:"txBytes,omitempty"`
	SponsorSignature string              `json:"sponsorSignature,omitempty"`
	Digest           string              `json:"digest,omitempty"`
	Effects          *TransactionEffects `json:"effects,omitempty"`
	Events           []Event             `json:"events,omitempty"`
	Stamped          *StampEvent         `json:"stamped"`
	// EventErr is set when execution succeeded but the stamp event could
	// not be decoded.
	EventErr error `json:"-"`
}

// Submitter pays for and authorizes check-in transactions with the admin
// wallet.
type Submitter struct {
	ledger Ledger
	signer Signer
	cfg    SubmitterConfig
	log    *slog.Logger
}

func NewSubmitter(ledger Ledger, signer Signer, cfg SubmitterConfig, log *slog.Logger) *Submitter {
	if cfg.GasBudget == 0 {
		cfg.GasBudget = DefaultGasBudget
	}
	if cfg.EventMarker == "" {
		cfg.EventMarker = DefaultStampEventMarker
	}
	if log == nil {
		log = slog.Default()
	}
	return &Submitter{ledger: ledger, signer: signer, cfg: cfg, log: log}
}

// Sponsor is Submit in SponsorOnly mode.
func (s *Submitter) Sponsor(ctx context.Context, call *CheckInCall) (*SponsorshipResult, error) {
	return s.Submit(ctx, call, SponsorOnly)
}

// Execute is Submit in ExecuteAndWait mode.
func (s *Submitter) Execute(ctx context.Context, call *CheckInCall) (*SponsorshipResult, error) {
	return s.Submit(ctx, call, ExecuteAndWait)
}

// Submit assembles, sponsors and signs call, then returns or executes it
// according to mode. Nothing is retried.
func (s *Submitter) Submit(ctx context.Context, call *CheckInCall, mode Mode) (*SponsorshipResult, error) {
	if s.signer == nil || s.ledger == nil {
		return nil, fmt.Errorf("%w: admin wallet is not configured", ErrConfiguration)
	}
	admin := s.signer.Address()

	sender := admin
	if mode == SponsorOnly {
		sender = call.Recipient
	}

	tx, err := s.assemble(ctx, call, sender, admin)
	if err != nil {
		return nil, err
	}
	txBytes := tx.Marshal()
	sig, err := s.signer.SignTransaction(txBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	encoded := base64.StdEncoding.EncodeToString(txBytes)

	if mode == SponsorOnly {
		s.log.Info("sponsored check-in transaction", "sender", sender.String(), "venue", call.Venue.String())
		return &SponsorshipResult{TxBytes: encoded, SponsorSignature: sig}, nil
	}

	resp, err := s.ledger.ExecuteTransactionBlock(ctx, encoded, []string{sig})
	if err != nil {
		return nil, submissionErr("execute transaction", err)
	}
	if resp.Effects == nil {
		return nil, fmt.Errorf("%w: transaction %s returned no effects", ErrSubmission, resp.Digest)
	}
	if resp.Effects.Status.Status != "success" {
		return nil, fmt.Errorf("%w: transaction %s failed: %s", ErrSubmission, resp.Digest, resp.Effects.Status.Error)
	}

	result := &SponsorshipResult{
		Digest:  resp.Digest,
		Effects: resp.Effects,
		Events:  resp.Events,
	}
	stamped, err := ParseStampEvent(resp.Events, s.cfg.EventMarker)
	if err != nil {
		s.log.Warn("stamp event not decoded", "digest", resp.Digest, "error", err)
		result.EventErr = err
	} else {
		result.Stamped = stamped
	}
	s.log.Info("executed check-in transaction", "digest", resp.Digest, "venue", call.Venue.String(), "stamped", stamped != nil)
	return result, nil
}

func (s *Submitter) assemble(ctx context.Context, call *CheckInCall, sender, gasOwner Address) (*TransactionData, error) {
	venue, err := s.resolveObject(ctx, call.Venue)
	if err != nil {
		return nil, err
	}
	payment, err := s.gasPayment(ctx, gasOwner)
	if err != nil {
		return nil, err
	}
	price, err := s.ledger.GetReferenceGasPrice(ctx)
	if err != nil {
		return nil, submissionErr("fetch reference gas price", err)
	}

	tx := newCheckInTransaction(call, venue)
	tx.Sender = sender
	tx.GasOwner = gasOwner
	tx.GasPayment = payment
	tx.GasPrice = price
	tx.GasBudget = s.cfg.GasBudget
	return tx, nil
}

// objectOwner is the subset of the Owner enum a venue can have.
type objectOwner struct {
	Shared *struct {
		InitialSharedVersion json.Number `json:"initial_shared_version"`
	} `json:"Shared"`
}

func (s *Submitter) resolveObject(ctx context.Context, id Address) (ObjectArg, error) {
	obj, err := s.ledger.GetObject(ctx, id.String())
	if err != nil {
		return ObjectArg{}, submissionErr("resolve venue object", err)
	}
	var owner objectOwner
	// "Immutable" is a bare JSON string; it fails to decode and is
	// treated like an owned object.
	if err := json.Unmarshal(obj.Owner, &owner); err == nil && owner.Shared != nil {
		v, err := strconv.ParseUint(owner.Shared.InitialSharedVersion.String(), 10, 64)
		if err != nil {
			return ObjectArg{}, submissionErr("resolve venue object", err)
		}
		return ObjectArg{SharedID: id, InitialSharedVersion: v, Mutable: true}, nil
	}
	ref, err := parseObjectRef(obj.ObjectID, obj.Version, obj.Digest)
	if err != nil {
		return ObjectArg{}, submissionErr("resolve venue object", err)
	}
	return ObjectArg{Owned: &ref}, nil
}

// gasPayment pages through the owner's coins until the budget is covered
// or the protocol's gas object limit is reached.
func (s *Submitter) gasPayment(ctx context.Context, owner Address) ([]ObjectRef, error) {
	var (
		refs   []ObjectRef
		total  uint64
		cursor *string
	)
	for {
		page, err := s.ledger.GetCoins(ctx, owner.String(), cursor)
		if err != nil {
			return nil, submissionErr("fetch gas coins", err)
		}
		for _, c := range page.Data {
			if total >= s.cfg.GasBudget || len(refs) == maxGasObjects {
				break
			}
			ref, err := parseObjectRef(c.CoinObjectID, c.Version, c.Digest)
			if err != nil {
				return nil, submissionErr("decode gas coin", err)
			}
			bal, err := strconv.ParseUint(c.Balance, 10, 64)
			if err != nil {
				return nil, submissionErr("decode gas coin", fmt.Errorf("balance %q: %w", c.Balance, err))
			}
			total += bal
			refs = append(refs, ref)
		}
		if total >= s.cfg.GasBudget || len(refs) == maxGasObjects || !page.HasNextPage || page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	if len(refs) == 0 {
		return nil, &GasFundingError{Reason: GasNoCoins, Owner: owner.String(), Budget: s.cfg.GasBudget}
	}
	if total < s.cfg.GasBudget {
		return nil, &GasFundingError{Reason: GasInsufficientBalance, Owner: owner.String(), Balance: total, Budget: s.cfg.GasBudget}
	}
	return refs, nil
}

func parseObjectRef(id, version, digest string) (ObjectRef, error) {
	addr, err := ParseAddress(id)
	if err != nil {
		return ObjectRef{}, err
	}
	v, err := strconv.ParseUint(version, 10, 64)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("object %s version %q: %w", id, version, err)
	}
	d, err := base58.Decode(digest)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("object %s digest: %w", id, err)
	}
	if len(d) != 32 {
		return ObjectRef{}, fmt.Errorf("object %s digest has %d bytes", id, len(d))
	}
	return ObjectRef{ObjectID: addr, Version: v, Digest: d}, nil
}
