package sui

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means the service is missing something an operator
	// has to provide: a package id, a signer, a ledger endpoint.
	ErrConfiguration = errors.New("sui: configuration error")
	// ErrValidation means a caller supplied an argument the contract
	// cannot accept.
	ErrValidation = errors.New("sui: invalid argument")
	// ErrGasFunding means the admin wallet cannot pay for the transaction.
	// Always returned as a *GasFundingError.
	ErrGasFunding = errors.New("sui: gas funding error")
	// ErrSubmission means the network rejected, failed or timed out the
	// transaction, or the transaction aborted on chain.
	ErrSubmission = errors.New("sui: submission error")
	// ErrEventParse means the execution result had no usable StampMinted
	// event. It is never fatal to a check-in.
	ErrEventParse = errors.New("sui: event parse error")
)

type GasFundingReason string

const (
	GasNoCoins             GasFundingReason = "no_coins"
	GasInsufficientBalance GasFundingReason = "insufficient_balance"
)

// GasFundingError separates an admin wallet with no coin objects at all
// from one whose coins do not cover the gas budget.
type GasFundingError struct {
	Reason  GasFundingReason
	Owner   string
	Balance uint64
	Budget  uint64
}

func (e *GasFundingError) Error() string {
	switch e.Reason {
	case GasNoCoins:
		return fmt.Sprintf("sui: gas funding error: admin wallet %s has no gas coins", e.Owner)
	default:
		return fmt.Sprintf("sui: gas funding error: admin wallet %s holds %d MIST, budget is %d", e.Owner, e.Balance, e.Budget)
	}
}

func (e *GasFundingError) Is(target error) bool {
	return target == ErrGasFunding
}

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func submissionErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSubmission, op, err)
}
