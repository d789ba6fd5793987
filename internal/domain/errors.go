package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnknownNetwork is returned when no network was selected or it is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrMissingDeployer is returned when the network config supplies no deployer account
	ErrMissingDeployer = errors.New("no deployer account configured")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidPrice is returned when a price string cannot be converted exactly to wei
	ErrInvalidPrice = errors.New("invalid price")

	// ErrDeploymentFailed is returned when a contract could not be deployed and confirmed
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrEventMissing is returned when a receipt does not carry the expected event
	ErrEventMissing = errors.New("expected event missing from receipt")

	// ErrTransactionFailed is returned when a transaction could not be submitted or reverted
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrConfirmationTimeout is returned when a transaction was not confirmed in time
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmations")

	// ErrNotListed is returned when a token has no active listing on the marketplace
	ErrNotListed = errors.New("item not listed")

	// ErrAmbiguous is returned when several candidates match and none can be picked
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrNonInteractive is returned when a choice needs a prompt in non-interactive mode
	ErrNonInteractive = errors.New("interactive selection not available in non-interactive mode")
)

// TransactionError describes a failed state-changing call at a given stage.
// It matches ErrTransactionFailed with errors.Is.
type TransactionError struct {
	Stage  string
	TxHash string
	Err    error
}

func (e *TransactionError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("%s transaction %s failed: %v", e.Stage, e.TxHash, e.Err)
	}
	return fmt.Sprintf("%s transaction failed: %v", e.Stage, e.Err)
}

func (e *TransactionError) Unwrap() []error {
	return []error{ErrTransactionFailed, e.Err}
}
