package types

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrSignatureInvalid = errors.New("signature invalid")

	ErrDerivationFailed = errors.New("address derivation failed")

	ErrLedgerQueryFailed = errors.New("ledger query failed")

	ErrLedgerSubmitFailed = errors.New("ledger submission failed")

	// ErrOutcomeUnknown means the transaction was submitted but its fate
	// could not be observed; it may still land. Callers must re-check
	// on-chain state before retrying.
	ErrOutcomeUnknown = errors.New("transaction outcome unknown")

	ErrListingNotFound = errors.New("listing not found")

	ErrListingNotActive = errors.New("listing not active")

	ErrListingMalformed = errors.New("listing account malformed")

	ErrListingExists = errors.New("listing already exists")

	ErrAccountMalformed = errors.New("account data malformed")

	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrProviderFailed = errors.New("image provider failed")

	ErrProviderTimedOut = errors.New("image provider timed out")

	ErrNotImplemented = errors.New("not implemented")

	ErrNotFound = errors.New("not found")
)
