package txbuilder

import (
	"errors"
	"fmt"

	"github.com/tangleforge/ledgerwallet/ids"
)

// Sentinel errors for conditions without extra structured data (§7).
var (
	ErrNoAvailableInputsProvided = errors.New("txbuilder: no available inputs were provided")
	ErrNftNotFoundInUnspentOutputs = errors.New("txbuilder: nft not found in unspent outputs")
	ErrExpirationDeadzone        = errors.New("txbuilder: a required input's expiration falls within the committable-age deadzone")
	ErrMissingInputWithEd25519Address = errors.New("txbuilder: no available input is controlled by an owned Ed25519 address")
)

// InsufficientAmountError is the §7 input-constraint error for a base
// token shortfall.
type InsufficientAmountError struct {
	Found    uint64
	Required uint64
}

func (e *InsufficientAmountError) Error() string {
	return fmt.Sprintf("txbuilder: insufficient amount: found %d, required %d", e.Found, e.Required)
}

// InsufficientStorageDepositError mirrors output.InsufficientStorageDepositError
// at the transaction level (e.g. the remainder output can't meet its own
// minimum, §4.F).
type InsufficientStorageDepositError struct {
	Found    uint64
	Required uint64
}

func (e *InsufficientStorageDepositError) Error() string {
	return fmt.Sprintf("txbuilder: insufficient storage deposit: found %d, required %d", e.Found, e.Required)
}

// UnfulfillableRequirementError reports that no candidate input(s) exist
// to satisfy req.
type UnfulfillableRequirementError struct {
	Requirement Requirement
}

func (e *UnfulfillableRequirementError) Error() string {
	return fmt.Sprintf("txbuilder: unfulfillable requirement: %s", e.Requirement)
}

// AdditionalInputsRequiredError is raised instead of silently picking
// more inputs when the caller disabled automatic additional-input
// selection (§7 Intent errors).
type AdditionalInputsRequiredError struct {
	Requirement Requirement
}

func (e *AdditionalInputsRequiredError) Error() string {
	return fmt.Sprintf("txbuilder: additional inputs required to satisfy: %s", e.Requirement)
}

// InvalidInputCountError / InvalidOutputCountError report a Count outside
// [1, Max] (invariant 1, §3).
type InvalidInputCountError struct {
	Count int
	Max   int
}

func (e *InvalidInputCountError) Error() string {
	return fmt.Sprintf("txbuilder: invalid input count %d (max %d)", e.Count, e.Max)
}

type InvalidOutputCountError struct {
	Count int
	Max   int
}

func (e *InvalidOutputCountError) Error() string {
	return fmt.Sprintf("txbuilder: invalid output count %d (max %d)", e.Count, e.Max)
}

// DuplicateUTXOError reports invariant 2 (§3) violation: an input
// appeared twice.
type DuplicateUTXOError struct {
	OutputID ids.OutputID
}

func (e *DuplicateUTXOError) Error() string {
	return fmt.Sprintf("txbuilder: duplicate utxo %s", e.OutputID)
}

// DuplicateOutputChainError reports invariant 5 (§3) violation: two
// outputs share a non-null ChainID.
type DuplicateOutputChainError struct {
	ChainID ids.ChainID
}

func (e *DuplicateOutputChainError) Error() string {
	return fmt.Sprintf("txbuilder: duplicate output chain %s", e.ChainID)
}

// BurnAndTransitionError reports an attempt to both burn and transition
// the same chain (§4.H).
type BurnAndTransitionError struct {
	ChainID ids.ChainID
}

func (e *BurnAndTransitionError) Error() string {
	return fmt.Sprintf("txbuilder: chain %s is both burned and transitioned", e.ChainID)
}

// TransactionAmountSumError reports a conservation-equation imbalance
// (invariant 6, §3) caught at assembly.
type TransactionAmountSumError struct {
	InTotal  uint64
	OutTotal uint64
}

func (e *TransactionAmountSumError) Error() string {
	return fmt.Sprintf("txbuilder: amount sum mismatch: in %d, out %d", e.InTotal, e.OutTotal)
}

// NetworkIDMismatchError reports a protocol/data error (§7).
type NetworkIDMismatchError struct {
	Expected, Found uint64
}

func (e *NetworkIDMismatchError) Error() string {
	return fmt.Sprintf("txbuilder: network id mismatch: expected %d, found %d", e.Expected, e.Found)
}

// InvalidFieldError wraps a field-name-scoped validation failure.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("txbuilder: invalid field %q", e.Field)
}
