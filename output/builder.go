package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
)

// AmountSpec is either an explicit amount or a marker asking the builder
// to resolve the minimum storage deposit at finish time (§4.A).
type AmountSpec struct {
	explicit uint64
	minimum  bool
}

// Amount wraps an explicit, caller-chosen amount.
func Amount(v uint64) AmountSpec { return AmountSpec{explicit: v} }

// MinimumStorageDeposit asks the builder to resolve the amount to this
// output's computed storage deposit at finish time.
func MinimumStorageDeposit() AmountSpec { return AmountSpec{minimum: true} }

// resolve returns the amount to build with, and whether the caller's
// explicit amount (if any) must still be validated against the minimum.
func (s AmountSpec) resolve(min uint64) (amount uint64, mustValidate bool) {
	if s.minimum {
		return min, false
	}
	return s.explicit, true
}

// BasicBuilder builds a BasicOutput, resolving MinimumStorageDeposit
// against a zero-amount prototype the way §4.A's contract describes:
// "packing a zero-amount prototype and applying the formula".
type BasicBuilder struct {
	Conditions []UnlockCondition
	Features   []Feature
	Token      *NativeTokenAmount
}

func (b BasicBuilder) Build(spec AmountSpec, rent RentStructure) (*BasicOutput, error) {
	proto := NewBasicOutput(0, b.Conditions, b.Features, b.Token)
	min := MinimumAmount(proto, rent)
	amount, mustValidate := spec.resolve(min)
	if mustValidate && amount < min {
		return nil, &InsufficientStorageDepositError{Found: amount, Required: min}
	}
	return NewBasicOutput(amount, b.Conditions, b.Features, b.Token), nil
}

// AccountBuilder builds an AccountOutput.
type AccountBuilder struct {
	ID                ids.AccountID
	FoundryCounter    uint32
	OwnerAddress      addr.Address
	Features          []Feature
	ImmutableFeatures []Feature
}

func (b AccountBuilder) Build(spec AmountSpec, rent RentStructure) (*AccountOutput, error) {
	proto := NewAccountOutput(0, b.ID, b.FoundryCounter, b.OwnerAddress, b.Features, b.ImmutableFeatures)
	min := MinimumAmount(proto, rent)
	amount, mustValidate := spec.resolve(min)
	if mustValidate && amount < min {
		return nil, &InsufficientStorageDepositError{Found: amount, Required: min}
	}
	return NewAccountOutput(amount, b.ID, b.FoundryCounter, b.OwnerAddress, b.Features, b.ImmutableFeatures), nil
}

// NftBuilder builds an NftOutput.
type NftBuilder struct {
	ID                ids.NftID
	OwnerAddress      addr.Address
	Features          []Feature
	ImmutableFeatures []Feature
}

func (b NftBuilder) Build(spec AmountSpec, rent RentStructure) (*NftOutput, error) {
	proto := NewNftOutput(0, b.ID, b.OwnerAddress, b.Features, b.ImmutableFeatures)
	min := MinimumAmount(proto, rent)
	amount, mustValidate := spec.resolve(min)
	if mustValidate && amount < min {
		return nil, &InsufficientStorageDepositError{Found: amount, Required: min}
	}
	return NewNftOutput(amount, b.ID, b.OwnerAddress, b.Features, b.ImmutableFeatures), nil
}

// FoundryBuilder builds a FoundryOutput.
type FoundryBuilder struct {
	ControllingAccount ids.AccountID
	SerialNumber       uint32
	Scheme             SimpleTokenScheme
	Features           []Feature
	ImmutableFeatures  []Feature
}

func (b FoundryBuilder) Build(spec AmountSpec, rent RentStructure) (*FoundryOutput, error) {
	proto := NewFoundryOutput(0, b.ControllingAccount, b.SerialNumber, b.Scheme, b.Features, b.ImmutableFeatures)
	min := MinimumAmount(proto, rent)
	amount, mustValidate := spec.resolve(min)
	if mustValidate && amount < min {
		return nil, &InsufficientStorageDepositError{Found: amount, Required: min}
	}
	return NewFoundryOutput(amount, b.ControllingAccount, b.SerialNumber, b.Scheme, b.Features, b.ImmutableFeatures), nil
}
