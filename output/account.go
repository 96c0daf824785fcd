package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/packer"
)

// AccountOutput is a chain output of stable identity (§3). An all-zero
// ID means "to be minted" by this transaction.
type AccountOutput struct {
	conditionSet

	amount           uint64
	id               ids.AccountID
	foundryCounter   uint32
	features         []Feature
	immutableFeatures []Feature
}

func NewAccountOutput(
	amount uint64,
	id ids.AccountID,
	foundryCounter uint32,
	ownerAddress addr.Address,
	features, immutableFeatures []Feature,
) *AccountOutput {
	return &AccountOutput{
		conditionSet:      conditionSet{Conditions: []UnlockCondition{AddressUnlockCondition{Address: ownerAddress}}},
		amount:            amount,
		id:                id,
		foundryCounter:    foundryCounter,
		features:          features,
		immutableFeatures: immutableFeatures,
	}
}

func (o *AccountOutput) Kind() Kind           { return KindAccount }
func (o *AccountOutput) Amount() uint64       { return o.amount }
func (o *AccountOutput) ID() ids.AccountID    { return o.id }
func (o *AccountOutput) FoundryCounter() uint32 { return o.foundryCounter }

func (o *AccountOutput) ChainID() ids.ChainID { return ids.AccountChainID(o.id) }

func (o *AccountOutput) UnlockConditions() []UnlockCondition { return o.Conditions }
func (o *AccountOutput) Features() []Feature                { return o.features }
func (o *AccountOutput) ImmutableFeatures() []Feature        { return o.immutableFeatures }
func (o *AccountOutput) NativeToken() *NativeTokenAmount     { return nil }

func (o *AccountOutput) RequiredAddress(slot uint64, ageRange [2]uint64) (addr.Address, error) {
	return o.requiredAddress(slot, ageRange)
}

func (o *AccountOutput) IsTimelocked(slot uint64, ageRange [2]uint64) bool {
	return o.isCurrentlyTimelocked(slot, ageRange)
}

func (o *AccountOutput) WithAmount(amount uint64) *AccountOutput {
	cp := *o
	cp.amount = amount
	return &cp
}

// Transitioned returns a copy of o with id resolved to newID (used when
// the all-zero mint id becomes concrete after assembly) and an
// incremented foundry counter, per §4.E.
func (o *AccountOutput) Transitioned(newID ids.AccountID, newFoundryCounter uint32) *AccountOutput {
	cp := *o
	cp.id = newID
	cp.foundryCounter = newFoundryCounter
	return &cp
}

func (o *AccountOutput) Pack(p *packer.Packer) {
	p.PackByte(byte(KindAccount))
	p.PackUint64(o.amount)
	p.PackBytes(o.id[:])
	p.PackUint32(o.foundryCounter)
	p.PackByte(byte(len(o.Conditions)))
	for _, c := range o.Conditions {
		packCondition(p, c)
	}
	p.PackByte(byte(len(o.features)))
	for _, f := range o.features {
		packFeature(p, f)
	}
	p.PackByte(byte(len(o.immutableFeatures)))
	for _, f := range o.immutableFeatures {
		packFeature(p, f)
	}
}
