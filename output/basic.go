package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/packer"
)

// BasicOutput is a plain value-transfer output (§3).
type BasicOutput struct {
	conditionSet

	amount      uint64
	nativeToken *NativeTokenAmount
	features    []Feature
}

// NewBasicOutput constructs a BasicOutput. amount may be zero when the
// caller intends to resolve it later via a storage-deposit marker
// (§4.A); use BasicBuilder for that flow.
func NewBasicOutput(amount uint64, conditions []UnlockCondition, features []Feature, token *NativeTokenAmount) *BasicOutput {
	return &BasicOutput{
		conditionSet: conditionSet{Conditions: conditions},
		amount:       amount,
		nativeToken:  token,
		features:     features,
	}
}

func (o *BasicOutput) Kind() Kind                    { return KindBasic }
func (o *BasicOutput) Amount() uint64                { return o.amount }
func (o *BasicOutput) ChainID() ids.ChainID          { return ids.NilChainID }
func (o *BasicOutput) UnlockConditions() []UnlockCondition { return o.Conditions }
func (o *BasicOutput) Features() []Feature           { return o.features }
func (o *BasicOutput) ImmutableFeatures() []Feature  { return nil }
func (o *BasicOutput) NativeToken() *NativeTokenAmount { return o.nativeToken }

func (o *BasicOutput) RequiredAddress(slot uint64, ageRange [2]uint64) (addr.Address, error) {
	return o.requiredAddress(slot, ageRange)
}

func (o *BasicOutput) IsTimelocked(slot uint64, ageRange [2]uint64) bool {
	return o.isCurrentlyTimelocked(slot, ageRange)
}

// WithAmount returns a shallow copy of o carrying a different amount,
// used by builders resolving a MinimumStorageDeposit marker.
func (o *BasicOutput) WithAmount(amount uint64) *BasicOutput {
	cp := *o
	cp.amount = amount
	return &cp
}

func (o *BasicOutput) Pack(p *packer.Packer) {
	p.PackByte(byte(KindBasic))
	p.PackUint64(o.amount)
	p.PackByte(byte(len(o.Conditions)))
	for _, c := range o.Conditions {
		packCondition(p, c)
	}
	p.PackByte(byte(len(o.features)))
	for _, f := range o.features {
		packFeature(p, f)
	}
	if o.nativeToken != nil {
		p.PackByte(1)
		p.PackBytes(o.nativeToken.TokenID[:])
		p.PackUint64(o.nativeToken.Amount)
	} else {
		p.PackByte(0)
	}
}
