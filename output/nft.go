package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/packer"
)

// NftOutput is a chain output representing a unique, non-fungible asset
// (§3). An all-zero ID means "to be minted" by this transaction.
type NftOutput struct {
	conditionSet

	amount            uint64
	id                ids.NftID
	nativeToken       *NativeTokenAmount
	features          []Feature
	immutableFeatures []Feature
}

func NewNftOutput(
	amount uint64,
	id ids.NftID,
	ownerAddress addr.Address,
	features, immutableFeatures []Feature,
) *NftOutput {
	return &NftOutput{
		conditionSet:      conditionSet{Conditions: []UnlockCondition{AddressUnlockCondition{Address: ownerAddress}}},
		amount:            amount,
		id:                id,
		features:          features,
		immutableFeatures: immutableFeatures,
	}
}

func (o *NftOutput) Kind() Kind        { return KindNft }
func (o *NftOutput) Amount() uint64    { return o.amount }
func (o *NftOutput) ID() ids.NftID     { return o.id }
func (o *NftOutput) ChainID() ids.ChainID { return ids.NftChainID(o.id) }

func (o *NftOutput) UnlockConditions() []UnlockCondition { return o.Conditions }
func (o *NftOutput) Features() []Feature                { return o.features }
func (o *NftOutput) ImmutableFeatures() []Feature        { return o.immutableFeatures }
func (o *NftOutput) NativeToken() *NativeTokenAmount     { return o.nativeToken }

func (o *NftOutput) RequiredAddress(slot uint64, ageRange [2]uint64) (addr.Address, error) {
	return o.requiredAddress(slot, ageRange)
}

func (o *NftOutput) IsTimelocked(slot uint64, ageRange [2]uint64) bool {
	return o.isCurrentlyTimelocked(slot, ageRange)
}

func (o *NftOutput) WithAmount(amount uint64) *NftOutput {
	cp := *o
	cp.amount = amount
	return &cp
}

// Transitioned returns a copy of o with its id resolved to newID, with
// identical conditions/features/immutable features (§4.E: the nft
// transition copy carries the input's features and unlock conditions
// verbatim).
func (o *NftOutput) Transitioned(newID ids.NftID) *NftOutput {
	cp := *o
	cp.id = newID
	return &cp
}

func (o *NftOutput) Pack(p *packer.Packer) {
	p.PackByte(byte(KindNft))
	p.PackUint64(o.amount)
	p.PackBytes(o.id[:])
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
