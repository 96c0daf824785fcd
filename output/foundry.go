package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/packer"
)

// TokenSchemeKindSimple is the single token-scheme discriminator this
// core supports.
const TokenSchemeKindSimple byte = 0

// FoundryOutput mints and melts a specific native token (§3). It must be
// unlocked by an AccountAddress, never minted implicitly (§4.E: "not
// auto-transitioned; must be explicit").
type FoundryOutput struct {
	conditionSet

	amount            uint64
	serialNumber      uint32
	scheme            SimpleTokenScheme
	features          []Feature
	immutableFeatures []Feature
}

func NewFoundryOutput(
	amount uint64,
	controllingAccount ids.AccountID,
	serialNumber uint32,
	scheme SimpleTokenScheme,
	features, immutableFeatures []Feature,
) *FoundryOutput {
	return &FoundryOutput{
		conditionSet: conditionSet{Conditions: []UnlockCondition{
			AddressUnlockCondition{Address: addr.AccountAddress{ID: controllingAccount}},
		}},
		amount:            amount,
		serialNumber:      serialNumber,
		scheme:            scheme,
		features:          features,
		immutableFeatures: immutableFeatures,
	}
}

func (o *FoundryOutput) Kind() Kind     { return KindFoundry }
func (o *FoundryOutput) Amount() uint64 { return o.amount }

// ControllingAccount returns the account id that controls this foundry,
// as named by its (required) AccountAddress unlock condition.
func (o *FoundryOutput) ControllingAccount() ids.AccountID {
	main, _ := o.addressCondition()
	acc, _ := main.Address.(addr.AccountAddress)
	return acc.ID
}

func (o *FoundryOutput) SerialNumber() uint32          { return o.serialNumber }
func (o *FoundryOutput) Scheme() SimpleTokenScheme      { return o.scheme }

// ID computes the FoundryID: the controlling account id ‖ serial_number
// ‖ scheme_kind, laid out by ComputeFoundryID. The bytes are not hashed.
func (o *FoundryOutput) ID() ids.FoundryID {
	return ComputeFoundryID(o.ControllingAccount(), o.serialNumber, TokenSchemeKindSimple)
}

func (o *FoundryOutput) ChainID() ids.ChainID { return ids.FoundryChainID(o.ID()) }

func (o *FoundryOutput) UnlockConditions() []UnlockCondition { return o.Conditions }
func (o *FoundryOutput) Features() []Feature                { return o.features }
func (o *FoundryOutput) ImmutableFeatures() []Feature        { return o.immutableFeatures }
func (o *FoundryOutput) NativeToken() *NativeTokenAmount     { return nil }

func (o *FoundryOutput) RequiredAddress(slot uint64, ageRange [2]uint64) (addr.Address, error) {
	return o.requiredAddress(slot, ageRange)
}

func (o *FoundryOutput) IsTimelocked(slot uint64, ageRange [2]uint64) bool {
	return o.isCurrentlyTimelocked(slot, ageRange)
}

func (o *FoundryOutput) WithAmount(amount uint64) *FoundryOutput {
	cp := *o
	cp.amount = amount
	return &cp
}

// WithScheme returns a copy with an updated token scheme, used by the
// transition engine when verifying/applying a minted-melted delta.
func (o *FoundryOutput) WithScheme(scheme SimpleTokenScheme) *FoundryOutput {
	cp := *o
	cp.scheme = scheme
	return &cp
}

func (o *FoundryOutput) Pack(p *packer.Packer) {
	p.PackByte(byte(KindFoundry))
	p.PackUint64(o.amount)
	p.PackUint32(o.serialNumber)
	p.PackByte(TokenSchemeKindSimple)
	p.PackUint64(o.scheme.MintedTokens)
	p.PackUint64(o.scheme.MeltedTokens)
	p.PackUint64(o.scheme.MaximumSupply)
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

// ComputeFoundryID derives the FoundryID from a controlling account id,
// serial number, and token-scheme-kind discriminator (§3).
func ComputeFoundryID(controllingAccount ids.AccountID, serialNumber uint32, schemeKind byte) ids.FoundryID {
	var id ids.FoundryID
	copy(id[:ids.IDLen], controllingAccount[:])
	id[32] = byte(serialNumber >> 24)
	id[33] = byte(serialNumber >> 16)
	id[34] = byte(serialNumber >> 8)
	id[35] = byte(serialNumber)
	id[36] = schemeKind
	// id[37] reserved, left zero.
	return id
}
