package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/packer"
)

// Kind tags an Output variant (§3).
type Kind uint8

const (
	KindBasic Kind = iota
	KindAccount
	KindNft
	KindFoundry
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindAccount:
		return "account"
	case KindNft:
		return "nft"
	case KindFoundry:
		return "foundry"
	default:
		return "unknown"
	}
}

// NativeTokenAmount pairs a token id with an amount, as carried by a
// Basic or Nft output (§3); Account and Foundry outputs carry none.
type NativeTokenAmount struct {
	TokenID ids.TokenID
	Amount  uint64
}

// Output is the common interface of every output variant.
type Output interface {
	Kind() Kind
	Amount() uint64
	// ChainID returns the chain identity of this output, or the nil
	// ChainID for Basic outputs and unminted chain outputs.
	ChainID() ids.ChainID
	UnlockConditions() []UnlockCondition
	Features() []Feature
	ImmutableFeatures() []Feature
	NativeToken() *NativeTokenAmount

	// RequiredAddress resolves the address that currently controls the
	// output at the given slot, honoring expiration (§4.D Filtering).
	RequiredAddress(slot uint64, committableAgeRange [2]uint64) (addr.Address, error)
	// IsTimelocked reports whether the output cannot yet be unlocked at
	// the given slot.
	IsTimelocked(slot uint64, committableAgeRange [2]uint64) bool

	// Pack appends the canonical encoding (discriminator + body) to p.
	Pack(p *packer.Packer)
}

// Sender returns the address of the output's Sender feature, if present.
func Sender(o Output) (addr.Address, bool) {
	return findSender(o.Features())
}

// Issuer returns the address of the output's Issuer immutable feature,
// if present.
func Issuer(o Output) (addr.Address, bool) {
	return findIssuer(o.ImmutableFeatures())
}

// StorageDepositReturn returns the output's SDR unlock condition, if any.
func StorageDepositReturn(o Output) (StorageDepositReturnUnlockCondition, bool) {
	for _, uc := range o.UnlockConditions() {
		if s, ok := uc.(StorageDepositReturnUnlockCondition); ok {
			return s, true
		}
	}
	return StorageDepositReturnUnlockCondition{}, false
}

// ImmutableFeaturesEqual reports byte-identical immutable features
// between an input chain output and its transitioned counterpart,
// implementing invariant 9 of §3.
func ImmutableFeaturesEqual(a, b Output) bool {
	fa, fb := a.ImmutableFeatures(), b.ImmutableFeatures()
	if len(fa) != len(fb) {
		return false
	}
	pa, pb := packer.NewPacker(64), packer.NewPacker(64)
	for _, f := range fa {
		packFeature(pa, f)
	}
	for _, f := range fb {
		packFeature(pb, f)
	}
	return string(pa.Bytes()) == string(pb.Bytes())
}

func packFeature(p *packer.Packer, f Feature) {
	p.PackByte(byte(f.FeatureKind()))
	switch v := f.(type) {
	case SenderFeature:
		v.Address.Pack(p)
	case IssuerFeature:
		v.Address.Pack(p)
	case MetadataFeature:
		_ = p.PackPrefixedBytes(v.Data, 2)
	case TagFeature:
		_ = p.PackPrefixedBytes(v.Tag, 1)
	}
}

func packCondition(p *packer.Packer, c UnlockCondition) {
	p.PackByte(byte(c.ConditionKind()))
	switch v := c.(type) {
	case AddressUnlockCondition:
		v.Address.Pack(p)
	case StorageDepositReturnUnlockCondition:
		v.ReturnAddress.Pack(p)
		p.PackUint64(v.Amount)
	case TimelockUnlockCondition:
		p.PackUint64(v.Slot)
	case ExpirationUnlockCondition:
		v.ReturnAddress.Pack(p)
		p.PackUint64(v.Slot)
	}
}
