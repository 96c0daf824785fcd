// Package addr implements the Address tagged sum of §3: Ed25519, Account,
// Nft, ImplicitAccountCreation, Restricted, and Anchor addresses. Bech32
// only appears at the module boundary (§6); internally addresses are
// binary and already parsed by the time the core sees them.
package addr

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/tangleforge/ledgerwallet/ids"
)

// Kind tags the Address variant.
type Kind uint8

const (
	KindEd25519 Kind = iota
	KindAccount
	KindNft
	KindImplicitAccountCreation
	KindRestricted
	KindAnchor
)

// Capability flags usable on a Restricted address.
type Capability uint8

const (
	CapabilityNativeTokens Capability = 1 << iota
	CapabilityMana
	CapabilityTimelock
	CapabilityExpiration
	CapabilityStorageDepositReturn
	CapabilityAccount
	CapabilityNft
)

// Address is the common interface of every address variant. Only
// Ed25519 and ImplicitAccountCreation can be signed directly by a secret
// manager; Account and Nft are satisfied by reference unlocks (§3).
type Address interface {
	Kind() Kind
	// Equal reports structural equality (same kind, same identity).
	Equal(Address) bool
	// Pack appends the canonical encoding (discriminator + payload).
	Pack(p interface{ PackByte(byte); PackBytes([]byte) })
	String() string
}

// Signable reports whether a the address can be unlocked by a direct
// signature from the secret manager, as opposed to a reference unlock.
func Signable(a Address) bool {
	switch a.Kind() {
	case KindEd25519, KindImplicitAccountCreation:
		return true
	default:
		return false
	}
}

// Ed25519Address is the hash of an Ed25519 public key.
type Ed25519Address [32]byte

func (a Ed25519Address) Kind() Kind { return KindEd25519 }

func (a Ed25519Address) Equal(o Address) bool {
	other, ok := o.(Ed25519Address)
	return ok && a == other
}

func (a Ed25519Address) Pack(p interface {
	PackByte(byte)
	PackBytes([]byte)
}) {
	p.PackByte(byte(KindEd25519))
	p.PackBytes(a[:])
}

func (a Ed25519Address) String() string { return "ed25519:" + hexString(a[:]) }

// ImplicitAccountCreationAddress wraps the Ed25519 public-key hash that,
// when used as the address of a Basic output, implicitly creates an
// Account upon consumption.
type ImplicitAccountCreationAddress [32]byte

func (a ImplicitAccountCreationAddress) Kind() Kind { return KindImplicitAccountCreation }

func (a ImplicitAccountCreationAddress) Equal(o Address) bool {
	other, ok := o.(ImplicitAccountCreationAddress)
	return ok && a == other
}

func (a ImplicitAccountCreationAddress) Pack(p interface {
	PackByte(byte)
	PackBytes([]byte)
}) {
	p.PackByte(byte(KindImplicitAccountCreation))
	p.PackBytes(a[:])
}

func (a ImplicitAccountCreationAddress) String() string {
	return "implicit:" + hexString(a[:])
}

// AccountAddress is satisfied by a reference unlock to the input whose
// output is the Account with this id.
type AccountAddress struct {
	ID ids.AccountID
}

func (a AccountAddress) Kind() Kind { return KindAccount }

func (a AccountAddress) Equal(o Address) bool {
	other, ok := o.(AccountAddress)
	return ok && a.ID == other.ID
}

func (a AccountAddress) Pack(p interface {
	PackByte(byte)
	PackBytes([]byte)
}) {
	p.PackByte(byte(KindAccount))
	p.PackBytes(a.ID[:])
}

func (a AccountAddress) String() string { return "account:" + a.ID.String() }

// NftAddress is satisfied by a reference unlock to the input whose output
// is the Nft with this id.
type NftAddress struct {
	ID ids.NftID
}

func (a NftAddress) Kind() Kind { return KindNft }

func (a NftAddress) Equal(o Address) bool {
	other, ok := o.(NftAddress)
	return ok && a.ID == other.ID
}

func (a NftAddress) Pack(p interface {
	PackByte(byte)
	PackBytes([]byte)
}) {
	p.PackByte(byte(KindNft))
	p.PackBytes(a.ID[:])
}

func (a NftAddress) String() string { return "nft:" + a.ID.String() }

// AnchorAddress identifies an anchor chain output by reference. The core
// does not support anchor outputs as spendable inputs (§4.D Filtering),
// but the address kind is modeled so decode never fails on one.
type AnchorAddress struct {
	ID [32]byte
}

func (a AnchorAddress) Kind() Kind { return KindAnchor }

func (a AnchorAddress) Equal(o Address) bool {
	other, ok := o.(AnchorAddress)
	return ok && a.ID == other.ID
}

func (a AnchorAddress) Pack(p interface {
	PackByte(byte)
	PackBytes([]byte)
}) {
	p.PackByte(byte(KindAnchor))
	p.PackBytes(a.ID[:])
}

func (a AnchorAddress) String() string { return "anchor:" + hexString(a.ID[:]) }

// RestrictedAddress wraps an inner address with a capability bitmask
// that narrows what the address is allowed to receive/control.
type RestrictedAddress struct {
	Inner        Address
	Capabilities Capability
}

func (a RestrictedAddress) Kind() Kind { return KindRestricted }

func (a RestrictedAddress) Equal(o Address) bool {
	other, ok := o.(RestrictedAddress)
	return ok && a.Capabilities == other.Capabilities && a.Inner.Equal(other.Inner)
}

func (a RestrictedAddress) Pack(p interface {
	PackByte(byte)
	PackBytes([]byte)
}) {
	p.PackByte(byte(KindRestricted))
	a.Inner.Pack(p)
	p.PackByte(byte(a.Capabilities))
}

func (a RestrictedAddress) String() string {
	return fmt.Sprintf("restricted(%v):%s", a.Capabilities, a.Inner.String())
}

// HasCapability reports whether cap is set on a restricted address;
// unrestricted addresses report every capability as granted.
func HasCapability(a Address, cap Capability) bool {
	r, ok := a.(RestrictedAddress)
	if !ok {
		return true
	}
	return r.Capabilities&cap != 0
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return string(out)
}

// Bech32 encodes addr for display/transport at the module boundary only
// (§6). The internal solver never calls this.
func Bech32(hrp string, a Address) (string, error) {
	var raw bytes.Buffer
	a.Pack(rawPacker{&raw})
	converted, err := bech32.ConvertBits(raw.Bytes(), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("addr: convert bits: %w", err)
	}
	return bech32.Encode(hrp, converted)
}

// ParseBech32 decodes a bech32 address string back into its raw
// discriminator-prefixed bytes; the caller (the boundary layer) maps the
// discriminator to a concrete Address constructor.
func ParseBech32(s string) (hrp string, raw []byte, err error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", nil, fmt.Errorf("addr: decode bech32: %w", err)
	}
	raw, err = bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("addr: convert bits: %w", err)
	}
	return hrp, raw, nil
}

// rawPacker adapts a bytes.Buffer to the minimal packer interface Address
// implementations need, without importing the packer package and risking
// an import cycle with output's rent calculator.
type rawPacker struct {
	buf *bytes.Buffer
}

func (p rawPacker) PackByte(b byte)    { p.buf.WriteByte(b) }
func (p rawPacker) PackBytes(b []byte) { p.buf.Write(b) }
