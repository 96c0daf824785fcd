package output

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/packer"
)

// RentStructure carries the storage-rent parameters of §6's protocol
// parameters: byte_cost, v_byte_factor_data, v_byte_factor_key.
type RentStructure struct {
	ByteCost        uint64
	VByteFactorData uint64
	VByteFactorKey  uint64
}

// keyBytes counts the address-shaped ("key") bytes of an output: every
// address embedded in an unlock condition, sender, or issuer feature is
// charged at the key rate rather than the plain data rate, since it is
// what an indexer must key lookups by.
func keyBytes(o Output) int {
	n := 0
	for _, c := range o.UnlockConditions() {
		switch v := c.(type) {
		case AddressUnlockCondition:
			n += addressByteWidth(v.Address)
		case StorageDepositReturnUnlockCondition:
			n += addressByteWidth(v.ReturnAddress)
		case ExpirationUnlockCondition:
			n += addressByteWidth(v.ReturnAddress)
		}
	}
	for _, f := range o.Features() {
		switch v := f.(type) {
		case SenderFeature:
			n += addressByteWidth(v.Address)
		case IssuerFeature:
			n += addressByteWidth(v.Address)
		}
	}
	for _, f := range o.ImmutableFeatures() {
		if v, ok := f.(IssuerFeature); ok {
			n += addressByteWidth(v.Address)
		}
	}
	return n
}

func addressByteWidth(a addr.Address) int {
	switch a.Kind() {
	case addr.KindEd25519, addr.KindImplicitAccountCreation, addr.KindAnchor:
		return 32
	case addr.KindAccount, addr.KindNft:
		return 32
	default:
		return 32
	}
}

// RentCost computes the minimum amount an output must carry: byte_cost *
// (v_byte_factor_data * data_bytes + v_byte_factor_key * key_bytes), over
// the output's canonical packed encoding (§4.A).
func RentCost(o Output, rent RentStructure) uint64 {
	p := packer.NewPacker(128)
	o.Pack(p)
	total := p.Len()
	key := keyBytes(o)
	data := total - key
	if data < 0 {
		data = 0
	}
	return rent.ByteCost * (rent.VByteFactorData*uint64(data) + rent.VByteFactorKey*uint64(key))
}

// MinimumAmount is max(RentCost, 1): even a zero-rent output must carry
// at least one unit of value (§4.A contract: "min(amount) =
// max(rent_cost, 1)").
func MinimumAmount(o Output, rent RentStructure) uint64 {
	cost := RentCost(o, rent)
	if cost == 0 {
		return 1
	}
	return cost
}
