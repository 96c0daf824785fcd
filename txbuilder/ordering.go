package txbuilder

import (
	"sort"

	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
)

// orderInputs implements §4.G: inputs are first sorted into the
// canonical byte-lex order of their OutputID for determinism, then
// reorderForUnlockReferences moves any input controlled by an
// Account/Nft address behind the input that owns that chain identity,
// so that its unlock references an earlier index.
func orderInputs(inputs []Utxo) []Utxo {
	ordered := make([]Utxo, len(inputs))
	copy(ordered, inputs)
	sort.Slice(ordered, func(i, j int) bool {
		return string(ordered[i].OutputID[:]) < string(ordered[j].OutputID[:])
	})
	return reorderForUnlockReferences(ordered)
}

// reorderForUnlockReferences moves any input controlled by an
// Account/Nft address so that it comes after the input that owns that
// chain identity, if the owning input is also present — a reference
// unlock must point backward, never forward (§4.G "no input's unlock
// may reference an input at a later index").
func reorderForUnlockReferences(inputs []Utxo) []Utxo {
	out := make([]Utxo, len(inputs))
	copy(out, inputs)

	indexOfChainOwner := func(cur []Utxo) map[ids.ID]int {
		m := make(map[ids.ID]int, len(cur))
		for i, u := range cur {
			if raw, ok := chainRawID(u.Output.ChainID()); ok {
				m[raw] = i
			}
		}
		return m
	}

	for pass := 0; pass < len(out); pass++ {
		owners := indexOfChainOwner(out)
		moved := false
		for i, u := range out {
			owner, needsOwner := referencedChainOwner(u.Output)
			if !needsOwner {
				continue
			}
			ownerIdx, ok := owners[owner]
			if !ok || ownerIdx < i {
				continue
			}
			out[i], out[ownerIdx] = out[ownerIdx], out[i]
			moved = true
			break
		}
		if !moved {
			break
		}
	}
	return out
}

// chainRawID extracts the 32-byte Account/Nft identity a ChainID wraps,
// in the same encoding referencedChainOwner reports.
func chainRawID(chainID ids.ChainID) (ids.ID, bool) {
	if accID, ok := chainID.AsAccountID(); ok {
		return ids.ID(accID), true
	}
	if nftID, ok := chainID.AsNftID(); ok {
		return ids.ID(nftID), true
	}
	return ids.ID{}, false
}

// referencedChainOwner reports the raw chain-identity an output's
// controlling address refers to, if that address is an Account or Nft
// address (the two address kinds whose unlock is a reference/account/nft
// unlock rather than a standalone signature).
func referencedChainOwner(o interface {
	RequiredAddress(slot uint64, ageRange [2]uint64) (addr.Address, error)
}) (ids.ID, bool) {
	// Ordering must not depend on slot/expiration state (it runs once,
	// after selection); inspect the address directly via a zero-age,
	// zero-slot probe, which is only safe because chain addresses never
	// carry an expiration condition of their own in this model.
	a, err := o.RequiredAddress(0, [2]uint64{0, 0})
	if err != nil {
		return ids.ID{}, false
	}
	switch v := a.(type) {
	case addr.AccountAddress:
		return ids.ID(v.ID), true
	case addr.NftAddress:
		return ids.ID(v.ID), true
	default:
		return ids.ID{}, false
	}
}
