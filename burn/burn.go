// Package burn models the declarative burn intent of §4.H: a set of
// assets the caller wants destroyed, mediating the solver's filter and
// transition behavior. Grounded on the amountsToBurn argument of the
// teacher's wallet/chain/p/builder.builder.spend, generalized from a
// single fungible map to sets of chain ids plus a token map.
package burn

import (
	"github.com/tangleforge/ledgerwallet/ids"
)

// Intent is the declarative burn set of §4.H.
type Intent struct {
	Accounts     map[ids.AccountID]struct{}
	Nfts         map[ids.NftID]struct{}
	Foundries    map[ids.FoundryID]struct{}
	NativeTokens map[ids.TokenID]uint64
}

// New returns an empty burn Intent.
func New() *Intent {
	return &Intent{
		Accounts:     make(map[ids.AccountID]struct{}),
		Nfts:         make(map[ids.NftID]struct{}),
		Foundries:    make(map[ids.FoundryID]struct{}),
		NativeTokens: make(map[ids.TokenID]uint64),
	}
}

func (b *Intent) Account(id ids.AccountID) *Intent  { b.Accounts[id] = struct{}{}; return b }
func (b *Intent) Nft(id ids.NftID) *Intent          { b.Nfts[id] = struct{}{}; return b }
func (b *Intent) Foundry(id ids.FoundryID) *Intent  { b.Foundries[id] = struct{}{}; return b }

// NativeToken adds amount to destroy for tokenID, accumulating across
// repeated calls.
func (b *Intent) NativeToken(tokenID ids.TokenID, amount uint64) *Intent {
	b.NativeTokens[tokenID] += amount
	return b
}

// HasAccount reports whether id is marked for burning.
func (b *Intent) HasAccount(id ids.AccountID) bool {
	if b == nil {
		return false
	}
	_, ok := b.Accounts[id]
	return ok
}

func (b *Intent) HasNft(id ids.NftID) bool {
	if b == nil {
		return false
	}
	_, ok := b.Nfts[id]
	return ok
}

func (b *Intent) HasFoundry(id ids.FoundryID) bool {
	if b == nil {
		return false
	}
	_, ok := b.Foundries[id]
	return ok
}

// HasChain reports whether the given ChainID is targeted for burning,
// regardless of its concrete kind.
func (b *Intent) HasChain(chainID ids.ChainID) bool {
	if b == nil || chainID.IsNil() {
		return false
	}
	switch chainID.Kind {
	case ids.ChainKindAccount:
		id, _ := chainID.AsAccountID()
		return b.HasAccount(id)
	case ids.ChainKindNft:
		id, _ := chainID.AsNftID()
		return b.HasNft(id)
	case ids.ChainKindFoundry:
		id, _ := chainID.AsFoundryID()
		return b.HasFoundry(id)
	default:
		return false
	}
}

// NativeTokenAmount returns the amount of tokenID this intent wants
// burned (zero if none).
func (b *Intent) NativeTokenAmount(tokenID ids.TokenID) uint64 {
	if b == nil {
		return 0
	}
	return b.NativeTokens[tokenID]
}

// IsEmpty reports whether the intent burns nothing at all.
func (b *Intent) IsEmpty() bool {
	return b == nil || (len(b.Accounts) == 0 && len(b.Nfts) == 0 && len(b.Foundries) == 0 && len(b.NativeTokens) == 0)
}
