package burn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tangleforge/ledgerwallet/burn"
	"github.com/tangleforge/ledgerwallet/ids"
)

func TestIntentIsEmpty(t *testing.T) {
	intent := burn.New()
	require.True(t, intent.IsEmpty())

	var accID ids.AccountID
	accID[0] = 1
	intent.Account(accID)
	require.False(t, intent.IsEmpty())
}

func TestIntentHasChainDispatchesByKind(t *testing.T) {
	intent := burn.New()
	var accID ids.AccountID
	accID[0] = 1
	var nftID ids.NftID
	nftID[0] = 2
	intent.Account(accID).Nft(nftID)

	require.True(t, intent.HasChain(ids.AccountChainID(accID)))
	require.True(t, intent.HasChain(ids.NftChainID(nftID)))

	var otherFoundry ids.FoundryID
	otherFoundry[0] = 3
	require.False(t, intent.HasChain(ids.FoundryChainID(otherFoundry)))
	require.False(t, intent.HasChain(ids.NilChainID))
}

func TestIntentNativeTokenAccumulates(t *testing.T) {
	intent := burn.New()
	var tokenID ids.TokenID
	tokenID[0] = 5

	intent.NativeToken(tokenID, 100).NativeToken(tokenID, 50)
	require.Equal(t, uint64(150), intent.NativeTokenAmount(tokenID))
}

func TestNilIntentIsSafe(t *testing.T) {
	var intent *burn.Intent
	require.True(t, intent.IsEmpty())
	require.False(t, intent.HasAccount(ids.AccountID{}))
	require.Equal(t, uint64(0), intent.NativeTokenAmount(ids.TokenID{}))
}
