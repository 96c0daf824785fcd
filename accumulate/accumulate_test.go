package accumulate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tangleforge/ledgerwallet/accumulate"
	"github.com/tangleforge/ledgerwallet/ids"
)

func TestTokensAddAndGet(t *testing.T) {
	tokens := accumulate.NewTokens()
	var id ids.TokenID
	id[0] = 1

	require.NoError(t, tokens.Add(id, 100))
	require.NoError(t, tokens.Add(id, 50))
	require.Equal(t, uint64(150), tokens.Get(id))
	require.Equal(t, 1, tokens.Len())
}

func TestTokensAddOverflow(t *testing.T) {
	tokens := accumulate.NewTokens()
	var id ids.TokenID
	id[0] = 1

	require.NoError(t, tokens.Add(id, ^uint64(0)))
	err := tokens.Add(id, 1)
	require.ErrorIs(t, err, accumulate.ErrOverflow)
}

func TestTokensIDsAreByteLexOrdered(t *testing.T) {
	tokens := accumulate.NewTokens()
	var idHigh, idLow ids.TokenID
	idHigh[0] = 0xff
	idLow[0] = 0x01

	require.NoError(t, tokens.Add(idHigh, 1))
	require.NoError(t, tokens.Add(idLow, 1))

	sorted := tokens.IDs()
	require.Equal(t, []ids.TokenID{idLow, idHigh}, sorted)
}

func TestTokensFinishEnforcesMax(t *testing.T) {
	tokens := accumulate.NewTokens()
	var a, b ids.TokenID
	a[0], b[0] = 1, 2
	require.NoError(t, tokens.Add(a, 1))
	require.NoError(t, tokens.Add(b, 1))

	_, err := tokens.Finish(1)
	var invalid *accumulate.InvalidNativeTokensCountError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 2, invalid.Count)
	require.Equal(t, 1, invalid.Max)

	finished, err := tokens.Finish(2)
	require.NoError(t, err)
	require.Len(t, finished, 2)
}

func TestManaShortfall(t *testing.T) {
	mana := accumulate.NewMana()
	require.NoError(t, mana.AddDecayedInput(100))
	require.NoError(t, mana.AddOutput(150))

	require.Equal(t, uint64(50), mana.Shortfall())

	require.NoError(t, mana.AddPotentialInput(50))
	require.Equal(t, uint64(0), mana.Shortfall())
}

func TestManaAllotmentCountsTowardRequired(t *testing.T) {
	mana := accumulate.NewMana()
	require.NoError(t, mana.AddDecayedInput(100))
	require.NoError(t, mana.AddAllotment(100))

	require.Equal(t, uint64(0), mana.Shortfall())
	require.NoError(t, mana.AddAllotment(1))
	require.Equal(t, uint64(1), mana.Shortfall())
}
