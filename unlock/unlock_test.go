package unlock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/unlock"
)

func ed(b byte) addr.Ed25519Address {
	var a addr.Ed25519Address
	a[0] = b
	return a
}

func sig(b byte) unlock.Signature {
	var s unlock.Signature
	s.PublicKey[0] = b
	return s
}

func basic(amount uint64, owner addr.Address) *output.BasicOutput {
	return output.NewBasicOutput(amount, []output.UnlockCondition{
		output.AddressUnlockCondition{Address: owner},
	}, nil, nil)
}

func TestMergeOneSignaturePerNewAddress(t *testing.T) {
	ed0 := ed(0)
	inputs := []unlock.Input{
		{Output: basic(1_000_000, ed0)},
		{Output: basic(2_000_000, ed0)},
	}
	unlocks, err := unlock.Merge(inputs, []unlock.Signature{sig(1)}, 0, [2]uint64{5, 10})
	require.NoError(t, err)
	require.Len(t, unlocks, 2)
	require.Equal(t, unlock.KindSignature, unlocks[0].Kind)
	require.Equal(t, unlock.KindReference, unlocks[1].Kind)
	require.Equal(t, uint16(0), unlocks[1].RefIndex)
}

func TestMergeDistinctAddressesEachGetASignature(t *testing.T) {
	ed0, ed1 := ed(0), ed(1)
	inputs := []unlock.Input{
		{Output: basic(1_000_000, ed0)},
		{Output: basic(2_000_000, ed1)},
	}
	unlocks, err := unlock.Merge(inputs, []unlock.Signature{sig(1), sig(2)}, 0, [2]uint64{5, 10})
	require.NoError(t, err)
	require.Equal(t, unlock.KindSignature, unlocks[0].Kind)
	require.Equal(t, unlock.KindSignature, unlocks[1].Kind)
}

func TestMergeAccountReferenceUnlock(t *testing.T) {
	var accID ids.AccountID
	accID[0] = 7
	ed0 := ed(0)

	accountOutput := output.NewAccountOutput(1_000_000, accID, 0, ed0, nil, nil)
	nestedBasic := basic(500_000, addr.AccountAddress{ID: accID})

	inputs := []unlock.Input{
		{Output: accountOutput},
		{Output: nestedBasic},
	}
	unlocks, err := unlock.Merge(inputs, []unlock.Signature{sig(1)}, 0, [2]uint64{5, 10})
	require.NoError(t, err)
	require.Len(t, unlocks, 2)
	require.Equal(t, unlock.KindSignature, unlocks[0].Kind)
	require.Equal(t, unlock.KindAccount, unlocks[1].Kind)
	require.Equal(t, uint16(0), unlocks[1].RefIndex)
}

func TestMergeSignatureCountMismatch(t *testing.T) {
	ed0 := ed(0)
	inputs := []unlock.Input{{Output: basic(1_000_000, ed0)}}

	_, err := unlock.Merge(inputs, nil, 0, [2]uint64{5, 10})
	require.Error(t, err)

	var mismatch *unlock.ErrSignatureCountMismatch
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 0, mismatch.Provided)
	require.Equal(t, 1, mismatch.Needed)
}

func TestMergeExtraSignaturesRejected(t *testing.T) {
	ed0 := ed(0)
	inputs := []unlock.Input{{Output: basic(1_000_000, ed0)}}

	_, err := unlock.Merge(inputs, []unlock.Signature{sig(1), sig(2)}, 0, [2]uint64{5, 10})
	require.Error(t, err)
	var mismatch *unlock.ErrSignatureCountMismatch
	require.ErrorAs(t, err, &mismatch)
}
