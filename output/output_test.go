package output_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
)

var testRent = output.RentStructure{
	ByteCost:        500,
	VByteFactorData: 1,
	VByteFactorKey:  10,
}

func ed25519(b byte) addr.Ed25519Address {
	var a addr.Ed25519Address
	a[0] = b
	return a
}

func TestBasicBuilderInsufficientStorageDeposit(t *testing.T) {
	b := output.BasicBuilder{
		Conditions: []output.UnlockCondition{output.AddressUnlockCondition{Address: ed25519(1)}},
	}
	_, err := b.Build(output.Amount(1), testRent)
	require.Error(t, err)
	var insufficient *output.InsufficientStorageDepositError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, uint64(1), insufficient.Found)
	require.Greater(t, insufficient.Required, uint64(1))
}

func TestBasicBuilderMinimumStorageDepositResolves(t *testing.T) {
	b := output.BasicBuilder{
		Conditions: []output.UnlockCondition{output.AddressUnlockCondition{Address: ed25519(1)}},
	}
	out, err := b.Build(output.MinimumStorageDeposit(), testRent)
	require.NoError(t, err)
	require.Equal(t, output.MinimumAmount(out, testRent), out.Amount())
}

func TestRequiredAddressBeforeAndAfterExpiration(t *testing.T) {
	main := ed25519(1)
	ret := ed25519(2)
	out := output.NewBasicOutput(1_000_000, []output.UnlockCondition{
		output.AddressUnlockCondition{Address: main},
		output.ExpirationUnlockCondition{ReturnAddress: ret, Slot: 50},
	}, nil, nil)

	ageRange := [2]uint64{0, 0}

	got, err := out.RequiredAddress(10, ageRange)
	require.NoError(t, err)
	require.True(t, got.Equal(main))

	got, err = out.RequiredAddress(100, ageRange)
	require.NoError(t, err)
	require.True(t, got.Equal(ret))
}

func TestRequiredAddressDeadzone(t *testing.T) {
	main := ed25519(1)
	ret := ed25519(2)
	out := output.NewBasicOutput(1_000_000, []output.UnlockCondition{
		output.AddressUnlockCondition{Address: main},
		output.ExpirationUnlockCondition{ReturnAddress: ret, Slot: 50},
	}, nil, nil)

	ageRange := [2]uint64{5, 10}
	_, err := out.RequiredAddress(48, ageRange)
	require.ErrorIs(t, err, output.ErrExpirationDeadzone)
}

func TestFoundryIDDeterministic(t *testing.T) {
	var acc1 ids.AccountID
	acc1[0] = 9
	id1 := output.ComputeFoundryID(acc1, 1, output.TokenSchemeKindSimple)
	id2 := output.ComputeFoundryID(acc1, 1, output.TokenSchemeKindSimple)
	require.Equal(t, id1, id2)

	id3 := output.ComputeFoundryID(acc1, 2, output.TokenSchemeKindSimple)
	require.NotEqual(t, id1, id3)
	require.Equal(t, uint32(2), id3.SerialNumber())
}
