package secretmanager_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tangleforge/ledgerwallet/secretmanager"
)

func testSeed() []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestInMemoryEd25519SignIsDeterministic(t *testing.T) {
	sm, err := secretmanager.NewInMemoryEd25519(testSeed(), 44, 4218)
	require.NoError(t, err)

	var hash [32]byte
	hash[0] = 9

	requests := []secretmanager.SigningRequest{
		{Path: secretmanager.DerivationPath{Account: 0, Change: 0, AddressIndex: 0}, SigningHash: hash},
	}

	sigs1, err := sm.Sign(requests)
	require.NoError(t, err)
	sigs2, err := sm.Sign(requests)
	require.NoError(t, err)

	require.Equal(t, sigs1, sigs2)
	require.True(t, ed25519.Verify(sigs1[0].PublicKey[:], hash[:], sigs1[0].Signature[:]))
}

func TestInMemoryEd25519DistinctPathsDistinctKeys(t *testing.T) {
	sm, err := secretmanager.NewInMemoryEd25519(testSeed(), 44, 4218)
	require.NoError(t, err)

	var hash [32]byte
	requests := []secretmanager.SigningRequest{
		{Path: secretmanager.DerivationPath{AddressIndex: 0}, SigningHash: hash},
		{Path: secretmanager.DerivationPath{AddressIndex: 1}, SigningHash: hash},
	}

	sigs, err := sm.Sign(requests)
	require.NoError(t, err)
	require.NotEqual(t, sigs[0].PublicKey, sigs[1].PublicKey)
}

func TestLedgerBackendUnsupported(t *testing.T) {
	var backend secretmanager.LedgerBackend
	_, err := backend.Sign(nil)
	require.ErrorIs(t, err, secretmanager.ErrUnsupportedBackend)
}

func TestStrongholdBackendUnsupported(t *testing.T) {
	backend := secretmanager.StrongholdBackend{SnapshotPath: "wallet.stronghold"}
	_, err := backend.Sign(nil)
	require.ErrorIs(t, err, secretmanager.ErrUnsupportedBackend)
}
