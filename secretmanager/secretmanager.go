// Package secretmanager models the external signer boundary of §6/§9:
// the transaction construction core hands it an ordered list of inputs
// (each carrying a BIP-44-style derivation path) plus the 32-byte
// signing hash, and consumes back an ordered list of signatures. Actual
// device I/O (Ledger, Stronghold) is an out-of-scope external
// collaborator; this package models the contract and ships one
// in-memory implementation for tests.
package secretmanager

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip32"

	"github.com/tangleforge/ledgerwallet/unlock"
)

// ErrUnsupportedBackend reports a SecretManager variant this build
// cannot actually drive (Ledger/Stronghold device I/O).
var ErrUnsupportedBackend = errors.New("secretmanager: backend not available in this build")

// DerivationPath is a BIP-44-style path (m / purpose' / coin_type' /
// account' / change / address_index), the shape the Ledger and
// Stronghold backends both key signing requests by.
type DerivationPath struct {
	Account      uint32
	Change       uint32
	AddressIndex uint32
}

// bip32Path renders the path the way go-bip32 expects to derive through,
// purpose=44' and coin_type taken from the caller's protocol network id
// at the boundary layer (outside this package's concern).
func (p DerivationPath) bip32Path(purpose, coinType uint32) []uint32 {
	const hardened = bip32.FirstHardenedChild
	return []uint32{
		hardened + purpose,
		hardened + coinType,
		hardened + p.Account,
		p.Change,
		p.AddressIndex,
	}
}

// SigningRequest is one entry of the ordered input list handed to the
// signer (§6): the derivation path owning this input's address, and the
// signing hash shared across every input in the transaction.
type SigningRequest struct {
	Path        DerivationPath
	SigningHash [32]byte
}

// SecretManager is the capability boundary: given the ordered signing
// requests, it returns signatures in the same order (§6).
type SecretManager interface {
	Sign(requests []SigningRequest) ([]unlock.Signature, error)
}

// InMemoryEd25519 is a test-only SecretManager backed by seeds held in
// process memory, keyed by derivation path. Production wallets use the
// Ledger or Stronghold backend instead.
type InMemoryEd25519 struct {
	master *bip32.Key

	purpose  uint32
	coinType uint32
}

// NewInMemoryEd25519 derives keys from seed under the given BIP-44
// purpose/coin_type, matching how the teacher's wallet keeps a single
// master extended key and derives per-account children on demand.
func NewInMemoryEd25519(seed []byte, purpose, coinType uint32) (*InMemoryEd25519, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("secretmanager: derive master key: %w", err)
	}
	return &InMemoryEd25519{master: master, purpose: purpose, coinType: coinType}, nil
}

// Sign implements SecretManager by deriving an Ed25519 keypair per
// request's path and signing the shared signing hash with each.
func (m *InMemoryEd25519) Sign(requests []SigningRequest) ([]unlock.Signature, error) {
	out := make([]unlock.Signature, len(requests))
	for i, req := range requests {
		priv, pub, err := m.derive(req.Path)
		if err != nil {
			return nil, fmt.Errorf("secretmanager: derive key for request %d: %w", i, err)
		}
		sig := ed25519.Sign(priv, req.SigningHash[:])

		var s unlock.Signature
		copy(s.PublicKey[:], pub)
		copy(s.Signature[:], sig)
		out[i] = s
	}
	return out, nil
}

func (m *InMemoryEd25519) derive(path DerivationPath) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	key := m.master
	for _, idx := range path.bip32Path(m.purpose, m.coinType) {
		child, err := key.NewChildKey(idx)
		if err != nil {
			return nil, nil, err
		}
		key = child
	}
	seed := key.Key // 32-byte child key material, used directly as an Ed25519 seed
	if len(seed) < ed25519.SeedSize {
		return nil, nil, fmt.Errorf("secretmanager: derived key material too short")
	}
	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	pub := priv.Public().(ed25519.PublicKey)
	return priv, pub, nil
}

// LedgerBackend documents the hardware-signer variant: every method
// fails with ErrUnsupportedBackend since this build has no USB/HID
// transport wired in (out of scope per §1 — "the secret-store backend"
// is an external collaborator).
type LedgerBackend struct{}

func (LedgerBackend) Sign([]SigningRequest) ([]unlock.Signature, error) {
	return nil, ErrUnsupportedBackend
}

// StrongholdBackend documents the encrypted-file-vault signer variant,
// likewise unimplemented in this build.
type StrongholdBackend struct {
	SnapshotPath string
}

func (StrongholdBackend) Sign([]SigningRequest) ([]unlock.Signature, error) {
	return nil, ErrUnsupportedBackend
}
