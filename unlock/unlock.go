// Package unlock implements the post-signing unlock merger of §4.J: it
// combines a stream of signatures produced by an external signer with
// the ordered inputs of a Selected transaction into the final Unlocks
// list, deduplicating by address identity so that repeated or
// chain-referenced inputs reuse an earlier unlock by index.
package unlock

import (
	"fmt"

	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/output"
)

// Kind tags an Unlock variant.
type Kind uint8

const (
	KindSignature Kind = iota
	KindReference
	KindAccount
	KindNft
)

// Signature is an Ed25519 (or Ed25519-derived implicit-account) public
// key and signature over the transaction signing hash.
type Signature struct {
	PublicKey [32]byte
	Signature [64]byte
}

// Unlock is the tagged sum of §4.J's unlock variants. Exactly one of
// Sig/RefIndex is meaningful, selected by Kind.
type Unlock struct {
	Kind     Kind
	Sig      Signature
	RefIndex uint16
}

// ErrSignatureCountMismatch reports that the signer returned a number of
// signatures different from the number of Ed25519/ImplicitAccount inputs
// that needed one.
type ErrSignatureCountMismatch struct {
	Provided int
	Needed   int
}

func (e *ErrSignatureCountMismatch) Error() string {
	return fmt.Sprintf("unlock: signer provided %d signatures, %d were needed", e.Provided, e.Needed)
}

// Input is the minimal per-input view the merger needs: the output
// being consumed and, when the input is itself an Account/Nft chain
// output, the chain identity it contributes to the address→index map.
type Input struct {
	Output output.Output
}

// Merge implements §4.J: walk inputs in order, tracking a map from
// already-unlocked address (by packed bytes) to block index, drawing
// one signature per new Ed25519/ImplicitAccount address and reusing
// prior indices for repeats and for Account/Nft reference unlocks.
func Merge(inputs []Input, signatures []Signature, slot uint64, committableAgeRange [2]uint64) ([]Unlock, error) {
	seenAddr := make(map[string]int, len(inputs))
	unlocks := make([]Unlock, 0, len(inputs))
	sigIdx := 0

	for i, in := range inputs {
		required, err := in.Output.RequiredAddress(slot, committableAgeRange)
		if err != nil {
			return nil, fmt.Errorf("unlock: input %d: %w", i, err)
		}

		var u Unlock
		switch {
		case addr.Signable(required):
			key := addressKey(required)
			if idx, ok := seenAddr[key]; ok {
				u = Unlock{Kind: KindReference, RefIndex: uint16(idx)}
			} else {
				if sigIdx >= len(signatures) {
					return nil, &ErrSignatureCountMismatch{Provided: len(signatures), Needed: sigIdx + 1}
				}
				u = Unlock{Kind: KindSignature, Sig: signatures[sigIdx]}
				sigIdx++
				seenAddr[key] = i
			}
		case required.Kind() == addr.KindAccount:
			key := addressKey(required)
			idx, ok := seenAddr[key]
			if !ok {
				return nil, fmt.Errorf("unlock: input %d: account address has no earlier owning input", i)
			}
			u = Unlock{Kind: KindAccount, RefIndex: uint16(idx)}
		case required.Kind() == addr.KindNft:
			key := addressKey(required)
			idx, ok := seenAddr[key]
			if !ok {
				return nil, fmt.Errorf("unlock: input %d: nft address has no earlier owning input", i)
			}
			u = Unlock{Kind: KindNft, RefIndex: uint16(idx)}
		default:
			return nil, fmt.Errorf("unlock: input %d: unsupported unlock address kind %v", i, required.Kind())
		}
		unlocks = append(unlocks, u)

		if chainAddr, ok := chainSelfAddress(in.Output); ok {
			seenAddr[addressKey(chainAddr)] = i
		}
	}

	if sigIdx != len(signatures) {
		return nil, &ErrSignatureCountMismatch{Provided: len(signatures), Needed: sigIdx}
	}
	return unlocks, nil
}

// chainSelfAddress returns the address by which later inputs would
// reference this input's own chain identity (Account/Nft), if any.
func chainSelfAddress(o output.Output) (addr.Address, bool) {
	chainID := o.ChainID()
	if accID, ok := chainID.AsAccountID(); ok {
		return addr.AccountAddress{ID: accID}, true
	}
	if nftID, ok := chainID.AsNftID(); ok {
		return addr.NftAddress{ID: nftID}, true
	}
	return nil, false
}

func addressKey(a addr.Address) string {
	var raw []byte
	a.Pack(byteAppender{&raw})
	return string(raw)
}

// byteAppender adapts a []byte pointer to the minimal packer interface
// Address implementations need.
type byteAppender struct {
	buf *[]byte
}

func (b byteAppender) PackByte(v byte)    { *b.buf = append(*b.buf, v) }
func (b byteAppender) PackBytes(v []byte) { *b.buf = append(*b.buf, v...) }
