package txbuilder

import "golang.org/x/crypto/blake2b"

// Domain-separation prefixes for the output commitment's Merkle tree
// (§4.I), following the RFC 6962 Certificate Transparency tree-hash
// scheme iota-sdk's own merkle_hasher is built on — that module wasn't
// in the retrieval pack (see DESIGN.md), so this reimplements the
// algorithm rather than quoting unavailable source.
const (
	merkleLeafPrefix = 0x00
	merkleNodePrefix = 0x01
)

// merkleOutputCommitment implements §4.I's output commitment: the root
// of a Merkle tree whose leaves are the transaction's packed outputs.
func merkleOutputCommitment(leaves [][]byte) [32]byte {
	return merkleHash(leaves)
}

func merkleHash(leaves [][]byte) [32]byte {
	switch len(leaves) {
	case 0:
		return blake2b.Sum256(nil)
	case 1:
		return merkleLeafHash(leaves[0])
	default:
		k := largestPowerOfTwoBelow(len(leaves))
		left := merkleHash(leaves[:k])
		right := merkleHash(leaves[k:])
		return merkleNodeHash(left, right)
	}
}

func merkleLeafHash(data []byte) [32]byte {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, merkleLeafPrefix)
	buf = append(buf, data...)
	return blake2b.Sum256(buf)
}

func merkleNodeHash(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 1+len(left)+len(right))
	buf = append(buf, merkleNodePrefix)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return blake2b.Sum256(buf)
}

// largestPowerOfTwoBelow returns the largest power of two strictly less
// than n, for n >= 2 — the standard RFC 6962 split point.
func largestPowerOfTwoBelow(n int) int {
	k := 1
	for k*2 < n {
		k *= 2
	}
	return k
}
