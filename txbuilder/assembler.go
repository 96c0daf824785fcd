package txbuilder

import (
	"golang.org/x/crypto/blake2b"

	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/packer"
)

// Selected is the result of a successful Select() run (§4.I): a fully
// formed, unsigned transaction plus the data a secret manager or unlock
// merger needs downstream.
type Selected struct {
	Transaction   Transaction
	SigningHash   [32]byte
	TransactionID ids.ID
}

// assemble implements §4.I: final invariant checks (counts, duplicate
// inputs, conservation of amount; duplicate output chains are already
// rejected by addOutput), then
// produces the transaction commitment, the Blake2b-256 signing hash
// over commitment‖outputs, and the transaction id derived from it.
func (s *session) assemble() (*Selected, error) {
	if len(s.selected) == 0 {
		return nil, ErrNoAvailableInputsProvided
	}
	if len(s.selected) > s.params.InputCountMax {
		return nil, &InvalidInputCountError{Count: len(s.selected), Max: s.params.InputCountMax}
	}
	if len(s.outputs) == 0 || len(s.outputs) > s.params.OutputCountMax {
		return nil, &InvalidOutputCountError{Count: len(s.outputs), Max: s.params.OutputCountMax}
	}

	seen := make(map[ids.OutputID]struct{}, len(s.selected))
	for _, u := range s.selected {
		if _, dup := seen[u.OutputID]; dup {
			return nil, &DuplicateUTXOError{OutputID: u.OutputID}
		}
		seen[u.OutputID] = struct{}{}
	}

	inTotal := s.currentAmountIn()
	outTotal := s.currentAmountOut()
	if inTotal != outTotal {
		return nil, &TransactionAmountSumError{InTotal: inTotal, OutTotal: outTotal}
	}

	orderedInputs := orderInputs(s.selected)

	// Reward context inputs were recorded against the selection order;
	// point them at the same input's position in the ordered list.
	position := make(map[ids.OutputID]int, len(orderedInputs))
	for i, u := range orderedInputs {
		position[u.OutputID] = i
	}
	for i, ci := range s.contextInputs {
		if ci.Kind == ContextInputReward {
			s.contextInputs[i].RewardIndex = uint16(position[s.selected[ci.RewardIndex].OutputID])
		}
	}

	tx := Transaction{
		NetworkID:     s.params.NetworkID,
		CreationSlot:  s.slotCommitment.SlotIndex(),
		ContextInputs: s.contextInputs,
		Inputs:        orderedInputs,
		Allotments:    s.explicitAllotments,
		Capabilities:  s.capabilities,
		Payload:       s.payload,
		Outputs:       s.outputs,
	}

	signingHash, txID, err := signTransaction(&tx)
	if err != nil {
		return nil, err
	}

	return &Selected{Transaction: tx, SigningHash: signingHash, TransactionID: txID}, nil
}

// signTransaction computes the §4.I signing hash (Blake2b-256 over the
// full packed transaction) and the transaction id: Blake2b-256 of the
// transaction commitment (the packed encoding excluding outputs) ‖ the
// output commitment (the Merkle root over the packed outputs, §4.I),
// with the creation slot embedded in the id's tail bytes.
func signTransaction(tx *Transaction) ([32]byte, ids.ID, error) {
	full := packer.NewPacker(256)
	tx.packExcludingOutputs(full)
	tx.packOutputs(full)

	signingHash, err := blake2bSum(full.Bytes())
	if err != nil {
		return [32]byte{}, ids.ID{}, err
	}

	excl := packer.NewPacker(128)
	tx.packExcludingOutputs(excl)
	txCommitment, err := blake2bSum(excl.Bytes())
	if err != nil {
		return signingHash, ids.ID{}, err
	}

	outputCommitment := merkleOutputCommitment(packedOutputLeaves(tx.Outputs))

	combined := make([]byte, 0, len(txCommitment)+len(outputCommitment))
	combined = append(combined, txCommitment[:]...)
	combined = append(combined, outputCommitment[:]...)
	txHash, err := blake2bSum(combined)
	if err != nil {
		return signingHash, ids.ID{}, err
	}

	txID := ids.WithSlotTail(ids.ID(txHash), tx.CreationSlot)

	return signingHash, txID, nil
}

// packedOutputLeaves packs each output individually, producing the leaf
// set the output commitment's Merkle tree is built over (§4.I).
func packedOutputLeaves(outs []output.Output) [][]byte {
	leaves := make([][]byte, len(outs))
	for i, o := range outs {
		p := packer.NewPacker(64)
		o.Pack(p)
		leaves[i] = p.Bytes()
	}
	return leaves
}

// blake2bSum is the single Blake2b-256 entry point every fixed-width
// commitment in this package goes through.
func blake2bSum(data []byte) ([32]byte, error) {
	hash, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, err
	}
	if _, err := hash.Write(data); err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], hash.Sum(nil))
	return out, nil
}

// outputsAmountSum recomputes the output side of the
// conservation-equation total independent of session state.
func outputsAmountSum(outs []output.Output) uint64 {
	var total uint64
	for _, o := range outs {
		total += o.Amount()
	}
	return total
}
