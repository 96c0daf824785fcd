package txbuilder

import (
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/packer"
	"github.com/tangleforge/ledgerwallet/protocol"
)

// Utxo pairs an OutputID with its output, the unit the solver consumes
// and produces from the available pool (§3).
type Utxo struct {
	OutputID ids.OutputID
	Output   output.Output
}

// Capabilities is a bitmask of transaction-level capability flags (§3,
// §4.H): explicit permission for burning or destroying chain outputs.
type Capabilities uint8

const (
	CapabilityBurnNativeTokens Capabilities = 1 << iota
	CapabilityDestroyAccountOutputs
	CapabilityDestroyNftOutputs
	CapabilityDestroyFoundryOutputs
)

func (c Capabilities) Has(flag Capabilities) bool { return c&flag != 0 }
func (c Capabilities) With(flag Capabilities) Capabilities { return c | flag }

// ContextInputKind tags a ContextInput variant (§3 invariants 3-4).
type ContextInputKind uint8

const (
	ContextInputCommitment ContextInputKind = iota
	ContextInputBlockIssuanceCredit
	ContextInputReward
)

// ContextInput is a context input referenced by the transaction:
// Commitment (at most one, invariant 3), BlockIssuanceCredit (per
// distinct account, invariant 4), or Reward (per distinct output index,
// invariant 4).
type ContextInput struct {
	Kind          ContextInputKind
	AccountID     ids.AccountID // BlockIssuanceCredit
	CommitmentID  protocol.SlotCommitmentID // Commitment
	RewardIndex   uint16 // Reward: index into the transaction's inputs
}

// Allotment assigns mana to an account, consumed by the network for
// work accounting (§3, GLOSSARY).
type Allotment struct {
	Account ids.AccountID
	Mana    uint64
}

// Transaction is the fully-formed unsigned transaction body of §4.I.
type Transaction struct {
	NetworkID     uint64
	CreationSlot  uint64
	ContextInputs []ContextInput
	Inputs        []Utxo // canonically ordered, §4.G
	Allotments    []Allotment
	Capabilities  Capabilities
	Payload       []byte
	Outputs       []output.Output
}

// packExcludingOutputs appends the canonical encoding of the transaction, excluding
// outputs, matching §4.I's "transaction commitment" definition.
func (tx *Transaction) packExcludingOutputs(p *packer.Packer) {
	p.PackUint64(tx.NetworkID)
	p.PackUint64(tx.CreationSlot)
	p.PackByte(byte(len(tx.ContextInputs)))
	for _, ci := range tx.ContextInputs {
		p.PackByte(byte(ci.Kind))
		switch ci.Kind {
		case ContextInputCommitment:
			p.PackBytes(ci.CommitmentID[:])
		case ContextInputBlockIssuanceCredit:
			p.PackBytes(ci.AccountID[:])
		case ContextInputReward:
			p.PackUint16(ci.RewardIndex)
		}
	}
	p.PackByte(byte(len(tx.Inputs)))
	for _, u := range tx.Inputs {
		p.PackBytes(u.OutputID[:])
	}
	p.PackByte(byte(len(tx.Allotments)))
	for _, a := range tx.Allotments {
		p.PackBytes(a.Account[:])
		p.PackUint64(a.Mana)
	}
	p.PackByte(byte(tx.Capabilities))
	_ = p.PackPrefixedBytes(tx.Payload, 4)
}

// packOutputs appends the canonical encoding of the outputs list alone,
// matching §4.I's "output commitment" leaves.
func (tx *Transaction) packOutputs(p *packer.Packer) {
	p.PackByte(byte(len(tx.Outputs)))
	for _, o := range tx.Outputs {
		o.Pack(p)
	}
}
