// Package protocol models the chain's protocol parameters and slot
// commitment (§6): the read-only configuration the transaction
// construction core consumes but never mutates.
package protocol

import (
	"encoding/hex"

	"github.com/tangleforge/ledgerwallet/output"
)

// ManaDecayParameters configures the decay curve applied to an output's
// stored mana as slots elapse (§4.D Mana resolver).
type ManaDecayParameters struct {
	// DecayPerSlotPerMillion is the fraction of mana, in parts-per-million,
	// lost per elapsed slot. A simplified, monotone stand-in for the real
	// per-epoch decay-factor lookup table.
	DecayPerSlotPerMillion uint64
	// GenerationRatePerSlot is the potential mana generated per unit of
	// stored amount per elapsed slot (also parts-per-million).
	GenerationRatePerSlot uint64
}

// Decay applies the decay curve to amount over the given number of
// elapsed slots.
func (m ManaDecayParameters) Decay(amount uint64, elapsedSlots uint64) uint64 {
	if elapsedSlots == 0 {
		return amount
	}
	lost := uint64(0)
	remaining := amount
	for i := uint64(0); i < elapsedSlots && remaining > 0; i++ {
		step := remaining * m.DecayPerSlotPerMillion / 1_000_000
		lost += step
		remaining -= step
	}
	if lost > amount {
		return 0
	}
	return amount - lost
}

// PotentialMana computes the mana an output of the given base amount
// would generate over elapsedSlots, before decay is applied to it.
func (m ManaDecayParameters) PotentialMana(baseAmount uint64, elapsedSlots uint64) uint64 {
	return baseAmount * m.GenerationRatePerSlot / 1_000_000 * elapsedSlots
}

// WorkScoreParameters weights the components of a transaction draft's
// work score, used by the auto-allotment resolver (§4.D Allotment
// resolver).
type WorkScoreParameters struct {
	PerByte        uint64
	PerInput       uint64
	PerOutput      uint64
	PerContextInput uint64
	PerSignature   uint64
}

// Parameters is the read-only protocol configuration of §6.
type Parameters struct {
	NetworkID               uint64
	TokenSupply             uint64
	Rent                    output.RentStructure
	CommittableAgeRange     [2]uint64 // {min, max}
	SlotDurationSeconds     uint32
	ManaDecay               ManaDecayParameters
	WorkScore               WorkScoreParameters
	NativeTokenCountMax     int
	InputCountMax           int
	OutputCountMax          int
}

// DefaultTestParameters returns parameters convenient for unit tests and
// the scenarios of §8 (storage unit cost 500).
func DefaultTestParameters() Parameters {
	return Parameters{
		NetworkID:   1,
		TokenSupply: (1 << 63) - 1,
		Rent: output.RentStructure{
			ByteCost:        500,
			VByteFactorData: 1,
			VByteFactorKey:  10,
		},
		CommittableAgeRange: [2]uint64{5, 10},
		SlotDurationSeconds: 10,
		ManaDecay: ManaDecayParameters{
			DecayPerSlotPerMillion: 10,
			GenerationRatePerSlot:  1,
		},
		WorkScore: WorkScoreParameters{
			PerByte:         1,
			PerInput:        20,
			PerOutput:       20,
			PerContextInput: 10,
			PerSignature:    50,
		},
		NativeTokenCountMax: 64,
		InputCountMax:       128,
		OutputCountMax:      128,
	}
}

// SlotCommitmentIDLen is the width of a slot commitment identifier (§6).
const SlotCommitmentIDLen = 40

// SlotCommitmentID is a 40-byte identifier containing an embedded slot
// index, accessible via SlotIndex (§6).
type SlotCommitmentID [SlotCommitmentIDLen]byte

// NewSlotCommitmentID packs a slot index into the low 8 bytes of the
// commitment id, leaving the remaining 32 bytes as the caller-supplied
// commitment digest.
func NewSlotCommitmentID(digest [32]byte, slot uint64) SlotCommitmentID {
	var id SlotCommitmentID
	copy(id[:32], digest[:])
	for i := 0; i < 8; i++ {
		id[32+i] = byte(slot >> (8 * i))
	}
	return id
}

// SlotIndex returns the slot index embedded in the commitment id.
func (id SlotCommitmentID) SlotIndex() uint64 {
	var slot uint64
	for i := 0; i < 8; i++ {
		slot |= uint64(id[32+i]) << (8 * i)
	}
	return slot
}

func (id SlotCommitmentID) String() string { return hex.EncodeToString(id[:]) }
