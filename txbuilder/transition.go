package txbuilder

import (
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
)

// synthesizeTransition implements §4.E: given a selected chain input
// with no matching output yet in the draft, either synthesize the
// transitioned output (Account, Nft) or fail (Foundry — "not
// auto-transitioned; must be explicit").
func (s *session) synthesizeTransition(in Utxo) error {
	switch o := in.Output.(type) {
	case *output.AccountOutput:
		newFoundryCounter := o.FoundryCounter() + s.countNewFoundriesFor(o.ID())
		transitioned := o.Transitioned(o.ID(), newFoundryCounter)
		return s.addOutput(transitioned)

	case *output.NftOutput:
		nftID := o.ID()
		if nftID.IsEmpty() {
			nftID = nonNullNftID(in.OutputID)
		}
		transitioned := o.Transitioned(nftID)
		return s.addOutput(transitioned)

	case *output.FoundryOutput:
		// Foundries are never auto-transitioned; the caller must have
		// supplied an explicit output, or the destroy capability, or
		// burned it. Absence of either is an unfulfillable requirement,
		// reported by the caller of synthesizeTransition.
		return &UnfulfillableRequirementError{Requirement: FoundryRequirement(o.ID())}

	default:
		return &UnfulfillableRequirementError{Requirement: Requirement{}}
	}
}

// nonNullNftID derives the concrete NftID a minted Nft receives once its
// mint transaction is known, per §8 scenario S3's note that the id stays
// all-zero in the *unsigned* draft. synthesizeTransition uses it only
// for an nft input whose own id is still all-zero; a non-zero id is kept.
func nonNullNftID(mintingOutputID ids.OutputID) ids.NftID {
	var id ids.NftID
	copy(id[:], mintingOutputID[:ids.IDLen])
	return id
}

// countNewFoundriesFor counts how many foundry outputs in the current
// draft are controlled by the given account and have no matching chain
// among the selected inputs (i.e. are treated as newly minted), used to
// compute the account's new foundry_counter (§4.E).
func (s *session) countNewFoundriesFor(accountID ids.AccountID) uint32 {
	var n uint32
	for _, o := range s.outputs {
		f, ok := o.(*output.FoundryOutput)
		if !ok {
			continue
		}
		if f.ControllingAccount() != accountID {
			continue
		}
		chainID := f.ChainID()
		if _, alreadyInput := s.selectedChains[chainID]; alreadyInput {
			continue // this foundry already existed; not a new mint
		}
		n++
	}
	return n
}

// verifyChainTransition checks the invariants of §4.E/§3 invariant 9
// between a selected chain input and its matching output (explicit or
// synthesized): immutable features unchanged, and kind-specific rules
// (foundry_counter monotonicity, foundry supply delta).
func (s *session) verifyChainTransition(in Utxo, out output.Output) error {
	if !output.ImmutableFeaturesEqual(in.Output, out) {
		return &UnfulfillableRequirementError{Requirement: Requirement{}}
	}

	switch inOut := in.Output.(type) {
	case *output.AccountOutput:
		outAcc, ok := out.(*output.AccountOutput)
		if !ok {
			return &UnfulfillableRequirementError{Requirement: AccountRequirement(inOut.ID())}
		}
		expected := inOut.FoundryCounter() + s.countNewFoundriesFor(inOut.ID())
		if outAcc.FoundryCounter() != expected {
			return &UnfulfillableRequirementError{Requirement: AccountRequirement(inOut.ID())}
		}
		next := inOut.FoundryCounter() + 1
		for _, o := range s.outputs {
			f, ok := o.(*output.FoundryOutput)
			if !ok || f.ControllingAccount() != inOut.ID() {
				continue
			}
			if _, existed := s.selectedChains[f.ChainID()]; existed {
				continue
			}
			if f.SerialNumber() != next {
				return &UnfulfillableRequirementError{Requirement: AccountRequirement(inOut.ID())}
			}
			next++
		}
	case *output.FoundryOutput:
		outFoundry, ok := out.(*output.FoundryOutput)
		if !ok {
			return &UnfulfillableRequirementError{Requirement: FoundryRequirement(inOut.ID())}
		}
		inSupply := inOut.Scheme().CirculatingSupply()
		outSupply := outFoundry.Scheme().CirculatingSupply()
		delta := int64(outSupply) - int64(inSupply)
		tokenID := inOut.ID()
		netDelta := int64(s.outputTokens.Get(tokenID)) - int64(s.inputTokens.Get(tokenID))
		burned := int64(s.burnIntent.NativeTokenAmount(tokenID))
		if delta != netDelta+burned {
			if burned == 0 || !s.capabilities.Has(CapabilityBurnNativeTokens) {
				return &UnfulfillableRequirementError{Requirement: FoundryRequirement(tokenID)}
			}
		}
	case *output.NftOutput:
		if _, ok := out.(*output.NftOutput); !ok {
			return &UnfulfillableRequirementError{Requirement: NftRequirement(inOut.ID())}
		}
	}
	return nil
}
