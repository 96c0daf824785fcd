package txbuilder

import (
	"github.com/tangleforge/ledgerwallet/accumulate"
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/packer"
)

// resolve dispatches a popped Requirement to its resolver (§4.D).
func (s *session) resolve(req Requirement) error {
	switch req.Kind {
	case RequirementAccount, RequirementNft, RequirementFoundry:
		return s.resolveChain(req)
	case RequirementSender:
		return s.resolveSenderOrIssuer(req.Address, false)
	case RequirementIssuer:
		return s.resolveSenderOrIssuer(req.Address, true)
	case RequirementAmount:
		return s.resolveAmount()
	case RequirementNativeTokens:
		return s.resolveNativeTokens()
	case RequirementContextInputs:
		return s.resolveContextInputs()
	case RequirementMana:
		return s.resolveMana()
	case RequirementAllotment:
		return s.resolveAllotment()
	default:
		return &UnfulfillableRequirementError{Requirement: req}
	}
}

// destroyCapabilityFor maps a chain kind to the capability flag §4.H
// requires for burning a chain-kind output with no replacement output.
func destroyCapabilityFor(chainID ids.ChainID) Capabilities {
	switch chainID.Kind {
	case ids.ChainKindAccount:
		return CapabilityDestroyAccountOutputs
	case ids.ChainKindNft:
		return CapabilityDestroyNftOutputs
	case ids.ChainKindFoundry:
		return CapabilityDestroyFoundryOutputs
	default:
		return 0
	}
}

func (req Requirement) chainID() ids.ChainID {
	switch req.Kind {
	case RequirementAccount:
		return ids.AccountChainID(req.AccountID)
	case RequirementNft:
		return ids.NftChainID(req.NftID)
	case RequirementFoundry:
		return ids.FoundryChainID(req.FoundryID)
	default:
		return ids.NilChainID
	}
}

// resolveChain implements the Account/Nft/Foundry resolver (§4.D): find
// the one input of matching identity, select it, and ensure a matching
// output exists (synthesizing a transition when none was supplied).
func (s *session) resolveChain(req Requirement) error {
	chainID := req.chainID()

	in, alreadySelected := s.selectedChains[chainID]
	if !alreadySelected {
		candidate, ok := s.poolByChain[chainID]
		if !ok {
			return &UnfulfillableRequirementError{Requirement: req}
		}
		s.selectInput(candidate)
		in = candidate
	}

	if out, hasOutput := s.outputByChainID(chainID); hasOutput {
		if s.burnIntent.HasChain(chainID) {
			return &BurnAndTransitionError{ChainID: chainID}
		}
		return s.verifyChainTransition(in, out)
	}

	if s.burnIntent.HasChain(chainID) {
		if !s.capabilities.Has(destroyCapabilityFor(chainID)) {
			return &UnfulfillableRequirementError{Requirement: req}
		}
		return nil
	}

	return s.synthesizeTransition(in)
}

// resolveSenderOrIssuer implements the Sender/Issuer resolver (§4.D): an
// input whose required address equals the requested address satisfies
// it directly; a chain address (Account/Nft) reduces to the
// corresponding chain requirement instead.
func (s *session) resolveSenderOrIssuer(want addr.Address, isIssuer bool) error {
	switch a := want.(type) {
	case addr.AccountAddress:
		s.queue.push(AccountRequirement(a.ID))
		return nil
	case addr.NftAddress:
		s.queue.push(NftRequirement(a.ID))
		return nil
	}

	ageRange := s.params.CommittableAgeRange
	currentSlot := s.slotCommitment.SlotIndex()

	for _, u := range s.selected {
		reqAddr, err := u.Output.RequiredAddress(currentSlot, ageRange)
		if err == nil && reqAddr.Equal(want) {
			return nil
		}
	}

	var found Utxo
	ok := false
	s.walkPool(func(u Utxo) bool {
		reqAddr, err := u.Output.RequiredAddress(currentSlot, ageRange)
		if err == nil && reqAddr.Equal(want) {
			found, ok = u, true
			return false
		}
		return true
	})
	if !ok {
		kind := RequirementSender
		if isIssuer {
			kind = RequirementIssuer
		}
		return &UnfulfillableRequirementError{Requirement: Requirement{Kind: kind, Address: want}}
	}
	s.selectInput(found)
	return nil
}

// resolveAmount implements the Amount resolver (§4.D): pick the
// smallest eligible Basic candidate until the spendable input amount
// (selected inputs minus any SDR they carry) meets the desired output
// total, and — unless the leftover surplus would be absorbed by
// use_excess_if_low — is either exactly zero or large enough to cover a
// remainder output's own storage deposit (§4.F: "a pending
// storage-deposit-return obligation may itself require additional
// inputs to cover its own minimum").
func (s *session) resolveAmount() error {
	for {
		available := s.currentAmountIn() - s.currentSDRCarriedByInputs()
		outRequired := s.currentAmountOut()

		var shortfall uint64
		if available < outRequired {
			shortfall = outRequired - available
		} else {
			surplus := available - outRequired
			if surplus == 0 || s.remainderStrategy == RemainderStrategyUseExcessIfLow {
				return nil
			}
			minRemainder := s.minimumRemainderOutputAmount()
			if surplus >= minRemainder {
				return nil
			}
			shortfall = minRemainder - surplus
		}
		if !s.allowAdditional {
			return &AdditionalInputsRequiredError{Requirement: AmountRequirement()}
		}

		var picked Utxo
		found := false
		s.walkPool(func(u Utxo) bool {
			if u.Output.Kind() != output.KindBasic {
				return true // keep scanning past chain-kind candidates
			}
			picked, found = u, true
			return false
		})
		if !found {
			return &InsufficientAmountError{Found: available, Required: available + shortfall}
		}
		s.selectInput(picked)
	}
}

// minimumRemainderOutputAmount is the storage deposit a fresh remainder
// output back to remainderAddress would need.
func (s *session) minimumRemainderOutputAmount() uint64 {
	proto := output.BasicBuilder{
		Conditions: []output.UnlockCondition{output.AddressUnlockCondition{Address: s.remainderAddress}},
	}
	out, err := proto.Build(output.MinimumStorageDeposit(), s.params.Rent)
	if err != nil {
		return 0
	}
	return out.Amount()
}

// resolveNativeTokens implements the NativeTokens resolver (§4.D): for
// every token the outputs (plus any burn) need more of than the inputs
// currently supply, pick input candidates carrying that token.
func (s *session) resolveNativeTokens() error {
	for _, tokenID := range s.deficitTokenIDs() {
		for s.inputTokens.Get(tokenID) < s.outputTokens.Get(tokenID)+s.burnIntent.NativeTokenAmount(tokenID) {
			var picked Utxo
			found := false
			s.walkPool(func(u Utxo) bool {
				if nt := u.Output.NativeToken(); nt != nil && nt.TokenID == tokenID {
					picked, found = u, true
					return false
				}
				return true
			})
			if !found {
				return &UnfulfillableRequirementError{Requirement: NativeTokensRequirement()}
			}
			s.selectInput(picked)
		}
		if s.burnIntent.NativeTokenAmount(tokenID) > 0 && !s.capabilities.Has(CapabilityBurnNativeTokens) {
			s.capabilities = s.capabilities.With(CapabilityBurnNativeTokens)
		}
	}
	return nil
}

func (s *session) deficitTokenIDs() []ids.TokenID {
	seen := make(map[ids.TokenID]struct{})
	var out []ids.TokenID
	add := func(id ids.TokenID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range s.outputTokens.IDs() {
		add(id)
	}
	for tokenID := range s.burnIntent.NativeTokens {
		add(tokenID)
	}
	return out
}

// resolveContextInputs implements the ContextInputs resolver (§4.D):
// derive Commitment / BlockIssuanceCredit / Reward context inputs from
// the current outputs and selected inputs.
func (s *session) resolveContextInputs() error {
	needsCommitment := false
	for _, o := range s.outputs {
		for _, uc := range o.UnlockConditions() {
			switch uc.(type) {
			case output.ExpirationUnlockCondition, output.TimelockUnlockCondition:
				needsCommitment = true
			}
		}
	}
	if needsCommitment && !s.hasContextInput(ContextInputCommitment) {
		s.contextInputs = append(s.contextInputs, ContextInput{
			Kind:         ContextInputCommitment,
			CommitmentID: s.slotCommitment,
		})
	}

	s.appendBlockIssuanceCreditInputs()

	for idx, u := range s.selected {
		if _, ok := s.manaRewards[u.OutputID]; ok {
			s.contextInputs = append(s.contextInputs, ContextInput{
				Kind:        ContextInputReward,
				RewardIndex: uint16(idx),
			})
		}
	}
	return nil
}

// appendBlockIssuanceCreditInputs implements the §4.D clause "any output
// whose required address is an account whose issuance credit must be
// read requires a BlockIssuanceCredit input": every distinct account
// that controls an output in the current draft (a Foundry, or any
// output explicitly unlocked by an AccountAddress) gets one such input,
// deduped so invariant 4's "pairwise-distinct accounts" holds by
// construction.
func (s *session) appendBlockIssuanceCreditInputs() {
	ageRange := s.params.CommittableAgeRange
	currentSlot := s.slotCommitment.SlotIndex()

	seen := make(map[ids.AccountID]struct{})
	for _, ci := range s.contextInputs {
		if ci.Kind == ContextInputBlockIssuanceCredit {
			seen[ci.AccountID] = struct{}{}
		}
	}

	for _, o := range s.outputs {
		reqAddr, err := o.RequiredAddress(currentSlot, ageRange)
		if err != nil {
			continue
		}
		acctAddr, ok := reqAddr.(addr.AccountAddress)
		if !ok {
			continue
		}
		if _, dup := seen[acctAddr.ID]; dup {
			continue
		}
		seen[acctAddr.ID] = struct{}{}
		s.contextInputs = append(s.contextInputs, ContextInput{
			Kind:      ContextInputBlockIssuanceCredit,
			AccountID: acctAddr.ID,
		})
	}
}

func (s *session) hasContextInput(kind ContextInputKind) bool {
	for _, ci := range s.contextInputs {
		if ci.Kind == kind {
			return true
		}
	}
	return false
}

// resolveMana implements the Mana resolver (§4.D): mana on inputs decays
// with elapsed slots; if decayed input mana plus potential mana falls
// short of output mana plus allotments, add basic inputs.
func (s *session) resolveMana() error {
	s.recomputeManaFromSelection()
	for s.mana.Shortfall() > 0 {
		if !s.allowAdditional {
			return &AdditionalInputsRequiredError{Requirement: ManaRequirement()}
		}
		var picked Utxo
		found := false
		s.walkPool(func(u Utxo) bool {
			if u.Output.Kind() == output.KindBasic {
				picked, found = u, true
				return false
			}
			return true
		})
		if !found {
			return &InsufficientAmountError{Found: s.mana.Available(), Required: s.mana.Required()}
		}
		s.selectInput(picked)
		s.recomputeManaFromSelection()
	}
	return nil
}

func (s *session) recomputeManaFromSelection() {
	s.mana = accumulate.NewMana()
	currentSlot := s.slotCommitment.SlotIndex()
	for _, u := range s.selected {
		elapsed := elapsedSlots(u.OutputID, currentSlot)
		_ = s.mana.AddDecayedInput(s.params.ManaDecay.Decay(0, elapsed))
		_ = s.mana.AddPotentialInput(s.params.ManaDecay.PotentialMana(u.Output.Amount(), elapsed))
	}
	for _, a := range s.explicitAllotments {
		_ = s.mana.AddAllotment(a.Mana)
	}
}

// elapsedSlots approximates "slots since this output was created" from
// the slot hint carried in OutputID's reserved suffix (bytes 34-35),
// matching NewOutputID's slotSuffix parameter.
func elapsedSlots(outputID ids.OutputID, currentSlot uint64) uint64 {
	hint := uint64(outputID[34])<<8 | uint64(outputID[35])
	if currentSlot <= hint {
		return 0
	}
	return currentSlot - hint
}

// resolveAllotment implements the auto-allotment resolver (§4.D): it
// must run last (LIFO: pushed first) since it needs the final work
// score of the transaction draft.
func (s *session) resolveAllotment() error {
	if s.autoAllotment == nil {
		return nil
	}
	score := s.workScore()
	manaCost := score * s.autoAllotment.referenceManaCost
	s.explicitAllotments = append(s.explicitAllotments, Allotment{
		Account: s.autoAllotment.issuerAccount,
		Mana:    manaCost,
	})
	_ = s.mana.AddAllotment(manaCost)
	return nil
}

func (s *session) workScore() uint64 {
	w := s.params.WorkScore
	var bytes uint64
	for _, o := range s.outputs {
		bytes += uint64(estimatedPackedLen(o))
	}
	return w.PerInput*uint64(len(s.selected)) +
		w.PerOutput*uint64(len(s.outputs)) +
		w.PerContextInput*uint64(len(s.contextInputs)) +
		w.PerSignature*s.estimatedSignatureCount() +
		w.PerByte*bytes
}

// estimatedSignatureCount counts the distinct signature-bearing
// addresses (Ed25519, ImplicitAccountCreation) among the selected
// inputs — the unlock merger (§4.J) issues exactly one signature per
// such address, reusing it via a Reference unlock for every other input
// that shares it, so this is the actual per-signature work the assembled
// transaction will carry.
func (s *session) estimatedSignatureCount() uint64 {
	ageRange := s.params.CommittableAgeRange
	currentSlot := s.slotCommitment.SlotIndex()

	seen := make(map[string]struct{})
	for _, u := range s.selected {
		reqAddr, err := u.Output.RequiredAddress(currentSlot, ageRange)
		if err != nil {
			continue
		}
		switch reqAddr.(type) {
		case addr.Ed25519Address, addr.ImplicitAccountCreationAddress:
		default:
			continue
		}
		seen[addressKey(reqAddr)] = struct{}{}
	}
	return uint64(len(seen))
}

func estimatedPackedLen(o output.Output) int {
	p := packer.NewPacker(64)
	o.Pack(p)
	return p.Len()
}
