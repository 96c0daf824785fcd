package txbuilder

import (
	"go.uber.org/zap"

	"github.com/tangleforge/ledgerwallet/accumulate"
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/burn"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/protocol"
)

// Option configures an InputSelection before Select runs, following the
// functional-options shape used throughout this module's configuration
// surfaces.
type Option func(*InputSelection)

// RequiredInputs forces the given utxos to be selected regardless of
// whether any requirement would otherwise need them.
func RequiredInputs(utxos ...Utxo) Option {
	return func(s *InputSelection) {
		for _, u := range utxos {
			s.required[u.OutputID] = struct{}{}
			s.requiredUtxos = append(s.requiredUtxos, u)
		}
	}
}

// ForbiddenInputs excludes the given output ids from the candidate pool
// entirely, even if a requirement would otherwise need them.
func ForbiddenInputs(outputIDs ...ids.OutputID) Option {
	return func(s *InputSelection) {
		for _, id := range outputIDs {
			s.forbidden[id] = struct{}{}
		}
	}
}

// WithRemainderAddress sets the address a leftover surplus and any
// leftover native tokens are sent to. SDR obligations always go back to
// their own return address.
func WithRemainderAddress(a addr.Address) Option {
	return func(s *InputSelection) { s.session.remainderAddress = a }
}

// WithRemainderStrategy selects how a below-minimum surplus is handled
// (§4.F).
func WithRemainderStrategy(strategy RemainderStrategy) Option {
	return func(s *InputSelection) { s.session.remainderStrategy = strategy }
}

// WithManaRewards supplies the claimable rewards for specific inputs.
// When such an input is selected its reward is added to the input-side
// amount total, and the ContextInputs resolver adds a Reward context
// input for it.
func WithManaRewards(rewards map[ids.OutputID]uint64) Option {
	return func(s *InputSelection) { s.session.manaRewards = rewards }
}

// WithPayload attaches an opaque payload to the assembled transaction.
func WithPayload(payload []byte) Option {
	return func(s *InputSelection) { s.session.payload = payload }
}

// WithBurn sets the burn intent driving the Burn/Transition mediation of
// §4.H.
func WithBurn(intent *burn.Intent) Option {
	return func(s *InputSelection) { s.session.burnIntent = intent }
}

// WithCapabilities grants the given transaction-level capability flags
// (burning native tokens, destroying chain-kind outputs) up front.
func WithCapabilities(caps Capabilities) Option {
	return func(s *InputSelection) { s.session.capabilities = s.session.capabilities.With(caps) }
}

// AllowAdditionalInputs permits the Amount/Mana resolvers to pull
// additional inputs from the available pool beyond what was explicitly
// required; when false, a shortfall surfaces as
// AdditionalInputsRequiredError instead.
func AllowAdditionalInputs(allow bool) Option {
	return func(s *InputSelection) { s.session.allowAdditional = allow }
}

// WithAutoAllotment enables automatic mana allotment to issuerAccount,
// sized at referenceManaCost per unit of work score (§4.D Allotment
// resolver).
func WithAutoAllotment(issuerAccount ids.AccountID, referenceManaCost uint64) Option {
	return func(s *InputSelection) {
		s.session.autoAllotment = &autoAllotmentParams{
			issuerAccount:     issuerAccount,
			referenceManaCost: referenceManaCost,
		}
	}
}

// WithAllotments adds explicit mana allotments alongside any auto
// allotment.
func WithAllotments(allotments ...Allotment) Option {
	return func(s *InputSelection) {
		s.session.explicitAllotments = append(s.session.explicitAllotments, allotments...)
	}
}

// WithLogger attaches a zap logger the solver uses for structured
// diagnostic logging of each requirement as it's resolved.
func WithLogger(logger *zap.Logger) Option {
	return func(s *InputSelection) { s.logger = logger }
}

// InputSelection drives one run of the transaction construction core
// (§2, §4): given an available UTXO pool, the addresses the caller
// controls, and the desired outputs, it selects inputs, synthesizes any
// required transitions, plans a remainder, and assembles a signing-ready
// transaction.
type InputSelection struct {
	session session

	available []Utxo
	required  map[ids.OutputID]struct{}
	forbidden map[ids.OutputID]struct{}

	requiredUtxos []Utxo

	logger *zap.Logger
}

// New constructs an InputSelection over the given available pool, owned
// addresses, desired outputs, and protocol parameters.
func New(
	available []Utxo,
	owned []addr.Address,
	outputs []output.Output,
	slotCommitment protocol.SlotCommitmentID,
	params protocol.Parameters,
	opts ...Option,
) (*InputSelection, error) {
	s := &InputSelection{
		available: available,
		required:  make(map[ids.OutputID]struct{}),
		forbidden: make(map[ids.OutputID]struct{}),
		logger:    zap.NewNop(),
	}
	s.session = session{
		params:            params,
		slotCommitment:    slotCommitment,
		owned:             owned,
		burnIntent:        burn.New(),
		remainderAddress:  firstOwnedOrNil(owned),
		remainderStrategy: RemainderStrategyReuseAddress,
		manaRewards:        make(map[ids.OutputID]uint64),
		allowAdditional:    true,
		selectedByID:       make(map[ids.OutputID]struct{}),
		selectedChains:     make(map[ids.ChainID]Utxo),
		outputChainIdx:     make(map[ids.ChainID]int),
		inputTokens:        accumulate.NewTokens(),
		outputTokens:       accumulate.NewTokens(),
		mana:               accumulate.NewMana(),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, o := range outputs {
		if err := s.session.addOutput(o); err != nil {
			return nil, err
		}
	}

	if len(available) == 0 {
		return nil, ErrNoAvailableInputsProvided
	}

	return s, nil
}

func firstOwnedOrNil(owned []addr.Address) addr.Address {
	if len(owned) == 0 {
		return nil
	}
	return owned[0]
}

// Select runs the solver to completion (§4): filter the pool, seed the
// requirement queue in canonical order, drain it, plan the remainder,
// order the inputs, and assemble the final transaction.
func (s *InputSelection) Select() (*Selected, error) {
	if err := s.session.filterPool(s.available, s.required, s.forbidden); err != nil {
		return nil, err
	}

	for _, u := range s.requiredUtxos {
		s.session.selectInput(u)
	}

	s.seedQueue()

	for !s.session.queue.empty() {
		req, _ := s.session.queue.pop()
		s.logger.Debug("resolving requirement", zap.String("kind", req.Kind.String()))
		if err := s.session.resolve(req); err != nil {
			s.logger.Debug("requirement failed", zap.String("kind", req.Kind.String()), zap.Error(err))
			return nil, err
		}
	}

	if err := s.session.planRemainder(); err != nil {
		return nil, err
	}

	if _, err := s.session.inputTokens.Finish(s.session.params.NativeTokenCountMax); err != nil {
		return nil, err
	}
	if _, err := s.session.outputTokens.Finish(s.session.params.NativeTokenCountMax); err != nil {
		return nil, err
	}

	return s.session.assemble()
}

// seedQueue implements §4.C's canonical requirement order. The queue is
// a LIFO stack, so what is pushed first is resolved last: the
// chain/sender/issuer requirements derived from the desired outputs and
// the burn intent are resolved first, then NativeTokens, Amount,
// ContextInputs, Mana, and finally Allotment, which must see the final
// shape of the draft.
func (s *InputSelection) seedQueue() {
	// Pushed first, popped last, in reverse of their resolution order.
	s.session.queue.push(AllotmentRequirement())
	s.session.queue.push(ManaRequirement())
	s.session.queue.push(ContextInputsRequirement())
	s.session.queue.push(AmountRequirement())
	s.session.queue.push(NativeTokensRequirement())

	for _, chainID := range s.session.sortedOutputChainIDs() {
		s.pushChainRequirement(chainID)
	}

	if intent := s.session.burnIntent; intent != nil {
		for id := range intent.Accounts {
			s.session.queue.push(AccountRequirement(id))
		}
		for id := range intent.Nfts {
			s.session.queue.push(NftRequirement(id))
		}
		for id := range intent.Foundries {
			s.session.queue.push(FoundryRequirement(id))
		}
	}

	for _, o := range s.session.outputs {
		if senderAddr, ok := output.Sender(o); ok {
			s.session.queue.push(SenderRequirement(senderAddr))
		}
		if issuerAddr, ok := output.Issuer(o); ok {
			s.session.queue.push(IssuerRequirement(issuerAddr))
		}
	}
}

func (s *InputSelection) pushChainRequirement(chainID ids.ChainID) {
	switch chainID.Kind {
	case ids.ChainKindAccount:
		if accID, ok := chainID.AsAccountID(); ok {
			s.session.queue.push(AccountRequirement(accID))
		}
	case ids.ChainKindNft:
		if nftID, ok := chainID.AsNftID(); ok {
			s.session.queue.push(NftRequirement(nftID))
		}
	case ids.ChainKindFoundry:
		if foundryID, ok := chainID.AsFoundryID(); ok {
			s.session.queue.push(FoundryRequirement(foundryID))
		}
	}
}
