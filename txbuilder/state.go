package txbuilder

import (
	"sort"

	"github.com/google/btree"

	"github.com/tangleforge/ledgerwallet/accumulate"
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/burn"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/packer"
	"github.com/tangleforge/ledgerwallet/protocol"
)

// candidate wraps a pool Utxo with the precomputed sort key used by the
// §4.D "Tie-break across candidates" rule: Basic kind before chain
// kinds, then smallest amount, then byte-lex order of the packed output.
type candidate struct {
	utxo       Utxo
	packedHash []byte
}

// Less implements btree.Less, ordering by (is-chain-kind, amount,
// packed bytes) so the smallest eligible Basic candidate is always the
// tree's minimum.
func (c *candidate) Less(than btree.Item) bool {
	o := than.(*candidate)
	ck, ok := chainRank(c.utxo.Output), chainRank(o.utxo.Output)
	if ck != ok {
		return ck < ok
	}
	if c.utxo.Output.Amount() != o.utxo.Output.Amount() {
		return c.utxo.Output.Amount() < o.utxo.Output.Amount()
	}
	return string(c.packedHash) < string(o.packedHash)
}

func chainRank(o output.Output) int {
	if o.Kind() == output.KindBasic {
		return 0
	}
	return 1
}

func newCandidate(u Utxo) *candidate {
	p := packer.NewPacker(64)
	u.Output.Pack(p)
	return &candidate{utxo: u, packedHash: p.Bytes()}
}

// session carries the mutable state of one Select() run (§3 Lifecycle,
// §4 control flow). It is single-use: a fresh session is built per call.
type session struct {
	params         protocol.Parameters
	slotCommitment protocol.SlotCommitmentID
	owned          []addr.Address
	burnIntent     *burn.Intent

	remainderAddress  addr.Address
	remainderStrategy RemainderStrategy
	manaRewards       map[ids.OutputID]uint64
	payload           []byte
	allowAdditional   bool
	autoAllotment     *autoAllotmentParams
	explicitAllotments []Allotment

	// pool is the ordered index over unspent, not-yet-selected candidate
	// inputs (§4.D "Tie-break across candidates"): a btree keyed by
	// (kind, amount, packed bytes) so the Amount/NativeTokens resolvers
	// don't rescan the whole pool on every pop.
	pool *btree.BTree
	// byOutputID lets resolvers look an available candidate up by id
	// (e.g. required-input seeding, chain-id lookups) in O(log n).
	byOutputID map[ids.OutputID]*candidate
	// poolByChain indexes available (not yet selected) chain-output
	// candidates by ChainID for the Account/Nft/Foundry resolvers.
	poolByChain map[ids.ChainID]Utxo

	selected       []Utxo
	selectedByID   map[ids.OutputID]struct{}
	selectedChains map[ids.ChainID]Utxo

	outputs        []output.Output
	outputChainIdx map[ids.ChainID]int

	inputTokens  *accumulate.Tokens
	outputTokens *accumulate.Tokens
	mana         *accumulate.Mana

	contextInputs  []ContextInput
	capabilities   Capabilities
	rewardsClaimed uint64

	queue requirementQueue
}

// filterPool implements §4.D's "Filtering (once, before loop)" rule: an
// available input is dropped if its unlock condition isn't currently
// satisfiable (timelocked beyond the age range, expired past any owned
// address, or of an unsupported kind), unless it's explicitly required
// or targeted for burning.
func (s *session) filterPool(available []Utxo, required map[ids.OutputID]struct{}, forbidden map[ids.OutputID]struct{}) error {
	s.pool = btree.New(32)
	s.byOutputID = make(map[ids.OutputID]*candidate)
	s.poolByChain = make(map[ids.ChainID]Utxo)

	ownedSet := make(map[string]struct{}, len(s.owned))
	for _, a := range s.owned {
		ownedSet[addressKey(a)] = struct{}{}
	}

	ageRange := s.params.CommittableAgeRange
	currentSlot := s.slotCommitment.SlotIndex()

	for _, u := range available {
		if _, skip := forbidden[u.OutputID]; skip {
			continue
		}
		_, isRequired := required[u.OutputID]
		isBurned := s.burnIntent.HasChain(u.Output.ChainID())

		if u.Output.IsTimelocked(currentSlot, ageRange) && !isRequired {
			continue
		}

		reqAddr, err := u.Output.RequiredAddress(currentSlot, ageRange)
		if err != nil {
			if isRequired || isBurned {
				return err
			}
			continue
		}

		if _, ok := reqAddr.(addr.ImplicitAccountCreationAddress); ok && !isRequired {
			continue
		}

		if _, owned := ownedSet[addressKey(reqAddr)]; !owned && !isRequired && !isBurned {
			continue
		}

		c := newCandidate(u)
		s.pool.ReplaceOrInsert(c)
		s.byOutputID[u.OutputID] = c
		if chainID := u.Output.ChainID(); !chainID.IsNil() {
			s.poolByChain[chainID] = u
		}
	}
	return nil
}

func addressKey(a addr.Address) string {
	p := packer.NewPacker(40)
	a.Pack(p)
	return string(p.Bytes())
}

// selectInput moves a candidate from the available pool into the
// selected set, updating the native-token/mana accumulators. It is the
// single mutation point every resolver funnels through (§4.D "The main
// loop then calls select_input on each returned candidate").
func (s *session) selectInput(u Utxo) {
	if _, ok := s.selectedByID[u.OutputID]; ok {
		return
	}
	if c, ok := s.byOutputID[u.OutputID]; ok {
		s.pool.Delete(c)
		delete(s.byOutputID, u.OutputID)
	}
	s.selected = append(s.selected, u)
	s.selectedByID[u.OutputID] = struct{}{}

	if chainID := u.Output.ChainID(); !chainID.IsNil() {
		s.selectedChains[chainID] = u
		delete(s.poolByChain, chainID)
	}
	if nt := u.Output.NativeToken(); nt != nil {
		_ = s.inputTokens.Add(nt.TokenID, nt.Amount)
	}
	if reward, ok := s.manaRewards[u.OutputID]; ok {
		s.rewardsClaimed += reward
	}
}

// isSelected reports whether the given output id has already been
// selected as an input.
func (s *session) isSelected(id ids.OutputID) bool {
	_, ok := s.selectedByID[id]
	return ok
}

// walkPool walks the pool in ascending tie-break order
// (Basic-first, smallest-amount-first, byte-lex), invoking fn for each;
// fn returns false to stop the walk early once enough has been found.
func (s *session) walkPool(fn func(u Utxo) bool) {
	s.pool.Ascend(func(item btree.Item) bool {
		c := item.(*candidate)
		return fn(c.utxo)
	})
}

// currentAmountIn/currentAmountOut/currentSDRCarriedByInputs are used by the
// Amount resolver's shortfall loop (§4.D).
func (s *session) currentAmountIn() uint64 {
	var total uint64
	for _, u := range s.selected {
		total += u.Output.Amount()
	}
	return total + s.rewardsClaimed
}

func (s *session) currentSDRCarriedByInputs() uint64 {
	var total uint64
	for _, u := range s.selected {
		if sdr, ok := output.StorageDepositReturn(u.Output); ok {
			total += sdr.Amount
		}
	}
	return total
}

func (s *session) currentAmountOut() uint64 {
	var total uint64
	for _, o := range s.outputs {
		total += o.Amount()
	}
	return total
}

// addOutput appends o to the draft's output list, indexing its ChainID
// if non-nil, and returns an error if doing so would create a duplicate
// ChainID (invariant 5, §3).
func (s *session) addOutput(o output.Output) error {
	if chainID := o.ChainID(); !chainID.IsNil() {
		if _, exists := s.outputChainIdx[chainID]; exists {
			return &DuplicateOutputChainError{ChainID: chainID}
		}
		s.outputChainIdx[chainID] = len(s.outputs)
	}
	s.outputs = append(s.outputs, o)
	if nt := o.NativeToken(); nt != nil {
		_ = s.outputTokens.Add(nt.TokenID, nt.Amount)
	}
	return nil
}

// outputByChainID returns the output currently carrying chainID, if any.
func (s *session) outputByChainID(chainID ids.ChainID) (output.Output, bool) {
	idx, ok := s.outputChainIdx[chainID]
	if !ok {
		return nil, false
	}
	return s.outputs[idx], true
}

// sortedOutputChainIDs returns the distinct non-nil ChainIDs currently
// present in s.outputs, in byte-lex order — used by seedQueue to push
// the chain requirements in a deterministic order.
func (s *session) sortedOutputChainIDs() []ids.ChainID {
	out := make([]ids.ChainID, 0, len(s.outputChainIdx))
	for id := range s.outputChainIdx {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return string(out[i].Bytes[:]) < string(out[j].Bytes[:])
	})
	return out
}
