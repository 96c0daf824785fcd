// Package accumulate implements the native-token and mana accumulator of
// §4.B: checked-add running totals, bounded by NATIVE_TOKEN_COUNT_MAX,
// modeled after the amountsToBurn/amountsToStake maps-plus-checked-add
// pattern of the teacher's wallet/chain/p/builder.builder.spend.
package accumulate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tangleforge/ledgerwallet/ids"
)

// ErrOverflow is returned when a checked addition would overflow uint64.
var ErrOverflow = errors.New("accumulate: amount overflow")

// InvalidNativeTokensCountError reports a native-token-list length past
// NATIVE_TOKEN_COUNT_MAX at Finish time (§4.B).
type InvalidNativeTokensCountError struct {
	Count int
	Max   int
}

func (e *InvalidNativeTokensCountError) Error() string {
	return fmt.Sprintf("accumulate: %d native tokens exceeds the maximum of %d", e.Count, e.Max)
}

// TokenAmount pairs a token id with a running total, used as the sorted
// output of Finish.
type TokenAmount struct {
	TokenID ids.TokenID
	Amount  uint64
}

// Tokens accumulates per-token-id amounts across an input or output
// side of a transaction draft.
type Tokens struct {
	totals map[ids.TokenID]uint64
}

func NewTokens() *Tokens {
	return &Tokens{totals: make(map[ids.TokenID]uint64)}
}

// Add checked-adds amount into the running total for tokenID.
func (t *Tokens) Add(tokenID ids.TokenID, amount uint64) error {
	cur := t.totals[tokenID]
	sum := cur + amount
	if sum < cur {
		return fmt.Errorf("%w: token %s", ErrOverflow, tokenID)
	}
	t.totals[tokenID] = sum
	return nil
}

// Get returns the running total for tokenID (zero if absent).
func (t *Tokens) Get(tokenID ids.TokenID) uint64 {
	return t.totals[tokenID]
}

// Len reports how many distinct token ids have a nonzero entry.
func (t *Tokens) Len() int {
	n := 0
	for _, v := range t.totals {
		if v != 0 {
			n++
		}
	}
	return n
}

// IDs returns the distinct token ids with a nonzero total, in ascending
// byte-lex order (§6: "ordered sets packed in ascending sort order").
func (t *Tokens) IDs() []ids.TokenID {
	out := make([]ids.TokenID, 0, len(t.totals))
	for id, v := range t.totals {
		if v != 0 {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Finish yields the ordered, bounded list of nonzero token totals,
// failing InvalidNativeTokensCountError when the cap is exceeded (§4.B).
func (t *Tokens) Finish(max int) ([]TokenAmount, error) {
	idList := t.IDs()
	if len(idList) > max {
		return nil, &InvalidNativeTokensCountError{Count: len(idList), Max: max}
	}
	out := make([]TokenAmount, 0, len(idList))
	for _, id := range idList {
		out = append(out, TokenAmount{TokenID: id, Amount: t.totals[id]})
	}
	return out, nil
}

// Mana accumulates the parallel mana ledger of §4.B/§4.D: input mana
// (decayed) plus potential mana generated, versus output mana plus
// allotments.
type Mana struct {
	inputDecayed  uint64
	inputPotential uint64
	outputExplicit uint64
	allotted       uint64
}

func NewMana() *Mana { return &Mana{} }

func (m *Mana) AddDecayedInput(amount uint64) error {
	sum := m.inputDecayed + amount
	if sum < m.inputDecayed {
		return ErrOverflow
	}
	m.inputDecayed = sum
	return nil
}

func (m *Mana) AddPotentialInput(amount uint64) error {
	sum := m.inputPotential + amount
	if sum < m.inputPotential {
		return ErrOverflow
	}
	m.inputPotential = sum
	return nil
}

func (m *Mana) AddOutput(amount uint64) error {
	sum := m.outputExplicit + amount
	if sum < m.outputExplicit {
		return ErrOverflow
	}
	m.outputExplicit = sum
	return nil
}

func (m *Mana) AddAllotment(amount uint64) error {
	sum := m.allotted + amount
	if sum < m.allotted {
		return ErrOverflow
	}
	m.allotted = sum
	return nil
}

// Available is the mana currently backing the transaction: decayed
// input mana plus potential mana generated by consumed outputs.
func (m *Mana) Available() uint64 {
	return m.inputDecayed + m.inputPotential
}

// Required is the mana the transaction must cover: explicit output mana
// plus allotments.
func (m *Mana) Required() uint64 {
	return m.outputExplicit + m.allotted
}

// Shortfall reports how much additional mana must be sourced (zero if
// Available already meets or exceeds Required).
func (m *Mana) Shortfall() uint64 {
	if m.Available() >= m.Required() {
		return 0
	}
	return m.Required() - m.Available()
}
