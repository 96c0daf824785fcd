package txbuilder

import (
	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
)

// RemainderStrategy selects how a leftover base-token surplus is handled
// once every requirement is satisfied (§4.F).
type RemainderStrategy uint8

const (
	// RemainderStrategyReuseAddress builds a remainder output back to
	// remainderAddress whenever there is a surplus, regardless of size.
	RemainderStrategyReuseAddress RemainderStrategy = iota
	// RemainderStrategyUseExcessIfLow skips the remainder output and
	// lets the surplus fall into the transaction's existing outputs
	// when the surplus is below the minimum storage deposit a new
	// remainder output would need (§4.F "use_excess_if_low").
	RemainderStrategyUseExcessIfLow
)

// autoAllotmentParams configures automatic mana allotment (§4.D resolveAllotment):
// issuerAccount receives an allotment sized to the transaction's work
// score times referenceManaCost.
type autoAllotmentParams struct {
	issuerAccount     ids.AccountID
	referenceManaCost uint64
}

// planRemainder implements §4.F: after every requirement is satisfied,
// reconcile any leftover base-token amount and any leftover native
// tokens (those whose input total exceeds their output total net of
// burn) into a remainder output, merging any pending storage-deposit-
// return obligation carried by the selected inputs into the same
// output when the return address matches.
func (s *session) planRemainder() error {
	sdrOwed := s.sdrOwedByReturnAddress()
	var totalSDROwed uint64
	for _, owed := range sdrOwed {
		totalSDROwed += owed
	}

	surplusAmount := s.currentAmountIn() - totalSDROwed - s.currentAmountOut()
	leftoverTokens := s.leftoverNativeTokens()

	if surplusAmount == 0 && len(leftoverTokens) == 0 && len(sdrOwed) == 0 {
		return nil
	}

	for returnAddr, owed := range sdrOwed {
		amount := owed
		if addressKey(returnAddr) == addressKey(s.remainderAddress) {
			amount += surplusAmount
			surplusAmount = 0
		}
		if err := s.buildRemainderOutput(returnAddr, amount, nil); err != nil {
			return err
		}
	}

	if surplusAmount == 0 && len(leftoverTokens) == 0 {
		return nil
	}

	if surplusAmount > 0 && surplusAmount < s.minimumRemainderOutputAmount() &&
		s.remainderStrategy == RemainderStrategyUseExcessIfLow && len(s.outputs) > 0 {
		if last, ok := s.outputs[len(s.outputs)-1].(*output.BasicOutput); ok {
			s.outputs[len(s.outputs)-1] = last.WithAmount(last.Amount() + surplusAmount)
			surplusAmount = 0
		}
	}

	if surplusAmount == 0 && len(leftoverTokens) == 0 {
		return nil
	}

	return s.buildRemainderOutput(s.remainderAddress, surplusAmount, leftoverTokens)
}

// sdrOwedByReturnAddress sums the SDR obligations carried by selected
// inputs, keyed by the packed bytes of the return address (so map keys
// stay comparable across concrete address types).
func (s *session) sdrOwedByReturnAddress() map[addr.Address]uint64 {
	byKey := make(map[string]uint64)
	addrByKey := make(map[string]addr.Address)
	for _, u := range s.selected {
		sdr, ok := output.StorageDepositReturn(u.Output)
		if !ok {
			continue
		}
		k := addressKey(sdr.ReturnAddress)
		byKey[k] += sdr.Amount
		addrByKey[k] = sdr.ReturnAddress
	}
	out := make(map[addr.Address]uint64, len(byKey))
	for k, amount := range byKey {
		out[addrByKey[k]] = amount
	}
	return out
}

// leftoverNativeTokens reports native tokens whose selected-input total
// exceeds their output total net of any burn, i.e. tokens that must be
// returned via the remainder output.
func (s *session) leftoverNativeTokens() []output.NativeTokenAmount {
	var out []output.NativeTokenAmount
	for _, tokenID := range s.inputTokens.IDs() {
		in := s.inputTokens.Get(tokenID)
		consumed := s.outputTokens.Get(tokenID) + s.burnIntent.NativeTokenAmount(tokenID)
		if in > consumed {
			out = append(out, output.NativeTokenAmount{TokenID: tokenID, Amount: in - consumed})
		}
	}
	return out
}

// buildRemainderOutput appends a basic output to the draft carrying
// amount base tokens and the first of tokens back to returnAddr. A basic
// output holds a single native token, so every further token gets its
// own additional output to returnAddr, built at its minimum storage
// deposit.
func (s *session) buildRemainderOutput(returnAddr addr.Address, amount uint64, tokens []output.NativeTokenAmount) error {
	var nt *output.NativeTokenAmount
	if len(tokens) > 0 {
		nt = &output.NativeTokenAmount{TokenID: tokens[0].TokenID, Amount: tokens[0].Amount}
	}
	builder := output.BasicBuilder{
		Conditions: []output.UnlockCondition{output.AddressUnlockCondition{Address: returnAddr}},
		Token:      nt,
	}
	spec := output.Amount(amount)
	if amount == 0 {
		spec = output.MinimumStorageDeposit()
	}
	out, err := builder.Build(spec, s.params.Rent)
	if err != nil {
		if insufficient, ok := err.(*output.InsufficientStorageDepositError); ok {
			return &InsufficientStorageDepositError{Found: insufficient.Found, Required: insufficient.Required}
		}
		return err
	}
	if err := s.addOutput(out); err != nil {
		return err
	}
	rest := tokens
	if len(rest) > 0 {
		rest = rest[1:]
	}
	for _, extra := range rest {
		if err := s.buildRemainderOutput(returnAddr, 0, []output.NativeTokenAmount{extra}); err != nil {
			return err
		}
	}
	return nil
}
