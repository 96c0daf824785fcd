package output

// SimpleTokenScheme is the only token scheme this core models: a running
// minted/melted counter bounded by a maximum supply (§3 Foundry).
type SimpleTokenScheme struct {
	MintedTokens  uint64
	MeltedTokens  uint64
	MaximumSupply uint64
}

// CirculatingSupply is minted - melted: the amount of the foundry's
// native token currently alive on the ledger.
func (s SimpleTokenScheme) CirculatingSupply() uint64 {
	return s.MintedTokens - s.MeltedTokens
}
