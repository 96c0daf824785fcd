package txbuilder

import (
	"fmt"

	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
)

// RequirementKind tags a Requirement variant (§4.C).
type RequirementKind uint8

const (
	RequirementMana RequirementKind = iota
	RequirementAmount
	RequirementNativeTokens
	RequirementContextInputs
	RequirementAllotment
	RequirementAccount
	RequirementNft
	RequirementFoundry
	RequirementSender
	RequirementIssuer
)

func (k RequirementKind) String() string {
	switch k {
	case RequirementMana:
		return "Mana"
	case RequirementAmount:
		return "Amount"
	case RequirementNativeTokens:
		return "NativeTokens"
	case RequirementContextInputs:
		return "ContextInputs"
	case RequirementAllotment:
		return "Allotment"
	case RequirementAccount:
		return "Account"
	case RequirementNft:
		return "Nft"
	case RequirementFoundry:
		return "Foundry"
	case RequirementSender:
		return "Sender"
	case RequirementIssuer:
		return "Issuer"
	default:
		return "Unknown"
	}
}

// Requirement is a single outstanding constraint the solver must satisfy
// (§4.C). Only the fields relevant to Kind are populated.
type Requirement struct {
	Kind      RequirementKind
	AccountID ids.AccountID
	NftID     ids.NftID
	FoundryID ids.FoundryID
	Address   addr.Address
}

func (r Requirement) String() string {
	switch r.Kind {
	case RequirementAccount:
		return fmt.Sprintf("Account(%s)", r.AccountID)
	case RequirementNft:
		return fmt.Sprintf("Nft(%s)", r.NftID)
	case RequirementFoundry:
		return fmt.Sprintf("Foundry(%s)", r.FoundryID)
	case RequirementSender:
		return fmt.Sprintf("Sender(%s)", r.Address)
	case RequirementIssuer:
		return fmt.Sprintf("Issuer(%s)", r.Address)
	default:
		return r.Kind.String()
	}
}

func ManaRequirement() Requirement         { return Requirement{Kind: RequirementMana} }
func AmountRequirement() Requirement       { return Requirement{Kind: RequirementAmount} }
func NativeTokensRequirement() Requirement { return Requirement{Kind: RequirementNativeTokens} }
func ContextInputsRequirement() Requirement { return Requirement{Kind: RequirementContextInputs} }
func AllotmentRequirement() Requirement    { return Requirement{Kind: RequirementAllotment} }

func AccountRequirement(id ids.AccountID) Requirement {
	return Requirement{Kind: RequirementAccount, AccountID: id}
}

func NftRequirement(id ids.NftID) Requirement {
	return Requirement{Kind: RequirementNft, NftID: id}
}

func FoundryRequirement(id ids.FoundryID) Requirement {
	return Requirement{Kind: RequirementFoundry, FoundryID: id}
}

func SenderRequirement(a addr.Address) Requirement {
	return Requirement{Kind: RequirementSender, Address: a}
}

func IssuerRequirement(a addr.Address) Requirement {
	return Requirement{Kind: RequirementIssuer, Address: a}
}

// requirementQueue is a LIFO of outstanding requirements (§4.C).
type requirementQueue struct {
	stack []Requirement
}

func (q *requirementQueue) push(r Requirement) {
	q.stack = append(q.stack, r)
}

func (q *requirementQueue) pop() (Requirement, bool) {
	if len(q.stack) == 0 {
		return Requirement{}, false
	}
	n := len(q.stack) - 1
	r := q.stack[n]
	q.stack = q.stack[:n]
	return r, true
}

func (q *requirementQueue) empty() bool { return len(q.stack) == 0 }
