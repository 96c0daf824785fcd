package main

import (
	"log"

	"github.com/tangleforge/ledgerwallet/addr"
	"github.com/tangleforge/ledgerwallet/ids"
	"github.com/tangleforge/ledgerwallet/output"
	"github.com/tangleforge/ledgerwallet/protocol"
	"github.com/tangleforge/ledgerwallet/secretmanager"
	"github.com/tangleforge/ledgerwallet/txbuilder"
	"github.com/tangleforge/ledgerwallet/unlock"
)

// This example builds, signs, and finalizes a single transaction that
// spends one basic output carrying a storage-deposit-return obligation,
// the way a wallet facade sitting on top of this module would: select
// inputs, hand the signing hash to a secret manager, then merge the
// returned signatures into unlocks.
func main() {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	signer, err := secretmanager.NewInMemoryEd25519(seed, 44, 4218)
	if err != nil {
		log.Fatalf("failed to initialize secret manager: %s\n", err)
	}

	var owner, returnAddr addr.Ed25519Address
	owner[0] = 1
	returnAddr[0] = 2

	var txID ids.ID
	txID[0] = 9
	spendable := txbuilder.Utxo{
		OutputID: ids.NewOutputID(txID, 0, 0),
		Output: output.NewBasicOutput(2_000_000, []output.UnlockCondition{
			output.AddressUnlockCondition{Address: owner},
			output.StorageDepositReturnUnlockCondition{ReturnAddress: returnAddr, Amount: 1_000_000},
		}, nil, nil),
	}

	desired := []output.Output{output.NewBasicOutput(1_000_000, []output.UnlockCondition{
		output.AddressUnlockCondition{Address: owner},
	}, nil, nil)}

	params := protocol.DefaultTestParameters()
	selection, err := txbuilder.New(
		[]txbuilder.Utxo{spendable},
		[]addr.Address{owner},
		desired,
		protocol.SlotCommitmentID{},
		params,
		txbuilder.WithRemainderAddress(owner),
	)
	if err != nil {
		log.Fatalf("failed to start input selection: %s\n", err)
	}

	selected, err := selection.Select()
	if err != nil {
		log.Fatalf("failed to select inputs: %s\n", err)
	}
	log.Printf("assembled transaction with %d inputs and %d outputs\n",
		len(selected.Transaction.Inputs), len(selected.Transaction.Outputs))

	signatures, err := signer.Sign([]secretmanager.SigningRequest{
		{Path: secretmanager.DerivationPath{AddressIndex: 0}, SigningHash: selected.SigningHash},
	})
	if err != nil {
		log.Fatalf("failed to sign transaction: %s\n", err)
	}

	unlockInputs := make([]unlock.Input, len(selected.Transaction.Inputs))
	for i, u := range selected.Transaction.Inputs {
		unlockInputs[i] = unlock.Input{Output: u.Output}
	}
	unlocks, err := unlock.Merge(unlockInputs, signatures, 0, params.CommittableAgeRange)
	if err != nil {
		log.Fatalf("failed to merge unlocks: %s\n", err)
	}

	log.Printf("transaction %x ready with %d unlocks\n", selected.TransactionID, len(unlocks))
}
