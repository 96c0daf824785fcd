package output

import (
	"fmt"

	"github.com/tangleforge/ledgerwallet/addr"
)

// UnlockConditionKind tags an UnlockCondition variant.
type UnlockConditionKind uint8

const (
	ConditionAddress UnlockConditionKind = iota
	ConditionStorageDepositReturn
	ConditionTimelock
	ConditionExpiration
)

// UnlockCondition is the tagged sum of §3's unlock-condition variants.
type UnlockCondition interface {
	ConditionKind() UnlockConditionKind
}

// AddressUnlockCondition names the address controlling the output in the
// common case (no timelock/expiration in effect).
type AddressUnlockCondition struct {
	Address addr.Address
}

func (AddressUnlockCondition) ConditionKind() UnlockConditionKind { return ConditionAddress }

// StorageDepositReturnUnlockCondition forces the consuming transaction to
// return Amount units to ReturnAddress (the SDR / "storage-deposit-return"
// obligation of the GLOSSARY).
type StorageDepositReturnUnlockCondition struct {
	ReturnAddress addr.Address
	Amount        uint64
}

func (StorageDepositReturnUnlockCondition) ConditionKind() UnlockConditionKind {
	return ConditionStorageDepositReturn
}

// TimelockUnlockCondition prevents the output from being unlocked before
// Slot.
type TimelockUnlockCondition struct {
	Slot uint64
}

func (TimelockUnlockCondition) ConditionKind() UnlockConditionKind { return ConditionTimelock }

// ExpirationUnlockCondition hands control of the output to ReturnAddress
// once Slot has passed; before that, the main AddressUnlockCondition
// controls it.
type ExpirationUnlockCondition struct {
	ReturnAddress addr.Address
	Slot          uint64
}

func (ExpirationUnlockCondition) ConditionKind() UnlockConditionKind { return ConditionExpiration }

// conditionSet is embedded by every output variant to hold its unlock
// conditions and provide the shared accessors the resolvers need.
type conditionSet struct {
	Conditions []UnlockCondition
}

func (c conditionSet) addressCondition() (AddressUnlockCondition, bool) {
	for _, uc := range c.Conditions {
		if a, ok := uc.(AddressUnlockCondition); ok {
			return a, true
		}
	}
	return AddressUnlockCondition{}, false
}

func (c conditionSet) sdrCondition() (StorageDepositReturnUnlockCondition, bool) {
	for _, uc := range c.Conditions {
		if s, ok := uc.(StorageDepositReturnUnlockCondition); ok {
			return s, true
		}
	}
	return StorageDepositReturnUnlockCondition{}, false
}

func (c conditionSet) timelockCondition() (TimelockUnlockCondition, bool) {
	for _, uc := range c.Conditions {
		if t, ok := uc.(TimelockUnlockCondition); ok {
			return t, true
		}
	}
	return TimelockUnlockCondition{}, false
}

func (c conditionSet) expirationCondition() (ExpirationUnlockCondition, bool) {
	for _, uc := range c.Conditions {
		if e, ok := uc.(ExpirationUnlockCondition); ok {
			return e, true
		}
	}
	return ExpirationUnlockCondition{}, false
}

// requiredAddress implements the §4.D Filtering "required_address(slot,
// age_range)" rule shared by every output variant that carries an
// AddressUnlockCondition: before expiration the main address controls
// the output, after expiration (and outside the committable-age
// ambiguity window) the return address does, and inside the window the
// caller must treat the output as currently unfulfillable.
func (c conditionSet) requiredAddress(slot uint64, committableAgeRange [2]uint64) (addr.Address, error) {
	main, ok := c.addressCondition()
	if !ok {
		return nil, fmt.Errorf("output: missing address unlock condition")
	}
	expiration, ok := c.expirationCondition()
	if !ok {
		return main.Address, nil
	}
	minAge, maxAge := committableAgeRange[0], committableAgeRange[1]
	if slot+maxAge < expiration.Slot {
		// Clearly before expiration: the main address still controls it.
		return main.Address, nil
	}
	if slot >= expiration.Slot+minAge {
		// Clearly after expiration: control has passed to the return address.
		return expiration.ReturnAddress, nil
	}
	return nil, ErrExpirationDeadzone
}

// isCurrentlyTimelocked reports whether the timelock condition (if any)
// still blocks unlocking at slot, accounting for the committable-age
// ambiguity window the same way requiredAddress does for expiration.
func (c conditionSet) isCurrentlyTimelocked(slot uint64, committableAgeRange [2]uint64) bool {
	tl, ok := c.timelockCondition()
	if !ok {
		return false
	}
	return slot+committableAgeRange[0] < tl.Slot
}
