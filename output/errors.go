package output

import "fmt"

// InsufficientStorageDepositError is returned by a builder's Build
// when the caller-supplied explicit amount is below the output's
// computed storage deposit (§4.A).
type InsufficientStorageDepositError struct {
	Found    uint64
	Required uint64
}

func (e *InsufficientStorageDepositError) Error() string {
	return fmt.Sprintf("output: insufficient storage deposit: found %d, required %d", e.Found, e.Required)
}

// ErrUnknownOutputKind is returned when unpacking an output with an
// unrecognized discriminator byte.
type ErrUnknownOutputKind struct {
	Byte byte
}

func (e *ErrUnknownOutputKind) Error() string {
	return fmt.Sprintf("output: unknown output kind %d", e.Byte)
}

// ErrExpirationDeadzone is returned by RequiredAddress when the current
// slot falls inside the committable-age ambiguity window around an
// output's expiration slot, so neither the main nor the return address
// can be said with confidence to control the output yet.
var ErrExpirationDeadzone = fmt.Errorf("output: slot falls within the expiration deadzone")
