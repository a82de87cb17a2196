package core

import "errors"

// Driver errors. Firmware treats ErrHalted as fatal for the affected
// motor; everything else is reported at the call site.
var (
	// ErrInvalidPin means a logical pin number has no usable hardware pin
	// behind it. Banks return it (usually inside a PinError) from Resolve.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrConfig means the motor configuration is unusable: a pin count
	// other than 2, 4 or 5, or a non-positive steps-per-revolution.
	ErrConfig = errors.New("invalid motor config")

	// ErrSpeed means SetSpeed was given a non-positive rpm.
	ErrSpeed = errors.New("speed must be positive")

	// ErrSpeedNotSet means Move was called before any successful SetSpeed.
	ErrSpeedNotSet = errors.New("speed not set")

	// ErrHalted means an earlier coil write failed and the motor is
	// permanently disabled. Fault returns the original cause.
	ErrHalted = errors.New("motor halted")
)

// PinError reports the logical pin number that failed to resolve.
type PinError struct {
	Pin int
}

func (e *PinError) Error() string {
	return "invalid pin " + itoa(e.Pin)
}

// Unwrap matches PinError against ErrInvalidPin under errors.Is.
func (e *PinError) Unwrap() error {
	return ErrInvalidPin
}
