package core

// Pin is a resolved hardware output pin. Handles come from a PinBank's
// Resolve and are only meaningful to the bank that produced them.
type Pin interface {
	// Number returns the logical pin number the handle was resolved from.
	Number() int
}

// PinBank is the abstract GPIO interface the motor driver uses.
// Platform-specific implementations handle actual hardware control:
// machine pins on microcontrollers, sysfs/memory-mapped GPIO on a Pi,
// or a remote Firmata board on a bench rig.
type PinBank interface {
	// Resolve maps a logical pin number to a hardware pin handle.
	// Numbers with no usable pin fail with an error matching
	// ErrInvalidPin; nothing is configured by Resolve.
	Resolve(number int) (Pin, error)

	// ConfigureOutput configures the given pins as digital outputs.
	ConfigureOutput(pins ...Pin) error

	// Set drives a configured pin high (true) or low (false).
	Set(pin Pin, level bool) error
}
