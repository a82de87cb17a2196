//go:build rp2040

package main

import (
	"machine"

	"pourbot/core"
)

// rp2040Pin is a resolved GPIO handle.
type rp2040Pin struct {
	number int
	pin    machine.Pin
}

func (p *rp2040Pin) Number() int { return p.number }

// RP2040Bank implements core.PinBank on the RP2040's machine pins.
// GPIO numbers map directly: GPIO0 = 0 through GPIO29 = 29.
type RP2040Bank struct {
	// Track configured pins to avoid reconfiguring
	configured map[int]machine.Pin
}

// NewRP2040Bank creates the RP2040 GPIO bank.
func NewRP2040Bank() *RP2040Bank {
	return &RP2040Bank{
		configured: make(map[int]machine.Pin),
	}
}

// Resolve maps a logical GPIO number to a machine pin.
func (b *RP2040Bank) Resolve(number int) (core.Pin, error) {
	if number < 0 || number > 29 {
		return nil, &core.PinError{Pin: number}
	}
	return &rp2040Pin{number: number, pin: machine.Pin(number)}, nil
}

// ConfigureOutput configures the given pins as digital outputs.
func (b *RP2040Bank) ConfigureOutput(pins ...core.Pin) error {
	for _, p := range pins {
		rp, ok := p.(*rp2040Pin)
		if !ok {
			return &core.PinError{Pin: p.Number()}
		}
		if _, exists := b.configured[rp.number]; exists {
			continue // already configured
		}
		rp.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		b.configured[rp.number] = rp.pin
	}
	return nil
}

// Set drives the pin high (true) or low (false).
func (b *RP2040Bank) Set(pin core.Pin, level bool) error {
	rp, ok := pin.(*rp2040Pin)
	if !ok {
		return &core.PinError{Pin: pin.Number()}
	}
	rp.pin.Set(level)
	return nil
}
