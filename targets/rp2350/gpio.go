//go:build rp2350

package main

import (
	"machine"

	"pourbot/core"
)

// rp2350Pin is a resolved GPIO handle.
type rp2350Pin struct {
	number int
	pin    machine.Pin
}

func (p *rp2350Pin) Number() int { return p.number }

// RP2350Bank implements core.PinBank on the RP2350's machine pins.
// GPIO numbers map directly: GPIO0 = 0 through GPIO29 = 29 on the
// QFN-60 package the Pico 2 uses.
type RP2350Bank struct {
	// Track configured pins to avoid reconfiguring
	configured map[int]machine.Pin
}

// NewRP2350Bank creates the RP2350 GPIO bank.
func NewRP2350Bank() *RP2350Bank {
	return &RP2350Bank{
		configured: make(map[int]machine.Pin),
	}
}

// Resolve maps a logical GPIO number to a machine pin.
func (b *RP2350Bank) Resolve(number int) (core.Pin, error) {
	if number < 0 || number > 29 {
		return nil, &core.PinError{Pin: number}
	}
	return &rp2350Pin{number: number, pin: machine.Pin(number)}, nil
}

// ConfigureOutput configures the given pins as digital outputs.
func (b *RP2350Bank) ConfigureOutput(pins ...core.Pin) error {
	for _, p := range pins {
		rp, ok := p.(*rp2350Pin)
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
func (b *RP2350Bank) Set(pin core.Pin, level bool) error {
	rp, ok := pin.(*rp2350Pin)
	if !ok {
		return &core.PinError{Pin: pin.Number()}
	}
	rp.pin.Set(level)
	return nil
}
