//go:build esp32

package main

import (
	"machine"

	"pourbot/core"
)

// esp32Pin is a resolved GPIO handle.
type esp32Pin struct {
	number int
	pin    machine.Pin
}

func (p *esp32Pin) Number() int { return p.number }

// ESP32Bank implements core.PinBank on the ESP32's machine pins.
type ESP32Bank struct {
	// Track configured pins to avoid reconfiguring
	configured map[int]machine.Pin
}

// NewESP32Bank creates the ESP32 GPIO bank.
func NewESP32Bank() *ESP32Bank {
	return &ESP32Bank{
		configured: make(map[int]machine.Pin),
	}
}

// Resolve maps a logical GPIO number to a machine pin. Numbers with no
// GPIO behind them on this chip fail with a PinError.
func (b *ESP32Bank) Resolve(number int) (core.Pin, error) {
	if !validPin(number) {
		return nil, &core.PinError{Pin: number}
	}
	return &esp32Pin{number: number, pin: machine.Pin(number)}, nil
}

// validPin reports whether the GPIO number exists on the ESP32.
// 20, 24, 28-31 are gaps in the chip's pin map; 34-39 exist but are
// input-only in hardware.
func validPin(n int) bool {
	switch {
	case n >= 0 && n <= 19:
		return true
	case n >= 21 && n <= 23:
		return true
	case n >= 25 && n <= 27:
		return true
	case n >= 32 && n <= 39:
		return true
	}
	return false
}

// ConfigureOutput configures the given pins as digital outputs.
func (b *ESP32Bank) ConfigureOutput(pins ...core.Pin) error {
	for _, p := range pins {
		ep, ok := p.(*esp32Pin)
		if !ok {
			return &core.PinError{Pin: p.Number()}
		}
		if _, exists := b.configured[ep.number]; exists {
			continue // already configured
		}
		ep.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		b.configured[ep.number] = ep.pin
	}
	return nil
}

// Set drives the pin high (true) or low (false).
func (b *ESP32Bank) Set(pin core.Pin, level bool) error {
	ep, ok := pin.(*esp32Pin)
	if !ok {
		return &core.PinError{Pin: pin.Number()}
	}
	ep.pin.Set(level)
	return nil
}
