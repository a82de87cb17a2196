// Package gpio provides host-side pin banks for the motor driver:
// memory-mapped GPIO through periph.io on Linux boards, and remote
// Firmata pins for bench rigs.
package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"pourbot/core"
)

// periphPin is a resolved memory-mapped pin handle.
type periphPin struct {
	number int
	pin    gpio.PinIO
}

func (p *periphPin) Number() int { return p.number }

// PeriphBank implements core.PinBank over periph.io's pin registry.
// It drives the memory-mapped GPIO of a Raspberry Pi or any other
// board periph has a driver for.
type PeriphBank struct{}

// NewPeriphBank loads the periph host drivers and returns the bank.
func NewPeriphBank() (*PeriphBank, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio: periph host init: %w", err)
	}
	return &PeriphBank{}, nil
}

// Resolve looks the pin up by its Broadcom GPIO number.
func (b *PeriphBank) Resolve(number int) (core.Pin, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", number))
	if p == nil {
		return nil, &core.PinError{Pin: number}
	}
	return &periphPin{number: number, pin: p}, nil
}

// ConfigureOutput switches each pin to output. periph sets the level
// and the mode in one call, so the pins start driven low.
func (b *PeriphBank) ConfigureOutput(pins ...core.Pin) error {
	for _, p := range pins {
		pp, ok := p.(*periphPin)
		if !ok {
			return &core.PinError{Pin: p.Number()}
		}
		if err := pp.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("gpio: configure GPIO%d: %w", pp.number, err)
		}
	}
	return nil
}

// Set drives the pin high (true) or low (false).
func (b *PeriphBank) Set(pin core.Pin, level bool) error {
	pp, ok := pin.(*periphPin)
	if !ok {
		return &core.PinError{Pin: pin.Number()}
	}
	l := gpio.Low
	if level {
		l = gpio.High
	}
	if err := pp.pin.Out(l); err != nil {
		return fmt.Errorf("gpio: write GPIO%d: %w", pp.number, err)
	}
	return nil
}
