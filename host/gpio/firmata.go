package gpio

import (
	"fmt"

	"github.com/kraman/go-firmata"

	"pourbot/core"
)

// firmataPin is a pin on a remote Firmata board.
type firmataPin struct {
	number int
}

func (p *firmataPin) Number() int { return p.number }

// FirmataBank implements core.PinBank against an Arduino (or
// compatible) running the standard Firmata sketch. Writes travel over
// the serial link, so stepping through this bank is slow; it is meant
// for bench rigs, not production pours.
type FirmataBank struct {
	client *firmata.FirmataClient
}

// NewFirmataBank opens the serial device and waits for the Firmata
// protocol handshake. The standard sketch talks at 57600 baud.
func NewFirmataBank(device string, baud int) (*FirmataBank, error) {
	client, err := firmata.NewClient(device, baud)
	if err != nil {
		return nil, fmt.Errorf("gpio: firmata connect %s: %w", device, err)
	}
	return &FirmataBank{client: client}, nil
}

// Resolve checks the pin is addressable by the Firmata protocol. The
// board reports its real pin capabilities after the handshake, but a
// write to an absent pin fails on its own, so only the protocol range
// is enforced here.
func (b *FirmataBank) Resolve(number int) (core.Pin, error) {
	if number < 0 || number > 127 {
		return nil, &core.PinError{Pin: number}
	}
	return &firmataPin{number: number}, nil
}

// ConfigureOutput puts each pin into output mode on the board.
func (b *FirmataBank) ConfigureOutput(pins ...core.Pin) error {
	for _, p := range pins {
		fp, ok := p.(*firmataPin)
		if !ok {
			return &core.PinError{Pin: p.Number()}
		}
		if err := b.client.SetPinMode(uint8(fp.number), firmata.Output); err != nil {
			return fmt.Errorf("gpio: firmata pin %d mode: %w", fp.number, err)
		}
	}
	return nil
}

// Set writes a digital level to the remote pin.
func (b *FirmataBank) Set(pin core.Pin, level bool) error {
	fp, ok := pin.(*firmataPin)
	if !ok {
		return &core.PinError{Pin: pin.Number()}
	}
	if err := b.client.DigitalWrite(uint8(fp.number), level); err != nil {
		return fmt.Errorf("gpio: firmata pin %d write: %w", fp.number, err)
	}
	return nil
}
