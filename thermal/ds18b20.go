//go:build tinygo

package thermal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ds18b20"
	"tinygo.org/x/drivers/onewire"
)

// conversionTime is the worst-case 12-bit conversion time of the probe.
const conversionTime = 750 * time.Millisecond

// DS18B20 reads a Maxim DS18B20 probe over a 1-Wire bus.
type DS18B20 struct {
	sensor ds18b20.Device
	rom    []uint8
}

// NewDS18B20 scans the 1-Wire bus on the given pin and binds to the
// first probe that answers. An empty bus fails with ErrNoSensor.
func NewDS18B20(pin machine.Pin) (*DS18B20, error) {
	ow := onewire.New(pin)
	roms, err := ow.Search(onewire.SEARCH_ROM)
	if err != nil {
		return nil, err
	}
	if len(roms) == 0 {
		return nil, ErrNoSensor
	}
	return &DS18B20{
		sensor: ds18b20.New(ow),
		rom:    roms[0],
	}, nil
}

// ReadMilliCelsius triggers a conversion and reads the result back.
// It blocks for the probe's conversion time, about 750ms.
func (d *DS18B20) ReadMilliCelsius() (int32, error) {
	if err := d.sensor.RequestTemperature(d.rom); err != nil {
		return 0, err
	}
	time.Sleep(conversionTime)
	return d.sensor.ReadTemperature(d.rom)
}
