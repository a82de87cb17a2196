// Package thermal reads the pour head's temperature probe.
// The probe hardware hangs off a 1-Wire bus on microcontroller builds;
// hosts and tests substitute their own Sensor.
package thermal

import "errors"

// ErrNoSensor means no probe answered the bus scan.
var ErrNoSensor = errors.New("thermal: no sensor found")

// Sensor reads a temperature probe.
type Sensor interface {
	// ReadMilliCelsius returns the probe temperature in thousandths of
	// a degree Celsius. It blocks for the probe's conversion time.
	ReadMilliCelsius() (int32, error)
}

// FormatMilli renders a milli-degree reading with one decimal place,
// rounded: 23437 becomes "23.4". It avoids fmt so firmware log paths
// stay small.
func FormatMilli(mc int32) string {
	negative := mc < 0
	if negative {
		mc = -mc
	}

	tenths := (mc + 50) / 100
	s := itoa(int(tenths/10)) + "." + string(rune('0'+tenths%10))
	if negative {
		return "-" + s
	}
	return s
}

// itoa converts a non-negative integer to a string without fmt.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [12]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
