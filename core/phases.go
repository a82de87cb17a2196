package core

// Wiring identifies how the motor coils are connected and therefore
// which drive sequence applies. It is fixed at construction from the
// number of control pins.
type Wiring uint8

const (
	// TwoWire drives two control lines; external inverter hardware
	// derives the other two coil signals.
	TwoWire Wiring = iota

	// FourWire drives both ends of two coils directly.
	FourWire

	// FiveWire drives a five-phase motor through its ten-state sequence.
	FiveWire
)

// wiringForPins maps a control pin count to its Wiring.
func wiringForPins(n int) (Wiring, bool) {
	switch n {
	case 2:
		return TwoWire, true
	case 4:
		return FourWire, true
	case 5:
		return FiveWire, true
	}
	return 0, false
}

// Drive sequences, one row per step state, one level per control pin.
// Row k is applied when the step index modulo the cycle length equals k.
//
//	two-wire    four-wire     five-wire
//	0: 01       0: 1010       0: 01101   5: 10010
//	1: 11       1: 0110       1: 01001   6: 10110
//	2: 10       2: 0101       2: 01011   7: 10100
//	3: 00       3: 1001       3: 01010   8: 10101
//	                          4: 11010   9: 00101
var (
	twoWirePhases = [4][2]bool{
		{false, true},
		{true, true},
		{true, false},
		{false, false},
	}

	fourWirePhases = [4][4]bool{
		{true, false, true, false},
		{false, true, true, false},
		{false, true, false, true},
		{true, false, false, true},
	}

	fiveWirePhases = [10][5]bool{
		{false, true, true, false, true},
		{false, true, false, false, true},
		{false, true, false, true, true},
		{false, true, false, true, false},
		{true, true, false, true, false},
		{true, false, false, true, false},
		{true, false, true, true, false},
		{true, false, true, false, false},
		{true, false, true, false, true},
		{false, false, true, false, true},
	}
)

// CycleLength returns the number of rows in the wiring's drive sequence.
func (w Wiring) CycleLength() int {
	if w == FiveWire {
		return 10
	}
	return 4
}

// PinCount returns the number of control pins the wiring drives.
func (w Wiring) PinCount() int {
	switch w {
	case TwoWire:
		return 2
	case FiveWire:
		return 5
	default:
		return 4
	}
}

// Phase returns the output levels for row k of the wiring's sequence.
// k is reduced modulo the cycle length, so any integer selects a row.
// The returned slice aliases the table; callers must not modify it.
func (w Wiring) Phase(k int) []bool {
	k %= w.CycleLength()
	if k < 0 {
		k += w.CycleLength()
	}
	switch w {
	case TwoWire:
		return twoWirePhases[k][:]
	case FiveWire:
		return fiveWirePhases[k][:]
	default:
		return fourWirePhases[k][:]
	}
}

func (w Wiring) String() string {
	switch w {
	case TwoWire:
		return "two-wire"
	case FiveWire:
		return "five-wire"
	default:
		return "four-wire"
	}
}
