//go:build rp2040

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"

	"pourbot/core"
)

// RP2040 Timer peripheral memory map. The timer counts microseconds
// from power-on in a 64-bit register pair.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // raw timer high word
	timerTIMERAWL = timerBase + 0x0C // raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// hardwareClock implements core.Clock on the RP2040's 1MHz hardware
// timer, reading the raw counter registers directly.
type hardwareClock struct{}

// NewHardwareClock returns the RP2040 hardware timer as a pacing clock.
func NewHardwareClock() core.Clock {
	return hardwareClock{}
}

// Micros reads the full 64-bit microsecond counter.
func (hardwareClock) Micros() int64 {
	// Must read high, then low, then high again to detect a rollover
	// happening during the read.
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return int64(uint64(high1)<<32 | uint64(low))
		}
		// Rollover mid-read; retry.
	}
}

func (hardwareClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
