//go:build rp2350

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"

	"pourbot/core"
)

// RP2350 Timer peripheral memory map.
// NOTE: the RP2350 timer lives at a DIFFERENT address than the
// RP2040's (0x40054000 there). Register offsets within TIMER0:
//
//	timeHR   @ 0x08 - latched read of the upper 32b
//	timeLR   @ 0x0C - latched read of the lower 32b (latches timeHR)
//	timeRawH @ 0x24 - raw read of the upper 32b
//	timeRawL @ 0x28 - raw read of the lower 32b
const (
	timerBase     = 0x400B0000       // RP2350 TIMER0 base address
	timerTimeRawH = timerBase + 0x24 // raw timer high (no latching)
	timerTimeRawL = timerBase + 0x28 // raw timer low (no latching)
)

var (
	timerRawH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawH)))
	timerRawL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawL)))
)

// hardwareClock implements core.Clock on the RP2350's 1MHz hardware
// timer, reading the raw counter registers directly.
type hardwareClock struct{}

// NewHardwareClock returns the RP2350 hardware timer as a pacing
// clock. TinyGo's runtime has already started the tick generators; a
// few reads are discarded so pacing starts from a stable counter.
func NewHardwareClock() core.Clock {
	_ = timerRawL.Get()
	_ = timerRawL.Get()
	_ = timerRawL.Get()
	return hardwareClock{}
}

// Micros reads the full 64-bit microsecond counter.
func (hardwareClock) Micros() int64 {
	// Must read high, then low, then high again to detect a rollover
	// happening during the read.
	for {
		high1 := timerRawH.Get()
		low := timerRawL.Get()
		high2 := timerRawH.Get()

		if high1 == high2 {
			return int64(uint64(high1)<<32 | uint64(low))
		}
		// Rollover mid-read; retry.
	}
}

func (hardwareClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
