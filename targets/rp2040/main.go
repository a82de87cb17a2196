//go:build rp2040

package main

import (
	"machine"
	"time"

	"pourbot/core"
)

// Bench wiring on a Pico: driver board on GP16-19.
const (
	coilPin1 = 16
	coilPin2 = 17
	coilPin3 = 18
	coilPin4 = 19

	stepsPerRev = 200
	pourRPM     = 60
	pourSteps   = 200
	settleTime  = 500 * time.Millisecond
)

func main() {
	// Disable the watchdog on boot to clear any state a previous
	// firmware left behind.
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Route driver debug output to the USB CDC console.
	core.SetDebugWriter(func(s string) { println(s) })
	core.InitAsyncDebug()

	bank := NewRP2040Bank()
	motor, err := core.New(bank, core.Config{
		StepsPerRevolution: stepsPerRev,
		Pins:               []int{coilPin1, coilPin2, coilPin3, coilPin4},
		Clock:              NewHardwareClock(),
	})
	if err != nil {
		fatal("motor init: " + err.Error())
	}
	if err := motor.SetSpeed(pourRPM); err != nil {
		fatal("motor speed: " + err.Error())
	}

	for {
		if err := motor.Move(pourSteps); err != nil {
			motor.DumpTrace()
			fatal("pour stroke: " + err.Error())
		}
		time.Sleep(settleTime)

		if err := motor.Move(-pourSteps); err != nil {
			motor.DumpTrace()
			fatal("return stroke: " + err.Error())
		}
		time.Sleep(settleTime)
	}
}

// fatal parks the firmware, repeating the failure on the console so it
// survives a late monitor attach.
func fatal(msg string) {
	for {
		println(msg)
		time.Sleep(5 * time.Second)
	}
}
