//go:build rp2350

package main

import (
	"machine"
	"time"

	"pourbot/core"
)

// Bench wiring on a Pico 2: driver board on GP16-19.
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

// ledBlink blinks the onboard LED a specific number of times for
// diagnostics when no console is attached.
func ledBlink(count int) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for i := 0; i < count; i++ {
		led.High()
		time.Sleep(150 * time.Millisecond)
		led.Low()
		time.Sleep(150 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)
}

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

	bank := NewRP2350Bank()
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

	// One blink: motor configured, pouring starts.
	ledBlink(1)

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

// fatal parks the firmware, repeating the failure on the console and
// blinking the LED so the fault is visible without a monitor.
func fatal(msg string) {
	for {
		println(msg)
		ledBlink(3)
		time.Sleep(5 * time.Second)
	}
}
