//go:build esp32

package main

import (
	"machine"
	"time"

	"pourbot/core"
	"pourbot/thermal"
)

// Pour head wiring. The driver board sits on GPIO16-19; the thermal
// build replaces it with a DS18B20 probe on GPIO18.
const (
	coilPin1 = 16
	coilPin2 = 17
	coilPin3 = 18
	coilPin4 = 19

	probePin = 18

	stepsPerRev = 200
	pourRPM     = 60
	pourSteps   = 200 // one full revolution per stroke
	settleTime  = 500 * time.Millisecond
)

func main() {
	// Route driver debug output to the serial console.
	core.SetDebugWriter(func(s string) { println(s) })
	core.InitAsyncDebug()

	if GetMode().Thermal {
		runThermal()
	} else {
		runPour()
	}
}

// runPour strokes the pour mechanism forward and back forever.
func runPour() {
	bank := NewESP32Bank()
	motor, err := core.New(bank, core.Config{
		StepsPerRevolution: stepsPerRev,
		Pins:               []int{coilPin1, coilPin2, coilPin3, coilPin4},
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

// runThermal polls the pour head probe once a second.
func runThermal() {
	sensor, err := thermal.NewDS18B20(machine.Pin(probePin))
	if err != nil {
		fatal("probe init: " + err.Error())
	}

	for {
		mc, err := sensor.ReadMilliCelsius()
		if err != nil {
			println("probe read failed: " + err.Error())
		} else {
			println("Temperature: " + thermal.FormatMilli(mc))
		}
		time.Sleep(time.Second)
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
