// Command pourbot-bench exercises the stepper driver against an
// Arduino running Firmata, timing each pass. Useful for checking a
// mechanism on the bench before flashing the real firmware.
package main

import (
	"flag"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"pourbot/core"
	"pourbot/host/gpio"
)

var (
	device      = flag.String("device", "/dev/ttyUSB0", "serial device of the Firmata board")
	baud        = flag.Int("baud", 57600, "baud rate")
	pinList     = flag.String("pins", "8,9,10,11", "comma-separated coil pins")
	stepsPerRev = flag.Int("steps-per-rev", 200, "steps per revolution")
	rpm         = flag.Float64("rpm", 60, "target speed")
	steps       = flag.Int("steps", 200, "steps per pass")
	passes      = flag.Int("passes", 4, "number of passes, alternating direction")
)

func main() {
	flag.Parse()

	pins, err := parsePins(*pinList)
	if err != nil {
		log.Fatalf("Bad -pins: %v", err)
	}

	bank, err := gpio.NewFirmataBank(*device, *baud)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	motor, err := core.New(bank, core.Config{
		StepsPerRevolution: *stepsPerRev,
		Pins:               pins,
	})
	if err != nil {
		log.Fatalf("Failed to configure motor: %v", err)
	}
	if err := motor.SetSpeed(*rpm); err != nil {
		log.Fatalf("Failed to set speed: %v", err)
	}

	log.WithFields(log.Fields{
		"wiring":   motor.Wiring().String(),
		"interval": motor.StepInterval(),
	}).Info("Bench run starting")

	for pass := 1; pass <= *passes; pass++ {
		n := *steps
		if pass%2 == 0 {
			n = -n
		}
		start := time.Now()
		if err := motor.Move(n); err != nil {
			log.Fatalf("Pass %d failed: %v", pass, err)
		}
		log.WithFields(log.Fields{
			"pass":    pass,
			"steps":   n,
			"elapsed": time.Since(start),
			"index":   motor.StepIndex(),
		}).Info("Pass complete")
	}

	if err := motor.Release(); err != nil {
		log.Fatalf("Failed to release coils: %v", err)
	}
	log.Info("Bench run complete")
}

func parsePins(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	pins := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pins = append(pins, n)
	}
	return pins, nil
}
