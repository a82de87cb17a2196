// Command pourbotd runs pour cycles on a Linux board, driving the
// stepper through memory-mapped GPIO.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"pourbot/core"
	"pourbot/host/config"
	"pourbot/host/gpio"
)

var configPath = flag.String("config", "", "path to the YAML configuration (built-in defaults when empty)")

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Unknown log level %q", cfg.LogLevel)
	}
	log.SetLevel(level)

	core.SetDebugWriter(func(msg string) { log.Debug(msg) })
	if log.IsLevelEnabled(log.DebugLevel) {
		core.SetDebugEnabled(true)
		core.InitAsyncDebug()
	}

	bank, err := gpio.NewPeriphBank()
	if err != nil {
		log.Fatalf("Failed to initialize GPIO: %v", err)
	}

	motor, err := core.New(bank, core.Config{
		StepsPerRevolution: cfg.Motor.StepsPerRevolution,
		Pins:               cfg.Motor.Pins,
	})
	if err != nil {
		log.Fatalf("Failed to configure motor: %v", err)
	}
	if err := motor.SetSpeed(cfg.Motor.RPM); err != nil {
		log.Fatalf("Failed to set speed: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	log.WithFields(log.Fields{
		"pins":   cfg.Motor.Pins,
		"wiring": motor.Wiring().String(),
		"rpm":    cfg.Motor.RPM,
		"steps":  cfg.Pour.Steps,
	}).Info("Pour daemon started")

	cycle := 0
	for {
		cycle++
		log.Infof("Pour cycle %d: dispensing", cycle)
		if err := motor.Move(cfg.Pour.Steps); err != nil {
			shutdownOnFault(motor, err)
		}
		time.Sleep(cfg.Settle())
		log.Infof("Pour cycle %d: returning", cycle)
		if err := motor.Move(-cfg.Pour.Steps); err != nil {
			shutdownOnFault(motor, err)
		}
		if cfg.Pour.Cycles > 0 && cycle >= cfg.Pour.Cycles {
			log.Infof("Completed %d pour cycles", cycle)
			break
		}
		// Signals are only honored here, with the mechanism back at
		// its home position.
		if stopped(stop) {
			break
		}
		time.Sleep(cfg.Settle())
	}

	if err := motor.Release(); err != nil {
		log.Errorf("Failed to release coils: %v", err)
	}
	log.Info("Pour daemon stopped")
}

func stopped(stop <-chan os.Signal) bool {
	select {
	case sig := <-stop:
		log.Infof("Received %v, finishing at cycle boundary", sig)
		return true
	default:
		return false
	}
}

// shutdownOnFault dumps the transition ring through the error log,
// de-energizes the coils and exits.
func shutdownOnFault(motor *core.Motor, err error) {
	core.SetDebugWriter(func(msg string) { log.Error(msg) })
	motor.DumpTrace()
	if relErr := motor.Release(); relErr != nil {
		log.Errorf("Failed to release coils: %v", relErr)
	}
	log.Fatalf("Motor fault: %v", err)
}
