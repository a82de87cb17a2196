// Command pourbot-console tails the debug output of a pour-bot board
// over its serial port.
package main

import (
	"flag"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"

	"pourbot/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "serial device of the board")
	baud   = flag.Int("baud", 115200, "baud rate")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *device, err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		port.Close()
		os.Exit(0)
	}()

	log.Infof("Listening on %s at %d baud", *device, *baud)
	if err := serial.Relay(port, func(line string) { log.Info(line) }); err != nil {
		log.Fatalf("Serial read failed: %v", err)
	}
}
