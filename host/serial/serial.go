// Package serial connects host tools to a flashed pour-bot board.
// The firmware speaks plain text lines over its USB CDC console; this
// package owns the device handling and line relay so the tools above
// it never touch the tty directly.
package serial

import (
	"bufio"
	"io"
)

// Port is a serial connection to a board. NativePort implements it
// over a real tty; MockPort implements it in memory for tests.
type Port interface {
	io.ReadWriteCloser

	// Flush discards input that arrived before the caller was ready,
	// so reading starts at a line boundary.
	Flush() error
}

// Config describes how to open a port.
type Config struct {
	// Device is the tty path, e.g. "/dev/ttyACM0".
	Device string

	// Baud is the line rate. USB CDC consoles ignore it.
	Baud int

	// ReadTimeout in milliseconds. Zero blocks, which is what the
	// line relay needs; timeout reads starve bufio.Scanner into
	// io.ErrNoProgress.
	ReadTimeout int
}

// DefaultConfig is the blocking 115200 setup for a board console.
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   115200,
	}
}

// Relay reads console lines from the port and hands each one to emit.
// It blocks until the stream ends: nil on a clean end of stream,
// otherwise the read error.
func Relay(p Port, emit func(string)) error {
	scanner := bufio.NewScanner(p)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	return scanner.Err()
}
