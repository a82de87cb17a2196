//go:build esp32

package main

// ModeConfig determines which task the firmware runs
type ModeConfig struct {
	// Set to true to run the temperature monitor instead of the
	// pour cycle. The probe shares a board with the motor harness,
	// so only one of the two runs per flash.
	Thermal bool
}

// GetMode returns the current mode configuration
func GetMode() ModeConfig {
	// Default: pour cycle. Flip to true for a thermal-monitor build.
	return ModeConfig{
		Thermal: false,
	}
}
