package core

import (
	"runtime"
	"time"
)

// DriverVersion is the motor driver revision, reported by Version.
const DriverVersion = 1

// DefaultYieldInterval is the pause after each coil write. Pour-speed
// step intervals are far longer, so the pause does not slow the motor;
// it hands the scheduler to USB and sensor goroutines between
// transitions.
const DefaultYieldInterval = 2 * time.Millisecond

// Direction is the rotation sense of a move.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Config describes a motor attached to a PinBank.
type Config struct {
	// StepsPerRevolution is the full-step count of the motor (> 0).
	StepsPerRevolution int

	// Pins are the logical control pin numbers, in coil order.
	// The length selects the wiring: 2, 4 or 5.
	Pins []int

	// YieldInterval overrides DefaultYieldInterval when non-zero.
	YieldInterval time.Duration

	// Clock overrides the system clock when non-nil. Targets pass a
	// hardware timer here; tests pass a fake.
	Clock Clock
}

// Motor drives one stepper through timed coil writes on a PinBank.
// Each instance is independent; callers construct as many as they have
// motors and must not share control pins between live instances.
//
// A Motor is not safe for concurrent use. Move blocks the calling
// goroutine until the requested rotation is complete.
type Motor struct {
	bank   PinBank
	pins   []Pin
	wiring Wiring
	clock  Clock
	yield  time.Duration

	stepsPerRev int
	interval    int64     // microseconds between steps; 0 until SetSpeed
	stepIndex   int       // position within the revolution, [0, stepsPerRev)
	direction   Direction // sense of the most recent non-zero Move
	lastStep    int64     // pacing clock value at the last transition
	fault       error     // sticky; set by the first failed coil write

	trace traceRing // this motor's last transitions, for post-mortem dumps
}

// New resolves and configures the motor's control pins and returns a
// ready driver at step index 0 with no speed set. Every pin is resolved
// before any is configured, so a bad pin number leaves the bank
// untouched. No coil is driven until the first Move.
func New(bank PinBank, cfg Config) (*Motor, error) {
	if cfg.StepsPerRevolution <= 0 {
		return nil, ErrConfig
	}
	wiring, ok := wiringForPins(len(cfg.Pins))
	if !ok {
		return nil, ErrConfig
	}

	// Resolve everything up front; configure only once all pins exist.
	pins := make([]Pin, len(cfg.Pins))
	for i, n := range cfg.Pins {
		p, err := bank.Resolve(n)
		if err != nil {
			return nil, err
		}
		pins[i] = p
	}
	if err := bank.ConfigureOutput(pins...); err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	yield := cfg.YieldInterval
	if yield == 0 {
		yield = DefaultYieldInterval
	}

	return &Motor{
		bank:        bank,
		pins:        pins,
		wiring:      wiring,
		clock:       clock,
		yield:       yield,
		stepsPerRev: cfg.StepsPerRevolution,
	}, nil
}

// SetSpeed sets the rotation speed in revolutions per minute and derives
// the per-step pacing interval. It must be called before the first Move.
func (m *Motor) SetSpeed(rpm float64) error {
	if m.fault != nil {
		return ErrHalted
	}
	if rpm <= 0 {
		return ErrSpeed
	}
	m.interval = int64(60_000_000 / (float64(m.stepsPerRev) * rpm))
	if m.interval < 1 {
		m.interval = 1 // pacing cannot resolve below the clock granularity
	}
	DebugPrintln("[Motor] step interval set to " + itoa64(m.interval) + "us")
	return nil
}

// Move rotates the motor the given number of steps and blocks until the
// last transition has been applied. A positive count runs forward, a
// negative count reverse. Zero steps writes nothing and leaves the
// direction unchanged.
//
// Pacing polls the clock until the step interval has elapsed, calling
// runtime.Gosched on every idle poll so other goroutines stay serviced;
// the calling goroutine is occupied for the whole move. There is no way
// to cancel a move in progress - issue shorter moves if the caller needs
// stop points.
//
// A coil write failure halts the motor permanently: Move returns the
// write error, and every later call fails with ErrHalted.
func (m *Motor) Move(steps int) error {
	if m.fault != nil {
		return ErrHalted
	}
	if m.interval == 0 {
		return ErrSpeedNotSet
	}

	DebugPrintln("[Motor] moving " + itoa(steps) + " steps")

	stepsLeft := steps
	if steps > 0 {
		m.direction = Forward
	}
	if steps < 0 {
		m.direction = Reverse
		stepsLeft = -steps
	}

	for stepsLeft > 0 {
		now := m.clock.Micros()
		// Transition only once the full interval has passed.
		if now-m.lastStep < m.interval {
			runtime.Gosched()
			continue
		}
		m.lastStep = now

		if m.direction == Forward {
			m.stepIndex++
			if m.stepIndex == m.stepsPerRev {
				m.stepIndex = 0
			}
		} else {
			if m.stepIndex == 0 {
				m.stepIndex = m.stepsPerRev
			}
			m.stepIndex--
		}
		stepsLeft--

		if err := m.applyPhase(m.stepIndex % m.wiring.CycleLength()); err != nil {
			m.fault = err
			return err
		}
	}
	return nil
}

// applyPhase writes one drive sequence row to the coils, records it in
// the trace ring and yields. Fails on the first bad write; the coils may
// then hold a partial row, which is why a write failure is fatal.
func (m *Motor) applyPhase(row int) error {
	levels := m.wiring.Phase(row)
	for i, pin := range m.pins {
		if err := m.bank.Set(pin, levels[i]); err != nil {
			return err
		}
	}
	m.trace.record(m.lastStep, m.stepIndex, row, levels)
	if debugEnabled {
		DebugAsync("[Motor] row " + itoa(row) + " index " + itoa(m.stepIndex))
	}
	m.clock.Sleep(m.yield)
	return nil
}

// Release drives every control pin low, de-energizing the coils so the
// rotor can spin freely and the windings stop dissipating. The step
// index is untouched; the next Move resumes the sequence. Release still
// attempts every pin on a halted motor.
func (m *Motor) Release() error {
	var first error
	for _, pin := range m.pins {
		if err := m.bank.Set(pin, false); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DumpTrace writes the motor's transition ring through the blocking
// debug writer, oldest entry first, regardless of the debug enable
// flag. Call it with the motor stopped, typically after a fault.
func (m *Motor) DumpTrace() {
	m.trace.dump()
}

// ClearTrace empties the motor's transition ring.
func (m *Motor) ClearTrace() {
	m.trace.clear()
}

// StepIndex returns the current position within the revolution.
func (m *Motor) StepIndex() int {
	return m.stepIndex
}

// Direction returns the sense of the most recent non-zero Move.
func (m *Motor) Direction() Direction {
	return m.direction
}

// StepInterval returns the pacing interval derived by SetSpeed,
// or zero if no speed has been set.
func (m *Motor) StepInterval() time.Duration {
	return time.Duration(m.interval) * time.Microsecond
}

// Wiring returns the drive variant selected by the configured pin count.
func (m *Motor) Wiring() Wiring {
	return m.wiring
}

// Fault returns the coil write error that halted the motor, or nil.
func (m *Motor) Fault() error {
	return m.fault
}

// Version returns the motor driver revision.
func (m *Motor) Version() int {
	return DriverVersion
}
