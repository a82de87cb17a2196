package core

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// testPin is the handle type produced by recordingBank.
type testPin struct {
	number int
}

func (p *testPin) Number() int { return p.number }

type pinWrite struct {
	pin   int
	level bool
}

// recordingBank is a PinBank that records configuration and every write
// so tests can assert on the exact drive sequence.
type recordingBank struct {
	// limit is the highest pin number Resolve accepts.
	limit      int
	configured []int
	levels     map[int]bool
	writes     []pinWrite

	// failPin makes writes to that pin fail; -1 disables.
	failPin int
	failErr error
}

func newRecordingBank() *recordingBank {
	return &recordingBank{
		limit:   29,
		levels:  make(map[int]bool),
		failPin: -1,
	}
}

func (b *recordingBank) Resolve(number int) (Pin, error) {
	if number < 0 || number > b.limit {
		return nil, &PinError{Pin: number}
	}
	return &testPin{number: number}, nil
}

func (b *recordingBank) ConfigureOutput(pins ...Pin) error {
	for _, p := range pins {
		b.configured = append(b.configured, p.Number())
	}
	return nil
}

func (b *recordingBank) Set(pin Pin, level bool) error {
	if pin.Number() == b.failPin {
		return b.failErr
	}
	b.levels[pin.Number()] = level
	b.writes = append(b.writes, pinWrite{pin: pin.Number(), level: level})
	return nil
}

// fakeClock advances a fixed amount on every Micros call, so pacing
// loops run to completion without real waiting. Sleeps are recorded.
type fakeClock struct {
	now    int64
	tick   int64
	sleeps []time.Duration
}

func (c *fakeClock) Micros() int64 {
	c.now += c.tick
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
}

// rowsApplied groups the bank's write log into one pattern per
// transition, verifying that writes hit the pins in coil order.
func rowsApplied(t *testing.T, b *recordingBank, pinOrder []int) []string {
	t.Helper()
	n := len(pinOrder)
	if len(b.writes)%n != 0 {
		t.Fatalf("write count %d is not a multiple of pin count %d", len(b.writes), n)
	}
	rows := make([]string, 0, len(b.writes)/n)
	for i := 0; i < len(b.writes); i += n {
		buf := make([]byte, n)
		for j := 0; j < n; j++ {
			w := b.writes[i+j]
			if w.pin != pinOrder[j] {
				t.Fatalf("write %d hit pin %d, want pin %d", i+j, w.pin, pinOrder[j])
			}
			if w.level {
				buf[j] = '1'
			} else {
				buf[j] = '0'
			}
		}
		rows = append(rows, string(buf))
	}
	return rows
}

func newTestMotor(t *testing.T, bank *recordingBank, pins []int, stepsPerRev int) *Motor {
	t.Helper()
	m, err := New(bank, Config{
		StepsPerRevolution: stepsPerRev,
		Pins:               pins,
		Clock:              &fakeClock{tick: 10000},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestNewDefaults(t *testing.T) {
	cases := []struct {
		pins   []int
		wiring Wiring
	}{
		{[]int{12, 13}, TwoWire},
		{[]int{16, 17, 18, 19}, FourWire},
		{[]int{1, 2, 3, 4, 5}, FiveWire},
	}
	for _, c := range cases {
		bank := newRecordingBank()
		m := newTestMotor(t, bank, c.pins, 200)

		if m.Wiring() != c.wiring {
			t.Errorf("%d pins: wiring = %v, want %v", len(c.pins), m.Wiring(), c.wiring)
		}
		if m.StepIndex() != 0 {
			t.Errorf("fresh motor step index = %d, want 0", m.StepIndex())
		}
		if m.Direction() != Forward {
			t.Errorf("fresh motor direction = %v, want %v", m.Direction(), Forward)
		}
		if m.StepInterval() != 0 {
			t.Errorf("fresh motor interval = %v, want 0", m.StepInterval())
		}
		if len(bank.configured) != len(c.pins) {
			t.Fatalf("configured %d pins, want %d", len(bank.configured), len(c.pins))
		}
		for i, pin := range c.pins {
			if bank.configured[i] != pin {
				t.Errorf("configured[%d] = %d, want %d", i, bank.configured[i], pin)
			}
		}
		if len(bank.writes) != 0 {
			t.Errorf("construction wrote %d pin levels, want 0", len(bank.writes))
		}
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	bank := newRecordingBank()

	_, err := New(bank, Config{StepsPerRevolution: 0, Pins: []int{16, 17, 18, 19}})
	if !errors.Is(err, ErrConfig) {
		t.Errorf("zero steps per revolution: err = %v, want ErrConfig", err)
	}

	_, err = New(bank, Config{StepsPerRevolution: -200, Pins: []int{16, 17, 18, 19}})
	if !errors.Is(err, ErrConfig) {
		t.Errorf("negative steps per revolution: err = %v, want ErrConfig", err)
	}

	for _, n := range []int{0, 1, 3, 6} {
		pins := make([]int, n)
		for i := range pins {
			pins[i] = i + 1
		}
		_, err := New(bank, Config{StepsPerRevolution: 200, Pins: pins})
		if !errors.Is(err, ErrConfig) {
			t.Errorf("%d pins: err = %v, want ErrConfig", n, err)
		}
	}

	if len(bank.configured) != 0 {
		t.Errorf("rejected configs still configured %d pins", len(bank.configured))
	}
}

func TestNewInvalidPinLeavesBankUntouched(t *testing.T) {
	bank := newRecordingBank()

	_, err := New(bank, Config{StepsPerRevolution: 200, Pins: []int{16, 17, 99, 19}})
	if !errors.Is(err, ErrInvalidPin) {
		t.Fatalf("err = %v, want ErrInvalidPin", err)
	}

	var pinErr *PinError
	if !errors.As(err, &pinErr) {
		t.Fatalf("err = %v, want a *PinError", err)
	}
	if pinErr.Pin != 99 {
		t.Errorf("PinError.Pin = %d, want 99", pinErr.Pin)
	}

	if len(bank.configured) != 0 {
		t.Errorf("failed New configured %d pins, want 0", len(bank.configured))
	}
	if len(bank.writes) != 0 {
		t.Errorf("failed New wrote %d pin levels, want 0", len(bank.writes))
	}
}

func TestSetSpeedInterval(t *testing.T) {
	cases := []struct {
		stepsPerRev int
		rpm         float64
		want        time.Duration
	}{
		{200, 60, 5000 * time.Microsecond},
		{200, 30, 10000 * time.Microsecond},
		{100, 60, 10000 * time.Microsecond},
		{200, 120, 2500 * time.Microsecond},
		{200, 61, 4918 * time.Microsecond}, // truncated, not rounded
	}
	for _, c := range cases {
		m := newTestMotor(t, newRecordingBank(), []int{16, 17, 18, 19}, c.stepsPerRev)
		if err := m.SetSpeed(c.rpm); err != nil {
			t.Fatalf("SetSpeed(%v) failed: %v", c.rpm, err)
		}
		if got := m.StepInterval(); got != c.want {
			t.Errorf("%d steps/rev at %v rpm: interval = %v, want %v", c.stepsPerRev, c.rpm, got, c.want)
		}
	}
}

func TestSetSpeedRejectsNonPositive(t *testing.T) {
	m := newTestMotor(t, newRecordingBank(), []int{16, 17, 18, 19}, 200)

	for _, rpm := range []float64{0, -60} {
		if err := m.SetSpeed(rpm); !errors.Is(err, ErrSpeed) {
			t.Errorf("SetSpeed(%v): err = %v, want ErrSpeed", rpm, err)
		}
	}
	if m.StepInterval() != 0 {
		t.Errorf("rejected SetSpeed changed interval to %v", m.StepInterval())
	}
}

func TestMoveBeforeSetSpeed(t *testing.T) {
	bank := newRecordingBank()
	m := newTestMotor(t, bank, []int{16, 17, 18, 19}, 200)

	if err := m.Move(10); !errors.Is(err, ErrSpeedNotSet) {
		t.Fatalf("Move before SetSpeed: err = %v, want ErrSpeedNotSet", err)
	}
	if len(bank.writes) != 0 {
		t.Errorf("failed Move wrote %d pin levels, want 0", len(bank.writes))
	}
}

func TestMoveZeroSteps(t *testing.T) {
	bank := newRecordingBank()
	m := newTestMotor(t, bank, []int{16, 17, 18, 19}, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(0); err != nil {
		t.Fatalf("Move(0) failed: %v", err)
	}
	if len(bank.writes) != 0 {
		t.Errorf("Move(0) wrote %d pin levels, want 0", len(bank.writes))
	}
	if m.StepIndex() != 0 {
		t.Errorf("Move(0) moved step index to %d", m.StepIndex())
	}
}

func TestFourWireFullRevolution(t *testing.T) {
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(200); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	rows := rowsApplied(t, bank, pins)
	if len(rows) != 200 {
		t.Fatalf("applied %d transitions, want 200", len(rows))
	}

	// The index advances before the pattern is applied, so transition k
	// carries row (k+1) mod 4 and the cycle repeats 50 times.
	want := []string{"1010", "0110", "0101", "1001"}
	for k, row := range rows {
		if row != want[(k+1)%4] {
			t.Fatalf("transition %d applied %s, want %s", k, row, want[(k+1)%4])
		}
	}

	if m.StepIndex() != 0 {
		t.Errorf("after a full revolution step index = %d, want 0", m.StepIndex())
	}
	if m.Direction() != Forward {
		t.Errorf("direction = %v, want %v", m.Direction(), Forward)
	}
}

func TestFiveWireCycleWalk(t *testing.T) {
	pins := []int{1, 2, 3, 4, 5}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(10); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	rows := rowsApplied(t, bank, pins)
	if len(rows) != 10 {
		t.Fatalf("applied %d transitions, want 10", len(rows))
	}

	want := []string{
		"01101", "01001", "01011", "01010", "11010",
		"10010", "10110", "10100", "10101", "00101",
	}
	seen := make(map[string]bool)
	for k, row := range rows {
		if row != want[(k+1)%10] {
			t.Fatalf("transition %d applied %s, want %s", k, row, want[(k+1)%10])
		}
		if seen[row] {
			t.Fatalf("row %s applied twice in a single cycle", row)
		}
		seen[row] = true
	}
	if len(seen) != 10 {
		t.Errorf("cycle walk applied %d distinct rows, want 10", len(seen))
	}
}

func TestTwoWireSequence(t *testing.T) {
	pins := []int{12, 13}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(4); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	rows := rowsApplied(t, bank, pins)
	want := []string{"11", "10", "00", "01"}
	for k, row := range rows {
		if row != want[k] {
			t.Errorf("transition %d applied %s, want %s", k, row, want[k])
		}
	}
}

func TestReverseWrapsAtZero(t *testing.T) {
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(-1); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if m.StepIndex() != 199 {
		t.Fatalf("reverse from 0: step index = %d, want 199", m.StepIndex())
	}
	if m.Direction() != Reverse {
		t.Errorf("direction = %v, want %v", m.Direction(), Reverse)
	}

	rows := rowsApplied(t, bank, pins)
	// 199 mod 4 = 3
	if rows[0] != "1001" {
		t.Errorf("transition applied %s, want 1001", rows[0])
	}

	if err := m.Move(-1); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if m.StepIndex() != 198 {
		t.Errorf("step index = %d, want 198", m.StepIndex())
	}
	rows = rowsApplied(t, bank, pins)
	if rows[1] != "0101" {
		t.Errorf("transition applied %s, want 0101", rows[1])
	}
}

func TestForwardWrapAtRevolution(t *testing.T) {
	// Six steps per revolution exercises the wrap landing off-cycle:
	// indexes 1 2 3 4 5 0 map to rows 1 2 3 0 1 0.
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 6)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(6); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if m.StepIndex() != 0 {
		t.Errorf("step index = %d, want 0", m.StepIndex())
	}

	rows := rowsApplied(t, bank, pins)
	want := []string{"0110", "0101", "1001", "1010", "0110", "1010"}
	for k, row := range rows {
		if row != want[k] {
			t.Errorf("transition %d applied %s, want %s", k, row, want[k])
		}
	}
}

func TestRoundTripReturnsToStart(t *testing.T) {
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(7); err != nil {
		t.Fatalf("forward Move failed: %v", err)
	}
	if err := m.Move(-7); err != nil {
		t.Fatalf("reverse Move failed: %v", err)
	}

	if m.StepIndex() != 0 {
		t.Errorf("round trip ended at step index %d, want 0", m.StepIndex())
	}
	rows := rowsApplied(t, bank, pins)
	if len(rows) != 14 {
		t.Fatalf("applied %d transitions, want 14", len(rows))
	}
	if rows[13] != "1010" {
		t.Errorf("final transition applied %s, want 1010 (row 0)", rows[13])
	}
}

func TestWriteFailureHaltsMotor(t *testing.T) {
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	wErr := errors.New("level write failed")
	bank.failPin = 18
	bank.failErr = wErr

	if err := m.Move(4); err != wErr {
		t.Fatalf("Move returned %v, want the write error", err)
	}
	if m.Fault() != wErr {
		t.Errorf("Fault() = %v, want the write error", m.Fault())
	}

	if err := m.Move(1); !errors.Is(err, ErrHalted) {
		t.Errorf("Move on halted motor: err = %v, want ErrHalted", err)
	}
	if err := m.SetSpeed(60); !errors.Is(err, ErrHalted) {
		t.Errorf("SetSpeed on halted motor: err = %v, want ErrHalted", err)
	}
}

func TestReleaseDrivesAllPinsLow(t *testing.T) {
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	if err := m.Move(3); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if err := m.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	for _, pin := range pins {
		if bank.levels[pin] {
			t.Errorf("pin %d still high after Release", pin)
		}
	}
	if m.StepIndex() != 3 {
		t.Errorf("Release moved step index to %d, want 3", m.StepIndex())
	}

	// The sequence resumes where it left off.
	if err := m.Move(1); err != nil {
		t.Fatalf("Move after Release failed: %v", err)
	}
	rows := rowsApplied(t, bank, pins)
	if got := rows[len(rows)-1]; got != "1010" {
		t.Errorf("transition after Release applied %s, want 1010 (row 0)", got)
	}
}

func TestReleaseOnHaltedMotorStillWrites(t *testing.T) {
	pins := []int{16, 17, 18, 19}
	bank := newRecordingBank()
	m := newTestMotor(t, bank, pins, 200)
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	wErr := errors.New("level write failed")
	bank.failPin = 17
	bank.failErr = wErr
	if err := m.Move(1); err != wErr {
		t.Fatalf("Move returned %v, want the write error", err)
	}

	// Release reports the failure but still drives the healthy pins low.
	if err := m.Release(); err != wErr {
		t.Errorf("Release returned %v, want the write error", err)
	}
	for _, pin := range []int{16, 18, 19} {
		level, written := bank.levels[pin]
		if !written {
			t.Errorf("pin %d not written by Release", pin)
			continue
		}
		if level {
			t.Errorf("pin %d still high after Release", pin)
		}
	}
}

func TestYieldAfterEachTransition(t *testing.T) {
	bank := newRecordingBank()
	clock := &fakeClock{tick: 10000}
	m, err := New(bank, Config{
		StepsPerRevolution: 200,
		Pins:               []int{16, 17, 18, 19},
		Clock:              clock,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(5); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if len(clock.sleeps) != 5 {
		t.Fatalf("yielded %d times, want 5", len(clock.sleeps))
	}
	for _, d := range clock.sleeps {
		if d != DefaultYieldInterval {
			t.Errorf("yield = %v, want %v", d, DefaultYieldInterval)
		}
	}
}

func TestYieldIntervalOverride(t *testing.T) {
	bank := newRecordingBank()
	clock := &fakeClock{tick: 10000}
	m, err := New(bank, Config{
		StepsPerRevolution: 200,
		Pins:               []int{16, 17, 18, 19},
		YieldInterval:      time.Millisecond,
		Clock:              clock,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	if err := m.Move(2); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	for _, d := range clock.sleeps {
		if d != time.Millisecond {
			t.Errorf("yield = %v, want %v", d, time.Millisecond)
		}
	}
}

func TestPacingHonorsInterval(t *testing.T) {
	bank := newRecordingBank()
	clock := &fakeClock{tick: 1000} // 5 polls per 5000us interval
	m, err := New(bank, Config{
		StepsPerRevolution: 200,
		Pins:               []int{16, 17, 18, 19},
		Clock:              clock,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := m.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	if err := m.Move(3); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if m.trace.total != 3 {
		t.Fatalf("recorded %d transitions, want 3", m.trace.total)
	}
	want := []int64{5000, 10000, 15000}
	for i, wantClock := range want {
		evt := m.trace.slots[i]
		if evt.Clock != wantClock {
			t.Errorf("transition %d at clock %d, want %d", i, evt.Clock, wantClock)
		}
		if int(evt.Index) != i+1 {
			t.Errorf("transition %d recorded index %d, want %d", i, evt.Index, i+1)
		}
		if int(evt.Row) != (i+1)%4 {
			t.Errorf("transition %d recorded row %d, want %d", i, evt.Row, (i+1)%4)
		}
	}
}

func TestParallelMotorsTraceIsolation(t *testing.T) {
	// Motors on disjoint pin sets may run concurrently; each ring must
	// hold only its own transitions. The second clock starts far ahead
	// so the two motors' timestamps cannot collide.
	const offset = int64(1_000_000_000)

	bankA := newRecordingBank()
	ma, err := New(bankA, Config{
		StepsPerRevolution: 200,
		Pins:               []int{16, 17, 18, 19},
		Clock:              &fakeClock{tick: 10000},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	bankB := newRecordingBank()
	mb, err := New(bankB, Config{
		StepsPerRevolution: 200,
		Pins:               []int{20, 21, 22, 23},
		Clock:              &fakeClock{now: offset, tick: 10000},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := ma.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}
	if err := mb.SetSpeed(60); err != nil {
		t.Fatalf("SetSpeed failed: %v", err)
	}

	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(2)
	go func() {
		defer wg.Done()
		errA = ma.Move(48)
	}()
	go func() {
		defer wg.Done()
		errB = mb.Move(64)
	}()
	wg.Wait()
	if errA != nil {
		t.Fatalf("first motor Move failed: %v", errA)
	}
	if errB != nil {
		t.Fatalf("second motor Move failed: %v", errB)
	}

	if ma.trace.total != 48 {
		t.Errorf("first motor recorded %d transitions, want 48", ma.trace.total)
	}
	if mb.trace.total != 64 {
		t.Errorf("second motor recorded %d transitions, want 64", mb.trace.total)
	}
	for i, evt := range ma.trace.slots {
		if evt.Clock >= offset {
			t.Errorf("first motor slot %d holds the other motor's clock %d", i, evt.Clock)
		}
	}
	for i, evt := range mb.trace.slots {
		if evt.Clock < offset {
			t.Errorf("second motor slot %d holds the other motor's clock %d", i, evt.Clock)
		}
	}
	if got := len(bankA.writes); got != 48*4 {
		t.Errorf("first bank saw %d writes, want %d", got, 48*4)
	}
	if got := len(bankB.writes); got != 64*4 {
		t.Errorf("second bank saw %d writes, want %d", got, 64*4)
	}
}

func TestVersion(t *testing.T) {
	m := newTestMotor(t, newRecordingBank(), []int{16, 17, 18, 19}, 200)
	if m.Version() != 1 {
		t.Errorf("Version() = %d, want 1", m.Version())
	}
}
