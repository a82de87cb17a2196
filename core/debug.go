package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one coil transition for post-mortem analysis.
// A motor that loses sync mechanically usually looks fine in logs; the
// trace ring shows the exact pacing and pattern of the last transitions.
type TraceEvent struct {
	Clock  int64 // pacing clock at the transition, microseconds
	Index  int32 // step index after the transition
	Row    uint8 // drive sequence row applied
	Levels uint8 // coil levels, bit i = control pin i
	Pins   uint8 // number of control pins (0 marks an empty slot)
}

const (
	TraceRingSize = 32 // keep the last 32 transitions for post-mortem
)

var (
	// debugPrintln is the global debug print function (set by target code)
	debugPrintln DebugWriter = func(s string) {} // no-op by default

	// debugEnabled controls whether debug output is active.
	// Disabled by default; per-transition chatter distorts pacing.
	debugEnabled bool = false

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function.
// Targets point it at USB CDC or UART; hosts point it at a logger.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output.
// Keep it off when measuring step timing.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine.
// Call this from main() after SetDebugWriter.
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Blocks until written; use DebugAsync inside timing-sensitive loops.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking).
// Returns immediately even if the channel is full (drops the message).
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
		// channel full, drop message
	}
}

// traceRing holds the most recent coil transitions of one motor.
// Every Motor carries its own ring and only the goroutine driving the
// motor writes it, so independent motors trace in parallel without
// touching shared state.
type traceRing struct {
	slots [TraceRingSize]TraceEvent
	head  uint8
	total uint32 // transitions recorded since construction
}

// record captures a coil transition in the ring buffer.
// Non-blocking; safe to call from the pacing loop.
func (r *traceRing) record(clock int64, index int, row int, levels []bool) {
	var bits uint8
	for i, level := range levels {
		if level {
			bits |= 1 << uint(i)
		}
	}
	r.slots[r.head] = TraceEvent{
		Clock:  clock,
		Index:  int32(index),
		Row:    uint8(row),
		Levels: bits,
		Pins:   uint8(len(levels)),
	}
	r.head = (r.head + 1) % TraceRingSize
	r.total++
}

// dump outputs the transition ring, oldest entry first. It writes
// through the blocking debug writer regardless of the enable flag.
func (r *traceRing) dump() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[Trace] === Transition Ring Dump ===")
	debugPrintln("[Trace] Total transitions: " + itoa64(int64(r.total)))

	// Read from oldest to newest
	start := r.head
	for i := uint8(0); i < TraceRingSize; i++ {
		idx := (start + i) % TraceRingSize
		evt := &r.slots[idx]
		if evt.Pins == 0 {
			continue // empty slot
		}

		debugPrintln("[Trace] clock=" + itoa64(evt.Clock) +
			" index=" + itoa(int(evt.Index)) +
			" row=" + itoa(int(evt.Row)) +
			" levels=" + levelString(evt.Levels, int(evt.Pins)))
	}
	debugPrintln("[Trace] === End Dump ===")
}

// clear empties the transition ring and resets the total counter.
func (r *traceRing) clear() {
	for i := range r.slots {
		r.slots[i] = TraceEvent{}
	}
	r.head = 0
	r.total = 0
}

// levelString renders packed coil levels as a bit string, pin 0 first.
func levelString(levels uint8, n int) string {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		if levels&(1<<uint(i)) != 0 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
