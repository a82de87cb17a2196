package serial

import (
	"bytes"
	"io"
)

// MockPort is an in-memory Port for tests. Preload Input with firmware
// output; anything the tool writes lands in Output.
type MockPort struct {
	Input  bytes.Buffer
	Output bytes.Buffer

	closed bool
}

func (p *MockPort) Read(b []byte) (int, error) {
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	return p.Input.Read(b)
}

func (p *MockPort) Write(b []byte) (int, error) {
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	return p.Output.Write(b)
}

func (p *MockPort) Close() error {
	p.closed = true
	return nil
}

// Flush drops whatever input is still queued.
func (p *MockPort) Flush() error {
	p.Input.Reset()
	return nil
}
