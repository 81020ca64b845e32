// Package transport provides byte/pulse-level access to the three sensor
// buses: a UART serial channel (RS-485 level transmitter), a synchronous
// serial channel (thermocouple amplifier) and a single-wire timed-pulse
// channel (hygrometer). No protocol semantics live here.
//
// Every implementation turns a timing violation or missing response into
// errcode.Timeout; transports never panic on bus trouble.
package transport

import (
	"time"

	"tinygo.org/x/drivers"

	"watersensor-go/errcode"
)

// UART is a byte stream with explicit receive deadlines, 8-N-1 framing.
type UART interface {
	// Send writes the whole frame or fails.
	Send(p []byte) error
	// Receive reads up to max bytes, returning what arrived within timeout.
	// No bytes at all within the window is errcode.Timeout.
	Receive(max int, timeout time.Duration) ([]byte, error)
	// Flush discards stale RX bytes so a fresh exchange starts clean.
	Flush() error
}

// CSPin is the chip-select line bracketing a synchronous-serial transfer.
type CSPin interface {
	Assert()   // select the device (active low on the wire)
	Deassert() // release the device
}

// SyncSerial reads fixed-width words from a clocked bus. Implementations
// must bracket every transfer with chip-select and guarantee release even
// when the transfer fails midway.
type SyncSerial interface {
	Transfer(buf []byte) error
}

// SingleWire performs one full timed exchange on the proprietary one-wire
// line: wake pulse, then 40 data bits. The exchange window is timing
// critical; implementations either capture all edges or return Timeout.
type SingleWire interface {
	Exchange() ([5]byte, error)
}

// ------------------------
// Synchronous serial over an SPI bus
// ------------------------

// SPIBus implements SyncSerial over a drivers.SPI with a chip-select pin.
type SPIBus struct {
	Bus drivers.SPI
	CS  CSPin
}

// NewSPIBus wires a configured SPI bus and CS pin into a SyncSerial.
func NewSPIBus(bus drivers.SPI, cs CSPin) *SPIBus {
	cs.Deassert()
	return &SPIBus{Bus: bus, CS: cs}
}

// Transfer clocks len(buf) bytes out of the device into buf.
// CS is released on every path, including transfer errors.
func (s *SPIBus) Transfer(buf []byte) error {
	s.CS.Assert()
	defer s.CS.Deassert()
	if err := s.Bus.Tx(nil, buf); err != nil {
		return &errcode.E{C: errcode.Timeout, Op: "spi.transfer", Err: err}
	}
	return nil
}
