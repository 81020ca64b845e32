//go:build !rp2040 && !rp2350

package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"watersensor-go/errcode"
)

// HostUART drives a host serial device (e.g. a USB RS-485 adapter) through
// go.bug.st/serial. 8-N-1 framing, baud fixed at open time.
type HostUART struct {
	port serial.Port
	name string
}

// OpenHostUART opens the named port at the given baud rate.
func OpenHostUART(name string, baud int) (*HostUART, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return &HostUART{port: port, name: name}, nil
}

func (u *HostUART) Send(p []byte) error {
	if u.port == nil {
		return errcode.BusClosed
	}
	n, err := u.port.Write(p)
	if err != nil {
		return &errcode.E{C: errcode.Error, Op: "uart.send", Err: err}
	}
	if n != len(p) {
		return &errcode.E{C: errcode.Error, Op: "uart.send", Msg: "short write"}
	}
	return nil
}

// Receive accumulates up to max bytes until the deadline. A response that
// never starts is a Timeout; a response that starts is returned as-is once
// the line goes quiet or max bytes arrived (the caller validates length).
func (u *HostUART) Receive(max int, timeout time.Duration) ([]byte, error) {
	if u.port == nil {
		return nil, errcode.BusClosed
	}
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 0, max)
	chunk := make([]byte, max)
	for len(buf) < max {
		remain := time.Until(deadline)
		if remain <= 0 {
			break
		}
		if err := u.port.SetReadTimeout(remain); err != nil {
			return nil, &errcode.E{C: errcode.Error, Op: "uart.receive", Err: err}
		}
		n, err := u.port.Read(chunk[:max-len(buf)])
		if err != nil {
			return nil, &errcode.E{C: errcode.Error, Op: "uart.receive", Err: err}
		}
		if n == 0 {
			// Read timeout expired.
			break
		}
		buf = append(buf, chunk[:n]...)
	}
	if len(buf) == 0 {
		return nil, errcode.Timeout
	}
	return buf, nil
}

func (u *HostUART) Flush() error {
	if u.port == nil {
		return errcode.BusClosed
	}
	return u.port.ResetInputBuffer()
}

// Close releases the port.
func (u *HostUART) Close() error {
	if u.port == nil {
		return nil
	}
	err := u.port.Close()
	u.port = nil
	return err
}

// ------------------------
// Unwired buses (host)
// ------------------------

// The thermocouple amplifier and hygrometer hang off MCU pins; a host build
// has no physical bus for them unless one is bridged in. These placeholders
// keep the acquisition loop running with those kinds reporting Timeout.

// NoSyncSerial is a SyncSerial with no device behind it.
type NoSyncSerial struct{}

func (NoSyncSerial) Transfer([]byte) error {
	return &errcode.E{C: errcode.Timeout, Op: "spi.transfer", Msg: "bus not wired on host"}
}

// NoSingleWire is a SingleWire with no device behind it.
type NoSingleWire struct{}

func (NoSingleWire) Exchange() ([5]byte, error) {
	return [5]byte{}, &errcode.E{C: errcode.Timeout, Op: "onewire.exchange", Msg: "bus not wired on host"}
}
