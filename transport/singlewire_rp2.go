//go:build rp2040 || rp2350

package transport

import (
	"machine"
	"runtime/interrupt"
	"time"

	"watersensor-go/errcode"
)

// RP2SingleWire bit-bangs the hygrometer's timed one-wire protocol on a
// GPIO with the line idling high through the internal pull-up.
type RP2SingleWire struct {
	pin machine.Pin
}

func NewRP2SingleWire(pin machine.Pin) *RP2SingleWire {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &RP2SingleWire{pin: pin}
}

const (
	wakeLow   = 18 * time.Millisecond  // host start signal, well above the 1 ms floor
	wakeHigh  = 30 * time.Microsecond  // release before handover
	edgeLimit = 150 * time.Microsecond // no legal pulse is longer than this
	bitSplit  = 50 * time.Microsecond  // high time above this decodes as 1
)

// Exchange wakes the sensor and captures the 40-bit reply.
// Interrupts are masked for the exchange window: a single missed edge
// corrupts the whole frame.
func (w *RP2SingleWire) Exchange() ([5]byte, error) {
	var frame [5]byte

	w.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	w.pin.High()
	time.Sleep(time.Millisecond)
	w.pin.Low()
	time.Sleep(wakeLow)
	w.pin.High()
	time.Sleep(wakeHigh)
	w.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	mask := interrupt.Disable()
	defer interrupt.Restore(mask)

	// Sensor preamble: ~80 us low, ~80 us high, then the first bit's lead-in.
	if !w.waitLevel(false, 2*edgeLimit) {
		return frame, errcode.Timeout
	}
	if !w.waitLevel(true, edgeLimit) {
		return frame, errcode.Timeout
	}
	if !w.waitLevel(false, edgeLimit) {
		return frame, errcode.Timeout
	}

	for i := 0; i < 40; i++ {
		// 50 us low lead-in, then ~27 us high for 0 or ~70 us high for 1.
		if !w.waitLevel(true, edgeLimit) {
			return frame, errcode.Timeout
		}
		start := time.Now()
		if !w.waitLevel(false, edgeLimit) {
			return frame, errcode.Timeout
		}
		frame[i/8] <<= 1
		if time.Since(start) > bitSplit {
			frame[i/8] |= 1
		}
	}
	return frame, nil
}

// waitLevel spins until the line reaches level or the bound elapses.
func (w *RP2SingleWire) waitLevel(level bool, bound time.Duration) bool {
	deadline := time.Now().Add(bound)
	for w.pin.Get() != level {
		if time.Now().After(deadline) {
			return false
		}
	}
	return true
}
