//go:build rp2040 || rp2350

package heartbeat

import "machine"

// LEDIndicator beats the on-board LED.
type LEDIndicator struct {
	pin machine.Pin
}

func NewLEDIndicator(pin machine.Pin) *LEDIndicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &LEDIndicator{pin: pin}
}

func (l *LEDIndicator) Toggle() {
	l.pin.Set(!l.pin.Get())
}
