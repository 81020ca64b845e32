//go:build rp2040 || rp2350

package transport

import (
	"machine"

	"watersensor-go/errcode"
)

// RP2SPIConfig selects the hardware SPI block and pins for the thermocouple
// amplifier link. The amplifier is read-only: MOSI may be left unwired.
type RP2SPIConfig struct {
	Bus       string // "spi0" | "spi1"
	Frequency uint32 // default 5 MHz
	SCK       machine.Pin
	SDO       machine.Pin
	SDI       machine.Pin
	CS        machine.Pin
}

// NewRP2SPIBus configures the SPI block (mode 0) and returns a SyncSerial
// bracketed by the CS pin.
func NewRP2SPIBus(cfg RP2SPIConfig) (*SPIBus, error) {
	var hw *machine.SPI
	switch cfg.Bus {
	case "spi0":
		hw = machine.SPI0
	case "spi1":
		hw = machine.SPI1
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "spi.open", Msg: "unknown spi: " + cfg.Bus}
	}
	freq := cfg.Frequency
	if freq == 0 {
		freq = 5_000_000
	}
	err := hw.Configure(machine.SPIConfig{
		Frequency: freq,
		SCK:       cfg.SCK,
		SDO:       cfg.SDO,
		SDI:       cfg.SDI,
		Mode:      0,
	})
	if err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "spi.open", Err: err}
	}
	cs := &rp2CS{pin: cfg.CS}
	cs.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return NewSPIBus(hw, cs), nil
}

// rp2CS drives an active-low chip-select GPIO.
type rp2CS struct {
	pin machine.Pin
}

func (c *rp2CS) Assert()   { c.pin.Low() }
func (c *rp2CS) Deassert() { c.pin.High() }
