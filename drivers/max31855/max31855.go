// Package max31855 decodes the MAX31855K cold-junction-compensated
// thermocouple amplifier. The chip has no write phase: each poll clocks one
// 32-bit word off the synchronous-serial bus.
//
// Word layout (MSB first):
//
//	D[31:18]  thermocouple temperature, signed, 0.25 °C/LSB
//	D16       fault flag
//	D[15:4]   internal (cold junction) temperature, signed, 0.0625 °C/LSB
//	D2        short to VCC
//	D1        short to GND
//	D0        open circuit
package max31855

import (
	"encoding/binary"

	"watersensor-go/errcode"
	"watersensor-go/transport"
)

const (
	faultFlag = 1 << 16

	faultOpenBit = 1 << 0
	faultGNDBit  = 1 << 1
	faultVCCBit  = 1 << 2
)

// FaultClass preserves which fault condition the chip reported.
type FaultClass uint8

const (
	FaultNone        FaultClass = 0
	FaultOpenCircuit FaultClass = 1 << 0 // matches wire bit D0
	FaultShortGND    FaultClass = 1 << 1 // D1
	FaultShortVCC    FaultClass = 1 << 2 // D2
)

func (f FaultClass) String() string {
	switch {
	case f&FaultOpenCircuit != 0:
		return "open_circuit"
	case f&FaultShortGND != 0:
		return "short_to_gnd"
	case f&FaultShortVCC != 0:
		return "short_to_vcc"
	default:
		return "none"
	}
}

// Reading is one decoded conversion.
type Reading struct {
	ThermocoupleC float32 // hot junction, 0.25 °C resolution
	InternalC     float32 // cold junction, 0.0625 °C resolution
	Fault         FaultClass
}

// Device is a MAX31855 behind a chip-selected synchronous-serial link.
type Device struct {
	bus transport.SyncSerial
}

func New(bus transport.SyncSerial) *Device {
	return &Device{bus: bus}
}

// Read clocks one word and decodes it. A stuck line (all zeros or all ones)
// means no amplifier answered and is reported as Timeout; a fault flag is
// SensorFault with the class kept on the reading and in the error message.
func (d *Device) Read() (Reading, error) {
	var buf [4]byte
	if err := d.bus.Transfer(buf[:]); err != nil {
		return Reading{}, err
	}
	word := binary.BigEndian.Uint32(buf[:])

	if word == 0 || word == 0xFFFFFFFF {
		return Reading{}, &errcode.E{C: errcode.Timeout, Op: "max31855.read", Msg: "line stuck"}
	}

	r := Reading{
		ThermocoupleC: float32(int16(word>>16)>>2) * 0.25,
		InternalC:     float32(int16(word)>>4) * 0.0625,
	}
	if word&faultFlag != 0 {
		if word&faultOpenBit != 0 {
			r.Fault |= FaultOpenCircuit
		}
		if word&faultGNDBit != 0 {
			r.Fault |= FaultShortGND
		}
		if word&faultVCCBit != 0 {
			r.Fault |= FaultShortVCC
		}
		return r, &errcode.E{C: errcode.SensorFault, Op: "max31855.read", Msg: r.Fault.String()}
	}
	return r, nil
}
