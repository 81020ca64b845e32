// Package dht22 decodes the AM2302/DHT22 hygrometer's 40-bit frame:
// 16 bits humidity, 16 bits temperature (sign-magnitude), 8-bit checksum,
// all fixed-point tenths. The sensor cannot be driven more often than once
// every 2 seconds; reads inside that floor return the cached sample without
// touching the line.
package dht22

import (
	"time"

	"watersensor-go/errcode"
	"watersensor-go/transport"
	"watersensor-go/x/mathx"
)

// MinReadInterval is the sensor's floor between successful line exchanges.
const MinReadInterval = 2 * time.Second

// Reading is one decoded humidity/temperature pair.
type Reading struct {
	TemperatureC float32
	HumidityPct  float32
}

// Device is a DHT22 behind a single-wire transport.
type Device struct {
	line transport.SingleWire

	last     Reading
	lastGood time.Time
	has      bool

	now func() time.Time // injectable clock
}

func New(line transport.SingleWire) *Device {
	return &Device{line: line, now: time.Now}
}

// Read returns the current sample. Within MinReadInterval of the last
// successful exchange the cached reading is returned unchanged; otherwise
// the line is driven and the frame decoded.
func (d *Device) Read() (Reading, error) {
	now := d.now()
	if d.has && now.Sub(d.lastGood) < MinReadInterval {
		return d.last, nil
	}

	frame, err := d.line.Exchange()
	if err != nil {
		return Reading{}, err
	}
	r, err := Decode(frame)
	if err != nil {
		return Reading{}, err
	}

	d.last = r
	d.lastGood = now
	d.has = true
	return r, nil
}

// Decode validates and converts a raw 40-bit frame.
// The checksum is the low byte of the sum of the four data bytes.
func Decode(frame [5]byte) (Reading, error) {
	sum := frame[0] + frame[1] + frame[2] + frame[3]
	if sum != frame[4] {
		return Reading{}, &errcode.E{C: errcode.Checksum, Op: "dht22.decode", Msg: "frame checksum mismatch"}
	}

	hum := float32(uint16(frame[0])<<8|uint16(frame[1])) / 10

	traw := uint16(frame[2])<<8 | uint16(frame[3])
	temp := float32(traw&0x7FFF) / 10
	if traw&0x8000 != 0 {
		temp = -temp
	}

	// A frame can checksum correctly yet carry junk after a marginal
	// exchange; reject readings outside the part's envelope.
	if !mathx.Between(hum, 0, 100) || !mathx.Between(temp, -40, 80) {
		return Reading{}, &errcode.E{C: errcode.Checksum, Op: "dht22.decode", Msg: "reading out of range"}
	}

	return Reading{TemperatureC: temp, HumidityPct: hum}, nil
}
