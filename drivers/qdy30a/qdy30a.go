// Package qdy30a is a Modbus-RTU master for the QDY30A-B submersible level
// transmitter. One device owns one UART transport and reads a single holding
// register per poll; the raw count is mapped linearly onto the transmitter's
// calibrated span.
//
// Failure surface: a silent line is errcode.Timeout, a damaged or
// mis-addressed frame is errcode.Checksum, a Modbus exception reply is
// errcode.SensorFault with the exception code preserved.
package qdy30a

import (
	"time"

	"github.com/chewxy/math32"

	"watersensor-go/errcode"
	"watersensor-go/transport"
	"watersensor-go/x/mathx"
)

const (
	funcReadHolding = 0x03
	respHeaderLen   = 3 // slave + function + byte count
	respCRCLen      = 2
)

// Config holds the transmitter's bus identity and calibration.
// Zero fields take defaults.
type Config struct {
	SlaveID        byte          // Modbus slave address, default 1
	Register       uint16        // holding register with the level count, default 0x0000
	RawSpan        uint16        // counts at full scale, default 3000
	MaxRangeM      float32       // metres at full scale, default 3.0
	ResponseWindow time.Duration // bounded wait for the reply, default 100 ms
}

// Device is a QDY30A-B behind a UART.
type Device struct {
	uart transport.UART
	cfg  Config
}

// New wires a device on the given transport. The UART must already be
// configured for the transmitter's framing (9600 or 19200, 8-N-1).
func New(uart transport.UART, cfg Config) *Device {
	if cfg.SlaveID == 0 {
		cfg.SlaveID = 1
	}
	if cfg.RawSpan == 0 {
		cfg.RawSpan = 3000
	}
	if cfg.MaxRangeM == 0 {
		cfg.MaxRangeM = 3.0
	}
	if cfg.ResponseWindow <= 0 {
		cfg.ResponseWindow = 100 * time.Millisecond
	}
	return &Device{uart: uart, cfg: cfg}
}

// ReadRaw performs one request/response exchange and returns the register count.
func (d *Device) ReadRaw() (uint16, error) {
	req := d.buildRequest(d.cfg.Register, 1)

	if err := d.uart.Flush(); err != nil {
		return 0, err
	}
	if err := d.uart.Send(req); err != nil {
		return 0, err
	}

	// Expected reply: slave, func, count=2, hi, lo, crcLo, crcHi.
	resp, err := d.uart.Receive(respHeaderLen+2+respCRCLen, d.cfg.ResponseWindow)
	if err != nil {
		return 0, err
	}
	return d.parseResponse(resp)
}

// ReadLevel returns the water level in metres, rounded to millimetres.
func (d *Device) ReadLevel() (float32, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return 0, err
	}
	// Over-range counts clamp to the span end rather than extrapolating.
	raw = mathx.Clamp(raw, 0, d.cfg.RawSpan)
	m := float32(raw) / float32(d.cfg.RawSpan) * d.cfg.MaxRangeM
	return math32.Round(m*1000) / 1000, nil
}

// buildRequest frames a read-holding-registers request with CRC appended.
func (d *Device) buildRequest(register uint16, count uint16) []byte {
	req := []byte{
		d.cfg.SlaveID,
		funcReadHolding,
		byte(register >> 8),
		byte(register),
		byte(count >> 8),
		byte(count),
	}
	crc := CRC16(req)
	return append(req, byte(crc), byte(crc>>8)) // CRC low byte first on the wire
}

func (d *Device) parseResponse(resp []byte) (uint16, error) {
	if len(resp) < respHeaderLen+respCRCLen {
		return 0, &errcode.E{C: errcode.Checksum, Op: "qdy30a.read", Msg: "truncated response"}
	}
	if resp[0] != d.cfg.SlaveID {
		return 0, &errcode.E{C: errcode.Checksum, Op: "qdy30a.read", Msg: "wrong slave echo"}
	}
	if resp[1] == funcReadHolding|0x80 {
		// Exception reply: slave, func|0x80, code, crc.
		return 0, &errcode.E{C: errcode.SensorFault, Op: "qdy30a.read", Msg: "modbus exception " + itoa(resp[2])}
	}
	if resp[1] != funcReadHolding {
		return 0, &errcode.E{C: errcode.Checksum, Op: "qdy30a.read", Msg: "wrong function echo"}
	}
	byteCount := int(resp[2])
	if byteCount != 2 || len(resp) < respHeaderLen+byteCount+respCRCLen {
		return 0, &errcode.E{C: errcode.Checksum, Op: "qdy30a.read", Msg: "bad byte count"}
	}

	data := resp[:respHeaderLen+byteCount]
	wire := uint16(resp[respHeaderLen+byteCount]) | uint16(resp[respHeaderLen+byteCount+1])<<8
	if CRC16(data) != wire {
		return 0, &errcode.E{C: errcode.Checksum, Op: "qdy30a.read", Msg: "crc mismatch"}
	}

	return uint16(resp[3])<<8 | uint16(resp[4]), nil
}

// itoa formats a small byte without pulling in strconv on MCU builds.
func itoa(b byte) string {
	if b == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for b > 0 {
		i--
		buf[i] = '0' + b%10
		b /= 10
	}
	return string(buf[i:])
}
