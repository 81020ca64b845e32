package errcode

// Code is a stable error identifier for sensor and transport failures.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable). These mirror the measurement status
// taxonomy: a decoder failure carries exactly one of them.
const (
	OK Code = "ok"

	// Timeout: no response within the protocol-defined window.
	Timeout Code = "timeout"
	// Checksum: a frame arrived but its integrity check failed
	// (CRC mismatch, wrong slave echo, bad single-wire checksum).
	Checksum Code = "checksum_error"
	// SensorFault: a valid frame reporting a hardware fault condition
	// (open thermocouple, shorted line, Modbus exception).
	SensorFault Code = "sensor_fault"
	// NotSampled: no successful read since startup.
	NotSampled Code = "not_sampled"

	InvalidParams Code = "invalid_params"
	BusClosed     Code = "bus_closed"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
