package acquisition

import (
	"time"

	"watersensor-go/drivers/dht22"
	"watersensor-go/drivers/max31855"
	"watersensor-go/drivers/qdy30a"
	"watersensor-go/errcode"
	"watersensor-go/types"
	"watersensor-go/x/timex"
)

// Source is one pollable sensor. The set is closed: the sampler dispatches
// over a fixed slice, in declaration order, never by runtime type.
type Source interface {
	Name() string
	Interval() time.Duration
	// Poll attempts one read and reports a measurement per covered kind.
	// Failures are returned as measurements carrying the failure status,
	// never as errors: a sensor problem is data, not a loop problem.
	Poll(now time.Time) []types.Measurement
}

// statusOf maps a decoder error to a measurement status.
func statusOf(err error) types.Status {
	switch errcode.Of(err) {
	case errcode.Timeout:
		return types.StatusTimeout
	case errcode.Checksum:
		return types.StatusChecksum
	case errcode.SensorFault:
		return types.StatusFault
	default:
		return types.StatusFault
	}
}

// ------------------------
// Water level (QDY30A-B)
// ------------------------

type levelSource struct {
	dev   *qdy30a.Device
	every time.Duration
}

// NewLevelSource polls the level transmitter at the given interval.
func NewLevelSource(dev *qdy30a.Device, every time.Duration) Source {
	return &levelSource{dev: dev, every: every}
}

func (s *levelSource) Name() string            { return "qdy30a" }
func (s *levelSource) Interval() time.Duration { return s.every }

func (s *levelSource) Poll(now time.Time) []types.Measurement {
	ts := timex.Ms(now)
	level, err := s.dev.ReadLevel()
	if err != nil {
		return []types.Measurement{types.Failed(types.WaterLevel, statusOf(err), ts)}
	}
	return []types.Measurement{types.Ok(types.WaterLevel, level, ts)}
}

// ------------------------
// Thermocouple (MAX31855)
// ------------------------

type thermoSource struct {
	dev   *max31855.Device
	every time.Duration
}

func NewThermoSource(dev *max31855.Device, every time.Duration) Source {
	return &thermoSource{dev: dev, every: every}
}

func (s *thermoSource) Name() string            { return "max31855" }
func (s *thermoSource) Interval() time.Duration { return s.every }

func (s *thermoSource) Poll(now time.Time) []types.Measurement {
	ts := timex.Ms(now)
	r, err := s.dev.Read()
	if err != nil {
		return []types.Measurement{types.Failed(types.ThermocoupleTemp, statusOf(err), ts)}
	}
	return []types.Measurement{types.Ok(types.ThermocoupleTemp, r.ThermocoupleC, ts)}
}

// ------------------------
// Ambient temperature/humidity (DHT22)
// ------------------------

type envSource struct {
	dev   *dht22.Device
	every time.Duration
}

// NewEnvSource covers both ambient kinds from one line exchange.
// The driver's own 2-second floor makes rapid re-polls harmless.
func NewEnvSource(dev *dht22.Device, every time.Duration) Source {
	if every < dht22.MinReadInterval {
		every = dht22.MinReadInterval
	}
	return &envSource{dev: dev, every: every}
}

func (s *envSource) Name() string            { return "dht22" }
func (s *envSource) Interval() time.Duration { return s.every }

func (s *envSource) Poll(now time.Time) []types.Measurement {
	ts := timex.Ms(now)
	r, err := s.dev.Read()
	if err != nil {
		st := statusOf(err)
		return []types.Measurement{
			types.Failed(types.AmbientTemp, st, ts),
			types.Failed(types.AmbientHumidity, st, ts),
		}
	}
	return []types.Measurement{
		types.Ok(types.AmbientTemp, r.TemperatureC, ts),
		types.Ok(types.AmbientHumidity, r.HumidityPct, ts),
	}
}
