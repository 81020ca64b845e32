package types

// ------------------------
// Sensor kinds
// ------------------------

// Kind identifies one measured quantity. The set is closed: the scheduler
// polls kinds in the declared order, and the snapshot is indexed by it.
type Kind uint8

const (
	WaterLevel Kind = iota
	ThermocoupleTemp
	AmbientTemp
	AmbientHumidity

	numKinds
)

// NumKinds is the number of measured quantities.
const NumKinds = int(numKinds)

// AllKinds lists every kind in poll/report order.
var AllKinds = [NumKinds]Kind{WaterLevel, ThermocoupleTemp, AmbientTemp, AmbientHumidity}

func (k Kind) String() string {
	switch k {
	case WaterLevel:
		return "water_level"
	case ThermocoupleTemp:
		return "thermocouple"
	case AmbientTemp:
		return "ambient_temperature"
	case AmbientHumidity:
		return "ambient_humidity"
	default:
		return "unknown"
	}
}

// Unit returns the display unit for the kind.
func (k Kind) Unit() string {
	switch k {
	case WaterLevel:
		return "m"
	case ThermocoupleTemp, AmbientTemp:
		return "°C"
	case AmbientHumidity:
		return "%"
	default:
		return ""
	}
}

func (k Kind) MarshalJSON() ([]byte, error) { return []byte(`"` + k.String() + `"`), nil }

// ------------------------
// Measurement status
// ------------------------

// Status is the outcome class of the latest poll attempt for a kind.
type Status string

const (
	StatusOk         Status = "ok"
	StatusFault      Status = "fault"
	StatusTimeout    Status = "timeout"
	StatusChecksum   Status = "checksum_error"
	StatusNotSampled Status = "not_sampled"
)
