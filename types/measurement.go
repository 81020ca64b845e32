package types

// ------------------------
// Measurements & snapshot
// ------------------------

// Measurement is one decoded poll result. Immutable once produced; a new
// Measurement replaces the prior one for its kind.
type Measurement struct {
	Kind   Kind
	Value  float32 // meaningful only when Valid
	Valid  bool
	Status Status
	TSms   int64 // Unix ms at decode time
}

// Ok constructs a successful measurement.
func Ok(kind Kind, value float32, tsMs int64) Measurement {
	return Measurement{Kind: kind, Value: value, Valid: true, Status: StatusOk, TSms: tsMs}
}

// Failed constructs a value-less measurement carrying a failure status.
func Failed(kind Kind, status Status, tsMs int64) Measurement {
	return Measurement{Kind: kind, Status: status, TSms: tsMs}
}

// Reading is the per-kind slot of a snapshot: the latest attempt plus the
// last known good value, kept separately so a transient fault stays visible
// without erasing history.
type Reading struct {
	Meas    Measurement
	Good    float32
	GoodMs  int64
	HasGood bool
}

// Snapshot is a consistent, fully-formed copy of all current readings.
// It is immutable: the store publishes a fresh Snapshot on every update.
type Snapshot struct {
	StartMs  int64 // store creation, Unix ms
	Readings [NumKinds]Reading
}

// Reading returns the slot for a kind.
func (s Snapshot) Reading(k Kind) Reading { return s.Readings[k] }
