package acquisition

import (
	"sync/atomic"

	"watersensor-go/types"
	"watersensor-go/x/timex"
)

// Store holds the current readings snapshot. The sampler is its sole writer;
// any number of readers (the web server) take whole snapshots.
//
// Consistency comes from immutability: Update builds a fresh Snapshot and
// swaps one pointer, so a reader always sees a snapshot that some completed
// update produced, never a torn composite.
type Store struct {
	snap atomic.Pointer[types.Snapshot]
}

// NewStore seeds every kind with a not_sampled measurement stamped now.
func NewStore() *Store {
	now := timex.NowMs()
	s := &types.Snapshot{StartMs: now}
	for _, k := range types.AllKinds {
		s.Readings[k] = types.Reading{Meas: types.Failed(k, types.StatusNotSampled, now)}
	}
	st := &Store{}
	st.snap.Store(s)
	return st
}

// Update merges one measurement. A valid measurement refreshes the last good
// value; a failed one replaces only the status, keeping the prior good value
// visible (stale but flagged).
func (st *Store) Update(m types.Measurement) {
	old := st.snap.Load()
	next := *old // copies the fixed-size readings array
	r := &next.Readings[m.Kind]
	r.Meas = m
	if m.Valid {
		r.Good = m.Value
		r.GoodMs = m.TSms
		r.HasGood = true
	}
	st.snap.Store(&next)
}

// Read returns the current snapshot.
func (st *Store) Read() types.Snapshot {
	return *st.snap.Load()
}
