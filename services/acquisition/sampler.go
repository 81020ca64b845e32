// Package acquisition owns the poll loop and the readings store: it sweeps
// the three sensor sources in a fixed order, folds every result (value or
// failure) into the store, and never lets one sensor's trouble stall the
// others.
package acquisition

import (
	"context"
	"log/slog"
	"time"

	"watersensor-go/types"
)

// Beater is pinged once per completed poll cycle (status LED, log tick).
type Beater interface {
	Beat()
}

// SamplerConfig tunes the poll loop. Zero values take defaults.
type SamplerConfig struct {
	// Cycle is the minimum period of one full sweep. Default 5 s.
	Cycle time.Duration
	// Beat, when set, is notified after each sweep that polled something.
	Beat Beater
	Log  *slog.Logger
}

// Sampler runs the acquisition loop. It is the store's only writer.
type Sampler struct {
	store   *Store
	sources []Source
	cycle   time.Duration
	beat    Beater
	log     *slog.Logger

	lastAttempt []time.Time
}

// NewSampler wires the loop. Sources are polled strictly sequentially in the
// order given; pass them in the fixed order water level, thermocouple,
// humidity/temperature.
func NewSampler(store *Store, sources []Source, cfg SamplerConfig) *Sampler {
	if cfg.Cycle <= 0 {
		cfg.Cycle = 5 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Sampler{
		store:       store,
		sources:     sources,
		cycle:       cfg.Cycle,
		beat:        cfg.Beat,
		log:         cfg.Log,
		lastAttempt: make([]time.Time, len(sources)),
	}
}

// Run sweeps until the context is cancelled. Each sweep attempts every
// source whose interval has elapsed; a source poll runs to completion within
// its transport timeout, so the worst-case sweep time is bounded.
func (s *Sampler) Run(ctx context.Context) error {
	s.sweep(time.Now())

	tick := time.NewTicker(s.cycle)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sampler stopping")
			return ctx.Err()
		case t := <-tick.C:
			s.sweep(t)
		}
	}
}

func (s *Sampler) sweep(now time.Time) {
	polled := false
	for i, src := range s.sources {
		if !s.lastAttempt[i].IsZero() && now.Sub(s.lastAttempt[i]) < src.Interval() {
			continue
		}
		s.lastAttempt[i] = now
		polled = true

		for _, m := range src.Poll(now) {
			s.store.Update(m)
			if m.Status != types.StatusOk {
				s.log.Warn("poll failed",
					"source", src.Name(), "kind", m.Kind.String(), "status", string(m.Status))
			} else {
				s.log.Debug("poll ok",
					"source", src.Name(), "kind", m.Kind.String(), "value", m.Value)
			}
		}
	}
	if polled && s.beat != nil {
		s.beat.Beat()
	}
}
