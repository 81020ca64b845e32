// Package heartbeat toggles a liveness indicator once per completed poll
// cycle, so a glance at the board (or the log) shows the loop is alive.
package heartbeat

// Indicator is whatever shows the beat: an LED on the board, a log line on
// a host build.
type Indicator interface {
	Toggle()
}

type Service struct {
	ind Indicator
}

func New(ind Indicator) *Service { return &Service{ind: ind} }

// Beat is called by the acquisition loop after each sweep.
func (s *Service) Beat() {
	if s.ind != nil {
		s.ind.Toggle()
	}
}
