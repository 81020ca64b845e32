//go:build !rp2040 && !rp2350

package heartbeat

import "log/slog"

// LogIndicator beats into the log at debug level.
type LogIndicator struct {
	Log *slog.Logger
}

func (l *LogIndicator) Toggle() {
	if l.Log != nil {
		l.Log.Debug("heartbeat")
	}
}
