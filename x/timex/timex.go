package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Ms converts a time to Unix milliseconds.
func Ms(t time.Time) int64 { return t.UnixMilli() }

// AgeSeconds returns the age of a Unix-ms timestamp at nowMs, in seconds.
// Never negative.
func AgeSeconds(tsMs, nowMs int64) float64 {
	d := nowMs - tsMs
	if d < 0 {
		d = 0
	}
	return float64(d) / 1000
}
