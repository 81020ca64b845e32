package dht22

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"watersensor-go/errcode"
)

type fakeLine struct {
	frame     [5]byte
	err       error
	exchanges int
}

func (f *fakeLine) Exchange() ([5]byte, error) {
	f.exchanges++
	return f.frame, f.err
}

// frame packs humidity/temperature raw words with a valid checksum.
func frame(humRaw, tempRaw uint16) [5]byte {
	f := [5]byte{byte(humRaw >> 8), byte(humRaw), byte(tempRaw >> 8), byte(tempRaw)}
	f[4] = f[0] + f[1] + f[2] + f[3]
	return f
}

func TestReadDecodesTenths(t *testing.T) {
	// 65.2 %RH, 23.1 °C.
	d := New(&fakeLine{frame: frame(652, 231)})

	r, err := d.Read()
	require.NoError(t, err)
	require.InDelta(t, 65.2, r.HumidityPct, 1e-4)
	require.InDelta(t, 23.1, r.TemperatureC, 1e-4)
}

func TestDecodeNegativeTemperature(t *testing.T) {
	// Sign-magnitude: bit 15 set, magnitude 101 -> -10.1 °C.
	r, err := Decode(frame(400, 0x8000|101))
	require.NoError(t, err)
	require.InDelta(t, -10.1, r.TemperatureC, 1e-4)
}

func TestDecodeRejectsCorruptChecksum(t *testing.T) {
	f := frame(652, 231)
	f[4] ^= 0x01
	_, err := Decode(f)
	require.Error(t, err)
	require.Equal(t, errcode.Checksum, errcode.Of(err))
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	// 120.0 %RH checksums fine but is physically impossible.
	_, err := Decode(frame(1200, 231))
	require.Equal(t, errcode.Checksum, errcode.Of(err))
}

func TestReadHonoursTwoSecondFloor(t *testing.T) {
	line := &fakeLine{frame: frame(652, 231)}
	d := New(line)

	base := time.Now()
	clock := base
	d.now = func() time.Time { return clock }

	first, err := d.Read()
	require.NoError(t, err)

	// Rapid repeated calls inside the floor: cached reading, no line traffic.
	line.frame = frame(700, 300)
	for _, dt := range []time.Duration{100 * time.Millisecond, time.Second, 1900 * time.Millisecond} {
		clock = base.Add(dt)
		again, err := d.Read()
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.Equal(t, 1, line.exchanges)

	// Past the floor the line is driven again.
	clock = base.Add(2100 * time.Millisecond)
	fresh, err := d.Read()
	require.NoError(t, err)
	require.InDelta(t, 70.0, fresh.HumidityPct, 1e-4)
	require.Equal(t, 2, line.exchanges)
}

func TestReadFailureDoesNotPoisonCache(t *testing.T) {
	line := &fakeLine{err: errcode.Timeout}
	d := New(line)

	_, err := d.Read()
	require.Equal(t, errcode.Timeout, errcode.Of(err))

	// A failed exchange sets no floor: the next call may retry immediately.
	line.err = nil
	line.frame = frame(652, 231)
	r, err := d.Read()
	require.NoError(t, err)
	require.InDelta(t, 65.2, r.HumidityPct, 1e-4)
}
