package max31855

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"watersensor-go/errcode"
)

type fakeBus struct {
	word uint32
	err  error
}

func (f *fakeBus) Transfer(buf []byte) error {
	if f.err != nil {
		return f.err
	}
	binary.BigEndian.PutUint32(buf, f.word)
	return nil
}

// word assembles a frame from its fields.
func word(tcQuarters int16, internalSixteenths int16, faultBits uint32) uint32 {
	w := uint32(uint16(tcQuarters<<2)) << 16
	w |= uint32(uint16(internalSixteenths<<4)) & 0xFFFF
	if faultBits != 0 {
		w |= faultFlag | faultBits
	}
	return w
}

func TestReadDecodesPositiveTemperature(t *testing.T) {
	// 25.00 °C hot junction, 21.0 °C cold junction.
	d := New(&fakeBus{word: word(100, 336, 0)})

	r, err := d.Read()
	require.NoError(t, err)
	require.InDelta(t, 25.0, r.ThermocoupleC, 1e-6)
	require.InDelta(t, 21.0, r.InternalC, 1e-6)
	require.Equal(t, FaultNone, r.Fault)
}

func TestReadDecodesNegativeTemperature(t *testing.T) {
	// -0.25 °C: all-ones 14-bit field must sign-extend.
	d := New(&fakeBus{word: word(-1, -16, 0)})

	r, err := d.Read()
	require.NoError(t, err)
	require.InDelta(t, -0.25, r.ThermocoupleC, 1e-6)
	require.InDelta(t, -1.0, r.InternalC, 1e-6)
}

func TestReadOpenCircuitIsSensorFault(t *testing.T) {
	d := New(&fakeBus{word: word(0, 336, faultOpenBit)})

	r, err := d.Read()
	require.Error(t, err)
	require.Equal(t, errcode.SensorFault, errcode.Of(err))
	require.Equal(t, FaultOpenCircuit, r.Fault)
	require.Contains(t, err.Error(), "open_circuit")
}

func TestReadShortFaultClassesPreserved(t *testing.T) {
	for _, tc := range []struct {
		bits uint32
		want FaultClass
	}{
		{faultGNDBit, FaultShortGND},
		{faultVCCBit, FaultShortVCC},
	} {
		d := New(&fakeBus{word: word(0, 336, tc.bits)})
		r, err := d.Read()
		require.Equal(t, errcode.SensorFault, errcode.Of(err))
		require.Equal(t, tc.want, r.Fault)
	}
}

func TestReadStuckLineIsTimeout(t *testing.T) {
	for _, w := range []uint32{0, 0xFFFFFFFF} {
		d := New(&fakeBus{word: w})
		_, err := d.Read()
		require.Equal(t, errcode.Timeout, errcode.Of(err))
	}
}

func TestReadBusErrorPropagates(t *testing.T) {
	d := New(&fakeBus{err: errcode.Timeout})
	_, err := d.Read()
	require.Equal(t, errcode.Timeout, errcode.Of(err))
}
