package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"watersensor-go/errcode"
)

type scriptSPI struct {
	log  *[]string
	word []byte
	err  error
}

func (s *scriptSPI) Tx(w, r []byte) error {
	*s.log = append(*s.log, "tx")
	if s.err != nil {
		return s.err
	}
	copy(r, s.word)
	return nil
}

func (s *scriptSPI) Transfer(b byte) (byte, error) {
	*s.log = append(*s.log, "transfer")
	return 0, s.err
}

type logCS struct {
	log *[]string
}

func (c *logCS) Assert()   { *c.log = append(*c.log, "assert") }
func (c *logCS) Deassert() { *c.log = append(*c.log, "deassert") }

func TestSPIBusBracketsTransferWithCS(t *testing.T) {
	var log []string
	bus := NewSPIBus(&scriptSPI{log: &log, word: []byte{0x01, 0x90, 0x00, 0x00}}, &logCS{log: &log})
	log = log[:0] // drop the constructor's initial deassert

	buf := make([]byte, 4)
	require.NoError(t, bus.Transfer(buf))
	require.Equal(t, []string{"assert", "tx", "deassert"}, log)
	require.Equal(t, []byte{0x01, 0x90, 0x00, 0x00}, buf)
}

func TestSPIBusReleasesCSOnError(t *testing.T) {
	var log []string
	bus := NewSPIBus(&scriptSPI{log: &log, err: errors.New("bus stuck")}, &logCS{log: &log})
	log = log[:0]

	err := bus.Transfer(make([]byte, 4))
	require.Error(t, err)
	require.Equal(t, errcode.Timeout, errcode.Of(err))
	require.Equal(t, "deassert", log[len(log)-1], "CS must be released even when the transfer fails")
}
