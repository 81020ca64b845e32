//go:build rp2040 || rp2350

package transport

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"watersensor-go/errcode"
)

// RP2UART drives one of the RP2 hardware UARTs through uartx.
type RP2UART struct {
	u *uartx.UART
}

// OpenRP2UART configures uart0/uart1 for 8-N-1 at the given baud rate.
func OpenRP2UART(id string, baud uint32, tx, rx machine.Pin) (*RP2UART, error) {
	var hw *uartx.UART
	switch id {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "uart.open", Msg: "unknown uart: " + id}
	}
	if err := hw.Configure(uartx.UARTConfig{BaudRate: baud, TX: tx, RX: rx}); err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "uart.open", Err: err}
	}
	_ = hw.SetFormat(8, 1, uartx.ParityNone)
	return &RP2UART{u: hw}, nil
}

func (u *RP2UART) Send(p []byte) error {
	if _, err := u.u.Write(p); err != nil {
		return &errcode.E{C: errcode.Error, Op: "uart.send", Err: err}
	}
	return nil
}

func (u *RP2UART) Receive(max int, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buf := make([]byte, 0, max)
	chunk := make([]byte, max)
	for len(buf) < max {
		n, err := u.u.RecvSomeContext(ctx, chunk[:max-len(buf)])
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			continue
		}
		if err != nil {
			break // deadline or line idle
		}
	}
	if len(buf) == 0 {
		return nil, errcode.Timeout
	}
	return buf, nil
}

// Flush drains whatever is sitting in the RX FIFO.
func (u *RP2UART) Flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	chunk := make([]byte, 32)
	for {
		n, err := u.u.RecvSomeContext(ctx, chunk)
		if n <= 0 || err != nil {
			return nil
		}
	}
}
