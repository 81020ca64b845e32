//go:build rp2040 || rp2350

package main

import (
	"machine"

	"watersensor-go/services/config"
	"watersensor-go/transport"
)

func openUART(cfg *config.Config) (transport.UART, error) {
	return transport.OpenRP2UART(cfg.Level.UART, uint32(cfg.Level.Baud),
		machine.Pin(cfg.Level.TXPin), machine.Pin(cfg.Level.RXPin))
}

func openSPI(cfg *config.Config) (transport.SyncSerial, error) {
	return transport.NewRP2SPIBus(transport.RP2SPIConfig{
		Bus:       cfg.Thermo.Bus,
		Frequency: cfg.Thermo.Frequency,
		SCK:       machine.Pin(cfg.Thermo.SCKPin),
		SDO:       machine.Pin(cfg.Thermo.SDOPin),
		SDI:       machine.Pin(cfg.Thermo.SDIPin),
		CS:        machine.Pin(cfg.Thermo.CSPin),
	})
}

func transportSingleWire(cfg *config.Config) transport.SingleWire {
	return transport.NewRP2SingleWire(machine.Pin(cfg.Env.Pin))
}
