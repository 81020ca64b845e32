//go:build rp2040 || rp2350

// pico-watermon runs the acquisition loop on the board itself: hardware
// UART for the level transmitter, SPI for the thermocouple amplifier, a
// bit-banged line for the hygrometer, and the on-board LED as heartbeat.
package main

import (
	"context"
	"machine"
	"time"

	"watersensor-go/drivers/dht22"
	"watersensor-go/drivers/max31855"
	"watersensor-go/drivers/qdy30a"
	"watersensor-go/services/acquisition"
	"watersensor-go/services/config"
	"watersensor-go/services/heartbeat"
	"watersensor-go/types"
)

func main() {
	// Let USB-CDC enumerate before the first println.
	time.Sleep(3 * time.Second)
	cfg := config.Default()

	println("[main] opening buses ...")
	uart, err := openUART(cfg)
	for err != nil {
		println("[main] uart open failed:", err.Error())
		time.Sleep(5 * time.Second)
		uart, err = openUART(cfg)
	}
	spi, err := openSPI(cfg)
	for err != nil {
		println("[main] spi open failed:", err.Error())
		time.Sleep(5 * time.Second)
		spi, err = openSPI(cfg)
	}
	line := transportSingleWire(cfg)

	levelDev := qdy30a.New(uart, qdy30a.Config{
		SlaveID:        cfg.Level.SlaveID,
		Register:       cfg.Level.Register,
		RawSpan:        cfg.Level.RawSpan,
		MaxRangeM:      cfg.Level.MaxRangeM,
		ResponseWindow: cfg.Level.ResponseWindow,
	})
	thermoDev := max31855.New(spi)
	envDev := dht22.New(line)

	store := acquisition.NewStore()
	beat := heartbeat.New(heartbeat.NewLEDIndicator(machine.Pin(cfg.Heartbeat.LEDPin)))
	sampler := acquisition.NewSampler(store, []acquisition.Source{
		acquisition.NewLevelSource(levelDev, cfg.Poll.Level),
		acquisition.NewThermoSource(thermoDev, cfg.Poll.Thermo),
		acquisition.NewEnvSource(envDev, cfg.Poll.Env),
	}, acquisition.SamplerConfig{
		Cycle: cfg.Poll.Cycle,
		Beat:  beat,
	})

	go sampler.Run(context.Background())

	// Report over USB-CDC once per cycle.
	for {
		time.Sleep(cfg.Poll.Cycle)
		snap := store.Read()
		for _, k := range types.AllKinds {
			r := snap.Reading(k)
			print("[data] ", k.String(), " status=", string(r.Meas.Status))
			if r.HasGood {
				print(" value=")
				printMilli(r.Good)
			}
			println()
		}
	}
}

// printMilli prints a float32 with three decimals without pulling in fmt.
func printMilli(v float32) {
	if v < 0 {
		print("-")
		v = -v
	}
	milli := int(v*1000 + 0.5)
	print(milli / 1000)
	print(".")
	frac := milli % 1000
	if frac < 100 {
		print("0")
	}
	if frac < 10 {
		print("0")
	}
	print(frac)
}
