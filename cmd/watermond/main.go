//go:build !rp2040 && !rp2350

// watermond is the host daemon for the reservoir monitor: it polls the
// attached sensors and serves the readings over HTTP.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"watersensor-go/drivers/dht22"
	"watersensor-go/drivers/max31855"
	"watersensor-go/drivers/qdy30a"
	"watersensor-go/logging"
	"watersensor-go/services/acquisition"
	"watersensor-go/services/config"
	"watersensor-go/services/heartbeat"
	"watersensor-go/services/webserver"
	"watersensor-go/transport"
)

// restartDelay paces the outer supervision loop when bring-up fails
// (for example, the USB serial adapter got unplugged).
const restartDelay = 5 * time.Second

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	listen := flag.String("listen", "", "HTTP listen address (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	jsonLog := flag.Bool("log-json", false, "log as JSON")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logging.Init(level, *jsonLog)
	log := logging.Component("main")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error("load config", "path", *cfgPath, "error", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.HTTP.Bind = *listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Supervision loop: a failed bring-up or an unrecoverable runtime error
	// is logged and retried until the process is told to stop.
	for {
		err := run(ctx, cfg)
		if ctx.Err() != nil {
			log.Info("shut down")
			return
		}
		log.Error("daemon stopped, restarting", "error", err, "delay", restartDelay)
		select {
		case <-ctx.Done():
			log.Info("shut down")
			return
		case <-time.After(restartDelay):
		}
	}
}

// run brings up transports, drivers and services, then blocks until the
// context is cancelled or a service fails.
func run(ctx context.Context, cfg *config.Config) error {
	log := logging.Component("main")

	uart, err := transport.OpenHostUART(cfg.Level.Port, cfg.Level.Baud)
	if err != nil {
		return err
	}
	defer uart.Close()
	log.Info("level transmitter bus open", "port", cfg.Level.Port, "baud", cfg.Level.Baud)

	levelDev := qdy30a.New(uart, qdy30a.Config{
		SlaveID:        cfg.Level.SlaveID,
		Register:       cfg.Level.Register,
		RawSpan:        cfg.Level.RawSpan,
		MaxRangeM:      cfg.Level.MaxRangeM,
		ResponseWindow: cfg.Level.ResponseWindow,
	})

	// The amplifier and hygrometer sit on MCU pins; on a host build their
	// buses are unwired and those kinds report timeouts.
	thermoDev := max31855.New(transport.NoSyncSerial{})
	envDev := dht22.New(transport.NoSingleWire{})

	sources := []acquisition.Source{
		acquisition.NewLevelSource(levelDev, cfg.Poll.Level),
		acquisition.NewThermoSource(thermoDev, cfg.Poll.Thermo),
		acquisition.NewEnvSource(envDev, cfg.Poll.Env),
	}

	store := acquisition.NewStore()
	beat := heartbeat.New(&heartbeat.LogIndicator{Log: logging.Component("heartbeat")})
	sampler := acquisition.NewSampler(store, sources, acquisition.SamplerConfig{
		Cycle: cfg.Poll.Cycle,
		Beat:  beat,
		Log:   logging.Component("acquisition"),
	})
	server := webserver.New(cfg.HTTP.Bind, store, logging.Component("webserver"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sampler.Run(gctx)
	})
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Stop(shutCtx)
	})

	return g.Wait()
}
