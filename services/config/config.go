// Package config is the startup configuration surface: network credentials,
// bus/pin parameters and poll pacing. Loaded once at boot; nothing here is
// re-read at runtime.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the whole device configuration.
type Config struct {
	Network   NetworkConfig   `yaml:"network"`
	HTTP      HTTPConfig      `yaml:"http"`
	Level     LevelConfig     `yaml:"level"`
	Thermo    ThermoConfig    `yaml:"thermocouple"`
	Env       EnvConfig       `yaml:"env"`
	Poll      PollConfig      `yaml:"poll"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

// NetworkConfig is consumed by the link-layer bring-up, not by this core.
type NetworkConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
}

// LevelConfig describes the QDY30A-B transmitter bus and calibration.
type LevelConfig struct {
	Port           string        `yaml:"port"` // host serial device, e.g. /dev/ttyUSB0
	UART           string        `yaml:"uart"` // MCU uart block, e.g. uart1
	Baud           int           `yaml:"baud"` // 9600 or 19200 per transmitter datasheet
	SlaveID        uint8         `yaml:"slave_id"`
	Register       uint16        `yaml:"register"`
	RawSpan        uint16        `yaml:"raw_span"`    // counts at full scale
	MaxRangeM      float32       `yaml:"max_range_m"` // metres at full scale
	ResponseWindow time.Duration `yaml:"response_window"`
	TXPin          int           `yaml:"tx_pin"`
	RXPin          int           `yaml:"rx_pin"`
}

// ThermoConfig describes the MAX31855 synchronous-serial link.
type ThermoConfig struct {
	Bus       string `yaml:"bus"` // spi0 | spi1
	Frequency uint32 `yaml:"frequency"`
	SCKPin    int    `yaml:"sck_pin"`
	SDOPin    int    `yaml:"sdo_pin"`
	SDIPin    int    `yaml:"sdi_pin"`
	CSPin     int    `yaml:"cs_pin"`
}

// EnvConfig describes the DHT22 single-wire line.
type EnvConfig struct {
	Pin int `yaml:"pin"`
}

// PollConfig paces the acquisition loop.
type PollConfig struct {
	Cycle  time.Duration `yaml:"cycle"`  // minimum full-sweep period
	Level  time.Duration `yaml:"level"`  // per-sensor minimum intervals
	Thermo time.Duration `yaml:"thermocouple"`
	Env    time.Duration `yaml:"env"`
}

type HeartbeatConfig struct {
	LEDPin int `yaml:"led_pin"`
}

// Default returns the configuration matching the reference wiring.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Bind: ":8080"},
		Level: LevelConfig{
			Port:           "/dev/ttyUSB0",
			UART:           "uart1",
			Baud:           9600,
			SlaveID:        1,
			Register:       0x0000,
			RawSpan:        3000,
			MaxRangeM:      3.0,
			ResponseWindow: 100 * time.Millisecond,
			TXPin:          8,
			RXPin:          9,
		},
		Thermo: ThermoConfig{
			Bus:       "spi0",
			Frequency: 5_000_000,
			SCKPin:    18,
			SDOPin:    19,
			SDIPin:    16,
			CSPin:     17,
		},
		Env:  EnvConfig{Pin: 15},
		Poll: PollConfig{Cycle: 5 * time.Second, Env: 2 * time.Second},
		Heartbeat: HeartbeatConfig{LEDPin: 25},
	}
}

// Load reads YAML from filename over the defaults. A missing file is not an
// error: the defaults describe the reference board.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.ensureDefaults()
	return cfg, nil
}

// ensureDefaults backfills required fields a partial file left zero.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.HTTP.Bind == "" {
		c.HTTP.Bind = def.HTTP.Bind
	}
	if c.Level.Port == "" {
		c.Level.Port = def.Level.Port
	}
	if c.Level.Baud == 0 {
		c.Level.Baud = def.Level.Baud
	}
	if c.Level.SlaveID == 0 {
		c.Level.SlaveID = def.Level.SlaveID
	}
	if c.Level.RawSpan == 0 {
		c.Level.RawSpan = def.Level.RawSpan
	}
	if c.Level.MaxRangeM == 0 {
		c.Level.MaxRangeM = def.Level.MaxRangeM
	}
	if c.Level.ResponseWindow == 0 {
		c.Level.ResponseWindow = def.Level.ResponseWindow
	}
	if c.Thermo.Bus == "" {
		c.Thermo = def.Thermo
	}
	if c.Poll.Cycle == 0 {
		c.Poll.Cycle = def.Poll.Cycle
	}
	if c.Poll.Env == 0 {
		c.Poll.Env = def.Poll.Env
	}
	if c.Heartbeat.LEDPin == 0 {
		c.Heartbeat.LEDPin = def.Heartbeat.LEDPin
	}
}
