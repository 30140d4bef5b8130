// Package config loads server settings from an optional file, SATSIM_*
// environment variables and built-in defaults, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"satellite_simulator/internal/model"
	"satellite_simulator/internal/simulator"
)

const EnvPrefix = "SATSIM"

type Config struct {
	Server  ServerConfig
	Sim     SimConfig
	Replay  ReplayConfig
	Log     LogConfig
	Archive ArchiveConfig
	Store   StoreConfig
}

type ServerConfig struct {
	Addr string
}

type SimConfig struct {
	Interval  time.Duration
	Periods   map[model.Kind]uint64
	Autostart bool
	Battery   simulator.BatteryConfig
}

// ReplayConfig points at the orbital replay files. Empty paths disable the
// corresponding source.
type ReplayConfig struct {
	Position string
	Attitude string
}

type LogConfig struct {
	Level  string
	Format string
}

// ArchiveConfig enables the event archive when Dir is set.
type ArchiveConfig struct {
	Dir string
}

type StoreConfig struct {
	EventLimit int
}

func periodKey(k model.Kind) string {
	return "sim.periods." + strings.ToLower(string(k))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("sim.interval", simulator.DefaultInterval)
	v.SetDefault("sim.autostart", true)
	for k, p := range simulator.DefaultPeriods() {
		v.SetDefault(periodKey(k), p)
	}
	b := simulator.DefaultBatteryConfig()
	v.SetDefault("sim.battery.capacity_ws", b.CapacityWs)
	v.SetDefault("sim.battery.initial_ws", b.InitialWs)
	v.SetDefault("sim.battery.underflow_ws", b.UnderflowWs)
	v.SetDefault("replay.position", "")
	v.SetDefault("replay.attitude", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("archive.dir", "")
	v.SetDefault("store.event_limit", 200)
}

// Load reads the configuration. path may be empty.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		Sim: SimConfig{
			Interval:  v.GetDuration("sim.interval"),
			Periods:   make(map[model.Kind]uint64, len(model.PeriodicKinds)),
			Autostart: v.GetBool("sim.autostart"),
			Battery: simulator.BatteryConfig{
				CapacityWs:  v.GetFloat64("sim.battery.capacity_ws"),
				InitialWs:   v.GetFloat64("sim.battery.initial_ws"),
				UnderflowWs: v.GetFloat64("sim.battery.underflow_ws"),
			},
		},
		Replay: ReplayConfig{
			Position: v.GetString("replay.position"),
			Attitude: v.GetString("replay.attitude"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Archive: ArchiveConfig{Dir: v.GetString("archive.dir")},
		Store:   StoreConfig{EventLimit: v.GetInt("store.event_limit")},
	}
	for _, k := range model.PeriodicKinds {
		cfg.Sim.Periods[k] = v.GetUint64(periodKey(k))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Sim.Interval <= 0 {
		return fmt.Errorf("sim.interval must be positive, got %s", c.Sim.Interval)
	}
	for k, p := range c.Sim.Periods {
		if p == 0 {
			return fmt.Errorf("%s must be at least 1", periodKey(k))
		}
	}
	b := c.Sim.Battery
	if b.CapacityWs <= 0 {
		return fmt.Errorf("sim.battery.capacity_ws must be positive")
	}
	if b.InitialWs < 0 || b.InitialWs > b.CapacityWs {
		return fmt.Errorf("sim.battery.initial_ws must be within [0, %v]", b.CapacityWs)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Store.EventLimit < 0 {
		return fmt.Errorf("store.event_limit must not be negative")
	}
	return nil
}

// EngineConfig maps the settings onto the engine's own config. Clock,
// logger, recorder and replay sources are left for the caller to wire.
func (c Config) EngineConfig() simulator.Config {
	periods := make(map[model.Kind]uint64, len(c.Sim.Periods))
	for k, p := range c.Sim.Periods {
		periods[k] = p
	}
	return simulator.Config{
		Interval: c.Sim.Interval,
		Periods:  periods,
		Battery:  c.Sim.Battery,
	}
}
