package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite_simulator/internal/model"
	"satellite_simulator/internal/simulator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Millisecond, cfg.Sim.Interval)
	assert.True(t, cfg.Sim.Autostart)
	assert.Equal(t, simulator.DefaultPeriods(), cfg.Sim.Periods)
	assert.Equal(t, simulator.DefaultBatteryConfig(), cfg.Sim.Battery)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Replay.Position)
	assert.Empty(t, cfg.Archive.Dir)
	assert.Equal(t, 200, cfg.Store.EventLimit)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
sim:
  interval: 20ms
  autostart: false
  periods:
    adcs: 5
replay:
  position: /data/pos.bin.zst
  attitude: /data/att.bin
log:
  level: debug
  format: json
archive:
  dir: /var/lib/satsim
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 20*time.Millisecond, cfg.Sim.Interval)
	assert.False(t, cfg.Sim.Autostart)
	assert.Equal(t, uint64(5), cfg.Sim.Periods[model.KindADCS])
	assert.Equal(t, uint64(100), cfg.Sim.Periods[model.KindThermal])
	assert.Equal(t, "/data/pos.bin.zst", cfg.Replay.Position)
	assert.Equal(t, "/data/att.bin", cfg.Replay.Attitude)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/lib/satsim", cfg.Archive.Dir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("SATSIM_SERVER_ADDR", ":7000")
	t.Setenv("SATSIM_SIM_INTERVAL", "5ms")
	t.Setenv("SATSIM_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Millisecond, cfg.Sim.Interval)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero period", "sim:\n  periods:\n    thermal: 0\n"},
		{"negative interval", "sim:\n  interval: -1s\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"initial above capacity", "sim:\n  battery:\n    initial_ws: 200000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestEngineConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	ec := cfg.EngineConfig()
	assert.Equal(t, cfg.Sim.Interval, ec.Interval)
	assert.Equal(t, cfg.Sim.Battery, ec.Battery)

	ec.Periods[model.KindADCS] = 1
	assert.Equal(t, uint64(10), cfg.Sim.Periods[model.KindADCS], "engine config owns its periods map")
}
