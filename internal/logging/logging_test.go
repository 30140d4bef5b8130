package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("component", "engine")).Debug("command rejected",
		String("command", "SLRPNLANG"), Int("num", 1), Err(errors.New("bad angle")))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "command rejected", line["msg"])
	assert.Equal(t, "engine", line["component"])
	assert.Equal(t, "SLRPNLANG", line["command"])
	assert.Equal(t, 1.0, line["num"])
	assert.Equal(t, "bad angle", line["error"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("mode demoted", String("mode", "SAFE"))
	assert.Contains(t, buf.String(), "mode demoted")
	assert.Contains(t, buf.String(), "mode=SAFE")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNoop(t *testing.T) {
	log := Noop().With(Bool("x", true))
	assert.NotPanics(t, func() {
		log.Debug("a")
		log.Info("b")
		log.Warn("c")
		log.Error("d", Float("f", 1.5), Any("k", struct{}{}))
	})
}
