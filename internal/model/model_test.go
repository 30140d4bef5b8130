package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("thermal")
	require.True(t, ok)
	assert.Equal(t, KindThermal, k)

	_, ok = ParseKind("POWER")
	assert.False(t, ok)
}

func TestKind_Periodic(t *testing.T) {
	assert.True(t, KindADCS.Periodic())
	assert.True(t, KindHealthStatus.Periodic())
	assert.False(t, KindEvent.Periodic())
	assert.False(t, KindImage.Periodic())
}

func TestKindCatalogCoversPeriodicKinds(t *testing.T) {
	for _, k := range PeriodicKinds {
		_, ok := KindCatalog[k]
		assert.True(t, ok, "missing catalog entry for %s", k)
	}
}

func TestDataRate(t *testing.T) {
	tests := []struct {
		rate  DataRate
		drain float64
		txW   float64
	}{
		{RateLow, 0.5, 10},
		{RateMedium, 1.0, 25},
		{RateHigh, 2.0, 75},
		{DataRate("ULTRA"), 0.5, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.rate), func(t *testing.T) {
			assert.InDelta(t, tt.drain, tt.rate.DrainMultiplier(), 1e-9)
			assert.InDelta(t, tt.txW, tt.rate.TransmitPowerW(), 1e-9)
		})
	}
}

func TestSwitch_Valid(t *testing.T) {
	assert.True(t, On.Valid())
	assert.True(t, Off.Valid())
	assert.False(t, Switch("MAYBE").Valid())
}

func TestRecordHeaderIsFlattened(t *testing.T) {
	ts := time.Date(2025, 10, 4, 17, 57, 31, 0, time.UTC)
	rec := Event{Header: Header{Timestamp: ts, Sequence: 7}, Message: "NOOP command received"}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "2025-10-04T17:57:31Z", fields["timestamp"])
	assert.Equal(t, 7.0, fields["sequence_count"])
	assert.Equal(t, "NOOP command received", fields["message"])

	var r Record = rec
	assert.Equal(t, KindEvent, r.Kind())
	assert.Equal(t, uint32(7), r.RecordHeader().Sequence)
}
