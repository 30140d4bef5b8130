package orbit

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite_simulator/internal/replay"
)

const (
	issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

var issEpoch = time.Date(2021, 10, 2, 14, 0, 0, 0, time.UTC)

// rotate applies q = [x, y, z, w] to v.
func rotate(q [4]float64, v satellite.Vector3) satellite.Vector3 {
	u := satellite.Vector3{X: q[0], Y: q[1], Z: q[2]}
	t := scale(cross(u, v), 2)
	c := cross(u, t)
	return satellite.Vector3{
		X: v.X + q[3]*t.X + c.X,
		Y: v.Y + q[3]*t.Y + c.Y,
		Z: v.Z + q[3]*t.Z + c.Z,
	}
}

func assertVecInDelta(t *testing.T, want, got satellite.Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta)
	assert.InDelta(t, want.Y, got.Y, delta)
	assert.InDelta(t, want.Z, got.Z, delta)
}

func TestNewGenerator_RejectsMalformedTLE(t *testing.T) {
	tests := []struct {
		name         string
		line1, line2 string
	}{
		{"empty", "", ""},
		{"short line 1", issLine1[:40], issLine2},
		{"swapped lines", issLine2, issLine1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.line1, tt.line2)
			assert.ErrorIs(t, err, ErrInvalidTLE)
		})
	}
}

func TestGenerator_ISSOrbit(t *testing.T) {
	g, err := NewGenerator(issLine1, issLine2+"\n")
	require.NoError(t, err)

	s, err := g.At(issEpoch)
	require.NoError(t, err)

	r, v := norm(s.Position), norm(s.Velocity)
	assert.Greater(t, r, 6500.0)
	assert.Less(t, r, 7000.0)
	assert.Greater(t, v, 7.0)
	assert.Less(t, v, 8.0)
}

func TestNadirQuaternion(t *testing.T) {
	cases := []struct{ r, v satellite.Vector3 }{
		{satellite.Vector3{X: 6700, Y: 100, Z: 200}, satellite.Vector3{X: 0.1, Y: 7.5, Z: 1}},
		{satellite.Vector3{X: -3000, Y: 5000, Z: -3500}, satellite.Vector3{X: 5, Y: 2, Z: -4}},
		{satellite.Vector3{Z: 6800}, satellite.Vector3{X: 7.6}},
		{satellite.Vector3{X: 6800}, satellite.Vector3{Y: -7.6, Z: 0.2}},
	}
	for _, c := range cases {
		q := NadirQuaternion(c.r, c.v)

		assert.InDelta(t, 1.0, q[0]*q[0]+q[1]*q[1]+q[2]*q[2]+q[3]*q[3], 1e-9)
		assert.GreaterOrEqual(t, q[3], 0.0)

		nadir := unit(scale(c.r, -1))
		assertVecInDelta(t, nadir, rotate(q, satellite.Vector3{Z: 1}), 1e-9)
		antiNormal := unit(scale(cross(c.r, c.v), -1))
		assertVecInDelta(t, antiNormal, rotate(q, satellite.Vector3{Y: 1}), 1e-9)
	}
}

func TestGenerator_Generate(t *testing.T) {
	g, err := NewGenerator(issLine1, issLine2)
	require.NoError(t, err)

	pos, att, err := g.Generate(issEpoch, 10*time.Second, 6)
	require.NoError(t, err)
	require.Len(t, pos, 6)
	require.Len(t, att, 6)

	assert.Equal(t, replay.NewStamp(issEpoch), pos[0].Stamp)
	assert.Equal(t, issEpoch.Add(50*time.Second), pos[5].Stamp.Time())
	assert.Equal(t, pos[3].Stamp, att[3].Stamp)

	for i := range pos {
		r := math.Sqrt(float64(pos[i].PosX*pos[i].PosX + pos[i].PosY*pos[i].PosY + pos[i].PosZ*pos[i].PosZ))
		assert.InDelta(t, 6790, r, 200)
		assert.Zero(t, att[i].BiasX)
	}

	// Records survive the fixed-length codec
	back, err := replay.DecodePosition(pos[2].Encode())
	require.NoError(t, err)
	assert.Equal(t, pos[2], back)
}

func TestGenerator_GenerateRejectsBadArgs(t *testing.T) {
	g, err := NewGenerator(issLine1, issLine2)
	require.NoError(t, err)

	_, _, err = g.Generate(issEpoch, 0, 5)
	assert.Error(t, err)
	_, _, err = g.Generate(issEpoch, time.Second, 0)
	assert.Error(t, err)
}
