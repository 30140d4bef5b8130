// Package orbit propagates a two-line element set with SGP4 and turns the
// result into replay records.
package orbit

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"satellite_simulator/internal/replay"
)

var (
	ErrInvalidTLE        = errors.New("invalid TLE")
	ErrPropagationFailed = errors.New("propagation failed")
)

// Sample is the propagated state at one instant.
type Sample struct {
	Time     time.Time
	Position satellite.Vector3 // km, TEME
	Velocity satellite.Vector3 // km/s
}

// Generator propagates a single satellite.
type Generator struct {
	sat satellite.Satellite
}

// NewGenerator parses a TLE using WGS72 constants.
func NewGenerator(line1, line2 string) (g *Generator, err error) {
	line1, line2 = strings.TrimRight(line1, "\r\n "), strings.TrimRight(line2, "\r\n ")
	if len(line1) != 69 || !strings.HasPrefix(line1, "1 ") {
		return nil, fmt.Errorf("%w: line 1 must be 69 characters starting with \"1 \"", ErrInvalidTLE)
	}
	if len(line2) != 69 || !strings.HasPrefix(line2, "2 ") {
		return nil, fmt.Errorf("%w: line 2 must be 69 characters starting with \"2 \"", ErrInvalidTLE)
	}

	// go-satellite panics on unparsable fields
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("%w: %v", ErrInvalidTLE, r)
		}
	}()
	return &Generator{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}, nil
}

// At propagates to t.
func (g *Generator) At(t time.Time) (Sample, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	pos, vel := satellite.Propagate(g.sat, year, int(month), day, hour, minute, sec)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		return Sample{}, fmt.Errorf("%w at %s", ErrPropagationFailed, t.Format(time.RFC3339))
	}
	return Sample{Time: t, Position: pos, Velocity: vel}, nil
}

// Generate propagates count samples spaced by step starting at start and
// returns matching position and attitude records.
func (g *Generator) Generate(start time.Time, step time.Duration, count int) ([]replay.Position, []replay.Attitude, error) {
	if step <= 0 {
		return nil, nil, fmt.Errorf("step must be positive, got %s", step)
	}
	if count <= 0 {
		return nil, nil, fmt.Errorf("count must be positive, got %d", count)
	}

	positions := make([]replay.Position, 0, count)
	attitudes := make([]replay.Attitude, 0, count)
	for i := 0; i < count; i++ {
		s, err := g.At(start.Add(time.Duration(i) * step))
		if err != nil {
			return positions, attitudes, err
		}
		positions = append(positions, s.PositionRecord())
		attitudes = append(attitudes, s.AttitudeRecord())
	}
	return positions, attitudes, nil
}

func (s Sample) PositionRecord() replay.Position {
	return replay.Position{
		Stamp: replay.NewStamp(s.Time),
		PosX:  float32(s.Position.X),
		PosY:  float32(s.Position.Y),
		PosZ:  float32(s.Position.Z),
		VelX:  float32(s.Velocity.X),
		VelY:  float32(s.Velocity.Y),
		VelZ:  float32(s.Velocity.Z),
	}
}

// AttitudeRecord returns the nadir-pointing attitude: body z toward the
// Earth's centre, body y against the orbit normal, body x completing the
// triad (roughly along-track). Biases are zero.
func (s Sample) AttitudeRecord() replay.Attitude {
	q := NadirQuaternion(s.Position, s.Velocity)
	return replay.Attitude{
		Stamp: replay.NewStamp(s.Time),
		Q1:    float32(q[0]),
		Q2:    float32(q[1]),
		Q3:    float32(q[2]),
		Q4:    float32(q[3]),
	}
}

// NadirQuaternion returns the body-to-inertial rotation as [x, y, z, w].
func NadirQuaternion(r, v satellite.Vector3) [4]float64 {
	z := unit(scale(r, -1))
	h := cross(r, v)
	y := unit(scale(h, -1))
	x := cross(y, z)

	// Rotation matrix with the body axes as columns
	m := [3][3]float64{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	}
	return matrixToQuaternion(m)
}

func matrixToQuaternion(m [3][3]float64) [4]float64 {
	var q [4]float64
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		q = [4]float64{(m[2][1] - m[1][2]) / s, (m[0][2] - m[2][0]) / s, (m[1][0] - m[0][1]) / s, s / 4}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		q = [4]float64{s / 4, (m[0][1] + m[1][0]) / s, (m[0][2] + m[2][0]) / s, (m[2][1] - m[1][2]) / s}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		q = [4]float64{(m[0][1] + m[1][0]) / s, s / 4, (m[1][2] + m[2][1]) / s, (m[0][2] - m[2][0]) / s}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		q = [4]float64{(m[0][2] + m[2][0]) / s, (m[1][2] + m[2][1]) / s, s / 4, (m[1][0] - m[0][1]) / s}
	}
	// Keep the scalar part non-negative
	if q[3] < 0 {
		for i := range q {
			q[i] = -q[i]
		}
	}
	return q
}

func norm(a satellite.Vector3) float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

func unit(a satellite.Vector3) satellite.Vector3 {
	n := norm(a)
	if n == 0 {
		return a
	}
	return scale(a, 1/n)
}

func scale(a satellite.Vector3, k float64) satellite.Vector3 {
	return satellite.Vector3{X: a.X * k, Y: a.Y * k, Z: a.Z * k}
}

func cross(a, b satellite.Vector3) satellite.Vector3 {
	return satellite.Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
