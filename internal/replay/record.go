// Package replay reads fixed-length position and attitude records from
// bounded sources, rewinding to the start whenever a source runs dry.
package replay

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Record sizes in bytes.
const (
	PositionSize = 44
	AttitudeSize = 40
)

// Stamp is the DAY/MSOD/USOMS time tag carried by every record: days since
// the epoch, milliseconds of the day and microseconds of the millisecond.
type Stamp struct {
	Day   uint16
	MSOD  uint32
	USOMS uint16
}

// StampEpoch is day zero of Stamp.Day.
var StampEpoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// NewStamp converts t to a Stamp.
func NewStamp(t time.Time) Stamp {
	d := t.UTC().Sub(StampEpoch)
	day := d / (24 * time.Hour)
	rem := d - day*24*time.Hour
	ms := rem / time.Millisecond
	us := (rem - ms*time.Millisecond) / time.Microsecond
	return Stamp{Day: uint16(day), MSOD: uint32(ms), USOMS: uint16(us)}
}

// Time converts s back to a UTC time.
func (s Stamp) Time() time.Time {
	return StampEpoch.
		Add(time.Duration(s.Day) * 24 * time.Hour).
		Add(time.Duration(s.MSOD) * time.Millisecond).
		Add(time.Duration(s.USOMS) * time.Microsecond)
}

// Position is one 44-byte position/velocity record (km, km/s).
type Position struct {
	Stamp
	PosX, PosY, PosZ float32
	Spare1           uint16
	Spare2           uint32
	Spare3           uint16
	VelX, VelY, VelZ float32
	Spare4           uint32
}

// Attitude is one 40-byte quaternion/bias record.
type Attitude struct {
	Stamp
	Q1, Q2, Q3, Q4      float32
	BiasX, BiasY, BiasZ float32
	Spare               float32
}

// DecodePosition parses a big-endian position record.
func DecodePosition(b []byte) (Position, error) {
	if len(b) < PositionSize {
		return Position{}, fmt.Errorf("position record: need %d bytes, got %d", PositionSize, len(b))
	}
	be := binary.BigEndian
	return Position{
		Stamp:  decodeStamp(b),
		PosX:   f32(b[8:]),
		PosY:   f32(b[12:]),
		PosZ:   f32(b[16:]),
		Spare1: be.Uint16(b[20:]),
		Spare2: be.Uint32(b[22:]),
		Spare3: be.Uint16(b[26:]),
		VelX:   f32(b[28:]),
		VelY:   f32(b[32:]),
		VelZ:   f32(b[36:]),
		Spare4: be.Uint32(b[40:]),
	}, nil
}

// Encode returns the big-endian wire form of p.
func (p Position) Encode() []byte {
	b := make([]byte, PositionSize)
	be := binary.BigEndian
	encodeStamp(b, p.Stamp)
	putF32(b[8:], p.PosX)
	putF32(b[12:], p.PosY)
	putF32(b[16:], p.PosZ)
	be.PutUint16(b[20:], p.Spare1)
	be.PutUint32(b[22:], p.Spare2)
	be.PutUint16(b[26:], p.Spare3)
	putF32(b[28:], p.VelX)
	putF32(b[32:], p.VelY)
	putF32(b[36:], p.VelZ)
	be.PutUint32(b[40:], p.Spare4)
	return b
}

// DecodeAttitude parses a big-endian attitude record.
func DecodeAttitude(b []byte) (Attitude, error) {
	if len(b) < AttitudeSize {
		return Attitude{}, fmt.Errorf("attitude record: need %d bytes, got %d", AttitudeSize, len(b))
	}
	return Attitude{
		Stamp: decodeStamp(b),
		Q1:    f32(b[8:]),
		Q2:    f32(b[12:]),
		Q3:    f32(b[16:]),
		Q4:    f32(b[20:]),
		BiasX: f32(b[24:]),
		BiasY: f32(b[28:]),
		BiasZ: f32(b[32:]),
		Spare: f32(b[36:]),
	}, nil
}

// Encode returns the big-endian wire form of a.
func (a Attitude) Encode() []byte {
	b := make([]byte, AttitudeSize)
	encodeStamp(b, a.Stamp)
	putF32(b[8:], a.Q1)
	putF32(b[12:], a.Q2)
	putF32(b[16:], a.Q3)
	putF32(b[20:], a.Q4)
	putF32(b[24:], a.BiasX)
	putF32(b[28:], a.BiasY)
	putF32(b[32:], a.BiasZ)
	putF32(b[36:], a.Spare)
	return b
}

func decodeStamp(b []byte) Stamp {
	be := binary.BigEndian
	return Stamp{Day: be.Uint16(b[0:]), MSOD: be.Uint32(b[2:]), USOMS: be.Uint16(b[6:])}
}

func encodeStamp(b []byte, s Stamp) {
	be := binary.BigEndian
	be.PutUint16(b[0:], s.Day)
	be.PutUint32(b[2:], s.MSOD)
	be.PutUint16(b[6:], s.USOMS)
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func putF32(b []byte, v float32) {
	binary.BigEndian.PutUint32(b, math.Float32bits(v))
}
