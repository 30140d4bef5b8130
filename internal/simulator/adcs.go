package simulator

import (
	"satellite_simulator/internal/model"
	"satellite_simulator/internal/replay"
)

// RecordSource yields fixed-size replay records and never runs out.
// *replay.Source satisfies it.
type RecordSource interface {
	Next() ([]byte, error)
	Progress() float64
}

var trackedStars = [10]int{1237, 1329, 1333, 1139, 1161, 682, 717, 814, 583, 622}

type adcsCursor struct {
	position RecordSource
	attitude RecordSource
}

// starIDs picks the five tracked stars for the given cycle.
func starIDs(cycle uint64) [5]int {
	var ids [5]int
	for slot := range ids {
		ids[slot] = trackedStars[(cycle/100+uint64(slot))%uint64(len(trackedStars))]
	}
	return ids
}

// tickADCS pulls the next position and attitude records and updates the sun
// angle proxy from the position progress. A source that fails to produce a
// record leaves its fields zero; the error is returned for logging only.
func (s *satellite) tickADCS(h model.Header, cycle uint64) (model.ADCS, error) {
	rec := model.ADCS{
		Header:   h,
		StarIDs:  starIDs(cycle),
		ADCSCtrl: s.adcsCtrl,
	}

	var firstErr error
	if src := s.adcs.position; src != nil {
		b, err := src.Next()
		if err == nil {
			var p replay.Position
			if p, err = replay.DecodePosition(b); err == nil {
				rec.PosX, rec.PosY, rec.PosZ = p.PosX, p.PosY, p.PosZ
				rec.VelX, rec.VelY, rec.VelZ = p.VelX, p.VelY, p.VelZ
			}
		}
		firstErr = err
		rec.PositionProgress = src.Progress()
	}
	if src := s.adcs.attitude; src != nil {
		b, err := src.Next()
		if err == nil {
			var a replay.Attitude
			if a, err = replay.DecodeAttitude(b); err == nil {
				rec.Q1, rec.Q2, rec.Q3, rec.Q4 = a.Q1, a.Q2, a.Q3, a.Q4
				rec.BiasX, rec.BiasY, rec.BiasZ = a.BiasX, a.BiasY, a.BiasZ
			}
		}
		if firstErr == nil {
			firstErr = err
		}
		rec.AttitudeProgress = src.Progress()
	}

	s.sunAngle = rec.PositionProgress * 3.6
	rec.SunAngleDeg = s.sunAngle
	return rec, firstErr
}
