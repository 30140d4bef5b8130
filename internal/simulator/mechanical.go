package simulator

import (
	"math"

	"satellite_simulator/internal/model"
)

const arrayPeakPowerW = 500.0

// sunOffset is the shortest circular distance between two angles.
func sunOffset(sunDeg, arrayDeg float64) float64 {
	d := math.Abs(sunDeg - arrayDeg)
	if d > 180.0 {
		d = 360.0 - d
	}
	return d
}

func (a *solarArray) update(sunDeg float64) {
	if a.state != model.ArrayDeployed {
		a.powerW = 0
		return
	}
	a.powerW = arrayPeakPowerW * (1 - sunOffset(sunDeg, a.angleDeg)/180.0)
}

// loadW is the total bus draw.
func (s *satellite) loadW() float64 {
	return s.cpuPower + s.imager.powerW + s.heaters[0].powerW + s.heaters[1].powerW + s.commPowerW
}

// tickMech points and powers the arrays, then settles the energy balance.
// It returns the record and whether the low battery forced SAFE mode.
func (s *satellite) tickMech(h model.Header) (model.Mech, bool) {
	if s.adcsCtrl == model.On {
		s.arrays[0].angleDeg = s.sunAngle
		s.arrays[1].angleDeg = s.sunAngle
	}
	s.arrays[0].update(s.sunAngle)
	s.arrays[1].update(s.sunAngle)

	incoming := s.arrays[0].powerW + s.arrays[1].powerW
	s.socPct = s.battery.Process(incoming, s.loadW())

	demoted := false
	if s.socPct < SafeModeThreshold {
		demoted = s.mode != model.ModeSafe
		s.mode = model.ModeSafe
	}

	return model.Mech{
		Header:         h,
		Array1AngleDeg: s.arrays[0].angleDeg,
		Array2AngleDeg: s.arrays[1].angleDeg,
		Array1State:    s.arrays[0].state,
		Array2State:    s.arrays[1].state,
		Array1PowerW:   s.arrays[0].powerW,
		Array2PowerW:   s.arrays[1].powerW,
		BatteryPercent: s.socPct,
	}, demoted
}
