package simulator

import (
	"time"

	"satellite_simulator/internal/model"
)

const (
	deployTime = 10 * time.Second
	stowTime   = 8 * time.Second

	bufferDrainStep = 0.1
	bufferFillStep  = 0.05
	bufferMax       = 100.0

	baseSignalDB     = -60.0
	highGainSignalDB = 15.0
	otherSignalDB    = 5.0

	highGainDrawW = 50.0
	otherDrawW    = 20.0
)

// settle completes an antenna transition once its deadline is reached.
func (a *antenna) settle(now time.Time) {
	if a.deadline.IsZero() || now.Before(a.deadline) {
		return
	}
	switch a.state {
	case model.AntennaDeploying:
		a.state = model.AntennaDeployed
	case model.AntennaStowing:
		a.state = model.AntennaStowed
	}
	a.deadline = time.Time{}
}

func (a antenna) deployed() bool { return a.state == model.AntennaDeployed }

func (a antenna) signalGain() float64 {
	if !a.deployed() {
		return 0
	}
	if a.typ == model.HighGain {
		return highGainSignalDB
	}
	return otherSignalDB
}

func (a antenna) drawW() float64 {
	if !a.deployed() {
		return 0
	}
	if a.typ == model.HighGain {
		return highGainDrawW
	}
	return otherDrawW
}

// tickComms settles antennas, moves the data buffer, and derives signal and
// power. cycle feeds the synthetic orbital noise term.
func (s *satellite) tickComms(h model.Header, now time.Time, cycle uint64) model.Comms {
	s.antennas[0].settle(now)
	s.antennas[1].settle(now)

	dl := &s.downlink
	switch {
	case !dl.deadline.IsZero() && !now.Before(dl.deadline):
		dl.state = model.DownlinkIdle
		dl.deadline = time.Time{}
		dl.timeRemaining = 0
	case dl.state == model.DownlinkActive:
		remaining := dl.deadline.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		dl.timeRemaining = int(remaining / time.Second)
		s.dataBuffer -= bufferDrainStep * dl.rate.DrainMultiplier()
		if s.dataBuffer < 0 {
			s.dataBuffer = 0
		}
	default:
		s.dataBuffer += bufferFillStep
		if s.dataBuffer > bufferMax {
			s.dataBuffer = bufferMax
		}
	}

	noise := float64(cycle%360)*0.1 - 18.0
	s.signalDB = baseSignalDB + s.antennas[0].signalGain() + s.antennas[1].signalGain() + noise

	s.commPowerW = s.antennas[0].drawW() + s.antennas[1].drawW()
	if dl.state == model.DownlinkActive {
		s.commPowerW += dl.rate.TransmitPowerW()
	}

	a1, a2 := s.antennas[0], s.antennas[1]
	return model.Comms{
		Header:                h,
		Ant1State:             a1.state,
		Ant1Type:              a1.typ,
		Ant1AzimuthDeg:        a1.azimuthDeg,
		Ant1ElevationDeg:      a1.elevationDeg,
		Ant2State:             a2.state,
		Ant2Type:              a2.typ,
		Ant2AzimuthDeg:        a2.azimuthDeg,
		Ant2ElevationDeg:      a2.elevationDeg,
		DownlinkState:         dl.state,
		DataRate:              dl.rate,
		DataBufferPercent:     s.dataBuffer,
		SignalStrengthDB:      s.signalDB,
		CommPowerW:            s.commPowerW,
		DownlinkTimeRemaining: dl.timeRemaining,
	}
}
