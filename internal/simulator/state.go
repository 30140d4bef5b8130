package simulator

import (
	"time"

	"satellite_simulator/internal/model"
)

const (
	cpuPowerW         = 100.0
	initialArrayAngle = 180.0
	initialDataBuffer = 50.0
	initialSignalDB   = -50.0
	initialDuration   = 10.0
	initialCollect    = "NORMAL"
)

type solarArray struct {
	state    model.ArrayState
	angleDeg float64
	powerW   float64
}

type antenna struct {
	state        model.AntennaState
	typ          model.AntennaType
	azimuthDeg   float64
	elevationDeg float64
	deadline     time.Time // zero when no transition is in flight
}

type downlink struct {
	state         model.DownlinkState
	rate          model.DataRate
	deadline      time.Time
	timeRemaining int
}

type imager struct {
	collects    uint32
	durationSec float64
	collectType string
	state       model.Switch
	powerW      float64
	deadline    time.Time
}

// satellite is the engine-owned aggregate. Nothing outside the engine holds
// a reference to it; all access happens under Engine.mu.
type satellite struct {
	mode     model.Mode
	accepted uint32
	rejected uint32
	battery  *Battery
	socPct   float64
	cpuPower float64
	testTemp float64

	heaters [2]heaterLoop

	arrays   [2]solarArray
	adcsCtrl model.Switch
	sunAngle float64

	antennas   [2]antenna
	downlink   downlink
	dataBuffer float64
	signalDB   float64
	commPowerW float64

	imager imager

	adcs adcsCursor
}

func newSatellite(bc BatteryConfig) *satellite {
	b := NewBattery(bc)
	return &satellite{
		mode:     model.ModeSafe,
		battery:  b,
		socPct:   b.SoCPercent(),
		cpuPower: cpuPowerW,
		heaters:  [2]heaterLoop{newHeaterLoop(50), newHeaterLoop(100)},
		arrays: [2]solarArray{
			{state: model.ArrayStowed, angleDeg: initialArrayAngle},
			{state: model.ArrayStowed, angleDeg: initialArrayAngle},
		},
		adcsCtrl: model.Off,
		antennas: [2]antenna{
			{state: model.AntennaStowed, typ: model.HighGain},
			{state: model.AntennaStowed, typ: model.LowGain},
		},
		downlink:   downlink{state: model.DownlinkIdle, rate: model.RateLow},
		dataBuffer: initialDataBuffer,
		signalDB:   initialSignalDB,
		imager: imager{
			durationSec: initialDuration,
			collectType: initialCollect,
			state:       model.Off,
		},
	}
}

func (s *satellite) tickHealth(h model.Header) model.HealthStatus {
	return model.HealthStatus{
		Header:         h,
		CmdAcceptCount: s.accepted,
		CmdRejectCount: s.rejected,
		Mode:           s.mode,
		CPUPowerW:      s.cpuPower,
		TestTempC:      s.testTemp,
	}
}
