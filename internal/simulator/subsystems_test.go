package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satellite_simulator/internal/command"
	"satellite_simulator/internal/model"
)

func TestHeaterLoop_Hysteresis(t *testing.T) {
	tests := []struct {
		name      string
		temp      float64
		state     model.Switch
		wantState model.Switch
	}{
		{"below band turns on", 27.9, model.Off, model.On},
		{"above band turns off", 32.1, model.On, model.Off},
		{"inside band keeps off", 28.5, model.Off, model.Off},
		{"inside band keeps on", 31.5, model.On, model.On},
		{"band edge low is inside", 28.0, model.Off, model.Off},
		{"band edge high is inside", 32.0, model.On, model.On},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHeaterLoop(50)
			h.ctrl = model.On
			h.setpointC = 30
			h.tempC = tt.temp
			h.state = tt.state
			h.step()
			assert.Equal(t, tt.wantState, h.state)
		})
	}
}

func TestHeaterLoop_NoChatter(t *testing.T) {
	h := newHeaterLoop(50)
	h.ctrl = model.On
	h.setpointC = 30

	prev := h.state
	for i := 0; i < 1000; i++ {
		before := h.tempC
		h.step()
		if h.state != prev {
			if h.state == model.On {
				assert.Less(t, before, 28.0, "turned on at %.2f", before)
			} else {
				assert.Greater(t, before, 32.0, "turned off at %.2f", before)
			}
			prev = h.state
		}
	}
	assert.Greater(t, h.tempC, 20.0)
	assert.Less(t, h.tempC, 40.0)
}

func TestHeaterLoop_Limits(t *testing.T) {
	h1 := newHeaterLoop(50)
	h1.state = model.On
	h2 := newHeaterLoop(100)
	h2.state = model.On
	for i := 0; i < 400; i++ {
		h1.step()
		h2.step()
	}
	assert.Equal(t, 50.0, h1.tempC)
	assert.Equal(t, 100.0, h2.tempC)
	assert.Equal(t, 300.0, h1.powerW)

	h1.state = model.Off
	for i := 0; i < 1000; i++ {
		h1.step()
	}
	assert.Equal(t, -20.0, h1.tempC)
	assert.Equal(t, 0.0, h1.powerW)
}

func TestHeaterLoop_ManualStateIgnoredWhenCtrlOn(t *testing.T) {
	e, _, _ := newTestEngine(t)
	setTemps(e, 35, 35)
	e.Execute(command.HeaterSetpoint{Num: 1, SetpointC: 30})
	e.Execute(command.HeaterCtrl{Num: 1, State: model.On})
	e.Execute(command.HeaterState{Num: 1, State: model.On})

	th := e.Tick(model.KindThermal).(model.Thermal)
	assert.Equal(t, model.Off, th.Heater1State)
	assert.Equal(t, 0.0, th.Heater1PowerW)
}

func TestHeatersReachOperateWindow(t *testing.T) {
	e, _, _ := newTestEngine(t)
	for _, n := range []int{1, 2} {
		e.Execute(command.HeaterSetpoint{Num: n, SetpointC: 30})
		e.Execute(command.HeaterCtrl{Num: n, State: model.On})
	}

	for i := 0; i < 60; i++ {
		e.Tick(model.KindThermal)
	}
	out := e.Execute(command.SetMode{Mode: model.ModeOperate})
	assert.True(t, out.Accepted, out.Message)
}

func TestMech_ArrayPower(t *testing.T) {
	tests := []struct {
		sun, array float64
		want       float64
	}{
		{0, 0, 500},
		{90, 0, 250},
		{0, 180, 0},
		{350, 10, 500 * (1 - 20.0/180)},
		{10, 350, 500 * (1 - 20.0/180)},
	}
	for _, tt := range tests {
		a := solarArray{state: model.ArrayDeployed, angleDeg: tt.array}
		a.update(tt.sun)
		assert.InDelta(t, tt.want, a.powerW, 1e-9, "sun %v array %v", tt.sun, tt.array)
	}

	stowed := solarArray{state: model.ArrayStowed}
	stowed.update(0)
	assert.Zero(t, stowed.powerW)
}

func TestMech_ADCSPointsArrays(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.mu.Lock()
	e.sat.sunAngle = 72
	e.mu.Unlock()

	e.Execute(command.ArrayDeploy{Num: 1})
	e.Execute(command.ArrayDeploy{Num: 2})
	e.Execute(command.ADCSCtrl{State: model.On})

	mech := e.Tick(model.KindMech).(model.Mech)
	assert.Equal(t, 72.0, mech.Array1AngleDeg)
	assert.Equal(t, 72.0, mech.Array2AngleDeg)
	assert.InDelta(t, 500, mech.Array1PowerW, 1e-9)
	assert.InDelta(t, 500, mech.Array2PowerW, 1e-9)
	// 60000 + 1000 in - 100 cpu
	assert.InDelta(t, 60.9, mech.BatteryPercent, 1e-9)
}

func TestMech_LowBatteryForcesSafe(t *testing.T) {
	e, _, _ := newTestEngine(t)
	setBattery(e, 50.05)
	require.True(t, e.Execute(command.SetMode{Mode: model.ModeCheckout}).Accepted)

	// 100 W cpu drains 0.1% per mechanical tick.
	mech := e.Tick(model.KindMech).(model.Mech)
	assert.InDelta(t, 49.95, mech.BatteryPercent, 1e-9)
	assert.Equal(t, model.ModeSafe, e.Snapshot().Mode)

	out := e.Execute(command.SetMode{Mode: model.ModeCheckout})
	assert.False(t, out.Accepted)
}

func TestMech_BatteryBounds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	for _, n := range []int{1, 2} {
		e.Execute(command.HeaterState{Num: n, State: model.On})
	}
	e.Tick(model.KindThermal)

	for i := 0; i < 200; i++ {
		mech := e.Tick(model.KindMech).(model.Mech)
		assert.GreaterOrEqual(t, mech.BatteryPercent, 0.0)
		assert.LessOrEqual(t, mech.BatteryPercent, 100.0)
	}

	e.mu.Lock()
	energy := e.sat.battery.EnergyWs
	e.mu.Unlock()
	assert.GreaterOrEqual(t, energy, 0.0)
}

func deployAntenna(t *testing.T, e *Engine, clock *ManualClock, num int, typ model.AntennaType) {
	t.Helper()
	require.True(t, e.Execute(command.AntennaDeploy{Num: num, Type: typ}).Accepted)
	clock.Advance(deployTime)
	e.Tick(model.KindComms)
}

func TestComms_AntennaDeployTiming(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	require.True(t, e.Execute(command.AntennaDeploy{Num: 1}).Accepted)

	clock.Advance(10*time.Second - time.Millisecond)
	c := e.Tick(model.KindComms).(model.Comms)
	assert.Equal(t, model.AntennaDeploying, c.Ant1State)

	clock.Advance(time.Millisecond)
	c = e.Tick(model.KindComms).(model.Comms)
	assert.Equal(t, model.AntennaDeployed, c.Ant1State)
}

func TestComms_AntennaStowTiming(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	deployAntenna(t, e, clock, 2, model.LowGain)

	require.True(t, e.Execute(command.AntennaStow{Num: 2}).Accepted)
	clock.Advance(7 * time.Second)
	assert.Equal(t, model.AntennaStowing, e.Tick(model.KindComms).(model.Comms).Ant2State)
	clock.Advance(time.Second)
	assert.Equal(t, model.AntennaStowed, e.Tick(model.KindComms).(model.Comms).Ant2State)
}

func TestComms_BufferDrainAndFill(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	deployAntenna(t, e, clock, 1, model.HighGain)

	prev := e.Tick(model.KindComms).(model.Comms).DataBufferPercent
	for i := 0; i < 10; i++ {
		c := e.Tick(model.KindComms).(model.Comms)
		assert.InDelta(t, prev+0.05, c.DataBufferPercent, 1e-9)
		prev = c.DataBufferPercent
	}

	require.True(t, e.Execute(command.StartDownlink{Rate: model.RateHigh, DurationSec: 1000}).Accepted)
	for i := 0; i < 10; i++ {
		c := e.Tick(model.KindComms).(model.Comms)
		assert.InDelta(t, prev-0.2, c.DataBufferPercent, 1e-9)
		assert.Equal(t, model.DownlinkActive, c.DownlinkState)
		prev = c.DataBufferPercent
	}

	e.mu.Lock()
	e.sat.dataBuffer = 0.05
	e.mu.Unlock()
	assert.Equal(t, 0.0, e.Tick(model.KindComms).(model.Comms).DataBufferPercent)

	e.Execute(command.StopDownlink{})
	e.mu.Lock()
	e.sat.dataBuffer = 99.99
	e.mu.Unlock()
	assert.Equal(t, 100.0, e.Tick(model.KindComms).(model.Comms).DataBufferPercent)
}

func TestComms_DownlinkLifecycle(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	deployAntenna(t, e, clock, 1, model.HighGain)

	out := e.Execute(command.StartDownlink{Rate: model.RateMedium, DurationSec: 30})
	require.True(t, out.Accepted)
	assert.Equal(t, "Starting downlink for 30.0 seconds", out.Message)

	clock.Advance(10*time.Second + 500*time.Millisecond)
	c := e.Tick(model.KindComms).(model.Comms)
	assert.Equal(t, 19, c.DownlinkTimeRemaining)
	assert.Equal(t, model.RateMedium, c.DataRate)
	assert.InDelta(t, 50+25, c.CommPowerW, 1e-9)

	clock.Advance(20 * time.Second)
	c = e.Tick(model.KindComms).(model.Comms)
	assert.Equal(t, model.DownlinkIdle, c.DownlinkState)
	assert.Zero(t, c.DownlinkTimeRemaining)
	assert.InDelta(t, 50, c.CommPowerW, 1e-9)

	out = e.Execute(command.StopDownlink{})
	assert.False(t, out.Accepted)
}

func TestComms_StopDownlink(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	deployAntenna(t, e, clock, 2, model.LowGain)
	e.Execute(command.StartDownlink{Rate: "ULTRA", DurationSec: 60})

	c := e.Tick(model.KindComms).(model.Comms)
	assert.InDelta(t, 20+10, c.CommPowerW, 1e-9, "unknown rate draws like LOW")

	out := e.Execute(command.StopDownlink{})
	assert.True(t, out.Accepted)
	assert.Equal(t, "Downlink stopped", out.Message)
	c = e.Tick(model.KindComms).(model.Comms)
	assert.Equal(t, model.DownlinkIdle, c.DownlinkState)
}

func TestComms_SignalStrength(t *testing.T) {
	e, clock, _ := newTestEngine(t)

	c := e.Tick(model.KindComms).(model.Comms)
	assert.InDelta(t, -60-18, c.SignalStrengthDB, 1e-9, "cycle 0, nothing deployed")

	deployAntenna(t, e, clock, 1, model.HighGain)
	deployAntenna(t, e, clock, 2, model.LowGain)
	e.mu.Lock()
	e.cycle = 365
	e.mu.Unlock()

	c = e.Tick(model.KindComms).(model.Comms)
	assert.InDelta(t, -60+15+5+0.5-18, c.SignalStrengthDB, 1e-9)
	assert.InDelta(t, 70, c.CommPowerW, 1e-9)
}

func TestComms_SetAntennaAngle(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	deployAntenna(t, e, clock, 1, model.HighGain)

	out := e.Execute(command.SetAntennaAngle{Num: 1, AzimuthDeg: 45.5, ElevationDeg: 10})
	assert.True(t, out.Accepted)
	assert.Equal(t, "Set antenna 1 angle to Az:45.5° El:10.0°", out.Message)

	c := e.Tick(model.KindComms).(model.Comms)
	assert.Equal(t, 45.5, c.Ant1AzimuthDeg)
	assert.Equal(t, 10.0, c.Ant1ElevationDeg)
}

func enterOperate(t *testing.T, e *Engine) {
	t.Helper()
	setTemps(e, 30, 30)
	require.True(t, e.Execute(command.SetMode{Mode: model.ModeOperate}).Accepted)
}

func images(records []model.Record) []model.Image {
	var out []model.Image
	for _, r := range records {
		if im, ok := r.(model.Image); ok {
			out = append(out, im)
		}
	}
	return out
}

func TestImaging_CollectScenario(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	enterOperate(t, e)
	e.DrainEvents()

	out := e.Apply("COLLECT", map[string]any{"DURATION": 5.0, "TYPE": "NORMAL"})
	require.True(t, out.Accepted)
	assert.Equal(t, "Started NORMAL image collection for 5.0 seconds (total collects: 1)", out.Message)

	im := e.Tick(model.KindImager).(model.Imager)
	assert.Equal(t, uint32(1), im.Collects)
	assert.Equal(t, model.On, im.ImagerState)
	assert.Equal(t, 200.0, im.ImagerPowerW)

	// The deadline itself is not yet past.
	clock.Advance(5 * time.Second)
	im = e.Tick(model.KindImager).(model.Imager)
	assert.Equal(t, model.On, im.ImagerState)

	clock.Advance(time.Millisecond)
	im = e.Tick(model.KindImager).(model.Imager)
	assert.Equal(t, model.Off, im.ImagerState)
	assert.Zero(t, im.ImagerPowerW)

	e.Tick(model.KindImager)
	e.Tick(model.KindImager)

	imgs := images(e.DrainEvents())
	require.Len(t, imgs, 1, "exactly one product per collection")
	assert.Equal(t, "NORMAL", imgs[0].CollectType)
	assert.Equal(t, 5.0, imgs[0].DurationSec)
	assert.Len(t, imgs[0].Data, 10000+len("The Secret is Astral Body"))
	assert.Equal(t, byte(0x05), imgs[0].Data[0])
	assert.Equal(t, "The Secret is Astral Body", string(imgs[0].Data[10000:]))
}

func TestImaging_ImageDeliveredNextCycle(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	enterOperate(t, e)
	e.Execute(command.Collect{DurationSec: 0.5, Type: "SPECIAL"})
	e.Step() // cycle 0 starts the collection

	clock.Advance(time.Second)
	for i := 1; i < 100; i++ {
		e.Step()
	}
	b := e.Step() // cycle 100 finishes it
	assert.Empty(t, images(b.Records))

	b = e.Step()
	imgs := images(b.Records)
	require.Len(t, imgs, 1)
	assert.Equal(t, "SPECIAL", imgs[0].CollectType)
	assert.Equal(t, uint32(1), imgs[0].Sequence)
}

func TestImaging_Abort(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	enterOperate(t, e)
	e.Execute(command.Collect{DurationSec: 5, Type: "NORMAL"})

	out := e.Execute(command.Abort{})
	assert.True(t, out.Accepted)

	clock.Advance(10 * time.Second)
	im := e.Tick(model.KindImager).(model.Imager)
	assert.Equal(t, model.Off, im.ImagerState)
	assert.Zero(t, im.ImagerPowerW)
	assert.Empty(t, images(e.DrainEvents()), "aborted collections produce no image")
}

func TestImaging_ImagerLoadDrainsBattery(t *testing.T) {
	e, _, _ := newTestEngine(t)
	enterOperate(t, e)
	e.Execute(command.Collect{DurationSec: 100, Type: "NORMAL"})

	mech := e.Tick(model.KindMech).(model.Mech)
	// 60000 - (100 cpu + 200 imager)
	assert.InDelta(t, 59.7, mech.BatteryPercent, 1e-9)
}

func TestHealthStatusReportsCounters(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Execute(command.Noop{})
	e.Execute(command.ArrayStow{Num: 3})
	e.Execute(command.SetTestTemp{TempC: 42})

	hs := e.Tick(model.KindHealthStatus).(model.HealthStatus)
	assert.Equal(t, uint32(2), hs.CmdAcceptCount)
	assert.Equal(t, uint32(1), hs.CmdRejectCount)
	assert.Equal(t, model.ModeSafe, hs.Mode)
	assert.Equal(t, 42.0, hs.TestTempC)
}
