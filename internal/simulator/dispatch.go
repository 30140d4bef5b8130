package simulator

import (
	"fmt"
	"time"

	"satellite_simulator/internal/command"
	"satellite_simulator/internal/model"
)

// verdict is the outcome of a single command against the current state.
type verdict struct {
	accepted bool
	message  string
}

func accept(format string, args ...any) verdict {
	return verdict{accepted: true, message: fmt.Sprintf(format, args...)}
}

func reject(format string, args ...any) verdict {
	return verdict{message: fmt.Sprintf(format, args...)}
}

// index maps a 1-based unit number to an array index.
func index(num int) (int, bool) {
	if num == 1 || num == 2 {
		return num - 1, true
	}
	return 0, false
}

func onOff(v model.Switch, on, off string) string {
	if v == model.On {
		return on
	}
	return off
}

// dispatch validates cmd and applies it. A rejected command leaves the
// state untouched. Counters are the caller's job.
func (s *satellite) dispatch(cmd command.Command, now time.Time) verdict {
	switch c := cmd.(type) {
	case command.Noop:
		return accept("NOOP command received - no operation performed")

	case command.Collect:
		if s.mode != model.ModeOperate {
			return reject("Mode must be OPERATE to collect images")
		}
		im := &s.imager
		im.collects++
		im.durationSec = c.DurationSec
		im.collectType = c.Type
		im.deadline = now.Add(seconds(c.DurationSec))
		im.state = model.On
		im.powerW = imagerPowerW
		return accept("Started %s image collection for %s seconds (total collects: %d)",
			c.Type, num(c.DurationSec), im.collects)

	case command.Abort:
		s.imager.deadline = time.Time{}
		s.imager.state = model.Off
		s.imager.powerW = 0
		return accept("Image collection aborted")

	case command.Clear:
		collects, accepts, rejects := s.imager.collects, s.accepted, s.rejected
		s.imager.collects, s.accepted, s.rejected = 0, 0, 0
		return accept("Counters cleared (collects: %d→0, accepts: %d→0, rejects: %d→0)",
			collects, accepts, rejects)

	case command.SetMode:
		return s.setMode(c.Mode)

	case command.ArrayDeploy:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Solar Array Number: %d", c.Num)
		}
		s.arrays[i].state = model.ArrayDeployed
		return accept("Solar array %d deployed (power generation enabled)", c.Num)

	case command.ArrayStow:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Solar Array Number: %d", c.Num)
		}
		s.arrays[i].state = model.ArrayStowed
		return accept("Solar array %d stowed (power generation disabled)", c.Num)

	case command.ArrayAngle:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Solar Array Number: %d", c.Num)
		}
		if c.AngleDeg < 0 || c.AngleDeg > 360 {
			return reject("Invalid Solar Array Angle: %s", num(c.AngleDeg))
		}
		s.arrays[i].angleDeg = c.AngleDeg
		return accept("Solar array %d angle set to %s° (current sun angle: %s°)",
			c.Num, num1(c.AngleDeg), num1(s.sunAngle))

	case command.HeaterCtrl:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Heater Number: %d", c.Num)
		}
		if !c.State.Valid() {
			return reject("Invalid Heater Control: %s", c.State)
		}
		h := &s.heaters[i]
		h.ctrl = c.State
		return accept("Heater %d control set to %s (current temp: %s°C, setpoint: %s°C)",
			c.Num, c.State, num1(h.tempC), num1(h.setpointC))

	case command.HeaterState:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Heater Number: %d", c.Num)
		}
		if !c.State.Valid() {
			return reject("Invalid Heater State: %s", c.State)
		}
		s.heaters[i].state = c.State
		return accept("Heater %d state manually set to %s (power: %s)",
			c.Num, c.State, onOff(c.State, "300W", "0W"))

	case command.HeaterSetpoint:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Heater Number: %d", c.Num)
		}
		if c.SetpointC < -100 || c.SetpointC > 100 {
			return reject("Invalid Heater Setpoint: %s", num(c.SetpointC))
		}
		prev := s.heaters[i].setpointC
		s.heaters[i].setpointC = c.SetpointC
		return accept("Heater %d setpoint changed from %s°C to %s°C", c.Num, num1(prev), num1(c.SetpointC))

	case command.ADCSCtrl:
		if !c.State.Valid() {
			return reject("Invalid ADCS Control: %s", c.State)
		}
		s.adcsCtrl = c.State
		return accept("ADCS control set to %s (solar array auto-pointing %s)",
			c.State, onOff(c.State, "enabled", "disabled"))

	case command.AntennaDeploy:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Antenna Number: %d", c.Num)
		}
		a := &s.antennas[i]
		if a.state != model.AntennaStowed {
			return reject("Antenna %d not in STOWED state", c.Num)
		}
		a.state = model.AntennaDeploying
		if c.Type != "" {
			a.typ = c.Type
		}
		a.deadline = now.Add(deployTime)
		return accept("Deploying antenna %d", c.Num)

	case command.AntennaStow:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Antenna Number: %d", c.Num)
		}
		a := &s.antennas[i]
		if a.state != model.AntennaDeployed {
			return reject("Antenna %d not in DEPLOYED state", c.Num)
		}
		a.state = model.AntennaStowing
		a.deadline = now.Add(stowTime)
		return accept("Stowing antenna %d", c.Num)

	case command.StartDownlink:
		if !s.antennas[0].deployed() && !s.antennas[1].deployed() {
			return reject("No antennas deployed for downlink")
		}
		dl := &s.downlink
		dl.rate = c.Rate
		dl.state = model.DownlinkActive
		dl.timeRemaining = int(c.DurationSec)
		dl.deadline = now.Add(seconds(c.DurationSec))
		return accept("Starting downlink for %s seconds", num(c.DurationSec))

	case command.StopDownlink:
		if s.downlink.state != model.DownlinkActive {
			return reject("No active downlink to stop")
		}
		s.downlink.state = model.DownlinkIdle
		s.downlink.deadline = time.Time{}
		s.downlink.timeRemaining = 0
		return accept("Downlink stopped")

	case command.SetAntennaAngle:
		i, ok := index(c.Num)
		if !ok {
			return reject("Invalid Antenna Number: %d", c.Num)
		}
		a := &s.antennas[i]
		if !a.deployed() {
			return reject("Antenna %d not deployed", c.Num)
		}
		a.azimuthDeg = c.AzimuthDeg
		a.elevationDeg = c.ElevationDeg
		return accept("Set antenna %d angle to Az:%s° El:%s°", c.Num, num(c.AzimuthDeg), num(c.ElevationDeg))

	case command.SetTestTemp:
		prev := s.testTemp
		s.testTemp = c.TempC
		return accept("Test temperature changed from %s°C to %s°C", num1(prev), num1(c.TempC))
	}

	return reject("Unknown command: %s", cmd.Name())
}

func (s *satellite) setMode(mode model.Mode) verdict {
	prev := s.mode
	switch mode {
	case model.ModeSafe:
		s.mode = mode
		return accept("Mode changed from %s to %s", prev, mode)
	case model.ModeCheckout:
		if s.socPct < SafeModeThreshold {
			return reject("Cannot enter checkout if battery < 50.0%%")
		}
		s.mode = mode
		return accept("Mode changed from %s to %s (battery: %s%%)", prev, mode, num1(s.socPct))
	case model.ModeOperate:
		if !s.tempsStable() {
			return reject("Cannot enter OPERATE unless temperatures are stable near 30.0")
		}
		s.mode = mode
		t1, t2 := s.heaters[0].tempC, s.heaters[1].tempC
		return accept("Mode changed from %s to %s (temp1: %s°C, temp2: %s°C)", prev, mode, num1(t1), num1(t2))
	}
	return reject("Invalid Mode: %s", mode)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
