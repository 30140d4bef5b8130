package simulator

import "satellite_simulator/internal/model"

const (
	heaterHysteresisC = 2.0
	heaterPowerW      = 300.0
	heaterRiseC       = 0.5
	coolingC          = 0.1
	tempFloorC        = -20.0
)

// heaterLoop is one temperature zone with its heater.
type heaterLoop struct {
	tempC     float64
	ceilingC  float64
	ctrl      model.Switch
	state     model.Switch
	setpointC float64
	powerW    float64
}

func newHeaterLoop(ceilingC float64) heaterLoop {
	return heaterLoop{ceilingC: ceilingC, ctrl: model.Off, state: model.Off}
}

// step runs the bang-bang controller (when enabled) and then moves the
// temperature one tick toward the heater's effect.
func (h *heaterLoop) step() {
	if h.ctrl == model.On {
		switch {
		case h.tempC < h.setpointC-heaterHysteresisC:
			h.state = model.On
		case h.tempC > h.setpointC+heaterHysteresisC:
			h.state = model.Off
		}
	}

	if h.state == model.On {
		h.powerW = heaterPowerW
		h.tempC += heaterRiseC
		if h.tempC > h.ceilingC {
			h.tempC = h.ceilingC
		}
		return
	}
	h.powerW = 0
	h.tempC -= coolingC
	if h.tempC < tempFloorC {
		h.tempC = tempFloorC
	}
}

// tickThermal advances both loops and reports them.
func (s *satellite) tickThermal(h model.Header) model.Thermal {
	s.heaters[0].step()
	s.heaters[1].step()

	h1, h2 := s.heaters[0], s.heaters[1]
	return model.Thermal{
		Header:           h,
		Temp1C:           h1.tempC,
		Temp2C:           h2.tempC,
		Heater1Ctrl:      h1.ctrl,
		Heater1State:     h1.state,
		Heater1SetpointC: h1.setpointC,
		Heater1PowerW:    h1.powerW,
		Heater2Ctrl:      h2.ctrl,
		Heater2State:     h2.state,
		Heater2SetpointC: h2.setpointC,
		Heater2PowerW:    h2.powerW,
	}
}

// tempsStable reports whether both zones are inside the OPERATE window.
func (s *satellite) tempsStable() bool {
	for _, h := range s.heaters {
		if h.tempC <= 25.0 || h.tempC >= 35.0 {
			return false
		}
	}
	return true
}
