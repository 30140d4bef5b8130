package model

// Mode is the top-level spacecraft operating state.
type Mode string

const (
	ModeSafe     Mode = "SAFE"
	ModeCheckout Mode = "CHECKOUT"
	ModeOperate  Mode = "OPERATE"
)

// Switch is an ON/OFF discrete used by heaters, the imager and ADCS control.
type Switch string

const (
	On  Switch = "ON"
	Off Switch = "OFF"
)

// Valid reports whether s is ON or OFF.
func (s Switch) Valid() bool {
	return s == On || s == Off
}

type ArrayState string

const (
	ArrayStowed   ArrayState = "STOWED"
	ArrayDeployed ArrayState = "DEPLOYED"
)

type AntennaState string

const (
	AntennaStowed    AntennaState = "STOWED"
	AntennaDeploying AntennaState = "DEPLOYING"
	AntennaDeployed  AntennaState = "DEPLOYED"
	AntennaStowing   AntennaState = "STOWING"
)

// AntennaType is free-form; only HIGH_GAIN gets the high-gain bonus and draw.
type AntennaType string

const (
	HighGain AntennaType = "HIGH_GAIN"
	LowGain  AntennaType = "LOW_GAIN"
)

type DownlinkState string

const (
	DownlinkIdle   DownlinkState = "IDLE"
	DownlinkActive DownlinkState = "ACTIVE"
)

// DataRate is free-form; unknown rates fall back to LOW figures.
type DataRate string

const (
	RateLow    DataRate = "LOW"
	RateMedium DataRate = "MEDIUM"
	RateHigh   DataRate = "HIGH"
)

// DrainMultiplier scales the per-tick buffer drain while downlinking.
func (r DataRate) DrainMultiplier() float64 {
	switch r {
	case RateMedium:
		return 1.0
	case RateHigh:
		return 2.0
	default:
		return 0.5
	}
}

// TransmitPowerW is the transmitter draw while a downlink is active.
func (r DataRate) TransmitPowerW() float64 {
	switch r {
	case RateMedium:
		return 25.0
	case RateHigh:
		return 75.0
	default:
		return 10.0
	}
}
