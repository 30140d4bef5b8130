package simulator

// BatteryConfig holds the energy store parameters, all in watt-seconds.
type BatteryConfig struct {
	CapacityWs  float64 `json:"capacity_ws"`
	InitialWs   float64 `json:"initial_ws"`
	UnderflowWs float64 `json:"underflow_ws"`
}

// DefaultBatteryConfig matches the training satellite's bus.
func DefaultBatteryConfig() BatteryConfig {
	return BatteryConfig{
		CapacityWs:  100000,
		InitialWs:   60000,
		UnderflowWs: 100,
	}
}

// SafeModeThreshold is the charge, in percent, below which the spacecraft
// drops to SAFE and may not enter CHECKOUT.
const SafeModeThreshold = 50.0

// Battery accumulates the net power balance of the bus.
type Battery struct {
	config BatteryConfig

	EnergyWs float64
}

// NewBattery creates a battery at its initial charge.
func NewBattery(cfg BatteryConfig) *Battery {
	return &Battery{config: cfg, EnergyWs: cfg.InitialWs}
}

// Process applies one second of generation and load. Going below empty does
// not clamp to zero: the store resets to the underflow floor instead.
// Returns the resulting charge in percent.
func (b *Battery) Process(incomingW, usedW float64) float64 {
	b.EnergyWs += incomingW - usedW
	if b.EnergyWs < 0 {
		b.EnergyWs = b.config.UnderflowWs
	} else if b.EnergyWs > b.config.CapacityWs {
		b.EnergyWs = b.config.CapacityWs
	}
	return b.SoCPercent()
}

// SoCPercent returns the state of charge in [0, 100].
func (b *Battery) SoCPercent() float64 {
	if b.config.CapacityWs <= 0 {
		return 0
	}
	return b.EnergyWs / b.config.CapacityWs * 100.0
}
