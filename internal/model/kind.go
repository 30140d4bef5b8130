package model

import "strings"

// Kind identifies a telemetry packet type.
type Kind string

const (
	KindHealthStatus Kind = "HEALTH_STATUS"
	KindThermal      Kind = "THERMAL"
	KindMech         Kind = "MECH"
	KindComms        Kind = "COMMS"
	KindImager       Kind = "IMAGER"
	KindADCS         Kind = "ADCS"
	KindEvent        Kind = "EVENT"
	KindImage        Kind = "IMAGE"
)

// PeriodicKinds lists the kinds produced on a schedule, in the order they are
// updated within a single cycle.
var PeriodicKinds = []Kind{
	KindHealthStatus,
	KindThermal,
	KindMech,
	KindComms,
	KindImager,
	KindADCS,
}

// KindInfo holds display metadata for a telemetry kind.
type KindInfo struct {
	Name        string
	Description string
}

// KindCatalog maps every known Kind to its display metadata.
var KindCatalog = map[Kind]KindInfo{
	KindHealthStatus: {Name: "Health Status", Description: "Command counters, mode, CPU power, test temperature"},
	KindThermal:      {Name: "Thermal", Description: "Temperatures, heater control/state/setpoint/power"},
	KindMech:         {Name: "Mechanical", Description: "Solar array angles/states/power, battery level"},
	KindComms:        {Name: "Communications", Description: "Antennas, downlink, data buffer, signal strength"},
	KindImager:       {Name: "Imager", Description: "Collection status and imager power"},
	KindADCS:         {Name: "ADCS", Description: "Position, velocity, attitude, star tracking"},
	KindEvent:        {Name: "Event", Description: "Command responses and system events"},
	KindImage:        {Name: "Image", Description: "Image product emitted after a collection"},
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := KindCatalog[k]
	return k, ok
}

// Periodic reports whether k is produced on a schedule rather than queued.
func (k Kind) Periodic() bool {
	for _, p := range PeriodicKinds {
		if p == k {
			return true
		}
	}
	return false
}
