// Package command defines the closed set of spacecraft commands and decodes
// loosely typed name/parameter pairs into them.
package command

import "satellite_simulator/internal/model"

// Command names as they appear on the wire.
const (
	NameNoop          = "NOOP"
	NameCollect       = "COLLECT"
	NameAbort         = "ABORT"
	NameClear         = "CLEAR"
	NameSetMode       = "SET_MODE"
	NameArrayDeploy   = "SLRPNLDEPLOY"
	NameArrayStow     = "SLRPNLSTOW"
	NameArrayAngle    = "SLRPNLANG"
	NameHeaterCtrl    = "HTR_CTRL"
	NameHeaterState   = "HTR_STATE"
	NameHeaterSetpt   = "HTR_SETPT"
	NameADCSCtrl      = "ADCS_CTRL"
	NameAntDeploy     = "ANT_DEPLOY"
	NameAntStow       = "ANT_STOW"
	NameStartDownlink = "START_DOWNLINK"
	NameStopDownlink  = "STOP_DOWNLINK"
	NameSetAntAngle   = "SET_ANT_ANGLE"
	NameSetTestTemp   = "SET_TEST_TEMP"
)

// Command is implemented only by the types in this package.
type Command interface {
	Name() string
	command()
}

type Noop struct{}

type Collect struct {
	DurationSec float64
	Type        string
}

type Abort struct{}

type Clear struct{}

type SetMode struct {
	Mode model.Mode
}

type ArrayDeploy struct {
	Num int
}

type ArrayStow struct {
	Num int
}

type ArrayAngle struct {
	Num      int
	AngleDeg float64
}

type HeaterCtrl struct {
	Num   int
	State model.Switch
}

type HeaterState struct {
	Num   int
	State model.Switch
}

type HeaterSetpoint struct {
	Num       int
	SetpointC float64
}

type ADCSCtrl struct {
	State model.Switch
}

// AntennaDeploy keeps the antenna's current type when Type is empty.
type AntennaDeploy struct {
	Num  int
	Type model.AntennaType
}

type AntennaStow struct {
	Num int
}

type StartDownlink struct {
	Rate        model.DataRate
	DurationSec float64
}

type StopDownlink struct{}

type SetAntennaAngle struct {
	Num          int
	AzimuthDeg   float64
	ElevationDeg float64
}

type SetTestTemp struct {
	TempC float64
}

func (Noop) Name() string            { return NameNoop }
func (Collect) Name() string         { return NameCollect }
func (Abort) Name() string           { return NameAbort }
func (Clear) Name() string           { return NameClear }
func (SetMode) Name() string         { return NameSetMode }
func (ArrayDeploy) Name() string     { return NameArrayDeploy }
func (ArrayStow) Name() string       { return NameArrayStow }
func (ArrayAngle) Name() string      { return NameArrayAngle }
func (HeaterCtrl) Name() string      { return NameHeaterCtrl }
func (HeaterState) Name() string     { return NameHeaterState }
func (HeaterSetpoint) Name() string  { return NameHeaterSetpt }
func (ADCSCtrl) Name() string        { return NameADCSCtrl }
func (AntennaDeploy) Name() string   { return NameAntDeploy }
func (AntennaStow) Name() string     { return NameAntStow }
func (StartDownlink) Name() string   { return NameStartDownlink }
func (StopDownlink) Name() string    { return NameStopDownlink }
func (SetAntennaAngle) Name() string { return NameSetAntAngle }
func (SetTestTemp) Name() string     { return NameSetTestTemp }

func (Noop) command()            {}
func (Collect) command()         {}
func (Abort) command()           {}
func (Clear) command()           {}
func (SetMode) command()         {}
func (ArrayDeploy) command()     {}
func (ArrayStow) command()       {}
func (ArrayAngle) command()      {}
func (HeaterCtrl) command()      {}
func (HeaterState) command()     {}
func (HeaterSetpoint) command()  {}
func (ADCSCtrl) command()        {}
func (AntennaDeploy) command()   {}
func (AntennaStow) command()     {}
func (StartDownlink) command()   {}
func (StopDownlink) command()    {}
func (SetAntennaAngle) command() {}
func (SetTestTemp) command()     {}
