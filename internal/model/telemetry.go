package model

import "time"

// Header is stamped on every record when it is produced.
type Header struct {
	Timestamp time.Time `json:"timestamp"`
	Sequence  uint32    `json:"sequence_count"`
}

// RecordHeader returns the header; it is promoted to every record type.
func (h Header) RecordHeader() Header { return h }

// Record is a single telemetry packet of a known kind.
type Record interface {
	Kind() Kind
	RecordHeader() Header
}

type HealthStatus struct {
	Header
	CmdAcceptCount uint32  `json:"cmd_acpt_cnt"`
	CmdRejectCount uint32  `json:"cmd_rjct_cnt"`
	Mode           Mode    `json:"mode"`
	CPUPowerW      float64 `json:"cpu_pwr"`
	TestTempC      float64 `json:"test_temp"`
}

func (HealthStatus) Kind() Kind { return KindHealthStatus }

type Thermal struct {
	Header
	Temp1C           float64 `json:"temp1"`
	Temp2C           float64 `json:"temp2"`
	Heater1Ctrl      Switch  `json:"heater1_ctrl"`
	Heater1State     Switch  `json:"heater1_state"`
	Heater1SetpointC float64 `json:"heater1_setpt"`
	Heater1PowerW    float64 `json:"heater1_pwr"`
	Heater2Ctrl      Switch  `json:"heater2_ctrl"`
	Heater2State     Switch  `json:"heater2_state"`
	Heater2SetpointC float64 `json:"heater2_setpt"`
	Heater2PowerW    float64 `json:"heater2_pwr"`
}

func (Thermal) Kind() Kind { return KindThermal }

type Mech struct {
	Header
	Array1AngleDeg float64    `json:"slrpnl1_ang"`
	Array2AngleDeg float64    `json:"slrpnl2_ang"`
	Array1State    ArrayState `json:"slrpnl1_state"`
	Array2State    ArrayState `json:"slrpnl2_state"`
	Array1PowerW   float64    `json:"slrpnl1_pwr"`
	Array2PowerW   float64    `json:"slrpnl2_pwr"`
	BatteryPercent float64    `json:"battery"`
}

func (Mech) Kind() Kind { return KindMech }

type Imager struct {
	Header
	Collects     uint32  `json:"collects"`
	DurationSec  float64 `json:"duration"`
	CollectType  string  `json:"collect_type"`
	ImagerState  Switch  `json:"imager_state"`
	ImagerPowerW float64 `json:"imager_pwr"`
}

func (Imager) Kind() Kind { return KindImager }

type Comms struct {
	Header
	Ant1State             AntennaState  `json:"ant1_state"`
	Ant1Type              AntennaType   `json:"ant1_type"`
	Ant1AzimuthDeg        float64       `json:"ant1_azimuth"`
	Ant1ElevationDeg      float64       `json:"ant1_elevation"`
	Ant2State             AntennaState  `json:"ant2_state"`
	Ant2Type              AntennaType   `json:"ant2_type"`
	Ant2AzimuthDeg        float64       `json:"ant2_azimuth"`
	Ant2ElevationDeg      float64       `json:"ant2_elevation"`
	DownlinkState         DownlinkState `json:"downlink_state"`
	DataRate              DataRate      `json:"data_rate"`
	DataBufferPercent     float64       `json:"data_buffer"`
	SignalStrengthDB      float64       `json:"signal_strength"`
	CommPowerW            float64       `json:"comm_pwr"`
	DownlinkTimeRemaining int           `json:"downlink_time_remaining"`
}

func (Comms) Kind() Kind { return KindComms }

type ADCS struct {
	Header
	PosX             float32 `json:"posx"`
	PosY             float32 `json:"posy"`
	PosZ             float32 `json:"posz"`
	VelX             float32 `json:"velx"`
	VelY             float32 `json:"vely"`
	VelZ             float32 `json:"velz"`
	Q1               float32 `json:"q1"`
	Q2               float32 `json:"q2"`
	Q3               float32 `json:"q3"`
	Q4               float32 `json:"q4"`
	BiasX            float32 `json:"biasx"`
	BiasY            float32 `json:"biasy"`
	BiasZ            float32 `json:"biasz"`
	StarIDs          [5]int  `json:"star_ids"`
	PositionProgress float64 `json:"posprogress"`
	AttitudeProgress float64 `json:"attprogress"`
	SunAngleDeg      float64 `json:"sr_ang_to_sun"`
	ADCSCtrl         Switch  `json:"adcs_ctrl"`
}

func (ADCS) Kind() Kind { return KindADCS }

// Event is a command acceptance/rejection notice.
type Event struct {
	Header
	Message string `json:"message"`
}

func (Event) Kind() Kind { return KindEvent }

// Image is the product emitted once per completed collection.
type Image struct {
	Header
	CollectType string  `json:"collect_type"`
	DurationSec float64 `json:"duration"`
	Data        []byte  `json:"image"`
}

func (Image) Kind() Kind { return KindImage }
