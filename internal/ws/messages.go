package ws

import (
	"encoding/json"
	"strings"
	"time"

	"satellite_simulator/internal/model"
	"satellite_simulator/internal/simulator"
	"satellite_simulator/internal/store"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeSimStart    = "sim:start"
	TypeSimPause    = "sim:pause"
	TypeSimStep     = "sim:step"
	TypeCommandSend = "cmd:send"

	// Server -> Client
	TypeSimState      = "sim:state"
	TypeCommandResult = "cmd:result"
	TypeSnapshot      = "tlm:snapshot"
	TypeError         = "error"

	telemetryPrefix = "tlm:"
)

// TelemetryType is the envelope type a record of kind k is broadcast under,
// e.g. "tlm:thermal" or "tlm:event".
func TelemetryType(k model.Kind) string {
	return telemetryPrefix + strings.ToLower(string(k))
}

// Client -> Server messages

// CommandPayload carries one spacecraft command.
type CommandPayload struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type StepPayload struct {
	Cycles int `json:"cycles"`
}

// Server -> Client messages

type SimStatePayload struct {
	Time    string `json:"time"`
	Cycle   uint64 `json:"cycle"`
	Running bool   `json:"running"`
}

type CommandResultPayload struct {
	Command  string `json:"command"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type KindInfo struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SnapshotPayload is sent to every client on connect.
type SnapshotPayload struct {
	Kinds      []KindInfo              `json:"kinds"`
	Telemetry  map[string]model.Record `json:"telemetry"`
	Events     []model.Event           `json:"events"`
	Spacecraft simulator.Snapshot      `json:"spacecraft"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func SimStateFromEngine(s simulator.State) SimStatePayload {
	return SimStatePayload{
		Time:    s.Time.UTC().Format(time.RFC3339Nano),
		Cycle:   s.Cycle,
		Running: s.Running,
	}
}

func CommandResultFromOutcome(o simulator.Outcome) CommandResultPayload {
	return CommandResultPayload{Command: o.Command, Accepted: o.Accepted, Message: o.Message}
}

// SnapshotFromStore builds the catch-up payload. Kinds are listed in update
// order followed by the queued kinds.
func SnapshotFromStore(s store.Snapshot, sc simulator.Snapshot) SnapshotPayload {
	order := append(append([]model.Kind(nil), model.PeriodicKinds...), model.KindEvent, model.KindImage)
	kinds := make([]KindInfo, 0, len(order))
	for _, k := range order {
		info := model.KindCatalog[k]
		kinds = append(kinds, KindInfo{Kind: string(k), Name: info.Name, Description: info.Description})
	}

	tlm := make(map[string]model.Record, len(s.Telemetry))
	for k, r := range s.Telemetry {
		tlm[TelemetryType(k)] = r
	}

	events := s.Events
	if events == nil {
		events = []model.Event{}
	}
	return SnapshotPayload{Kinds: kinds, Telemetry: tlm, Events: events, Spacecraft: sc}
}
