package ws

import (
	"satellite_simulator/internal/logging"
	"satellite_simulator/internal/simulator"
)

// Bridge implements simulator.Callback and broadcasts telemetry to the WebSocket hub.
type Bridge struct {
	hub *Hub
	log logging.Logger
}

func NewBridge(hub *Hub, log logging.Logger) *Bridge {
	if log == nil {
		log = logging.Noop()
	}
	return &Bridge{hub: hub, log: log}
}

func (b *Bridge) OnState(s simulator.State) {
	msg, err := NewEnvelope(TypeSimState, SimStateFromEngine(s))
	if err != nil {
		b.log.Error("marshal sim state", logging.Err(err))
		return
	}
	b.hub.Broadcast(msg)
}

// OnBatch sends each record as its own envelope, in generation order.
func (b *Bridge) OnBatch(batch simulator.Batch) {
	for _, r := range batch.Records {
		msg, err := NewEnvelope(TelemetryType(r.Kind()), r)
		if err != nil {
			b.log.Error("marshal telemetry", logging.String("kind", string(r.Kind())), logging.Err(err))
			continue
		}
		b.hub.Broadcast(msg)
	}
}
