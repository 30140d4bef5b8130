package ws

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"satellite_simulator/internal/logging"
	"satellite_simulator/internal/simulator"
	"satellite_simulator/internal/store"
)

// MaxStepCycles bounds a single sim:step request.
const MaxStepCycles = 10000

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes messages to the engine.
type Handler struct {
	hub    *Hub
	engine *simulator.Engine
	store  *store.Store
	log    logging.Logger
}

func NewHandler(hub *Hub, engine *simulator.Engine, st *store.Store, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Noop()
	}
	return &Handler{hub: hub, engine: engine, store: st, log: log.With(logging.String("component", "ws"))}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", logging.Err(err))
		return
	}

	client := newClient(h.hub, conn)
	h.hub.Register(client)
	go client.writePump()

	// Catch-up first, then the run state
	h.sendSnapshot(client)
	h.send(client, TypeSimState, SimStateFromEngine(h.engine.State()))

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", logging.String("client", c.ID()), logging.Err(err))
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.log.Debug("invalid message", logging.String("client", c.ID()), logging.Err(err))
		h.sendError(c, "invalid message: "+err.Error())
		return
	}

	switch env.Type {
	case TypeSimStart:
		h.engine.Start()

	case TypeSimPause:
		h.engine.Pause()

	case TypeSimStep:
		p := StepPayload{Cycles: 1}
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				h.sendError(c, "invalid sim:step payload: "+err.Error())
				return
			}
		}
		if p.Cycles <= 0 {
			p.Cycles = 1
		}
		if p.Cycles > MaxStepCycles {
			p.Cycles = MaxStepCycles
		}
		for i := 0; i < p.Cycles; i++ {
			h.engine.Step()
		}
		h.broadcast(TypeSimState, SimStateFromEngine(h.engine.State()))

	case TypeCommandSend:
		var p CommandPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, "invalid cmd:send payload: "+err.Error())
			return
		}
		if strings.TrimSpace(p.Name) == "" {
			h.sendError(c, "command name is required")
			return
		}
		out := h.engine.Apply(p.Name, p.Params)
		h.send(c, TypeCommandResult, CommandResultFromOutcome(out))

	case TypeSnapshot:
		h.sendSnapshot(c)

	default:
		h.log.Debug("unknown message type", logging.String("type", env.Type))
		h.sendError(c, "unknown message type: "+env.Type)
	}
}

func (h *Handler) sendSnapshot(c *Client) {
	var snap store.Snapshot
	if h.store != nil {
		snap = h.store.Snapshot()
	}
	h.send(c, TypeSnapshot, SnapshotFromStore(snap, h.engine.Snapshot()))
}

func (h *Handler) sendError(c *Client, msg string) {
	h.send(c, TypeError, ErrorPayload{Message: msg})
}

func (h *Handler) send(c *Client, msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.log.Error("marshal message", logging.String("type", msgType), logging.Err(err))
		return
	}
	h.hub.Send(c, msg)
}

func (h *Handler) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		h.log.Error("marshal message", logging.String("type", msgType), logging.Err(err))
		return
	}
	h.hub.Broadcast(msg)
}
