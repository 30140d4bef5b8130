package simulator

import (
	"errors"
	"strings"
	"sync"
	"time"

	"satellite_simulator/internal/command"
	"satellite_simulator/internal/logging"
	"satellite_simulator/internal/model"
)

// DefaultInterval is the base cycle length (100 Hz).
const DefaultInterval = 10 * time.Millisecond

// DefaultPeriods returns the per-kind periods in base cycles: ADCS at 10 Hz,
// everything else at 1 Hz.
func DefaultPeriods() map[model.Kind]uint64 {
	return map[model.Kind]uint64{
		model.KindHealthStatus: 100,
		model.KindThermal:      100,
		model.KindMech:         100,
		model.KindComms:        100,
		model.KindImager:       100,
		model.KindADCS:         10,
	}
}

// Config wires an Engine. Zero fields take defaults.
type Config struct {
	Interval time.Duration
	Periods  map[model.Kind]uint64
	Battery  BatteryConfig
	Clock    Clock
	Logger   logging.Logger
	Recorder Recorder
	Position RecordSource
	Attitude RecordSource
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	periods := DefaultPeriods()
	for k, p := range c.Periods {
		if p > 0 {
			periods[k] = p
		}
	}
	c.Periods = periods
	if c.Battery == (BatteryConfig{}) {
		c.Battery = DefaultBatteryConfig()
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = logging.Noop()
	}
	if c.Recorder == nil {
		c.Recorder = NopRecorder{}
	}
	return c
}

// State represents the run state of the engine.
type State struct {
	Time    time.Time `json:"time"`
	Cycle   uint64    `json:"cycle"`
	Running bool      `json:"running"`
}

// Batch is everything one cycle produced: drained events and images first,
// then the periodic records that were due, in update order.
type Batch struct {
	Cycle   uint64
	Time    time.Time
	Records []model.Record
}

// Outcome reports how a command was handled.
type Outcome struct {
	Command  string `json:"command"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// Snapshot is a point-in-time summary of the spacecraft.
type Snapshot struct {
	Mode           model.Mode `json:"mode"`
	BatteryPercent float64    `json:"battery"`
	Accepted       uint32     `json:"cmd_acpt_cnt"`
	Rejected       uint32     `json:"cmd_rjct_cnt"`
	QueuedEvents   int        `json:"queued_events"`
	Cycle          uint64     `json:"cycle"`
}

// Callback receives simulation output. It is always invoked without the
// engine lock held.
type Callback interface {
	OnState(state State)
	OnBatch(batch Batch)
}

// MultiCallback fans out to several callbacks in order.
type MultiCallback []Callback

func (m MultiCallback) OnState(s State) {
	for _, cb := range m {
		cb.OnState(s)
	}
}

func (m MultiCallback) OnBatch(b Batch) {
	for _, cb := range m {
		cb.OnBatch(b)
	}
}

// Engine owns the satellite state and serializes commands against ticks.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	callback Callback
	log      logging.Logger

	sat   *satellite
	cycle uint64
	seq   map[model.Kind]uint32
	queue []model.Record

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(cfg Config, cb Callback) *Engine {
	cfg = cfg.withDefaults()
	sat := newSatellite(cfg.Battery)
	sat.adcs = adcsCursor{position: cfg.Position, attitude: cfg.Attitude}
	return &Engine{
		cfg:      cfg,
		callback: cb,
		log:      cfg.Logger.With(logging.String("component", "engine")),
		sat:      sat,
		seq:      make(map[model.Kind]uint32),
	}
}

// State returns the current run state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	return State{Time: e.cfg.Clock.Now(), Cycle: e.cycle, Running: e.running}
}

// Snapshot summarizes the spacecraft without advancing anything.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Mode:           e.sat.mode,
		BatteryPercent: e.sat.socPct,
		Accepted:       e.sat.accepted,
		Rejected:       e.sat.rejected,
		QueuedEvents:   len(e.queue),
		Cycle:          e.cycle,
	}
}

// Apply decodes a raw command and executes it. Decoding failures are
// rejected like any other invalid command.
func (e *Engine) Apply(name string, params map[string]any) Outcome {
	cmd, err := command.Decode(name, params)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, command.ErrUnknownCommand) {
			msg = "Unknown command: " + name
		}
		e.mu.Lock()
		e.sat.rejected++
		e.enqueueEventLocked(msg)
		e.mu.Unlock()

		e.log.Debug("command rejected", logging.String("command", name), logging.Err(err))
		e.cfg.Recorder.CommandProcessed(metricName(name), false)
		return Outcome{Command: name, Message: msg}
	}
	return e.Execute(cmd)
}

// metricName maps a client-supplied name onto the fixed command set so
// recorders never see arbitrary label values.
func metricName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	for _, known := range command.Names() {
		if n == known {
			return n
		}
	}
	return "UNKNOWN"
}

// Execute applies a decoded command. Exactly one event is queued whatever
// the outcome.
func (e *Engine) Execute(cmd command.Command) Outcome {
	e.mu.Lock()
	v := e.sat.dispatch(cmd, e.cfg.Clock.Now())
	if v.accepted {
		e.sat.accepted++
	} else {
		e.sat.rejected++
	}
	e.enqueueEventLocked(v.message)
	e.mu.Unlock()

	if v.accepted {
		e.log.Info("command accepted", logging.String("command", cmd.Name()), logging.String("message", v.message))
	} else {
		e.log.Debug("command rejected", logging.String("command", cmd.Name()), logging.String("message", v.message))
	}
	e.cfg.Recorder.CommandProcessed(cmd.Name(), v.accepted)
	return Outcome{Command: cmd.Name(), Accepted: v.accepted, Message: v.message}
}

// header stamps a record of kind k. Must be called with mu held.
func (e *Engine) header(k model.Kind, now time.Time) model.Header {
	e.seq[k]++
	return model.Header{Timestamp: now, Sequence: e.seq[k]}
}

func (e *Engine) enqueueEventLocked(msg string) {
	e.queue = append(e.queue, model.Event{
		Header:  e.header(model.KindEvent, e.cfg.Clock.Now()),
		Message: msg,
	})
}

// DrainEvents removes and returns everything queued so far.
func (e *Engine) DrainEvents() []model.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drainLocked()
}

func (e *Engine) drainLocked() []model.Record {
	out := e.queue
	e.queue = nil
	return out
}

// Tick produces one record of kind k immediately, outside the schedule.
// Queue-only kinds return nil.
func (e *Engine) Tick(k model.Kind) model.Record {
	e.mu.Lock()
	rec := e.tickLocked(k, e.cfg.Clock.Now())
	e.mu.Unlock()

	if rec != nil {
		e.cfg.Recorder.TickCompleted(k)
	}
	return rec
}

func (e *Engine) tickLocked(k model.Kind, now time.Time) model.Record {
	s := e.sat
	switch k {
	case model.KindHealthStatus:
		return s.tickHealth(e.header(k, now))
	case model.KindThermal:
		return s.tickThermal(e.header(k, now))
	case model.KindMech:
		rec, demoted := s.tickMech(e.header(k, now))
		if demoted {
			e.log.Warn("low battery, mode forced to SAFE", logging.Float("battery", rec.BatteryPercent))
		}
		return rec
	case model.KindComms:
		return s.tickComms(e.header(k, now), now, e.cycle)
	case model.KindImager:
		rec, done := s.tickImager(e.header(k, now), now)
		if done {
			e.queue = append(e.queue, model.Image{
				Header:      e.header(model.KindImage, now),
				CollectType: s.imager.collectType,
				DurationSec: s.imager.durationSec,
				Data:        ImagePayload(),
			})
		}
		return rec
	case model.KindADCS:
		rec, err := s.tickADCS(e.header(k, now), e.cycle)
		if err != nil {
			e.log.Error("replay read failed", logging.Err(err))
		}
		return rec
	}
	return nil
}

// Step runs one base cycle: drain the queue, run every due kind, advance the
// cycle counter. The batch is handed to the callback when non-empty.
// Useful for deterministic testing. Does not require Start().
func (e *Engine) Step() Batch {
	e.mu.Lock()
	now := e.cfg.Clock.Now()
	records := e.drainLocked()

	var ran []model.Kind
	for _, k := range model.PeriodicKinds {
		if e.cycle%e.cfg.Periods[k] != 0 {
			continue
		}
		records = append(records, e.tickLocked(k, now))
		ran = append(ran, k)
	}
	batch := Batch{Cycle: e.cycle, Time: now, Records: records}
	e.cycle++

	battery, mode, queued := e.sat.socPct, e.sat.mode, len(e.queue)
	e.mu.Unlock()

	for _, k := range ran {
		e.cfg.Recorder.TickCompleted(k)
	}
	e.cfg.Recorder.StateSampled(battery, mode, queued)

	if len(batch.Records) > 0 && e.callback != nil {
		e.callback.OnBatch(batch)
	}
	return batch
}

// Start begins the simulation loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	stop, done := e.stopCh, e.doneCh
	e.mu.Unlock()

	e.log.Info("simulation started", logging.Any("interval", e.cfg.Interval))
	e.broadcastState()
	go e.loop(stop, done)
}

// Pause stops the simulation loop. State is kept; Start resumes.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	e.mu.Unlock()

	e.log.Info("simulation paused")
	e.broadcastState()
}

// Stop pauses the loop and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	done := e.doneCh
	e.mu.Unlock()

	e.Pause()
	if done != nil {
		<-done
	}
}

func (e *Engine) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

func (e *Engine) broadcastState() {
	if e.callback == nil {
		return
	}
	e.callback.OnState(e.State())
}
