// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"satellite_simulator/internal/model"
	"satellite_simulator/internal/simulator"
)

var modes = []model.Mode{model.ModeSafe, model.ModeCheckout, model.ModeOperate}

// Collector implements simulator.Recorder.
type Collector struct {
	gatherer prometheus.Gatherer

	Commands       *prometheus.CounterVec
	Ticks          *prometheus.CounterVec
	BatteryPercent prometheus.Gauge
	Mode           *prometheus.GaugeVec
	QueueDepth     prometheus.Gauge
}

var _ simulator.Recorder = (*Collector)(nil)

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	commands, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satsim_commands_total",
		Help: "Commands processed, labeled by command name and result.",
	}, []string{"command", "result"}), "satsim_commands_total")
	if err != nil {
		return nil, err
	}
	ticks, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satsim_ticks_total",
		Help: "Telemetry records produced, labeled by kind.",
	}, []string{"kind"}), "satsim_ticks_total")
	if err != nil {
		return nil, err
	}
	battery, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_battery_percent",
		Help: "Battery state of charge in percent.",
	}), "satsim_battery_percent")
	if err != nil {
		return nil, err
	}
	mode, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "satsim_mode",
		Help: "1 for the current spacecraft mode, 0 otherwise.",
	}, []string{"mode"}), "satsim_mode")
	if err != nil {
		return nil, err
	}
	queue, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_queue_depth",
		Help: "Events and images waiting for the next cycle.",
	}), "satsim_queue_depth")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Commands:       commands,
		Ticks:          ticks,
		BatteryPercent: battery,
		Mode:           mode,
		QueueDepth:     queue,
	}, nil
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) CommandProcessed(name string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	c.Commands.WithLabelValues(name, result).Inc()
}

func (c *Collector) TickCompleted(k model.Kind) {
	c.Ticks.WithLabelValues(string(k)).Inc()
}

func (c *Collector) StateSampled(batteryPercent float64, mode model.Mode, queued int) {
	c.BatteryPercent.Set(batteryPercent)
	for _, m := range modes {
		v := 0.0
		if m == mode {
			v = 1
		}
		c.Mode.WithLabelValues(string(m)).Set(v)
	}
	c.QueueDepth.Set(float64(queued))
}

// register returns the already registered collector of the same type when
// one exists under name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
