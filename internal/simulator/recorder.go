package simulator

import "satellite_simulator/internal/model"

// Recorder observes engine activity. Implementations must be safe for
// concurrent use; the engine calls them without holding its lock.
type Recorder interface {
	CommandProcessed(name string, accepted bool)
	TickCompleted(kind model.Kind)
	StateSampled(batteryPercent float64, mode model.Mode, queued int)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) CommandProcessed(string, bool)         {}
func (NopRecorder) TickCompleted(model.Kind)              {}
func (NopRecorder) StateSampled(float64, model.Mode, int) {}
