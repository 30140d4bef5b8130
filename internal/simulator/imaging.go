package simulator

import (
	"bytes"
	"time"

	"satellite_simulator/internal/model"
)

const imagerPowerW = 200.0

// imagePayload is the fixed product downlinked after every collection.
var imagePayload = append(bytes.Repeat([]byte{0x05}, 10000), "The Secret is Astral Body"...)

// ImagePayload returns a copy of the image product body.
func ImagePayload() []byte {
	return bytes.Clone(imagePayload)
}

// tickImager finishes an expired collection. done is true exactly once per
// collection, on the tick that turns the imager off.
func (s *satellite) tickImager(h model.Header, now time.Time) (rec model.Imager, done bool) {
	im := &s.imager
	switch {
	case im.deadline.IsZero():
		im.powerW = 0
	case im.deadline.Before(now):
		im.state = model.Off
		im.deadline = time.Time{}
		im.powerW = 0
		done = true
	default:
		im.state = model.On
		im.powerW = imagerPowerW
	}

	return model.Imager{
		Header:       h,
		Collects:     im.collects,
		DurationSec:  im.durationSec,
		CollectType:  im.collectType,
		ImagerState:  im.state,
		ImagerPowerW: im.powerW,
	}, done
}
