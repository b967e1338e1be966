package metrics

import (
	"math"

	"github.com/tonytyler99/uavtrack/internal/track"
)

// CenteringError is the mean absolute horizontal error across tracking
// cycles. Searching cycles have no target and are not counted.
type CenteringError struct {
	name    string
	sum     float64
	samples int
}

func NewCenteringError() *CenteringError {
	return &CenteringError{
		name: "centering_error",
	}
}

func (c *CenteringError) Name() string {
	return c.name
}

func (c *CenteringError) Observe(rec track.Record) {
	if rec.Mode != track.ModeTracking {
		return
	}
	c.sum += math.Abs(float64(rec.ErrX))
	c.samples++
}

func (c *CenteringError) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *CenteringError) Reset() {
	c.sum = 0
	c.samples = 0
}
