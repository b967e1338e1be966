package metrics

import (
	"math"

	"github.com/tonytyler99/uavtrack/internal/track"
)

// ControlEffort is the mean summed axis magnitude per cycle.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(rec track.Record) {
	cmd := rec.Command
	for _, v := range [4]int{cmd.Lateral, cmd.ForwardBack, cmd.Vertical, cmd.Yaw} {
		c.sum += math.Abs(float64(v))
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
