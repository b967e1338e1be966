package vehicle

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// SimConfig tunes the simulated vehicle.
type SimConfig struct {
	Battery       int     // starting percent
	DrainPerMin   float64 // percent drained per flying minute
	ResponseTime  float64 // seconds for velocity to reach ~63% of command
	TakeoffHeight float64 // cm gained by the takeoff hop
}

// DefaultSimConfig matches a small camera quadcopter: a fresh-ish battery,
// sluggish velocity response and an 80cm takeoff hop.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Battery:       87,
		DrainPerMin:   1.5,
		ResponseTime:  0.3,
		TakeoffHeight: 80,
	}
}

// Sim is a kinematic stand-in for the quadcopter. It validates and holds RC
// commands the way the real link does and integrates them into pose when
// ticked: heading follows the yaw rate directly, translational velocities lag
// their commands with a first-order response. Units are cm, cm/s and degrees;
// heading grows clockwise from +y and is not wrapped.
type Sim struct {
	cfg SimConfig

	mu      sync.Mutex
	x, y    float64
	heading float64
	height  float64
	vLat    float64
	vFB     float64
	vVert   float64
	battery float64
	flying  bool
	cmd     [4]int
	sends   int
}

// NewSim creates a landed vehicle at the origin facing +y.
func NewSim(cfg SimConfig) *Sim {
	if cfg.ResponseTime <= 0 {
		cfg.ResponseTime = 0.3
	}
	return &Sim{cfg: cfg, battery: float64(cfg.Battery)}
}

// Battery returns the remaining charge in whole percent.
func (s *Sim) Battery() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.battery), nil
}

// TakeOff hops to the configured takeoff height.
func (s *Sim) TakeOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flying {
		return ErrAlreadyFlying
	}
	s.flying = true
	s.height = s.cfg.TakeoffHeight
	return nil
}

// MoveUp climbs by cm.
func (s *Sim) MoveUp(cm int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.flying {
		return ErrNotFlying
	}
	s.height += float64(cm)
	return nil
}

// Land stops all motion and settles to the ground.
func (s *Sim) Land() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flying = false
	s.height = 0
	s.vLat, s.vFB, s.vVert = 0, 0, 0
	s.cmd = [4]int{}
	return nil
}

// SendRC validates and stores one RC frame; the command stays in effect
// until replaced. On the ground only the all-zero hold command is accepted.
func (s *Sim) SendRC(lat, fb, vert, yaw int) error {
	for _, v := range [...]int{lat, fb, vert, yaw} {
		if v < -100 || v > 100 {
			return fmt.Errorf("%w: rc %d %d %d %d", ErrBadCommand, lat, fb, vert, yaw)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.flying && (lat != 0 || fb != 0 || vert != 0 || yaw != 0) {
		return ErrNotFlying
	}
	s.cmd = [4]int{lat, fb, vert, yaw}
	s.sends++
	return nil
}

// Tick advances the vehicle by dt under the currently held command.
func (s *Sim) Tick(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.flying || dt <= 0 {
		return
	}
	sec := dt.Seconds()

	s.heading += float64(s.cmd[3]) * sec

	alpha := 1 - math.Exp(-sec/s.cfg.ResponseTime)
	s.vLat += (float64(s.cmd[0]) - s.vLat) * alpha
	s.vFB += (float64(s.cmd[1]) - s.vFB) * alpha
	s.vVert += (float64(s.cmd[2]) - s.vVert) * alpha

	rad := s.heading * math.Pi / 180
	s.x += (s.vFB*math.Sin(rad) + s.vLat*math.Cos(rad)) * sec
	s.y += (s.vFB*math.Cos(rad) - s.vLat*math.Sin(rad)) * sec
	s.height += s.vVert * sec
	if s.height < 0 {
		s.height = 0
	}

	s.battery -= s.cfg.DrainPerMin * sec / 60
	if s.battery < 0 {
		s.battery = 0
	}
}

// Pose returns position (cm), heading (deg) and height (cm).
func (s *Sim) Pose() (x, y, heading, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y, s.heading, s.height
}

// LastCommand returns the RC frame currently in effect.
func (s *Sim) LastCommand() (lat, fb, vert, yaw int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd[0], s.cmd[1], s.cmd[2], s.cmd[3]
}

// Sends returns how many RC frames have been accepted.
func (s *Sim) Sends() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends
}

// Flying reports whether the vehicle is airborne.
func (s *Sim) Flying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flying
}
