package vehicle

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestSimFlightSequence(t *testing.T) {
	s := NewSim(DefaultSimConfig())

	if s.Flying() {
		t.Fatal("should start landed")
	}
	if err := s.MoveUp(30); !errors.Is(err, ErrNotFlying) {
		t.Errorf("expected ErrNotFlying, got %v", err)
	}

	if err := s.TakeOff(); err != nil {
		t.Fatalf("TakeOff: %v", err)
	}
	if err := s.TakeOff(); !errors.Is(err, ErrAlreadyFlying) {
		t.Errorf("expected ErrAlreadyFlying, got %v", err)
	}
	if err := s.MoveUp(30); err != nil {
		t.Fatalf("MoveUp: %v", err)
	}

	_, _, _, height := s.Pose()
	if height != 110 {
		t.Errorf("expected height 110, got %f", height)
	}

	if err := s.Land(); err != nil {
		t.Fatalf("Land: %v", err)
	}
	if _, _, _, h := s.Pose(); h != 0 {
		t.Errorf("expected grounded, got height %f", h)
	}
}

func TestSimSendRCValidation(t *testing.T) {
	s := NewSim(DefaultSimConfig())
	if err := s.TakeOff(); err != nil {
		t.Fatal(err)
	}

	if err := s.SendRC(0, 0, 0, 135); !errors.Is(err, ErrBadCommand) {
		t.Errorf("expected ErrBadCommand for yaw 135, got %v", err)
	}
	if err := s.SendRC(0, -101, 0, 0); !errors.Is(err, ErrBadCommand) {
		t.Errorf("expected ErrBadCommand for fb -101, got %v", err)
	}
	if err := s.SendRC(0, 25, 0, -40); err != nil {
		t.Errorf("valid command rejected: %v", err)
	}

	lat, fb, vert, yaw := s.LastCommand()
	if lat != 0 || fb != 25 || vert != 0 || yaw != -40 {
		t.Errorf("held command = %d %d %d %d", lat, fb, vert, yaw)
	}
}

func TestSimGroundedAcceptsOnlyHold(t *testing.T) {
	s := NewSim(DefaultSimConfig())

	if err := s.SendRC(0, 0, 0, 0); err != nil {
		t.Errorf("hold command on the ground should be accepted: %v", err)
	}
	if err := s.SendRC(0, 25, 0, 0); !errors.Is(err, ErrNotFlying) {
		t.Errorf("expected ErrNotFlying, got %v", err)
	}
}

func TestSimTickIntegratesYaw(t *testing.T) {
	s := NewSim(DefaultSimConfig())
	if err := s.TakeOff(); err != nil {
		t.Fatal(err)
	}
	if err := s.SendRC(0, 0, 0, 90); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 25; i++ {
		s.Tick(40 * time.Millisecond)
	}

	_, _, heading, _ := s.Pose()
	if math.Abs(heading-90) > 1e-9 {
		t.Errorf("expected heading 90 after 1s at 90 deg/s, got %f", heading)
	}
}

func TestSimTickMovesForward(t *testing.T) {
	s := NewSim(DefaultSimConfig())
	if err := s.TakeOff(); err != nil {
		t.Fatal(err)
	}
	if err := s.SendRC(0, 50, 0, 0); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		s.Tick(40 * time.Millisecond)
	}

	x, y, _, _ := s.Pose()
	if y < 100 {
		t.Errorf("expected forward travel along +y, got y=%f", y)
	}
	if math.Abs(x) > 1e-6 {
		t.Errorf("no lateral command, but x=%f", x)
	}
}

func TestSimBatteryDrains(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Battery = 60
	cfg.DrainPerMin = 6
	s := NewSim(cfg)
	if err := s.TakeOff(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		s.Tick(600 * time.Millisecond) // one minute of flight
	}

	pct, err := s.Battery()
	if err != nil {
		t.Fatal(err)
	}
	if pct < 53 || pct > 54 {
		t.Errorf("expected ~54%% after a minute at 6%%/min, got %d%%", pct)
	}
}

func TestPreflight(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Battery = 40
	low := NewSim(cfg)

	err := Preflight(low, 50)
	if !errors.Is(err, ErrLowBattery) {
		t.Fatalf("expected ErrLowBattery, got %v", err)
	}
	if !strings.Contains(err.Error(), "40%") || !strings.Contains(err.Error(), "50%") {
		t.Errorf("diagnostic should carry both levels: %v", err)
	}

	if err := Preflight(NewSim(DefaultSimConfig()), 50); err != nil {
		t.Errorf("healthy battery refused: %v", err)
	}
}

func TestTraceNarratesCalls(t *testing.T) {
	var buf bytes.Buffer
	tr := &Trace{Inner: NewSim(DefaultSimConfig()), W: &buf}

	if err := tr.TakeOff(); err != nil {
		t.Fatal(err)
	}
	if err := tr.MoveUp(30); err != nil {
		t.Fatal(err)
	}
	if err := tr.SendRC(0, 25, 0, -40); err != nil {
		t.Fatal(err)
	}
	if err := tr.Land(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"takeoff\n", "up 30\n", "rc 0 25 0 -40\n", "land\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q in:\n%s", want, out)
		}
	}
}
