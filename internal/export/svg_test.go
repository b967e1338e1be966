package export

import (
	"strings"
	"testing"
	"time"

	"github.com/tonytyler99/uavtrack/internal/sim"
	"github.com/tonytyler99/uavtrack/internal/track"
)

func testResult() *sim.Result {
	res := &sim.Result{Scenario: "stand"}
	for i := 0; i < 5; i++ {
		res.Records = append(res.Records, track.Record{
			Seq: i,
			T:   time.Duration(i) * 40 * time.Millisecond,
		})
		res.Path = append(res.Path, sim.Pose{
			X: float64(i) * 10, Y: float64(i) * 5, Height: 110,
		})
	}
	return res
}

func TestGroundTrackSVG(t *testing.T) {
	svg := GroundTrackSVG(testResult(), sim.Stand(), 400, 300)

	if !strings.HasPrefix(svg, "<?xml") {
		t.Error("missing xml declaration")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("missing closing tag")
	}
	if !strings.Contains(svg, `width="400" height="300"`) {
		t.Error("viewport dimensions not applied")
	}
	// one actor path, one vehicle path
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("actor path should be dashed")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected start and end markers, got %d circles", got)
	}
}

func TestGroundTrackSVGDegenerate(t *testing.T) {
	if GroundTrackSVG(nil, sim.Stand(), 400, 300) != "" {
		t.Error("nil result should render nothing")
	}
	if GroundTrackSVG(&sim.Result{}, sim.Stand(), 400, 300) != "" {
		t.Error("empty path should render nothing")
	}

	// a hovering, yaw-only flight collapses the vehicle track to a point
	res := testResult()
	for i := range res.Path {
		res.Path[i] = sim.Pose{X: 0, Y: 0, Height: 110}
	}
	svg := GroundTrackSVG(res, sim.Stand(), 400, 300)
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("degenerate track should still render the scene")
	}
}
