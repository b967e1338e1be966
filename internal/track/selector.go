package track

import "math"

// Selector picks the tracking target among the detections of one frame.
type Selector struct {
	recognized map[string]struct{}
	frameW     int
	frameH     int
}

// NewSelector builds a selector that accepts only the given identity labels.
func NewSelector(names []string, frameW, frameH int) *Selector {
	rec := make(map[string]struct{}, len(names))
	for _, n := range names {
		rec[n] = struct{}{}
	}
	return &Selector{recognized: rec, frameW: frameW, frameH: frameH}
}

// Select returns the best recognized detection: lowest recognition distance
// wins, ties keep the earliest. Unrecognized identities and malformed
// detections are skipped rather than surfaced; with no candidate left the
// no-target sentinel is returned. Malformed means a non-positive area, an
// area larger than the frame, a center outside the frame, or a center at the
// origin (indistinguishable from the sentinel).
func (s *Selector) Select(dets []Detection) Target {
	best := NoTarget()
	bestDist := math.Inf(1)
	for _, d := range dets {
		if _, ok := s.recognized[d.Identity]; !ok {
			continue
		}
		if d.Area <= 0 || d.Area > s.frameW*s.frameH {
			continue
		}
		if d.X < 0 || d.X >= s.frameW || d.Y < 0 || d.Y >= s.frameH {
			continue
		}
		if d.X == 0 && d.Y == 0 {
			continue
		}
		if d.Distance < bestDist {
			best = Target{X: d.X, Y: d.Y, Area: d.Area}
			bestDist = d.Distance
		}
	}
	return best
}
