package perception

import (
	"context"
	"errors"

	"github.com/tonytyler99/uavtrack/internal/track"
)

// ErrScriptOver signals that a Script has replayed every frame it holds.
var ErrScriptOver = errors.New("perception: script exhausted")

// Script replays a fixed frame sequence. It backs deterministic replays of
// recorded flights and scripted tests; each NextFrame call hands out a copy,
// so callers may keep or mutate the slice freely.
type Script struct {
	frames [][]track.Detection
	i      int
}

// NewScript builds a source over the given frames.
func NewScript(frames [][]track.Detection) *Script {
	return &Script{frames: frames}
}

// NextFrame returns the next frame, or ErrScriptOver once the script ends.
func (s *Script) NextFrame(ctx context.Context) ([]track.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.i >= len(s.frames) {
		return nil, ErrScriptOver
	}
	f := make([]track.Detection, len(s.frames[s.i]))
	copy(f, s.frames[s.i])
	s.i++
	return f, nil
}

// Remaining reports how many frames are left to play.
func (s *Script) Remaining() int {
	return len(s.frames) - s.i
}
