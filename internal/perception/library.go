// Package perception provides the detection-side boundary of the tracker:
// the reference library of identities it may follow and replayable frame
// sources. Actual face detection and recognition happen outside this module;
// everything here works on the per-frame detections a recognizer reports.
package perception

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/tonytyler99/uavtrack/internal/monitoring"
)

// ErrNoReferences indicates that no usable reference image remains after
// loading the library.
var ErrNoReferences = errors.New("perception: no usable reference images")

// Library is the set of identities the tracker may follow, backed by
// reference images on disk.
type Library struct {
	names []string
	paths map[string]string
}

// LoadLibrary checks each identity's reference image and keeps the usable
// ones. Missing or empty files are skipped with a warning so a single bad
// path does not ground the flight; an empty result is an error, because a
// tracker with nothing to recognize can only search forever.
func LoadLibrary(refs map[string]string) (*Library, error) {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	lib := &Library{paths: make(map[string]string, len(refs))}
	for _, name := range names {
		path := refs[name]
		info, err := os.Stat(path)
		if err != nil {
			monitoring.Logf("[WARN] reference image for %q not found: %s", name, path)
			continue
		}
		if info.IsDir() || info.Size() == 0 {
			monitoring.Logf("[WARN] reference image for %q unusable: %s", name, path)
			continue
		}
		lib.names = append(lib.names, name)
		lib.paths[name] = path
	}
	if len(lib.names) == 0 {
		return nil, fmt.Errorf("%w (checked %d)", ErrNoReferences, len(refs))
	}
	return lib, nil
}

// Names returns the recognized identity labels in sorted order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Path returns the reference image path registered for an identity.
func (l *Library) Path(name string) (string, bool) {
	p, ok := l.paths[name]
	return p, ok
}
