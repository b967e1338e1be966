// Package export renders the geometry of a scenario run to standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/tonytyler99/uavtrack/internal/sim"
)

var actorColors = []string{"#ffaa00", "#ff5555", "#55aaff"}

// GroundTrackSVG draws the vehicle's ground track and the actor paths of a
// run, scaled into a width x height viewport. World +y points up.
func GroundTrackSVG(res *sim.Result, sc sim.Scenario, width, height int) string {
	if res == nil || len(res.Path) == 0 {
		return ""
	}

	type pt struct{ x, y float64 }

	veh := make([]pt, len(res.Path))
	for i, p := range res.Path {
		veh[i] = pt{p.X, p.Y}
	}

	// sample each actor at the recorded cycle times; vanish spans are part
	// of the path even though nothing was detected there
	actors := make([][]pt, 0, len(sc.Actors))
	for _, a := range sc.Actors {
		if a.Path == nil {
			continue
		}
		pts := make([]pt, 0, len(res.Records))
		for _, rec := range res.Records {
			x, y := a.Path(rec.T.Seconds())
			pts = append(pts, pt{x, y})
		}
		actors = append(actors, pts)
	}

	minX, maxX := veh[0].x, veh[0].x
	minY, maxY := veh[0].y, veh[0].y
	grow := func(pts []pt) {
		for _, p := range pts {
			if p.x < minX {
				minX = p.x
			}
			if p.x > maxX {
				maxX = p.x
			}
			if p.y < minY {
				minY = p.y
			}
			if p.y > maxY {
				maxY = p.y
			}
		}
	}
	grow(veh)
	for _, pts := range actors {
		grow(pts)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	sx := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	sy := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath := func(pts []pt, stroke, extra string) {
		if len(pts) < 2 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, stroke, extra))
		for i, p := range pts {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", sx(p.x), sy(p.y)))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", sx(p.x), sy(p.y)))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for i, pts := range actors {
		color := actorColors[i%len(actorColors)]
		writePath(pts, color, ` stroke-dasharray="4 3"`)
	}
	writePath(veh, "#00ff88", "")

	// start and end of the vehicle track
	first, last := veh[0], veh[len(veh)-1]
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#00ff88"/>
`, sx(first.x), sy(first.y)))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="none" stroke="#00ff88" stroke-width="1.5"/>
`, sx(last.x), sy(last.y)))

	sb.WriteString("</svg>")
	return sb.String()
}
