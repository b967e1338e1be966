package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	canvasStyle = lipgloss.NewStyle().
			Padding(1, 2)

	statsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderLeft(true).
			Padding(1, 2).
			Width(45)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	activeParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const sparkSamples = 60

func (c Cockpit) View() string {
	frame := canvasStyle.Render(c.canvas.String())
	stats := statsStyle.Render(c.statsView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, frame, stats)
	help := helpStyle.Render("space pause · tab gain · up/down tune · r restart · q quit")
	return body + "\n" + help + "\n"
}

func (c Cockpit) statsView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("cockpit · "+c.scenario.Name) + "\n\n")
	b.WriteString(row("status", c.status()))
	b.WriteString(row("time", fmt.Sprintf("%.2fs · cycle %d", c.last.T.Seconds(), c.last.Seq)))
	b.WriteString(row("mode", c.last.Mode.String()))
	b.WriteString(row("target", c.targetLabel()))
	b.WriteString(row("err x", fmt.Sprintf("%d px", c.last.ErrX)))
	b.WriteString(row("yaw", fmt.Sprintf("%4d %s", c.last.Command.Yaw, signedBar(c.last.Command.Yaw, 100, 8))))
	b.WriteString(row("fwd/back", fmt.Sprintf("%4d %s", c.last.Command.ForwardBack, signedBar(c.last.Command.ForwardBack, 100, 8))))

	bat, _ := c.veh.Battery()
	_, _, _, height := c.veh.Pose()
	b.WriteString(row("battery", batteryBar(bat, 10)))
	b.WriteString(row("height", fmt.Sprintf("%.0f cm", height)))

	if len(c.errHist) >= 2 {
		spark := c.errHist
		if len(spark) > sparkSamples {
			spark = spark[len(spark)-sparkSamples:]
		}
		plot := asciigraph.Plot(spark,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("err x (px)"))
		b.WriteString("\n" + graphStyle.Render(plot) + "\n")
	}

	b.WriteString("\n" + headerStyle.Render("gains") + "\n")
	for i, key := range c.paramKeys {
		val := c.tracker.Params()[key]
		line := fmt.Sprintf("%-3s %6.3f %s", key, val, paramBar(val, c.initialParams[key], 14))
		if i == c.selected {
			b.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(valueStyle.Render("  "+line) + "\n")
		}
	}

	vals := c.set.Values()
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("\n" + headerStyle.Render("flight metrics") + "\n")
	for _, name := range names {
		b.WriteString(valueStyle.Render(fmt.Sprintf("%-16s %8.2f", name, vals[name])) + "\n")
	}

	return b.String()
}

func (c Cockpit) status() string {
	switch {
	case c.err != nil:
		return "error: " + c.err.Error()
	case c.done:
		return "landed"
	case !c.running:
		return "paused"
	}
	return "flying"
}

// targetLabel recovers the identity of the locked target by matching it
// back against the detections of the same frame.
func (c Cockpit) targetLabel() string {
	t := c.last.Target
	if t.None() {
		return "-"
	}
	for _, d := range c.lastDets {
		if d.X == t.X && d.Y == t.Y && d.Area == t.Area {
			return d.Identity
		}
	}
	return "locked"
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// signedBar renders a value in [-limit, limit] as a bar growing left or
// right from a center pivot.
func signedBar(val, limit, half int) string {
	if limit <= 0 {
		limit = 1
	}
	fill := val * half / limit
	if fill > half {
		fill = half
	}
	if fill < -half {
		fill = -half
	}
	left := strings.Repeat("-", half)
	right := strings.Repeat("-", half)
	if fill >= 0 {
		right = strings.Repeat("=", fill) + strings.Repeat("-", half-fill)
	} else {
		left = strings.Repeat("-", half+fill) + strings.Repeat("=", -fill)
	}
	return "[" + left + "|" + right + "]"
}

func batteryBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), percent)
}

// paramBar scales a gain against twice its starting value so the bar sits
// at the midpoint before any live tuning.
func paramBar(val, initial float64, width int) string {
	if initial == 0 {
		initial = 1e-6
	}
	ratio := val / (2 * initial)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
