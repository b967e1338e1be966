package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonytyler99/uavtrack/internal/flightlog"
	"github.com/tonytyler99/uavtrack/internal/track"
)

func sampleFlight() flightlog.Flight {
	return flightlog.Flight{
		ID:        "9f2c41aa-0000-0000-0000-000000000000",
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:    "sim:walk",
		Duration:  10 * time.Second,
		Metrics: map[string]float64{
			"centering_error": 8.4,
			"control_effort":  31.2,
		},
	}
}

func sampleRecords(n int) []track.Record {
	records := make([]track.Record, n)
	for i := range records {
		records[i] = track.Record{
			Seq: i,
			T:   time.Duration(i) * 40 * time.Millisecond,
			Cycle: track.Cycle{
				Target:  track.Target{X: 180 + i%20, Y: 120, Area: 4000},
				Mode:    track.ModeTracking,
				ErrX:    i % 20,
				Command: track.Command{ForwardBack: 25, Yaw: i % 40},
			},
		}
		if i%10 == 9 {
			records[i].Mode = track.ModeSearching
			records[i].Target = track.NoTarget()
			records[i].Command = track.Command{Yaw: 20}
		}
	}
	return records
}

func TestWriteFlightReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFlightReport(&buf, sampleFlight(), sampleRecords(50))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Centering error")
	assert.Contains(t, out, "err_x")
	assert.Contains(t, out, "forward/back")
	assert.Contains(t, out, "Search mode")
	assert.Contains(t, out, "searching")
	assert.Contains(t, out, "Flight metrics")
	assert.Contains(t, out, "centering_error")
	assert.Contains(t, out, "source=sim:walk")
	assert.Contains(t, out, "stride=1")
}

func TestWriteFlightReportOmitsMetricsWhenAbsent(t *testing.T) {
	f := sampleFlight()
	f.Metrics = nil

	var buf bytes.Buffer
	require.NoError(t, WriteFlightReport(&buf, f, sampleRecords(20)))
	assert.NotContains(t, buf.String(), "Flight metrics")
}

func TestWriteFlightReportDownsamplesLongFlights(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFlightReport(&buf, sampleFlight(), sampleRecords(10000)))
	assert.Contains(t, buf.String(), "stride=3")
}

func TestWriteFlightReportRejectsEmptyFlight(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFlightReport(&buf, sampleFlight(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cycle records")
	assert.Zero(t, buf.Len())
}
