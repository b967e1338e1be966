package flightlog

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/tonytyler99/uavtrack/internal/track"
)

// ExportCSV writes one row per cycle. The writer form serves both files
// and stdout.
func ExportCSV(w io.Writer, records []track.Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"seq", "t_ms", "mode", "x", "y", "area", "err_x", "lateral", "fb", "vertical", "yaw"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Seq),
			strconv.FormatInt(rec.T.Milliseconds(), 10),
			rec.Mode.String(),
			strconv.Itoa(rec.Target.X),
			strconv.Itoa(rec.Target.Y),
			strconv.Itoa(rec.Target.Area),
			strconv.Itoa(rec.ErrX),
			strconv.Itoa(rec.Command.Lateral),
			strconv.Itoa(rec.Command.ForwardBack),
			strconv.Itoa(rec.Command.Vertical),
			strconv.Itoa(rec.Command.Yaw),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type exportCycle struct {
	Seq      int    `json:"seq"`
	TMs      int64  `json:"t_ms"`
	Mode     string `json:"mode"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Area     int    `json:"area"`
	ErrX     int    `json:"err_x"`
	Lateral  int    `json:"lateral"`
	FB       int    `json:"fb"`
	Vertical int    `json:"vertical"`
	Yaw      int    `json:"yaw"`
}

type exportData struct {
	Flight Flight        `json:"flight"`
	Cycles []exportCycle `json:"cycles"`
}

// ExportJSON writes the flight summary and its cycles as indented JSON.
func ExportJSON(w io.Writer, f Flight, records []track.Record) error {
	data := exportData{
		Flight: f,
		Cycles: make([]exportCycle, len(records)),
	}
	for i, rec := range records {
		data.Cycles[i] = exportCycle{
			Seq:      rec.Seq,
			TMs:      rec.T.Milliseconds(),
			Mode:     rec.Mode.String(),
			X:        rec.Target.X,
			Y:        rec.Target.Y,
			Area:     rec.Target.Area,
			ErrX:     rec.ErrX,
			Lateral:  rec.Command.Lateral,
			FB:       rec.Command.ForwardBack,
			Vertical: rec.Command.Vertical,
			Yaw:      rec.Command.Yaw,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
