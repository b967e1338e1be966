// Package flightlog persists flights and their per-cycle records in a
// sqlite database so past runs can be listed, analyzed and exported.
package flightlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tonytyler99/uavtrack/internal/track"
)

const schema = `
	CREATE TABLE IF NOT EXISTS flights (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		source      TEXT NOT NULL,
		config      TEXT,
		cycles      INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		metrics     TEXT
	);

	CREATE TABLE IF NOT EXISTS cycles (
		flight_id TEXT NOT NULL,
		seq       INTEGER NOT NULL,
		t_ms      INTEGER NOT NULL,
		mode      TEXT NOT NULL,
		x         INTEGER NOT NULL,
		y         INTEGER NOT NULL,
		area      INTEGER NOT NULL,
		err_x     INTEGER NOT NULL,
		lateral   INTEGER NOT NULL,
		fb        INTEGER NOT NULL,
		vertical  INTEGER NOT NULL,
		yaw       INTEGER NOT NULL,
		PRIMARY KEY (flight_id, seq),
		FOREIGN KEY (flight_id) REFERENCES flights(id)
	);
`

// Flight is one stored run and its summary. Config carries the yaml
// snapshot the run flew with.
type Flight struct {
	ID        string             `json:"id"`
	StartedAt time.Time          `json:"started_at"`
	Source    string             `json:"source"`
	Config    string             `json:"config,omitempty"`
	Cycles    int                `json:"cycles"`
	Duration  time.Duration      `json:"duration"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Store provides flight persistence on a single sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveFlight stores a flight and its cycle records in one transaction and
// returns the flight id, generating one when the flight has none.
func (s *Store) SaveFlight(f Flight, records []track.Record) (string, error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.StartedAt.IsZero() {
		f.StartedAt = time.Now()
	}
	f.Cycles = len(records)

	metricsJSON, err := json.Marshal(f.Metrics)
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO flights (id, started_at, source, config, cycles, duration_ms, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.StartedAt.UTC().Format(time.RFC3339Nano), f.Source, f.Config,
		f.Cycles, f.Duration.Milliseconds(), string(metricsJSON),
	); err != nil {
		return "", fmt.Errorf("insert flight: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cycles (flight_id, seq, t_ms, mode, x, y, area, err_x, lateral, fb, vertical, yaw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare cycles: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(
			f.ID, rec.Seq, rec.T.Milliseconds(), rec.Mode.String(),
			rec.Target.X, rec.Target.Y, rec.Target.Area, rec.ErrX,
			rec.Command.Lateral, rec.Command.ForwardBack, rec.Command.Vertical, rec.Command.Yaw,
		); err != nil {
			return "", fmt.Errorf("insert cycle %d: %w", rec.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return f.ID, nil
}

// ListFlights returns all stored flights, newest first.
func (s *Store) ListFlights() ([]Flight, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, source, config, cycles, duration_ms, metrics
		FROM flights
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// LoadFlight returns the flight whose id starts with the given prefix. The
// prefix must match exactly one flight.
func (s *Store) LoadFlight(idPrefix string) (*Flight, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, source, config, cycles, duration_ms, metrics
		FROM flights
		WHERE id LIKE ?
		ORDER BY started_at DESC`, idPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(flights) {
	case 0:
		return nil, fmt.Errorf("flight %s not found", idPrefix)
	case 1:
		return &flights[0], nil
	}
	return nil, fmt.Errorf("flight id %s is ambiguous (%d matches)", idPrefix, len(flights))
}

// LoadCycles returns a flight's records in sequence order. flightID must be
// a full id, typically resolved through LoadFlight first.
func (s *Store) LoadCycles(flightID string) ([]track.Record, error) {
	rows, err := s.db.Query(`
		SELECT seq, t_ms, mode, x, y, area, err_x, lateral, fb, vertical, yaw
		FROM cycles
		WHERE flight_id = ?
		ORDER BY seq`, flightID)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var records []track.Record
	for rows.Next() {
		var (
			rec     track.Record
			tMs     int64
			modeStr string
		)
		if err := rows.Scan(
			&rec.Seq, &tMs, &modeStr,
			&rec.Target.X, &rec.Target.Y, &rec.Target.Area, &rec.ErrX,
			&rec.Command.Lateral, &rec.Command.ForwardBack, &rec.Command.Vertical, &rec.Command.Yaw,
		); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		rec.T = time.Duration(tMs) * time.Millisecond
		mode, err := track.ParseMode(modeStr)
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", rec.Seq, err)
		}
		rec.Mode = mode
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanFlight(rows *sql.Rows) (Flight, error) {
	var (
		f          Flight
		startedAt  string
		durationMs int64
		metricsStr sql.NullString
		configStr  sql.NullString
	)
	if err := rows.Scan(&f.ID, &startedAt, &f.Source, &configStr, &f.Cycles, &durationMs, &metricsStr); err != nil {
		return Flight{}, fmt.Errorf("scan flight: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Flight{}, fmt.Errorf("flight %s: bad timestamp: %w", f.ID, err)
	}
	f.StartedAt = t
	f.Duration = time.Duration(durationMs) * time.Millisecond
	if configStr.Valid {
		f.Config = configStr.String
	}
	if metricsStr.Valid && metricsStr.String != "" && metricsStr.String != "null" {
		if err := json.Unmarshal([]byte(metricsStr.String), &f.Metrics); err != nil {
			return Flight{}, fmt.Errorf("flight %s: bad metrics: %w", f.ID, err)
		}
	}
	return f, nil
}
