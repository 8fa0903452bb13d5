package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"rocket/config"
	"rocket/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	material      TEXT,
	max_temp      REAL,
	max_temp_json TEXT,
	critical_json TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS temperature_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	time         REAL NOT NULL,
	max_temp     REAL NOT NULL,
	mean_temp    REAL NOT NULL,
	altitude     REAL NOT NULL,
	velocity     REAL NOT NULL,
	mach         REAL NOT NULL,
	heat_flux    REAL NOT NULL,
	points_json  TEXT,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS comparison_results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	rank         INTEGER NOT NULL,
	result_json  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

const (
	KindRun        = "run"
	KindComparison = "comparison"
)

// Store keeps simulation runs in SQLite.
type Store struct {
	db *sql.DB
}

// Run is one stored simulation.
type Run struct {
	ID         string
	Kind       string
	Material   string
	MaxTemp    float64
	MaxTempCtx model.MaxTempContext
	Critical   model.CriticalTimePoints
	CreatedAt  time.Time
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Open creates the output directory and opens the configured database in it.
func Open(out config.Output) (*Store, error) {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", out.Dir, err)
	}
	return NewStore(out.DBPath())
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a single-material run with its whole history and returns the run id.
func (s *Store) SaveRun(material string, history []model.TemperatureRecord, ctx model.MaxTempContext, crit model.CriticalTimePoints) (string, error) {
	id := uuid.New().String()
	ctxJSON, err := json.Marshal(ctx)
	if err != nil {
		return "", fmt.Errorf("marshal max context: %w", err)
	}
	critJSON, err := json.Marshal(crit)
	if err != nil {
		return "", fmt.Errorf("marshal critical points: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, kind, material, max_temp, max_temp_json, critical_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, KindRun, material, ctx.Temperature, string(ctxJSON), string(critJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO temperature_records (run_id, time, max_temp, mean_temp, altitude, velocity, mach, heat_flux, points_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare record: %w", err)
	}
	defer stmt.Close()
	for _, rec := range history {
		pts, err := json.Marshal(rec.Points)
		if err != nil {
			return "", fmt.Errorf("marshal points: %w", err)
		}
		_, err = stmt.Exec(id, rec.Time, rec.MaxTemp, rec.MeanTemp,
			rec.Flight.Altitude, rec.Flight.Velocity, rec.Mach, rec.HeatFlux, string(pts))
		if err != nil {
			return "", fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// SaveComparison stores ranked comparison results and returns the run id.
func (s *Store) SaveComparison(results []model.ComparisonResult) (string, error) {
	id := uuid.New().String()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, kind, created_at) VALUES (?, ?, ?)`,
		id, KindComparison, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	for rank, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshal result: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO comparison_results (run_id, rank, result_json) VALUES (?, ?, ?)`,
			id, rank, string(data),
		)
		if err != nil {
			return "", fmt.Errorf("insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetRun loads a stored run without its history.
func (s *Store) GetRun(id string) (Run, error) {
	var (
		run               Run
		material, ctxJSON sql.NullString
		critJSON          sql.NullString
		maxTemp           sql.NullFloat64
		createdAt         string
	)
	err := s.db.QueryRow(
		`SELECT run_id, kind, material, max_temp, max_temp_json, critical_json, created_at
		 FROM runs WHERE run_id = ?`, id,
	).Scan(&run.ID, &run.Kind, &material, &maxTemp, &ctxJSON, &critJSON, &createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	run.Material = material.String
	run.MaxTemp = maxTemp.Float64
	if ctxJSON.Valid {
		if err := json.Unmarshal([]byte(ctxJSON.String), &run.MaxTempCtx); err != nil {
			return Run{}, fmt.Errorf("unmarshal max context: %w", err)
		}
	}
	if critJSON.Valid {
		if err := json.Unmarshal([]byte(critJSON.String), &run.Critical); err != nil {
			return Run{}, fmt.Errorf("unmarshal critical points: %w", err)
		}
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	return run, nil
}

// History returns the stored temperature records of a run in time order.
func (s *Store) History(id string) ([]model.TemperatureRecord, error) {
	rows, err := s.db.Query(
		`SELECT time, max_temp, mean_temp, altitude, velocity, mach, heat_flux, points_json
		 FROM temperature_records WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []model.TemperatureRecord
	for rows.Next() {
		var (
			rec model.TemperatureRecord
			pts sql.NullString
		)
		if err := rows.Scan(&rec.Time, &rec.MaxTemp, &rec.MeanTemp, &rec.Flight.Altitude,
			&rec.Flight.Velocity, &rec.Mach, &rec.HeatFlux, &pts); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Flight.Time = rec.Time
		if pts.Valid {
			if err := json.Unmarshal([]byte(pts.String), &rec.Points); err != nil {
				return nil, fmt.Errorf("unmarshal points: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListComparison returns the results of a comparison run in rank order.
func (s *Store) ListComparison(id string) ([]model.ComparisonResult, error) {
	rows, err := s.db.Query(
		`SELECT result_json FROM comparison_results WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("query comparison: %w", err)
	}
	defer rows.Close()

	var out []model.ComparisonResult
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r model.ComparisonResult
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Runs lists stored run ids of the given kind, newest first.
func (s *Store) Runs(kind string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT run_id FROM runs WHERE kind = ? ORDER BY created_at DESC, rowid DESC`, kind)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
