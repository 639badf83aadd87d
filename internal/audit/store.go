// Package audit persists completed analysis outcomes in DuckDB.
// The log is append-only and lives outside the decision path: the rule
// engine never reads it, and a write failure never changes a result.
package audit

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Entry is one recorded analysis outcome.
type Entry struct {
	RequestID       string
	PatientID       string
	Drug            string
	Gene            string
	Diplotype       string
	Phenotype       string
	RiskLabel       string
	Severity        string
	Confidence      float64
	Contraindicated bool
	AnalyzedAt      time.Time
}

// Store manages a DuckDB connection for the analysis audit log.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analysis_log (
		request_id VARCHAR,
		patient_id VARCHAR,
		drug VARCHAR,
		gene VARCHAR,
		diplotype VARCHAR,
		phenotype VARCHAR,
		risk_label VARCHAR,
		severity VARCHAR,
		confidence DOUBLE,
		contraindicated BOOLEAN,
		analyzed_at TIMESTAMP
	)`)
	return err
}

// Record batch-appends analysis outcomes using the Appender API.
func (s *Store) Record(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "analysis_log")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, e := range entries {
		if err := appender.AppendRow(
			e.RequestID, e.PatientID, e.Drug, e.Gene, e.Diplotype, e.Phenotype,
			e.RiskLabel, e.Severity, e.Confidence, e.Contraindicated, e.AnalyzedAt.UTC(),
		); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
	}

	return appender.Flush()
}

// Recent returns the newest entries, up to limit.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT
		request_id, patient_id, drug, gene, diplotype, phenotype,
		risk_label, severity, confidence, contraindicated, analyzed_at
		FROM analysis_log
		ORDER BY analyzed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByPatient returns all entries for one patient, newest first.
func (s *Store) ByPatient(patientID string) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT
		request_id, patient_id, drug, gene, diplotype, phenotype,
		risk_label, severity, confidence, contraindicated, analyzed_at
		FROM analysis_log
		WHERE patient_id = ?
		ORDER BY analyzed_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.RequestID, &e.PatientID, &e.Drug, &e.Gene, &e.Diplotype, &e.Phenotype,
			&e.RiskLabel, &e.Severity, &e.Confidence, &e.Contraindicated, &e.AnalyzedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
